package sim

import (
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/emirpasic/gods/utils"
)

// mruComparator orders idle candidates newest creation time first, breaking
// exact creation-time ties by creation order (lower ID first).
func mruComparator(a, b interface{}) int {
	ia := a.(*FunctionInstance)
	ib := b.(*FunctionInstance)
	switch {
	case ia.creationTime > ib.creationTime:
		return -1
	case ia.creationTime < ib.creationTime:
		return 1
	default:
		return utils.UInt64Comparator(ia.id, ib.id)
	}
}

// IdlePool holds instances waiting for reuse and hands back the most
// recently created one first. Recently created instances have the longest
// remaining time before expiration, so reusing them keeps the fleet small.
//
// Entries are invalidated lazily: an instance that expired after being
// pooled stays in the heap until a take skips past it. Len therefore counts
// entries, not live idle instances; the simulator tracks the true idle count
// itself.
type IdlePool struct {
	heap *binaryheap.Heap
}

// NewIdlePool creates an empty pool.
func NewIdlePool() *IdlePool {
	return &IdlePool{heap: binaryheap.NewWith(mruComparator)}
}

// Put adds an instance that just became idle.
func (p *IdlePool) Put(inst *FunctionInstance) {
	p.heap.Push(inst)
}

// TakeNewest removes and returns the most recently created instance that is
// still idle. Entries whose instance has since left the idle state are
// discarded along the way. Returns false when no idle instance remains.
func (p *IdlePool) TakeNewest() (*FunctionInstance, bool) {
	for {
		v, ok := p.heap.Pop()
		if !ok {
			return nil, false
		}
		inst := v.(*FunctionInstance)
		if inst.IsIdle() {
			return inst, true
		}
	}
}

// Len returns the number of pooled entries, stale ones included.
func (p *IdlePool) Len() int {
	return p.heap.Size()
}
