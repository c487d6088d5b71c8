package sim

import "container/heap"

// scheduledEvent pairs an event with its insertion sequence number. The
// sequence is the last-resort tie-breaker so heap order is a total order.
type scheduledEvent struct {
	event Event
	seq   uint64
}

// EventHeap implements a priority queue with deterministic ordering.
// Ordering: timestamp → class priority (instance events before arrivals) →
// instance ID → insertion order.
type EventHeap struct {
	entries []scheduledEvent
	nextSeq uint64
}

// NewEventHeap creates an empty event heap.
func NewEventHeap() *EventHeap {
	h := &EventHeap{
		entries: make([]scheduledEvent, 0),
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *EventHeap) Len() int {
	return len(h.entries)
}

// Less implements heap.Interface with deterministic ordering
func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.entries[i].event, h.entries[j].event

	// Primary: timestamp (lower first)
	if ei.Timestamp() != ej.Timestamp() {
		return ei.Timestamp() < ej.Timestamp()
	}

	// Secondary: class priority (instance transitions before arrivals)
	priI := eventClassPriority[ei.Kind()]
	priJ := eventClassPriority[ej.Kind()]
	if priI != priJ {
		return priI < priJ
	}

	// Tertiary: instance ID, i.e. creation order (lower first)
	if ei.InstanceID() != ej.InstanceID() {
		return ei.InstanceID() < ej.InstanceID()
	}

	// Last resort: insertion order
	return h.entries[i].seq < h.entries[j].seq
}

// Swap implements heap.Interface
func (h *EventHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

// Push implements heap.Interface
func (h *EventHeap) Push(x interface{}) {
	h.entries = append(h.entries, x.(scheduledEvent))
}

// Pop implements heap.Interface
func (h *EventHeap) Pop() interface{} {
	old := h.entries
	n := len(old)
	item := old[n-1]
	h.entries = old[0 : n-1]
	return item
}

// Schedule adds an event to the heap.
func (h *EventHeap) Schedule(e Event) {
	h.nextSeq++
	heap.Push(h, scheduledEvent{event: e, seq: h.nextSeq})
}

// PopNext removes and returns the next event, or nil when empty.
func (h *EventHeap) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(scheduledEvent).event
}

// Peek returns the next event without removing it, or nil when empty.
func (h *EventHeap) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.entries[0].event
}
