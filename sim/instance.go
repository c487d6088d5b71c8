// Defines the FunctionInstance state machine: the lifecycle of one function
// instance from cold creation through busy/idle cycles to expiration.

package sim

import (
	"errors"
	"fmt"

	"github.com/sicilly/simfaas/sim/process"
)

// InstanceState represents the lifecycle state of a function instance.
type InstanceState string

const (
	// StateCold: serving its very first request, paid for with a cold
	// service-time sample.
	StateCold InstanceState = "COLD"
	// StateWarm: serving a request on a reused instance.
	StateWarm InstanceState = "WARM"
	// StateIdle: request finished, instance kept alive awaiting reuse.
	StateIdle InstanceState = "IDLE"
	// StateTerminated: idle timeout elapsed; absorbing state.
	StateTerminated InstanceState = "TERM"
)

// State-transition contract violations. These signal a defect in the event
// selection logic, not a data problem; the event loop treats them as fatal.
var (
	ErrInstanceBusy       = errors.New("instance is already busy")
	ErrInstanceTerminated = errors.New("instance is terminated")
	ErrEventOverdue       = errors.New("query time is past the scheduled event")
)

// FunctionInstance owns the timing state of a single instance. COLD and WARM
// both mean "actively serving"; they differ only in which service process
// produced the pending departure. The timer invariant
//
//	nextTermination == nextDeparture + expirationThreshold
//
// holds after every update: departure and expiration move together.
//
// Instances are owned by the simulator's live set until they terminate, at
// which point they move into the archive and are never mutated again.
type FunctionInstance struct {
	id    uint64
	state InstanceState

	creationTime    float64
	nextDeparture   float64
	nextTermination float64

	expirationThreshold float64

	// Shared, read-only sampling sources; every draw is independent.
	coldService process.Process
	warmService process.Process

	// epoch invalidates previously scheduled events for this instance.
	// It advances whenever a pending timer is superseded (warm arrival
	// replaces the pending expiration).
	epoch uint64
}

// NewFunctionInstance creates an instance serving its first request at time t.
// It starts in StateCold with a departure drawn from the cold service process.
func NewFunctionInstance(id uint64, t float64, coldService, warmService process.Process, expirationThreshold float64) *FunctionInstance {
	inst := &FunctionInstance{
		id:                  id,
		state:               StateCold,
		creationTime:        t,
		expirationThreshold: expirationThreshold,
		coldService:         coldService,
		warmService:         warmService,
	}
	inst.nextDeparture = t + coldService.Sample()
	inst.updateNextTermination()
	return inst
}

// updateNextTermination re-derives the expiration deadline from the current
// departure. The single writer of nextTermination.
func (inst *FunctionInstance) updateNextTermination() {
	inst.nextTermination = inst.nextDeparture + inst.expirationThreshold
}

// ID returns the creation-ordered identifier assigned by the simulator.
func (inst *FunctionInstance) ID() uint64 { return inst.id }

// State returns the current lifecycle state.
func (inst *FunctionInstance) State() InstanceState { return inst.state }

// CreationTime returns the simulated time the instance was created.
func (inst *FunctionInstance) CreationTime() float64 { return inst.creationTime }

// NextDeparture returns the time the current request finishes serving.
func (inst *FunctionInstance) NextDeparture() float64 { return inst.nextDeparture }

// NextTermination returns the time the instance expires if left idle.
func (inst *FunctionInstance) NextTermination() float64 { return inst.nextTermination }

// ExpirationThreshold returns the configured idle timeout.
func (inst *FunctionInstance) ExpirationThreshold() float64 { return inst.expirationThreshold }

// IsIdle reports whether the instance can accept a warm arrival.
func (inst *FunctionInstance) IsIdle() bool { return inst.state == StateIdle }

// IsBusy reports whether the instance is actively serving a request.
func (inst *FunctionInstance) IsBusy() bool {
	return inst.state == StateCold || inst.state == StateWarm
}

// LifeSpan returns the duration from creation to (scheduled) expiration. For
// an archived instance this is its full lifetime.
func (inst *FunctionInstance) LifeSpan() float64 {
	return inst.nextTermination - inst.creationTime
}

// ArrivalTransition serves a warm arrival at time t. Only an idle instance
// may accept one: a busy instance reports ErrInstanceBusy, a terminated one
// ErrInstanceTerminated. On success the instance re-enters the busy cycle as
// StateWarm with a fresh departure drawn from the warm service process, and
// its previously pending expiration is superseded.
func (inst *FunctionInstance) ArrivalTransition(t float64) error {
	switch inst.state {
	case StateCold, StateWarm:
		return fmt.Errorf("%w: cannot assign arrival at t=%v", ErrInstanceBusy, t)
	case StateTerminated:
		return fmt.Errorf("%w: cannot assign arrival at t=%v", ErrInstanceTerminated, t)
	}
	inst.state = StateWarm
	inst.epoch++
	inst.nextDeparture = t + inst.warmService.Sample()
	inst.updateNextTermination()
	return nil
}

// MakeTransition advances the instance through its next scheduled event:
// COLD/WARM become IDLE on departure, IDLE becomes TERM on expiration. The
// new state is returned so the caller can archive or recount. Calling it on
// a terminated instance is an error.
func (inst *FunctionInstance) MakeTransition() (InstanceState, error) {
	switch inst.state {
	case StateCold, StateWarm:
		inst.state = StateIdle
	case StateIdle:
		inst.state = StateTerminated
	default:
		return inst.state, fmt.Errorf("%w: cannot make transition", ErrInstanceTerminated)
	}
	return inst.state, nil
}

// NextTransitionTime returns the time remaining from t until the instance's
// next scheduled event: expiration when idle, departure when busy. A query
// time already past the stored event indicates a scheduling bug and reports
// ErrEventOverdue; a terminated instance has no next event.
func (inst *FunctionInstance) NextTransitionTime(t float64) (float64, error) {
	switch inst.state {
	case StateIdle:
		if t > inst.nextTermination {
			return 0, fmt.Errorf("%w: t=%v is after termination at %v", ErrEventOverdue, t, inst.nextTermination)
		}
		return inst.nextTermination - t, nil
	case StateCold, StateWarm:
		if t > inst.nextDeparture {
			return 0, fmt.Errorf("%w: t=%v is after departure at %v", ErrEventOverdue, t, inst.nextDeparture)
		}
		return inst.nextDeparture - t, nil
	default:
		return 0, fmt.Errorf("%w: no pending transition", ErrInstanceTerminated)
	}
}

// String renders the instance in a compact single-line form for debug logs.
func (inst *FunctionInstance) String() string {
	return fmt.Sprintf("instance %d: state=%s departure=%8.2f termination=%8.2f", inst.id, inst.state, inst.nextDeparture, inst.nextTermination)
}
