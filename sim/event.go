package sim

// EventKind labels the three things that can happen in a run.
type EventKind string

const (
	KindArrival    EventKind = "arrival"
	KindDeparture  EventKind = "departure"
	KindExpiration EventKind = "expiration"
)

// eventClassPriority ranks kinds at equal timestamps. Instance transitions
// outrank arrivals: an arrival exactly tied with a departure or expiration
// is handled after the instance has moved on, so the arrival sees the
// post-transition pool.
var eventClassPriority = map[EventKind]int{
	KindDeparture:  0,
	KindExpiration: 0,
	KindArrival:    1,
}

// Event is one scheduled occurrence. Execute advances simulation state and
// reports a state-machine violation as an error, which aborts the run.
type Event interface {
	Timestamp() float64
	Kind() EventKind
	// InstanceID identifies the instance an event belongs to, or 0 for
	// events not tied to an instance. Used as the deterministic
	// tie-breaker between instance events sharing a timestamp.
	InstanceID() uint64
	Execute(s *ServerlessSimulator) error
}

// ArrivalEvent is a request hitting the platform. Exactly one arrival is
// pending at any time; executing it schedules the next one.
type ArrivalEvent struct {
	time float64
}

func (e *ArrivalEvent) Timestamp() float64 { return e.time }
func (e *ArrivalEvent) Kind() EventKind    { return KindArrival }
func (e *ArrivalEvent) InstanceID() uint64 { return 0 }

func (e *ArrivalEvent) Execute(s *ServerlessSimulator) error {
	return s.handleArrival(e.time)
}

// DepartureEvent is a request finishing service on an instance. It carries
// the epoch current when it was scheduled; a warm arrival in the meantime
// advances the instance epoch and the stale event is skipped on pop.
type DepartureEvent struct {
	time       float64
	instanceID uint64
	epoch      uint64
}

func (e *DepartureEvent) Timestamp() float64 { return e.time }
func (e *DepartureEvent) Kind() EventKind    { return KindDeparture }
func (e *DepartureEvent) InstanceID() uint64 { return e.instanceID }

func (e *DepartureEvent) Execute(s *ServerlessSimulator) error {
	return s.handleDeparture(e)
}

// ExpirationEvent is an idle instance reaching its expiration threshold.
// Same staleness rule as DepartureEvent.
type ExpirationEvent struct {
	time       float64
	instanceID uint64
	epoch      uint64
}

func (e *ExpirationEvent) Timestamp() float64 { return e.time }
func (e *ExpirationEvent) Kind() EventKind    { return KindExpiration }
func (e *ExpirationEvent) InstanceID() uint64 { return e.instanceID }

func (e *ExpirationEvent) Execute(s *ServerlessSimulator) error {
	return s.handleExpiration(e)
}
