package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/sicilly/simfaas/sim/process"
	"github.com/sicilly/simfaas/sim/trace"
)

// ErrClockRegression reports an event scheduled before the current clock.
// The ordered event heap makes this impossible; seeing it means a scheduling
// bug, and the run aborts.
var ErrClockRegression = errors.New("event time precedes simulation clock")

// ServerlessSimulator drives the discrete-event simulation of a FaaS
// platform: requests arrive according to the arrival process, each is served
// by a warm instance when one is idle and by a freshly created cold instance
// otherwise, and idle instances expire after the expiration threshold.
//
// Construct with NewServerlessSimulator, then call GenerateTrace to run.
// The simulator is single-goroutine; see PartitionedSource for the
// determinism contract.
type ServerlessSimulator struct {
	cfg Config

	rng     *PartitionedSource
	arrival process.Process
	cold    process.Process
	warm    process.Process

	clock  float64
	events *EventHeap

	// live holds every non-terminated instance keyed by ID. IDs are
	// assigned sequentially from 1, so they double as creation order.
	live           map[uint64]*FunctionInstance
	idle           *IdlePool
	nextInstanceID uint64

	countRunning int
	countIdle    int

	// archive holds terminated instances in termination order.
	archive []*FunctionInstance

	metrics  *Metrics
	traceLog *trace.Log
}

// NewServerlessSimulator validates the configuration and prepares a
// simulator in its reset state. Configuration problems are reported here;
// the returned simulator is ready for GenerateTrace.
func NewServerlessSimulator(cfg Config) (*ServerlessSimulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Prove the processes build before handing out a simulator, so rate
	// mistakes surface at construction rather than mid-run.
	if _, _, _, err := cfg.buildProcesses(NewPartitionedSource(NewSimulationKey(cfg.Seed))); err != nil {
		return nil, err
	}
	s := &ServerlessSimulator{cfg: cfg}
	s.ResetTrace()
	return s, nil
}

// ResetTrace returns the simulator to its empty initial state: clock at
// zero, no instances, zeroed counters and metrics, and the random source
// rewound to the configured seed. Rate-built processes are rebuilt on the
// rewound source, so a reset followed by GenerateTrace reproduces the
// previous run exactly. Caller-supplied Process values are reused as-is;
// rewinding their internal state is the caller's concern.
func (s *ServerlessSimulator) ResetTrace() {
	s.rng = NewPartitionedSource(NewSimulationKey(s.cfg.Seed))
	arrival, cold, warm, err := s.cfg.buildProcesses(s.rng)
	if err != nil {
		// Construction already built these once from the same config.
		panic(fmt.Sprintf("sim: rebuilding processes from validated config: %v", err))
	}
	s.arrival, s.cold, s.warm = arrival, cold, warm

	s.clock = 0
	s.events = NewEventHeap()
	s.live = make(map[uint64]*FunctionInstance)
	s.idle = NewIdlePool()
	s.nextInstanceID = 1
	s.countRunning = 0
	s.countIdle = 0
	s.archive = nil
	s.metrics = &Metrics{}
	s.traceLog = trace.NewLog(s.cfg.TraceLevel)
}

// GenerateTrace resets the simulator and runs the event loop until the
// clock reaches the configured horizon. Events scheduled while the clock is
// still before MaxTime are dispatched even when they land past it, so the
// final handled event may overshoot the horizon; the metrics' EndTime
// records the actual final clock.
//
// The first violation of the state-machine contract aborts the run and is
// returned; the simulator state is then only good for post-mortem
// inspection.
func (s *ServerlessSimulator) GenerateTrace() error {
	s.ResetTrace()

	logrus.Infof("[t %12.2f] run started: seed=%d threshold=%.1fs horizon=%.1fs",
		s.clock, s.cfg.Seed, s.cfg.ExpirationThreshold, s.cfg.MaxTime)

	// Seed the first arrival. Exactly one arrival event is pending from
	// here on; handling one schedules the next.
	s.events.Schedule(&ArrivalEvent{time: s.arrival.Sample()})

	for s.clock < s.cfg.MaxTime {
		ev := s.events.PopNext()
		if ev == nil {
			return fmt.Errorf("event queue exhausted at t=%v", s.clock)
		}
		// Superseded events are discarded without touching the clock,
		// as if they were never scheduled.
		if s.isStale(ev) {
			continue
		}
		if ev.Timestamp() < s.clock {
			return fmt.Errorf("%w: %s at t=%v, clock t=%v", ErrClockRegression, ev.Kind(), ev.Timestamp(), s.clock)
		}

		// The fleet is unchanged over [clock, event): integrate the
		// gauges before the state changes.
		s.metrics.accumulate(ev.Timestamp()-s.clock, len(s.live), s.countRunning, s.countIdle)
		s.clock = ev.Timestamp()

		if err := ev.Execute(s); err != nil {
			return err
		}
	}

	s.metrics.EndTime = s.clock
	s.metrics.Lifespans = lo.Map(s.archive, func(inst *FunctionInstance, _ int) float64 {
		return inst.LifeSpan()
	})

	logrus.Infof("[t %12.2f] run ended: %d requests (%d cold, %d warm), %d live instances",
		s.clock, s.metrics.TotalRequests, s.metrics.ColdStarts, s.metrics.WarmStarts, len(s.live))
	return nil
}

// isStale reports whether an instance event was superseded after being
// scheduled. A warm arrival advances the instance epoch, orphaning the
// expiration that was pending for it. Arrivals never go stale.
func (s *ServerlessSimulator) isStale(ev Event) bool {
	switch e := ev.(type) {
	case *DepartureEvent:
		inst, ok := s.live[e.instanceID]
		return !ok || inst.epoch != e.epoch
	case *ExpirationEvent:
		inst, ok := s.live[e.instanceID]
		return !ok || inst.epoch != e.epoch
	default:
		return false
	}
}

// adjustCounts applies a delta to the busy/idle counters and refreshes the
// metric high-water marks. Every counter change funnels through here.
func (s *ServerlessSimulator) adjustCounts(running, idle int) {
	s.countRunning += running
	s.countIdle += idle
	s.metrics.observePeaks(len(s.live), s.countRunning)
}

// record appends a trace record when tracing is on.
func (s *ServerlessSimulator) record(kind trace.Kind, instanceID uint64) {
	if !s.traceLog.Enabled() {
		return
	}
	s.traceLog.Record(trace.Record{
		Time:       s.clock,
		Kind:       kind,
		InstanceID: instanceID,
		Running:    s.countRunning,
		Idle:       s.countIdle,
		Live:       len(s.live),
	})
}

// handleArrival serves one request at time t: a warm start when an idle
// instance exists, a cold start otherwise. It then schedules the next
// arrival.
func (s *ServerlessSimulator) handleArrival(t float64) error {
	s.metrics.TotalRequests++

	if inst, ok := s.idle.TakeNewest(); ok {
		if err := s.warmStartArrival(t, inst); err != nil {
			return err
		}
	} else {
		s.coldStartArrival(t)
	}

	s.events.Schedule(&ArrivalEvent{time: t + s.arrival.Sample()})
	return nil
}

// coldStartArrival creates a fresh instance to serve the request arriving
// at t.
func (s *ServerlessSimulator) coldStartArrival(t float64) {
	id := s.nextInstanceID
	s.nextInstanceID++

	inst := NewFunctionInstance(id, t, s.cold, s.warm, s.cfg.ExpirationThreshold)
	s.live[id] = inst
	s.metrics.ColdStarts++
	s.adjustCounts(+1, 0)

	s.events.Schedule(&DepartureEvent{time: inst.NextDeparture(), instanceID: id, epoch: inst.epoch})
	s.record(trace.KindColdStart, id)
	logrus.Debugf("[t %12.2f] << arrival: cold start, instance %d departs at %.2f", t, id, inst.NextDeparture())
}

// warmStartArrival reuses the given idle instance for the request arriving
// at t. The instance's pending expiration is superseded by the epoch bump
// inside ArrivalTransition.
func (s *ServerlessSimulator) warmStartArrival(t float64, inst *FunctionInstance) error {
	if err := inst.ArrivalTransition(t); err != nil {
		return fmt.Errorf("warm start on instance %d at t=%v: %w", inst.ID(), t, err)
	}
	s.metrics.WarmStarts++
	s.adjustCounts(+1, -1)

	s.events.Schedule(&DepartureEvent{time: inst.NextDeparture(), instanceID: inst.ID(), epoch: inst.epoch})
	s.record(trace.KindWarmStart, inst.ID())
	logrus.Debugf("[t %12.2f] << arrival: warm start, instance %d departs at %.2f", t, inst.ID(), inst.NextDeparture())
	return nil
}

// handleDeparture moves a busy instance to idle and arms its expiration.
func (s *ServerlessSimulator) handleDeparture(e *DepartureEvent) error {
	inst, ok := s.live[e.instanceID]
	if !ok || inst.epoch != e.epoch {
		return fmt.Errorf("departure at t=%v for superseded instance %d", e.time, e.instanceID)
	}
	if !inst.IsBusy() {
		return fmt.Errorf("departure at t=%v for instance %d in state %s", e.time, e.instanceID, inst.State())
	}
	if _, err := inst.MakeTransition(); err != nil {
		return fmt.Errorf("departure on instance %d: %w", e.instanceID, err)
	}

	s.adjustCounts(-1, +1)
	s.idle.Put(inst)
	s.events.Schedule(&ExpirationEvent{time: inst.NextTermination(), instanceID: inst.ID(), epoch: inst.epoch})
	s.record(trace.KindDeparture, inst.ID())
	logrus.Debugf("[t %12.2f] >> departure: instance %d idle, expires at %.2f", e.time, inst.ID(), inst.NextTermination())
	return nil
}

// handleExpiration terminates an idle instance and archives it.
func (s *ServerlessSimulator) handleExpiration(e *ExpirationEvent) error {
	inst, ok := s.live[e.instanceID]
	if !ok || inst.epoch != e.epoch {
		return fmt.Errorf("expiration at t=%v for superseded instance %d", e.time, e.instanceID)
	}
	if !inst.IsIdle() {
		return fmt.Errorf("expiration at t=%v for instance %d in state %s", e.time, e.instanceID, inst.State())
	}
	if _, err := inst.MakeTransition(); err != nil {
		return fmt.Errorf("expiration on instance %d: %w", e.instanceID, err)
	}

	delete(s.live, e.instanceID)
	s.archive = append(s.archive, inst)
	s.metrics.Expirations++
	s.adjustCounts(0, -1)
	s.record(trace.KindExpiration, inst.ID())
	logrus.Debugf("[t %12.2f] xx expiration: instance %d terminated after %.2fs of life", e.time, inst.ID(), inst.LifeSpan())
	return nil
}

// Clock returns the current simulated time in seconds.
func (s *ServerlessSimulator) Clock() float64 { return s.clock }

// Metrics returns the counters of the most recent (or in-progress) run.
func (s *ServerlessSimulator) Metrics() *Metrics { return s.metrics }

// Trace returns the event log of the most recent run. Empty unless the
// configuration enabled tracing.
func (s *ServerlessSimulator) Trace() *trace.Log { return s.traceLog }

// LiveCount returns the number of non-terminated instances.
func (s *ServerlessSimulator) LiveCount() int { return len(s.live) }

// RunningCount returns the number of busy instances.
func (s *ServerlessSimulator) RunningCount() int { return s.countRunning }

// IdleCount returns the number of idle instances.
func (s *ServerlessSimulator) IdleCount() int { return s.countIdle }

// Archive returns the terminated instances in termination order. The slice
// is shared; callers must treat it as read-only.
func (s *ServerlessSimulator) Archive() []*FunctionInstance { return s.archive }

// Instances returns the live instances sorted by creation order. Intended
// for inspection; mutating the instances corrupts the run.
func (s *ServerlessSimulator) Instances() []*FunctionInstance {
	insts := lo.Values(s.live)
	// Map iteration order is randomized; present in creation order.
	sort.Slice(insts, func(i, j int) bool { return insts[i].id < insts[j].id })
	return insts
}
