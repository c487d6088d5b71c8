// Package sim provides the discrete-event simulation engine for simfaas.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - instance.go: FunctionInstance lifecycle (COLD/WARM → IDLE → TERM) and the timer invariant
//   - event.go: Event types that drive the simulation (Arrival, Departure, Expiration)
//   - simulator.go: The event loop, cold/warm start decisions, and instance expiry
//
// # Architecture
//
// The sim package owns the event loop and instance bookkeeping; supporting
// concerns live in sub-packages:
//   - sim/process/: Sampling processes for interarrival and service times
//   - sim/trace/: Per-event trace recording and summarization
//
// Event selection is a single ordered heap over arrivals and per-instance
// timers. When a warm arrival reschedules an instance's timers, the events
// already queued for it are invalidated by an epoch bump and skipped when
// popped, so timer changes never require searching the heap.
//
// # Determinism
//
// A run is a pure function of its Config: equal seeds and configurations
// reproduce results exactly. Randomness flows through one PartitionedSource,
// which derives an isolated stream per subsystem (arrivals, cold service,
// warm service), so adding draws to one subsystem never perturbs another.
package sim
