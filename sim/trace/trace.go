// Package trace provides per-event recording for simulation run analysis.
// It holds pure data types and has no dependencies on the rest of the
// simulator.
package trace

// Level controls the verbosity of event tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelEvents captures one record per dispatched event.
	LevelEvents Level = "events"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:   true,
	LevelEvents: true,
	"":          true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Kind labels what happened at a recorded point in the run.
type Kind string

const (
	// KindColdStart is an arrival that found no idle instance and paid
	// for a fresh one.
	KindColdStart Kind = "cold_start"
	// KindWarmStart is an arrival served by reusing an idle instance.
	KindWarmStart Kind = "warm_start"
	// KindDeparture is a request finishing service.
	KindDeparture Kind = "departure"
	// KindExpiration is an idle instance being reclaimed.
	KindExpiration Kind = "expiration"
)

// Record captures one handled event together with the fleet sizes right
// after handling it.
type Record struct {
	Time       float64
	Kind       Kind
	InstanceID uint64
	Running    int
	Idle       int
	Live       int
}

// Log collects event records during a simulation run.
type Log struct {
	Level   Level
	Records []Record
}

// NewLog creates a Log ready for recording at the given level.
func NewLog(level Level) *Log {
	return &Log{
		Level:   level,
		Records: make([]Record, 0),
	}
}

// Enabled reports whether records should be composed at all. Callers check
// it before building a Record so a disabled log costs nothing per event.
func (l *Log) Enabled() bool {
	return l != nil && l.Level == LevelEvents
}

// Record appends one event record.
func (l *Log) Record(r Record) {
	l.Records = append(l.Records, r)
}
