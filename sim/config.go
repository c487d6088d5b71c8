package sim

import (
	"errors"
	"fmt"

	"github.com/sicilly/simfaas/sim/process"
	"github.com/sicilly/simfaas/sim/trace"
)

// Defaults used by DefaultConfig.
const (
	// DefaultExpirationThreshold keeps an idle instance alive for ten
	// minutes, the common keep-alive of public FaaS platforms.
	DefaultExpirationThreshold = 600.0
	// DefaultMaxTime simulates one day.
	DefaultMaxTime = 24 * 60 * 60.0
)

// Configuration errors returned by Config.Validate.
var (
	ErrNoArrivalProcess = errors.New("arrival process not defined")
	ErrNoColdProcess    = errors.New("cold service process not defined")
	ErrNoWarmProcess    = errors.New("warm service process not defined")
	// ErrServiceRateInverted rejects a warm service rate below the cold
	// one: warm invocations skip initialization, so they can never be
	// slower on average than cold ones.
	ErrServiceRateInverted = errors.New("warm service rate cannot be smaller than cold service rate")
)

// Config holds everything one simulation run needs.
//
// Each of the three traffic channels (arrival, cold service, warm service)
// can be specified two ways: a non-zero exponential rate, or an explicit
// Process for arbitrary distributions. When both are set the rate wins and
// the Process field is ignored. A channel with neither fails validation.
//
// The zero value is not runnable; start from DefaultConfig and override.
type Config struct {
	// ArrivalRate is the request arrival rate in requests per second.
	// Non-zero builds an exponential (Poisson) arrival process.
	ArrivalRate    float64
	ArrivalProcess process.Process

	// ColdServiceRate is the service rate of cold invocations in
	// requests per second (mean cold service time = 1/rate).
	ColdServiceRate    float64
	ColdServiceProcess process.Process

	// WarmServiceRate is the service rate of warm invocations.
	WarmServiceRate    float64
	WarmServiceProcess process.Process

	// ExpirationThreshold is how long an idle instance survives before
	// the platform reclaims it, in simulated seconds.
	ExpirationThreshold float64

	// MaxTime is the simulated horizon in seconds. The run dispatches
	// every event scheduled strictly before MaxTime; the final event
	// handled may itself land past the horizon.
	MaxTime float64

	// Seed is the master seed for the partitioned random source. Equal
	// seeds with equal configurations reproduce runs exactly.
	Seed int64

	// TraceLevel enables per-event recording. Zero value disables it.
	TraceLevel trace.Level
}

// DefaultConfig returns a Config with platform defaults filled in. The
// traffic channels are left empty and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		ExpirationThreshold: DefaultExpirationThreshold,
		MaxTime:             DefaultMaxTime,
	}
}

// Validate checks that the configuration describes a runnable simulation.
func (c Config) Validate() error {
	if c.ArrivalRate == 0 && c.ArrivalProcess == nil {
		return ErrNoArrivalProcess
	}
	if c.WarmServiceRate == 0 && c.WarmServiceProcess == nil {
		return ErrNoWarmProcess
	}
	if c.ColdServiceRate == 0 && c.ColdServiceProcess == nil {
		return ErrNoColdProcess
	}
	if c.ArrivalRate < 0 {
		return fmt.Errorf("arrival rate must be positive, got %v", c.ArrivalRate)
	}
	if c.WarmServiceRate < 0 {
		return fmt.Errorf("warm service rate must be positive, got %v", c.WarmServiceRate)
	}
	if c.ColdServiceRate < 0 {
		return fmt.Errorf("cold service rate must be positive, got %v", c.ColdServiceRate)
	}
	// Only meaningful when both channels are rate-specified; explicit
	// processes carry no comparable rate.
	if c.WarmServiceRate != 0 && c.ColdServiceRate != 0 && c.WarmServiceRate < c.ColdServiceRate {
		return ErrServiceRateInverted
	}
	if c.ExpirationThreshold < 0 {
		return fmt.Errorf("expiration threshold must be non-negative, got %v", c.ExpirationThreshold)
	}
	if c.MaxTime <= 0 {
		return fmt.Errorf("max time must be positive, got %v", c.MaxTime)
	}
	if !trace.IsValidLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}

// buildProcesses resolves the three traffic channels into concrete sampling
// processes, drawing each from its own subsystem stream.
func (c Config) buildProcesses(rng *PartitionedSource) (arrival, cold, warm process.Process, err error) {
	arrival = c.ArrivalProcess
	if c.ArrivalRate != 0 {
		arrival, err = process.NewExponential(c.ArrivalRate, rng.ForSubsystem(SubsystemArrival))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("arrival process: %w", err)
		}
	}

	cold = c.ColdServiceProcess
	if c.ColdServiceRate != 0 {
		cold, err = process.NewExponential(c.ColdServiceRate, rng.ForSubsystem(SubsystemColdService))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("cold service process: %w", err)
		}
	}

	warm = c.WarmServiceProcess
	if c.WarmServiceRate != 0 {
		warm, err = process.NewExponential(c.WarmServiceRate, rng.ForSubsystem(SubsystemWarmService))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("warm service process: %w", err)
		}
	}

	return arrival, cold, warm, nil
}
