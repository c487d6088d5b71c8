package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sicilly/simfaas/sim/process"
	"github.com/sicilly/simfaas/sim/trace"
)

// Scenario binds a name to one runnable simulation configuration, loadable
// from a YAML file. Each traffic channel takes either an exponential rate or
// a distribution spec; the rate wins when both appear, mirroring Config.
// Nil pointer fields mean "not set in YAML" and fall back to the platform
// defaults.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	ArrivalRate float64       `yaml:"arrival_rate,omitempty"`
	Arrival     *process.Spec `yaml:"arrival,omitempty"`

	ColdServiceRate float64       `yaml:"cold_service_rate,omitempty"`
	ColdService     *process.Spec `yaml:"cold_service,omitempty"`

	WarmServiceRate float64       `yaml:"warm_service_rate,omitempty"`
	WarmService     *process.Spec `yaml:"warm_service,omitempty"`

	ExpirationThreshold *float64 `yaml:"expiration_threshold,omitempty"`
	MaxTime             *float64 `yaml:"max_time,omitempty"`
	Seed                int64    `yaml:"seed,omitempty"`
	Trace               string   `yaml:"trace,omitempty"`
}

// ScenarioFile is the top-level schema of a scenario YAML file.
type ScenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarioFile reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenarioFile(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var file ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	return &file, nil
}

// ToConfig resolves the scenario into a runnable Config. Spec-built
// processes draw from the same per-subsystem streams a rate-built process
// would, so a scenario is reproducible from its seed regardless of which
// form it uses.
func (sc *Scenario) ToConfig() (Config, error) {
	cfg := DefaultConfig()
	cfg.Seed = sc.Seed
	cfg.TraceLevel = trace.Level(sc.Trace)
	if sc.ExpirationThreshold != nil {
		cfg.ExpirationThreshold = *sc.ExpirationThreshold
	}
	if sc.MaxTime != nil {
		cfg.MaxTime = *sc.MaxTime
	}
	cfg.ArrivalRate = sc.ArrivalRate
	cfg.ColdServiceRate = sc.ColdServiceRate
	cfg.WarmServiceRate = sc.WarmServiceRate

	rng := NewPartitionedSource(NewSimulationKey(sc.Seed))
	if sc.Arrival != nil {
		p, err := process.New(*sc.Arrival, rng.ForSubsystem(SubsystemArrival))
		if err != nil {
			return Config{}, fmt.Errorf("scenario %q: arrival: %w", sc.Name, err)
		}
		cfg.ArrivalProcess = p
	}
	if sc.ColdService != nil {
		p, err := process.New(*sc.ColdService, rng.ForSubsystem(SubsystemColdService))
		if err != nil {
			return Config{}, fmt.Errorf("scenario %q: cold service: %w", sc.Name, err)
		}
		cfg.ColdServiceProcess = p
	}
	if sc.WarmService != nil {
		p, err := process.New(*sc.WarmService, rng.ForSubsystem(SubsystemWarmService))
		if err != nil {
			return Config{}, fmt.Errorf("scenario %q: warm service: %w", sc.Name, err)
		}
		cfg.WarmServiceProcess = p
	}
	return cfg, nil
}

// Validate checks every scenario in the file resolves to a runnable
// configuration and that names are present and unique.
func (f *ScenarioFile) Validate() error {
	if len(f.Scenarios) == 0 {
		return errors.New("no scenarios defined")
	}
	seen := make(map[string]bool, len(f.Scenarios))
	for i := range f.Scenarios {
		sc := &f.Scenarios[i]
		if sc.Name == "" {
			return fmt.Errorf("scenario[%d]: name is required", i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = true

		cfg, err := sc.ToConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	return nil
}
