package process

import (
	"fmt"
	"math/rand/v2"
)

// Spec selects and parameterizes a sampling process. It is the YAML-facing
// description used by scenario files; New turns it into a live Process.
type Spec struct {
	// Dist is one of: exponential, constant, gaussian, lognormal, weibull,
	// uniform, replay.
	Dist   string             `yaml:"dist"`
	Params map[string]float64 `yaml:"params,omitempty"`
	// Samples is only read for dist: replay.
	Samples []float64 `yaml:"samples,omitempty"`
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// New builds a Process from a Spec, validating distribution-specific
// parameters. src seeds every randomized distribution; deterministic
// distributions (constant, replay) ignore it.
func New(spec Spec, src rand.Source) (Process, error) {
	switch spec.Dist {
	case "exponential":
		if err := requireParam(spec.Params, "rate"); err != nil {
			return nil, err
		}
		return NewExponential(spec.Params["rate"], src)

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return NewConstant(spec.Params["value"])

	case "gaussian":
		if err := requireParam(spec.Params, "mean", "stddev"); err != nil {
			return nil, err
		}
		return NewGaussian(spec.Params["mean"], spec.Params["stddev"], src)

	case "lognormal":
		if err := requireParam(spec.Params, "mu", "sigma"); err != nil {
			return nil, err
		}
		return NewLogNormal(spec.Params["mu"], spec.Params["sigma"], src)

	case "weibull":
		if err := requireParam(spec.Params, "shape", "scale"); err != nil {
			return nil, err
		}
		return NewWeibull(spec.Params["shape"], spec.Params["scale"], src)

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		return NewUniform(spec.Params["min"], spec.Params["max"], src)

	case "replay":
		return NewReplay(spec.Samples...)

	default:
		return nil, fmt.Errorf("unknown distribution %q", spec.Dist)
	}
}
