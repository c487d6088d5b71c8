package process

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestNew_BuildsEveryDistribution(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"exponential", Spec{Dist: "exponential", Params: map[string]float64{"rate": 0.3}}},
		{"constant", Spec{Dist: "constant", Params: map[string]float64{"value": 2}}},
		{"gaussian", Spec{Dist: "gaussian", Params: map[string]float64{"mean": 5, "stddev": 1}}},
		{"lognormal", Spec{Dist: "lognormal", Params: map[string]float64{"mu": 0, "sigma": 1}}},
		{"weibull", Spec{Dist: "weibull", Params: map[string]float64{"shape": 1.5, "scale": 2}}},
		{"uniform", Spec{Dist: "uniform", Params: map[string]float64{"min": 0, "max": 1}}},
		{"replay", Spec{Dist: "replay", Samples: []float64{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.spec, rand.NewPCG(42, 0))
			if err != nil {
				t.Fatalf("New(%q) failed: %v", tt.name, err)
			}
			if v := p.Sample(); v < 0 {
				t.Errorf("New(%q) produced negative sample %v", tt.name, v)
			}
		})
	}
}

func TestNew_MissingParam(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		missing string
	}{
		{"exponential without rate", Spec{Dist: "exponential"}, "rate"},
		{"gaussian without stddev", Spec{Dist: "gaussian", Params: map[string]float64{"mean": 5}}, "stddev"},
		{"uniform without max", Spec{Dist: "uniform", Params: map[string]float64{"min": 0}}, "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.spec, nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not name missing parameter %q", err, tt.missing)
			}
		})
	}
}

func TestNew_UnknownDistribution(t *testing.T) {
	if _, err := New(Spec{Dist: "zipf"}, nil); err == nil {
		t.Error("unknown distribution did not fail")
	}
}
