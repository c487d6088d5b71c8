// Package process provides the stochastic sampling sources that drive the
// simulation: interarrival times and cold/warm service times. Every source
// draws one independent, non-negative duration (in simulated seconds) per
// call and keeps its randomness in an injected math/rand/v2 Source so runs
// reproduce exactly under a fixed seed.
package process

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Process is the sampling contract consumed by the simulator and by function
// instances. Implementations are shared by reference across all instances;
// the only side effect of Sample is advancing the internal RNG state.
type Process interface {
	// Sample returns the next duration in simulated seconds. Never negative.
	Sample() float64
}

// Exponential draws exponentially distributed durations with the given rate
// (mean 1/rate). It is the default process built from the *_rate
// configuration shortcuts.
type Exponential struct {
	dist distuv.Exponential
}

// NewExponential returns an exponential process with mean 1/rate.
// src may be nil, in which case the shared global source is used and the
// process is not reproducible.
func NewExponential(rate float64, src rand.Source) (*Exponential, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("exponential rate must be positive, got %v", rate)
	}
	return &Exponential{dist: distuv.Exponential{Rate: rate, Src: src}}, nil
}

// Rate returns the configured rate parameter.
func (p *Exponential) Rate() float64 { return p.dist.Rate }

func (p *Exponential) Sample() float64 { return p.dist.Rand() }

// Constant always returns the same fixed duration. Zero variance makes it
// the building block for hand-constructed scenarios.
type Constant struct {
	value float64
}

func NewConstant(value float64) (*Constant, error) {
	if value < 0 {
		return nil, fmt.Errorf("constant duration must be non-negative, got %v", value)
	}
	return &Constant{value: value}, nil
}

func (p *Constant) Sample() float64 { return p.value }

// Gaussian draws normally distributed durations clamped at zero, since a
// negative duration would corrupt the event timeline.
type Gaussian struct {
	dist distuv.Normal
}

func NewGaussian(mean, stddev float64, src rand.Source) (*Gaussian, error) {
	if stddev < 0 {
		return nil, fmt.Errorf("gaussian stddev must be non-negative, got %v", stddev)
	}
	return &Gaussian{dist: distuv.Normal{Mu: mean, Sigma: stddev, Src: src}}, nil
}

func (p *Gaussian) Sample() float64 { return math.Max(0, p.dist.Rand()) }

// LogNormal draws log-normally distributed durations; mu and sigma
// parameterize the underlying normal.
type LogNormal struct {
	dist distuv.LogNormal
}

func NewLogNormal(mu, sigma float64, src rand.Source) (*LogNormal, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("lognormal sigma must be positive, got %v", sigma)
	}
	return &LogNormal{dist: distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}}, nil
}

func (p *LogNormal) Sample() float64 { return p.dist.Rand() }

// Weibull draws Weibull distributed durations. Shape below 1 gives bursty
// heavy-tailed samples, shape 1 degenerates to exponential.
type Weibull struct {
	dist distuv.Weibull
}

func NewWeibull(shape, scale float64, src rand.Source) (*Weibull, error) {
	if shape <= 0 || scale <= 0 {
		return nil, fmt.Errorf("weibull shape and scale must be positive, got shape=%v scale=%v", shape, scale)
	}
	return &Weibull{dist: distuv.Weibull{K: shape, Lambda: scale, Src: src}}, nil
}

func (p *Weibull) Sample() float64 { return p.dist.Rand() }

// Uniform draws durations uniformly from [min, max).
type Uniform struct {
	dist distuv.Uniform
}

func NewUniform(min, max float64, src rand.Source) (*Uniform, error) {
	if min < 0 || max < min {
		return nil, fmt.Errorf("uniform bounds must satisfy 0 <= min <= max, got [%v, %v]", min, max)
	}
	return &Uniform{dist: distuv.Uniform{Min: min, Max: max, Src: src}}, nil
}

func (p *Uniform) Sample() float64 { return p.dist.Rand() }

// Replay cycles through a recorded sequence of durations, wrapping around
// after the last one. It stands in for a real distribution when a test or a
// trace re-run needs exact, pre-decided samples.
type Replay struct {
	samples []float64
	next    int
}

func NewReplay(samples ...float64) (*Replay, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("replay needs at least one sample")
	}
	for i, s := range samples {
		if s < 0 {
			return nil, fmt.Errorf("replay sample %d is negative: %v", i, s)
		}
	}
	return &Replay{samples: samples}, nil
}

func (p *Replay) Sample() float64 {
	s := p.samples[p.next]
	p.next = (p.next + 1) % len(p.samples)
	return s
}
