package sim

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sicilly/simfaas/sim/process"
)

// TestExampleScenarios_Baseline verifies that baseline.yaml loads and
// resolves into the expected rate-driven configurations.
func TestExampleScenarios_Baseline(t *testing.T) {
	// GIVEN the baseline.yaml example scenarios
	path := filepath.Join("..", "examples", "baseline.yaml")
	file, err := LoadScenarioFile(path)
	require.NoError(t, err, "failed to load baseline.yaml")

	// THEN validation passes
	require.NoError(t, file.Validate(), "validation failed")
	require.Len(t, file.Scenarios, 2, "expected 2 scenarios")

	// THEN steady-poisson carries the platform defaults
	steady := file.Scenarios[0]
	assert.Equal(t, "steady-poisson", steady.Name)
	cfg, err := steady.ToConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.ArrivalRate)
	assert.Equal(t, DefaultExpirationThreshold, cfg.ExpirationThreshold)
	assert.Equal(t, DefaultMaxTime, cfg.MaxTime)
	assert.Equal(t, int64(42), cfg.Seed)

	// THEN classic-trace overrides threshold and horizon
	classic := file.Scenarios[1]
	assert.Equal(t, "classic-trace", classic.Name)
	cfg, err = classic.ToConfig()
	require.NoError(t, err)
	assert.Equal(t, 600.0, cfg.ExpirationThreshold)
	assert.Equal(t, 10000.0, cfg.MaxTime)

	// AND every scenario actually runs
	for _, sc := range file.Scenarios {
		cfg, err := sc.ToConfig()
		require.NoError(t, err, sc.Name)
		// Keep the test fast regardless of the configured horizon.
		cfg.MaxTime = 500
		s, err := NewServerlessSimulator(cfg)
		require.NoError(t, err, sc.Name)
		require.NoError(t, s.GenerateTrace(), sc.Name)
		assert.Positive(t, s.Metrics().TotalRequests, "scenario %s served no requests", sc.Name)
	}
}

// TestExampleScenarios_Distributions verifies that distributions.yaml wires
// spec-built processes into every channel.
func TestExampleScenarios_Distributions(t *testing.T) {
	// GIVEN the distributions.yaml example scenarios
	path := filepath.Join("..", "examples", "distributions.yaml")
	file, err := LoadScenarioFile(path)
	require.NoError(t, err, "failed to load distributions.yaml")

	// THEN validation passes
	require.NoError(t, file.Validate(), "validation failed")
	require.Len(t, file.Scenarios, 2, "expected 2 scenarios")

	// THEN bursty-gaussian resolves each channel to its distribution
	bursty := file.Scenarios[0]
	cfg, err := bursty.ToConfig()
	require.NoError(t, err)
	assert.IsType(t, &process.Exponential{}, cfg.ArrivalProcess)
	assert.IsType(t, &process.Gaussian{}, cfg.ColdServiceProcess)
	assert.IsType(t, &process.LogNormal{}, cfg.WarmServiceProcess)
	assert.Equal(t, "events", string(cfg.TraceLevel))

	// THEN scripted-arrivals replays its gap script
	scripted := file.Scenarios[1]
	cfg, err = scripted.ToConfig()
	require.NoError(t, err)
	assert.IsType(t, &process.Replay{}, cfg.ArrivalProcess)
	assert.Equal(t, 1.0, cfg.ArrivalProcess.Sample())
	assert.Equal(t, 2.0, cfg.ArrivalProcess.Sample())
}
