package sim

import (
	"hash/fnv"
	"math/rand/v2"
)

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Subsystem names for the three sampling roles of a run. Each role gets its
// own derived stream so drawing service times never perturbs the arrival
// sequence.
const (
	SubsystemArrival     = "arrival"
	SubsystemColdService = "cold_service"
	SubsystemWarmService = "warm_service"
)

// PartitionedSource derives deterministic, isolated random sources per
// subsystem from a single master seed. The derivation is
// PCG(masterSeed, fnv1a64(subsystemName)), so the per-subsystem streams are
// independent of the order in which subsystems are first used.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type PartitionedSource struct {
	key        SimulationKey
	subsystems map[string]rand.Source
}

// NewPartitionedSource creates a PartitionedSource from a SimulationKey.
func NewPartitionedSource(key SimulationKey) *PartitionedSource {
	return &PartitionedSource{
		key:        key,
		subsystems: make(map[string]rand.Source),
	}
}

// ForSubsystem returns the deterministically-seeded source for the named
// subsystem. The same name always returns the same Source instance (cached),
// so repeated lookups continue one stream instead of restarting it.
func (p *PartitionedSource) ForSubsystem(name string) rand.Source {
	if src, ok := p.subsystems[name]; ok {
		return src
	}
	src := rand.NewPCG(uint64(p.key), fnv1a64(name))
	p.subsystems[name] = src
	return src
}

// Key returns the SimulationKey used to create this PartitionedSource.
func (p *PartitionedSource) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
