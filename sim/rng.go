package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
// A source must not be shared between concurrent runs.
type RandomSource interface {
	Float64() float64
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible run.
// Two runs with the same SimulationKey and the same circuit MUST produce
// identical measurement results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemMeasurement is the RNG subsystem for measurement sampling.
	// Uses master seed directly so that --seed N equals rand.NewSource(N).
	SubsystemMeasurement = "measurement"
)

// SubsystemRun returns the subsystem name for the N-th run drawn from one key.
// Each run gets an isolated stream.
func SubsystemRun(id int) string {
	return fmt.Sprintf("run_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemMeasurement: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemMeasurement {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// NewRandomSource returns the measurement stream for seed.
func NewRandomSource(seed int64) RandomSource {
	return NewPartitionedRNG(NewSimulationKey(seed)).ForSubsystem(SubsystemMeasurement)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
