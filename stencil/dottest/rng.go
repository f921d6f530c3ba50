package dottest

import (
	"hash/fnv"
	"math/rand"
)

// PartitionedRNG hands out deterministic, isolated random sources per shot.
//
// Derivation formula: masterSeed XOR fnv1a64(shotID). The same seed and shot
// ID always yield the same sequence regardless of how many other shots drew
// values or in which order shots are processed.
//
// Thread-safety: NOT thread-safe. Derive each shot's *rand.Rand from one
// goroutine, then hand it to the worker that owns the shot.
type PartitionedRNG struct {
	seed  int64
	shots map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:  seed,
		shots: make(map[string]*rand.Rand),
	}
}

// ForShot returns the random source for the named shot. The same name
// always returns the same *rand.Rand instance (cached). Never returns nil.
func (p *PartitionedRNG) ForShot(id string) *rand.Rand {
	if rng, ok := p.shots[id]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(id)))
	p.shots[id] = rng
	return rng
}

// Seed returns the master seed.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
