package rng

import (
	"hash/fnv"
	"math/rand"
)

// Seeded derives deterministic random streams from one base seed. Each named
// stream hashes its name into the seed, so independent pipeline steps get
// independent but reproducible generators.
type Seeded struct {
	seed int64
}

// NewSeeded creates a seeded stream factory.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{seed: seed}
}

// Stream returns the deterministic generator for a named step.
func (s *Seeded) Stream(name string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(s.seed ^ int64(h.Sum64())))
}

// Seed reports the base seed.
func (s *Seeded) Seed() int64 {
	return s.seed
}
