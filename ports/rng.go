package ports

import (
	"math/rand"
)

// RNG provides seeded random number generation for deterministic runs.
// Sample splitting and tie-breaking jitter are the only nondeterminism in
// the pipeline, so threading streams through this port makes whole runs
// reproducible under a fixed base seed.
type RNG interface {
	// Stream returns a deterministic generator for a named pipeline step.
	// The same (base seed, name) pair always yields the same stream.
	Stream(name string) *rand.Rand

	// Seed reports the base seed the adapter derives its streams from.
	Seed() int64
}
