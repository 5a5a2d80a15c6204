package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations.
// Streams are always explicit handles; nothing in the system touches the
// global math/rand state, so concurrent or repeated invocations never
// interfere with each other's draws.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for a specific study/stage/key
	// combination. The same (studyID, stageName, key, baseSeed) always yields a
	// stream producing the same draws, so replicated runs are reproducible and
	// isolated from one another.
	Stream(ctx context.Context, studyID, stageName, key string, baseSeed int64) (*rand.Rand, error)

	// ValidateSeed ensures the seed produces expected deterministic results
	ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error
}
