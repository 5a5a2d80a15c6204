package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
	ErrHashMismatch     = errors.New("hash mismatch")
)

// NewSeedMismatchError reports a seeded stream that failed its audit draw
func NewSeedMismatchError(name string, position int, want, got float64) error {
	return fmt.Errorf("%w: stream %q draw %d: want %v, got %v", ErrSeedMismatch, name, position, want, got)
}

// NewHashMismatchError reports two runs that should have produced identical datasets
func NewHashMismatchError(want, got DatasetHash) error {
	return fmt.Errorf("%w: want %s, got %s", ErrHashMismatch, want.Short(), got.Short())
}

// IsDeterminismError checks whether err is one of the reproducibility sentinels
func IsDeterminismError(err error) bool {
	return errors.Is(err, ErrNonDeterministic) ||
		errors.Is(err, ErrSeedMismatch) ||
		errors.Is(err, ErrHashMismatch)
}
