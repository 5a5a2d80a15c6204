package categorical

import (
	"fmt"
	"math"
)

// ProbabilitySumTolerance bounds how far the joint probabilities may drift
// from exactly 1 before the table is rejected.
const ProbabilitySumTolerance = 1e-9

// JointTable is the fixed joint distribution over the six (S, D) pairs.
// Immutable after construction; the constructor copies its input.
type JointTable struct {
	p map[Pair]float64
}

// NewJointTable creates a joint table with validation
func NewJointTable(probs map[Pair]float64) (JointTable, error) {
	if err := validateCoverage(probs, "joint probability"); err != nil {
		return JointTable{}, err
	}

	sum := 0.0
	for _, pair := range AllPairs() {
		p := probs[pair]
		if math.IsNaN(p) || p < 0.0 || p > 1.0 {
			return JointTable{}, fmt.Errorf("joint probability for %s must be in [0, 1], got %v", pair, p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > ProbabilitySumTolerance {
		return JointTable{}, fmt.Errorf("joint probabilities must sum to 1 within %g, got %.12f", ProbabilitySumTolerance, sum)
	}

	cp := make(map[Pair]float64, len(probs))
	for pair, p := range probs {
		cp[pair] = p
	}
	return JointTable{p: cp}, nil
}

// MustNewJointTable creates a joint table (panics on invalid input)
// Use only in tests and fixed startup configuration
func MustNewJointTable(probs map[Pair]float64) JointTable {
	t, err := NewJointTable(probs)
	if err != nil {
		panic(err)
	}
	return t
}

// P returns the joint probability of pair
func (t JointTable) P(pair Pair) float64 {
	return t.p[pair]
}

// Sum returns the total probability mass
func (t JointTable) Sum() float64 {
	sum := 0.0
	for _, p := range t.p {
		sum += p
	}
	return sum
}

// IsZero reports whether the table was never constructed
func (t JointTable) IsZero() bool {
	return t.p == nil
}

// MeanTable is the fixed conditional-expectation lookup E[Y | S, D] for the
// outcome variable. The values are treated as externally supplied
// configuration and are never adjusted. Immutable after construction.
type MeanTable struct {
	mu map[Pair]float64
}

// NewMeanTable creates a conditional-mean table with validation
func NewMeanTable(means map[Pair]float64) (MeanTable, error) {
	if err := validateCoverage(means, "conditional mean"); err != nil {
		return MeanTable{}, err
	}

	for _, pair := range AllPairs() {
		mu := means[pair]
		if math.IsNaN(mu) || math.IsInf(mu, 0) {
			return MeanTable{}, fmt.Errorf("conditional mean for %s must be finite, got %v", pair, mu)
		}
	}

	cp := make(map[Pair]float64, len(means))
	for pair, mu := range means {
		cp[pair] = mu
	}
	return MeanTable{mu: cp}, nil
}

// MustNewMeanTable creates a conditional-mean table (panics on invalid input)
// Use only in tests and fixed startup configuration
func MustNewMeanTable(means map[Pair]float64) MeanTable {
	t, err := NewMeanTable(means)
	if err != nil {
		panic(err)
	}
	return t
}

// Mu returns the conditional mean E[Y | pair]
func (t MeanTable) Mu(pair Pair) float64 {
	return t.mu[pair]
}

// IsZero reports whether the table was never constructed
func (t MeanTable) IsZero() bool {
	return t.mu == nil
}

// validateCoverage checks that a table covers exactly the six category pairs
func validateCoverage(m map[Pair]float64, what string) error {
	for _, pair := range AllPairs() {
		if _, ok := m[pair]; !ok {
			return fmt.Errorf("missing %s entry for %s", what, pair)
		}
	}
	for pair := range m {
		if !pair.Valid() {
			return fmt.Errorf("unknown category pair %s in %s table", pair, what)
		}
	}
	return nil
}
