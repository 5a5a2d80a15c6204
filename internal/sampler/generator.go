// Package sampler draws synthetic (S, D, Y) datasets from the joint and
// conditional-mean tables: a weighted categorical draw over the six pairs,
// then a conditional Normal draw for each outcome.
package sampler

import (
	"fmt"
	"math/rand"

	"covsim/domain/categorical"
)

// Config carries the three sampling parameters
type Config struct {
	Records int
	Spread  float64
	Seed    int64
}

// DefaultConfig returns the canonical study parameters
func DefaultConfig() Config {
	return Config{
		Records: 50000,
		Spread:  2.0,
		Seed:    42,
	}
}

// Generator draws datasets from one fixed pair of tables
type Generator struct {
	joint categorical.JointTable
	means categorical.MeanTable

	pairs      []categorical.Pair // canonical draw order
	cumWeights []float64          // cumulative joint probabilities over pairs
}

// New validates the tables and precomputes the cumulative selection weights
func New(joint categorical.JointTable, means categorical.MeanTable) (*Generator, error) {
	if joint.IsZero() {
		return nil, fmt.Errorf("joint table is not initialized")
	}
	if means.IsZero() {
		return nil, fmt.Errorf("conditional-mean table is not initialized")
	}

	pairs := categorical.AllPairs()
	cum := make([]float64, len(pairs))
	total := 0.0
	for i, pair := range pairs {
		total += joint.P(pair)
		cum[i] = total
	}

	return &Generator{
		joint:      joint,
		means:      means,
		pairs:      pairs,
		cumWeights: cum,
	}, nil
}

// Generate seeds a private stream from cfg.Seed and draws one dataset.
// Identical (Records, Spread, Seed) and tables reproduce the dataset exactly.
func (g *Generator) Generate(cfg Config) (*Dataset, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	return g.GenerateStream(rng, cfg.Records, cfg.Spread)
}

// GenerateStream draws n records from an explicitly supplied stream.
//
// Draw ordering is part of the contract: all n category draws are consumed
// from the stream first, then the outcome draws proceed in record order.
// Reordering would change every seeded dataset.
func (g *Generator) GenerateStream(rng *rand.Rand, n int, spread float64) (*Dataset, error) {
	if rng == nil {
		return nil, fmt.Errorf("rng stream must not be nil")
	}
	if n <= 0 {
		return nil, fmt.Errorf("records must be > 0, got %d", n)
	}
	if spread <= 0 {
		return nil, fmt.Errorf("spread must be > 0, got %v", spread)
	}

	drawn := make([]categorical.Pair, n)
	for i := 0; i < n; i++ {
		drawn[i] = g.drawPair(rng)
	}

	records := make([]Record, n)
	for i := 0; i < n; i++ {
		mu := g.means.Mu(drawn[i])
		records[i] = Record{
			S: drawn[i].S,
			D: drawn[i].D,
			Y: mu + rng.NormFloat64()*spread,
		}
	}

	return &Dataset{Records: records}, nil
}

// drawPair picks one category pair by cumulative weight
func (g *Generator) drawPair(rng *rand.Rand) categorical.Pair {
	r := rng.Float64()
	for i, cum := range g.cumWeights {
		if r <= cum {
			return g.pairs[i]
		}
	}
	// The cumulative sum can land a hair under 1; the tail belongs to the last pair.
	return g.pairs[len(g.pairs)-1]
}
