// Package testkit builds deterministic fixtures for tests above the
// sampler layer. Everything here is reproducible: seeded draws or no
// randomness at all.
package testkit

import (
	"covsim/domain/categorical"
	"covsim/internal/sampler"
)

// Kit bundles the canonical tables with a fixed seed
type Kit struct {
	Joint categorical.JointTable
	Means categorical.MeanTable
	Seed  int64
}

// New creates a kit around the canonical study configuration
func New() *Kit {
	return &Kit{
		Joint: categorical.DefaultJoint(),
		Means: categorical.DefaultMeans(),
		Seed:  42,
	}
}

// Generator builds a sampler over the kit's tables
func (k *Kit) Generator() (*sampler.Generator, error) {
	return sampler.New(k.Joint, k.Means)
}

// Dataset draws n records with the kit's seed. Same kit, same output.
func (k *Kit) Dataset(n int, spread float64) (*sampler.Dataset, error) {
	gen, err := k.Generator()
	if err != nil {
		return nil, err
	}
	return gen.Generate(sampler.Config{Records: n, Spread: spread, Seed: k.Seed})
}

// ExactDataset builds a dataset with perPair records in every (S, D) group
// and outcomes alternating mu+delta, mu-delta. With an even perPair the
// group means equal the mean table exactly, so aggregate assertions can use
// exact equality instead of tolerances.
func (k *Kit) ExactDataset(perPair int, delta float64) *sampler.Dataset {
	records := make([]sampler.Record, 0, perPair*len(categorical.AllPairs()))
	for _, pair := range categorical.AllPairs() {
		mu := k.Means.Mu(pair)
		for i := 0; i < perPair; i++ {
			offset := delta
			if i%2 == 1 {
				offset = -delta
			}
			records = append(records, sampler.Record{S: pair.S, D: pair.D, Y: mu + offset})
		}
	}
	return &sampler.Dataset{Records: records}
}
