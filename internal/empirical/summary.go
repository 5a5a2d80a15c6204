// Package empirical aggregates a sampled dataset into the same statistics
// the theory engine derives analytically, for side-by-side comparison.
package empirical

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"covsim/domain/categorical"
	"covsim/internal/sampler"
)

// Summary holds the empirical counterparts of the theoretical quantities.
// Pure aggregation: deterministic given the dataset, no hidden state.
type Summary struct {
	N int `json:"n"`

	// FreqS and FreqD are the observed marginal frequencies per level.
	FreqS map[categorical.SLevel]float64 `json:"freq_s"`
	FreqD map[categorical.DLevel]float64 `json:"freq_d"`

	// GroupMeans is the mean of Y per (S, D) pair. A pair with zero
	// observations reports NaN; that is expected at small n, not an error.
	GroupMeans  map[categorical.Pair]float64 `json:"group_means"`
	GroupCounts map[categorical.Pair]int     `json:"group_counts"`

	// Per-D outcome statistics, used by the D-contrast diagnostic.
	// Fewer than two observations in a D group report NaN variance.
	CountD map[categorical.DLevel]int     `json:"count_d"`
	MeanYD map[categorical.DLevel]float64 `json:"mean_y_d"`
	VarYD  map[categorical.DLevel]float64 `json:"var_y_d"`

	// MeanY is the overall mean of Y.
	MeanY float64 `json:"mean_y"`
}

// Summarize aggregates one dataset
func Summarize(ds *sampler.Dataset) (*Summary, error) {
	if ds == nil || ds.N() == 0 {
		return nil, fmt.Errorf("dataset must contain at least one record")
	}

	n := float64(ds.N())

	sCounts := make(map[categorical.SLevel]int, len(categorical.SLevels()))
	dCounts := make(map[categorical.DLevel]int, len(categorical.DLevels()))
	dValues := make(map[categorical.DLevel][]float64, len(categorical.DLevels()))
	groupValues := make(map[categorical.Pair][]float64, len(categorical.AllPairs()))
	for _, rec := range ds.Records {
		sCounts[rec.S]++
		dCounts[rec.D]++
		dValues[rec.D] = append(dValues[rec.D], rec.Y)
		pair := rec.Pair()
		groupValues[pair] = append(groupValues[pair], rec.Y)
	}

	freqS := make(map[categorical.SLevel]float64, len(categorical.SLevels()))
	for _, s := range categorical.SLevels() {
		freqS[s] = float64(sCounts[s]) / n
	}
	freqD := make(map[categorical.DLevel]float64, len(categorical.DLevels()))
	for _, d := range categorical.DLevels() {
		freqD[d] = float64(dCounts[d]) / n
	}

	groupMeans := make(map[categorical.Pair]float64, len(categorical.AllPairs()))
	groupCounts := make(map[categorical.Pair]int, len(categorical.AllPairs()))
	for _, pair := range categorical.AllPairs() {
		groupCounts[pair] = len(groupValues[pair])
		mean, err := stats.Mean(groupValues[pair])
		if err != nil {
			// Empty group: undefined mean, reported as NaN.
			mean = math.NaN()
		}
		groupMeans[pair] = mean
	}

	countD := make(map[categorical.DLevel]int, len(categorical.DLevels()))
	meanYD := make(map[categorical.DLevel]float64, len(categorical.DLevels()))
	varYD := make(map[categorical.DLevel]float64, len(categorical.DLevels()))
	for _, d := range categorical.DLevels() {
		countD[d] = dCounts[d]
		mean, err := stats.Mean(dValues[d])
		if err != nil {
			mean = math.NaN()
		}
		meanYD[d] = mean
		variance, err := stats.SampleVariance(dValues[d])
		if err != nil || dCounts[d] < 2 {
			variance = math.NaN()
		}
		varYD[d] = variance
	}

	meanY, err := stats.Mean(ds.YValues())
	if err != nil {
		return nil, fmt.Errorf("overall mean: %w", err)
	}

	return &Summary{
		N:           ds.N(),
		FreqS:       freqS,
		FreqD:       freqD,
		GroupMeans:  groupMeans,
		GroupCounts: groupCounts,
		CountD:      countD,
		MeanYD:      meanYD,
		VarYD:       varYD,
		MeanY:       meanY,
	}, nil
}
