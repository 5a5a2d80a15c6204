package testkit

import (
	"testing"

	"covsim/domain/categorical"
)

func TestDatasetReproducible(t *testing.T) {
	first, err := New().Dataset(500, 2.0)
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}
	second, err := New().Dataset(500, 2.0)
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}

	if !first.Fingerprint().Equals(second.Fingerprint()) {
		t.Fatal("two kits with the same seed must draw the same dataset")
	}
}

func TestExactDatasetShape(t *testing.T) {
	ds := New().ExactDataset(4, 0.5)

	if ds.N() != 24 {
		t.Fatalf("expected 6*4 records, got %d", ds.N())
	}

	counts := make(map[categorical.Pair]int)
	sums := make(map[categorical.Pair]float64)
	for _, rec := range ds.Records {
		counts[rec.Pair()]++
		sums[rec.Pair()] += rec.Y
	}

	means := categorical.DefaultMeans()
	for _, pair := range categorical.AllPairs() {
		if counts[pair] != 4 {
			t.Errorf("pair %s: expected 4 records, got %d", pair, counts[pair])
		}
		if got := sums[pair] / 4; got != means.Mu(pair) {
			t.Errorf("pair %s: offsets must cancel, expected mean %v, got %v",
				pair, means.Mu(pair), got)
		}
	}
}
