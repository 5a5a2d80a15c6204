package empirical

import (
	"math"
	"testing"

	"covsim/domain/categorical"
	"covsim/internal/sampler"
	"covsim/internal/testkit"
)

// TestSummarizeKnownDataset tests every aggregate on a hand-built dataset
func TestSummarizeKnownDataset(t *testing.T) {
	ds := &sampler.Dataset{Records: []sampler.Record{
		{S: categorical.S1, D: categorical.D0, Y: 4.0},
		{S: categorical.S1, D: categorical.D0, Y: 6.0},
		{S: categorical.S2, D: categorical.D1, Y: 10.0},
		{S: categorical.S3, D: categorical.D1, Y: 12.0},
	}}

	summary, err := Summarize(ds)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if summary.N != 4 {
		t.Errorf("expected N=4, got %d", summary.N)
	}
	if got := summary.FreqS[categorical.S1]; got != 0.5 {
		t.Errorf("freq(S=1): expected 0.5, got %v", got)
	}
	if got := summary.FreqS[categorical.S2]; got != 0.25 {
		t.Errorf("freq(S=2): expected 0.25, got %v", got)
	}
	if got := summary.FreqD[categorical.D1]; got != 0.5 {
		t.Errorf("freq(D=1): expected 0.5, got %v", got)
	}

	pair := categorical.Pair{S: categorical.S1, D: categorical.D0}
	if got := summary.GroupMeans[pair]; got != 5.0 {
		t.Errorf("group mean for %s: expected 5, got %v", pair, got)
	}
	if got := summary.GroupCounts[pair]; got != 2 {
		t.Errorf("group count for %s: expected 2, got %d", pair, got)
	}

	if got := summary.CountD[categorical.D0]; got != 2 {
		t.Errorf("count(D=0): expected 2, got %d", got)
	}
	if got := summary.MeanYD[categorical.D1]; got != 11.0 {
		t.Errorf("mean Y for D=1: expected 11, got %v", got)
	}
	if got := summary.VarYD[categorical.D0]; got != 2.0 {
		t.Errorf("sample variance for D=0: expected 2, got %v", got)
	}

	if got := summary.MeanY; got != 8.0 {
		t.Errorf("overall mean: expected 8, got %v", got)
	}
}

// TestSummarizeEmptyGroupIsNaN tests that unobserved pairs report NaN, not an error
func TestSummarizeEmptyGroupIsNaN(t *testing.T) {
	ds := &sampler.Dataset{Records: []sampler.Record{
		{S: categorical.S1, D: categorical.D0, Y: 1.0},
	}}

	summary, err := Summarize(ds)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	missing := categorical.Pair{S: categorical.S3, D: categorical.D1}
	if got := summary.GroupMeans[missing]; !math.IsNaN(got) {
		t.Errorf("expected NaN for empty group %s, got %v", missing, got)
	}
	if got := summary.GroupCounts[missing]; got != 0 {
		t.Errorf("expected count 0 for empty group %s, got %d", missing, got)
	}
	if got := summary.MeanYD[categorical.D1]; !math.IsNaN(got) {
		t.Errorf("expected NaN mean for unobserved D=1, got %v", got)
	}
	if got := summary.VarYD[categorical.D0]; !math.IsNaN(got) {
		t.Errorf("expected NaN variance for a single observation, got %v", got)
	}
}

// TestSummarizeExactDataset checks aggregates with exact equality on a
// balanced fixture whose group means are the mean table itself
func TestSummarizeExactDataset(t *testing.T) {
	kit := testkit.New()
	summary, err := Summarize(kit.ExactDataset(4, 0.5))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	for _, pair := range categorical.AllPairs() {
		if got := summary.GroupCounts[pair]; got != 4 {
			t.Errorf("count for %s: expected 4, got %d", pair, got)
		}
		if got := summary.GroupMeans[pair]; got != kit.Means.Mu(pair) {
			t.Errorf("mean for %s: expected %v, got %v", pair, kit.Means.Mu(pair), got)
		}
	}
	for _, s := range categorical.SLevels() {
		if got := summary.FreqS[s]; got != 1.0/3.0 {
			t.Errorf("freq(S=%d): expected 1/3, got %v", int(s), got)
		}
	}
	if got := summary.FreqD[categorical.D0]; got != 0.5 {
		t.Errorf("freq(D=0): expected 0.5, got %v", got)
	}
	if got := summary.MeanY; got != 7.0 {
		t.Errorf("overall mean of the balanced fixture: expected 7, got %v", got)
	}
}

// TestSummarizeRejectsEmptyDataset tests the input guard
func TestSummarizeRejectsEmptyDataset(t *testing.T) {
	if _, err := Summarize(nil); err == nil {
		t.Error("expected error for nil dataset, got none")
	}
	if _, err := Summarize(&sampler.Dataset{}); err == nil {
		t.Error("expected error for empty dataset, got none")
	}
}

// TestSummarizeDeterministic tests that aggregation has no hidden state
func TestSummarizeDeterministic(t *testing.T) {
	gen, err := sampler.New(categorical.DefaultJoint(), categorical.DefaultMeans())
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	ds, err := gen.Generate(sampler.Config{Records: 1000, Spread: 2.0, Seed: 42})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	first, err := Summarize(ds)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	second, err := Summarize(ds)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if first.MeanY != second.MeanY {
		t.Errorf("expected identical overall means, got %v vs %v", first.MeanY, second.MeanY)
	}
	for _, pair := range categorical.AllPairs() {
		if first.GroupCounts[pair] != second.GroupCounts[pair] {
			t.Errorf("group count changed between runs for %s", pair)
		}
	}
}
