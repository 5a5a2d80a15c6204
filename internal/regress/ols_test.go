package regress

import (
	"math"
	"math/rand"
	"testing"

	"covsim/domain/categorical"
	"covsim/internal/sampler"
)

// additiveDataset builds records whose outcome follows an exactly additive
// model plus tiny noise, so the fit should recover the coefficients.
func additiveDataset(t *testing.T, b0, bD, bS2, bS3 float64) *sampler.Dataset {
	t.Helper()
	rng := rand.New(rand.NewSource(1))

	var records []sampler.Record
	for _, pair := range categorical.AllPairs() {
		for i := 0; i < 10; i++ {
			y := b0 + bD*float64(pair.D)
			if pair.S == categorical.S2 {
				y += bS2
			}
			if pair.S == categorical.S3 {
				y += bS3
			}
			y += rng.NormFloat64() * 0.01
			records = append(records, sampler.Record{S: pair.S, D: pair.D, Y: y})
		}
	}
	return &sampler.Dataset{Records: records}
}

// TestFitRecoversAdditiveModel tests coefficient recovery on a known model
func TestFitRecoversAdditiveModel(t *testing.T) {
	ds := additiveDataset(t, 2.0, 3.0, 1.0, 4.0)

	summary, err := FitYOnDS(ds)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	want := map[string]float64{
		"(intercept)": 2.0,
		"d":           3.0,
		"s2":          1.0,
		"s3":          4.0,
	}
	for _, coef := range summary.Coefficients {
		if math.Abs(coef.Estimate-want[coef.Name]) > 0.05 {
			t.Errorf("%s: expected %v within 0.05, got %v", coef.Name, want[coef.Name], coef.Estimate)
		}
	}
	if summary.RSquared < 0.99 {
		t.Errorf("expected near-perfect fit, got R^2 = %v", summary.RSquared)
	}
}

// TestFitSummaryShape tests the derived statistics on generated data
func TestFitSummaryShape(t *testing.T) {
	gen, err := sampler.New(categorical.DefaultJoint(), categorical.DefaultMeans())
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	ds, err := gen.Generate(sampler.Config{Records: 5000, Spread: 2.0, Seed: 42})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	summary, err := FitYOnDS(ds)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	if len(summary.Coefficients) != 4 {
		t.Fatalf("expected 4 coefficients, got %d", len(summary.Coefficients))
	}
	if summary.N != 5000 || summary.DF != 4996 {
		t.Errorf("unexpected dimensions: n=%d df=%d", summary.N, summary.DF)
	}
	for _, coef := range summary.Coefficients {
		if coef.PValue < 0 || coef.PValue > 1 {
			t.Errorf("%s: p-value outside [0, 1]: %v", coef.Name, coef.PValue)
		}
		if coef.StdErr <= 0 {
			t.Errorf("%s: non-positive standard error %v", coef.Name, coef.StdErr)
		}
	}
	if summary.RSquared <= 0 || summary.RSquared >= 1 {
		t.Errorf("R^2 outside (0, 1): %v", summary.RSquared)
	}
	if summary.AdjRSquared > summary.RSquared {
		t.Errorf("adjusted R^2 %v exceeds R^2 %v", summary.AdjRSquared, summary.RSquared)
	}
	if summary.ResidualSE <= 0 {
		t.Errorf("non-positive residual standard error %v", summary.ResidualSE)
	}
	// The group means differ by several spreads, so the overall test must
	// reject decisively at n=5000.
	if summary.FPValue > 0.01 {
		t.Errorf("expected overall F test to reject, got p=%v", summary.FPValue)
	}
}

// TestFitRejectsTooFewObservations tests the degrees-of-freedom guard
func TestFitRejectsTooFewObservations(t *testing.T) {
	ds := &sampler.Dataset{Records: []sampler.Record{
		{S: categorical.S1, D: categorical.D0, Y: 1},
		{S: categorical.S2, D: categorical.D1, Y: 2},
		{S: categorical.S3, D: categorical.D0, Y: 3},
	}}
	if _, err := FitYOnDS(ds); err == nil {
		t.Error("expected error for n <= number of terms, got none")
	}
}

// TestFitRejectsSingularDesign tests the missing-level guard
func TestFitRejectsSingularDesign(t *testing.T) {
	// Every record in one cell: the D and S dummy columns are all zero.
	var records []sampler.Record
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 12; i++ {
		records = append(records, sampler.Record{
			S: categorical.S1,
			D: categorical.D0,
			Y: rng.NormFloat64(),
		})
	}
	if _, err := FitYOnDS(&sampler.Dataset{Records: records}); err == nil {
		t.Error("expected error for singular design matrix, got none")
	}
}
