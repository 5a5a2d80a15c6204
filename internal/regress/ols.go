// Package regress fits the ordinary least squares summary of Y on the two
// covariates that closes out the study report.
package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"covsim/internal/sampler"
)

// Coefficient is one fitted regression term
type Coefficient struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	TStat    float64 `json:"t_stat"`
	PValue   float64 `json:"p_value"`
}

// Summary is the fitted linear model Y ~ intercept + D + S2 + S3,
// with S=1 as the baseline level.
type Summary struct {
	Coefficients []Coefficient `json:"coefficients"`
	N            int           `json:"n"`
	DF           int           `json:"df"` // residual degrees of freedom
	RSquared     float64       `json:"r_squared"`
	AdjRSquared  float64       `json:"adj_r_squared"`
	ResidualSE   float64       `json:"residual_se"`
	FStat        float64       `json:"f_stat"`
	FPValue      float64       `json:"f_p_value"`
}

// FitYOnDS regresses the outcome on D and the S dummies by normal
// equations. Returns an error when the design matrix is singular (a level
// absent from the sample leaves a zero column) or there are too few
// observations; callers report the regression as skipped in that case.
func FitYOnDS(ds *sampler.Dataset) (*Summary, error) {
	if ds == nil || ds.N() == 0 {
		return nil, fmt.Errorf("dataset must contain at least one record")
	}

	names := []string{"(intercept)", "d", "s2", "s3"}
	n := ds.N()
	k := len(names)
	if n <= k {
		return nil, fmt.Errorf("need at least %d observations to fit %d terms, got %d", k+1, k, n)
	}

	y := ds.YValues()
	dvals := ds.DValues()
	s2, s3 := ds.SDummies()

	X := mat.NewDense(n, k, nil)
	Y := mat.NewVecDense(n, y)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1.0)
		X.Set(i, 1, dvals[i])
		X.Set(i, 2, s2[i])
		X.Set(i, 3, s3[i])
	}

	var xtx mat.Dense
	xtx.Mul(X.T(), X)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("design matrix is singular (a covariate level may be absent from the sample): %v", err)
	}

	var xty mat.VecDense
	xty.MulVec(X.T(), Y)
	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	var fitted mat.VecDense
	fitted.MulVec(X, &beta)

	meanY := stat.Mean(y, nil)
	rss, tss := 0.0, 0.0
	for i := 0; i < n; i++ {
		res := y[i] - fitted.AtVec(i)
		rss += res * res
		dev := y[i] - meanY
		tss += dev * dev
	}
	if tss == 0 {
		return nil, fmt.Errorf("outcome has zero variance; nothing to fit")
	}

	df := n - k
	sigma2 := rss / float64(df)
	rsq := 1.0 - rss/tss
	adj := 1.0 - (1.0-rsq)*float64(n-1)/float64(df)

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	coefs := make([]Coefficient, k)
	for j := 0; j < k; j++ {
		est := beta.AtVec(j)
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		tStat := est / se
		pVal := clampP(2.0 * (1.0 - tDist.CDF(math.Abs(tStat))))
		coefs[j] = Coefficient{
			Name:     names[j],
			Estimate: est,
			StdErr:   se,
			TStat:    tStat,
			PValue:   pVal,
		}
	}

	// Overall F test against the intercept-only model
	fStat := ((tss - rss) / float64(k-1)) / (rss / float64(df))
	fDist := distuv.F{D1: float64(k - 1), D2: float64(df)}
	fP := clampP(1.0 - fDist.CDF(fStat))

	return &Summary{
		Coefficients: coefs,
		N:            n,
		DF:           df,
		RSquared:     rsq,
		AdjRSquared:  adj,
		ResidualSE:   math.Sqrt(sigma2),
		FStat:        fStat,
		FPValue:      fP,
	}, nil
}

// clampP keeps p-values inside [0, 1] against floating-point drift
func clampP(p float64) float64 {
	if math.IsNaN(p) {
		return 1.0
	}
	if p < 0.0 {
		return 0.0
	}
	if p > 1.0 {
		return 1.0
	}
	return p
}
