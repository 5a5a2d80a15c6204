// Package diagnostics compares the empirical summary against the
// theoretical values: the verification half of the study.
package diagnostics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"covsim/domain/categorical"
	"covsim/domain/theory"
	"covsim/internal/empirical"
)

// Check is one theoretical-vs-empirical comparison
type Check struct {
	Name        string  `json:"name"`
	Theoretical float64 `json:"theoretical"`
	Empirical   float64 `json:"empirical"`
	AbsErr      float64 `json:"abs_err"`
	Tolerance   float64 `json:"tolerance"`
	Pass        bool    `json:"pass"`
}

// GoodnessOfFit is the chi-square test of observed pair counts against the
// joint distribution
type GoodnessOfFit struct {
	Statistic float64 `json:"statistic"`
	DF        int     `json:"df"`
	PValue    float64 `json:"p_value"`
}

// Report collects every convergence check for one study. Tolerances scale
// with 1/sqrt(n), so larger samples face strictly tighter checks. The
// chi-square and contrast sections are informational; Passed covers the
// tolerance checks only.
type Report struct {
	Checks    []Check       `json:"checks"`
	ChiSquare GoodnessOfFit `json:"chi_square"`
	DContrast *DContrast    `json:"d_contrast,omitempty"`
	Passed    bool          `json:"passed"`
}

// Compare builds the convergence report for one study. Group-mean checks
// are emitted only for pairs with at least one observation; an empty group
// has nothing to compare (its NaN still appears in the empirical summary).
func Compare(theo *theory.Summary, emp *empirical.Summary, joint categorical.JointTable, means categorical.MeanTable, spread float64) *Report {
	n := float64(emp.N)
	var checks []Check

	for _, s := range categorical.SLevels() {
		p := theo.PS[s]
		checks = append(checks, newCheck(
			fmt.Sprintf("P(S=%d)", int(s)),
			p,
			emp.FreqS[s],
			proportionTolerance(p, n),
		))
	}

	for _, d := range categorical.DLevels() {
		p := 0.0
		for _, s := range categorical.SLevels() {
			p += joint.P(categorical.Pair{S: s, D: d})
		}
		checks = append(checks, newCheck(
			fmt.Sprintf("P(D=%d)", int(d)),
			p,
			emp.FreqD[d],
			proportionTolerance(p, n),
		))
	}

	for _, pair := range categorical.AllPairs() {
		count := emp.GroupCounts[pair]
		if count == 0 {
			continue
		}
		checks = append(checks, newCheck(
			fmt.Sprintf("E[Y|%s]", pair),
			means.Mu(pair),
			emp.GroupMeans[pair],
			4.0*spread/math.Sqrt(float64(count)),
		))
	}

	checks = append(checks, newCheck(
		"mean(Y)",
		theo.EY,
		emp.MeanY,
		4.0*outcomeSD(joint, means, spread)/math.Sqrt(n),
	))

	passed := true
	for _, c := range checks {
		if !c.Pass {
			passed = false
			break
		}
	}

	// too few observations per D group is the only way this fails with
	// valid tables, so a missing contrast is not an error
	contrast, _ := ContrastD(joint, means, emp)

	return &Report{
		Checks:    checks,
		ChiSquare: goodnessOfFit(emp, joint),
		DContrast: contrast,
		Passed:    passed,
	}
}

func newCheck(name string, theoretical, observed, tolerance float64) Check {
	absErr := math.Abs(observed - theoretical)
	return Check{
		Name:        name,
		Theoretical: theoretical,
		Empirical:   observed,
		AbsErr:      absErr,
		Tolerance:   tolerance,
		Pass:        absErr <= tolerance,
	}
}

// proportionTolerance is four standard errors of a binomial proportion
func proportionTolerance(p, n float64) float64 {
	return 4.0 * math.Sqrt(p*(1.0-p)/n)
}

// outcomeSD applies the law of total variance: the spread within groups
// plus the variance of the group means across the joint distribution.
func outcomeSD(joint categorical.JointTable, means categorical.MeanTable, spread float64) float64 {
	ey, ey2 := 0.0, 0.0
	for _, pair := range categorical.AllPairs() {
		mu := means.Mu(pair)
		ey += joint.P(pair) * mu
		ey2 += joint.P(pair) * mu * mu
	}
	return math.Sqrt(spread*spread + (ey2 - ey*ey))
}

// goodnessOfFit computes the chi-square statistic over pairs with
// positive expected counts
func goodnessOfFit(emp *empirical.Summary, joint categorical.JointTable) GoodnessOfFit {
	n := float64(emp.N)
	chiSq := 0.0
	cells := 0
	for _, pair := range categorical.AllPairs() {
		expected := n * joint.P(pair)
		if expected == 0 {
			continue
		}
		observed := float64(emp.GroupCounts[pair])
		chiSq += (observed - expected) * (observed - expected) / expected
		cells++
	}

	df := cells - 1
	if df <= 0 {
		return GoodnessOfFit{Statistic: chiSq, DF: df, PValue: 1.0}
	}

	pValue := 1.0 - distuv.ChiSquared{K: float64(df)}.CDF(chiSq)
	if pValue < 0 {
		pValue = 0
	}
	return GoodnessOfFit{Statistic: chiSq, DF: df, PValue: pValue}
}
