// Package report renders study and sweep results as plain text. Section
// order is fixed: theoretical values first, then the empirical estimates,
// the regression summary, and the convergence checks.
package report

import (
	"fmt"
	"io"

	"covsim/app"
	"covsim/domain/categorical"
)

// printer wraps a writer and latches the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Render writes the full study report
func Render(w io.Writer, result *app.StudyResult) error {
	p := &printer{w: w}

	p.printf("📊 STUDY REPORT\n")
	p.printf("Study: %s\n", result.StudyID.String())
	p.printf("Created: %s\n", result.CreatedAt.String())
	p.printf("Records: %d\n", result.Records)
	p.printf("Spread: %.4g\n", result.Spread)
	p.printf("Seed: %d\n", result.Seed)
	p.printf("Fingerprint: %s\n", result.Fingerprint.Short())
	p.printf("Runtime: %dms\n", result.RuntimeMs)

	renderTheory(p, result)
	renderEmpirical(p, result)
	renderRegression(p, result)
	renderDiagnostics(p, result)

	return p.err
}

func renderTheory(p *printer, result *app.StudyResult) {
	theo := result.Theory

	p.printf("\n🎯 THEORETICAL VALUES\n")
	p.printf("Marginal P(S):\n")
	for _, s := range categorical.SLevels() {
		p.printf("  P(S=%d) = %.4f\n", int(s), theo.PS[s])
	}

	p.printf("Conditional P(D|S):\n")
	for _, s := range categorical.SLevels() {
		for _, d := range categorical.DLevels() {
			pair := categorical.Pair{S: s, D: d}
			p.printf("  P(D=%d|S=%d) = %.4f\n", int(d), int(s), theo.PDGivenS[pair])
		}
	}

	p.printf("Conditional mean table E[Y|S,D] (as supplied):\n")
	for _, pair := range categorical.AllPairs() {
		p.printf("  %s -> %.4f\n", pair, result.Means.Mu(pair))
	}

	p.printf("Overall E[Y] = %.4f\n", theo.EY)
	p.printf("Conditional E[Y|S]:\n")
	for _, s := range categorical.SLevels() {
		p.printf("  E[Y|S=%d] = %.4f\n", int(s), theo.EYGivenS[s])
	}
}

func renderEmpirical(p *printer, result *app.StudyResult) {
	emp := result.Empirical

	p.printf("\n📈 EMPIRICAL ESTIMATES (n=%d)\n", emp.N)
	p.printf("Marginal P(S):\n")
	for _, s := range categorical.SLevels() {
		p.printf("  P(S=%d) = %.4f\n", int(s), emp.FreqS[s])
	}
	p.printf("Marginal P(D):\n")
	for _, d := range categorical.DLevels() {
		p.printf("  P(D=%d) = %.4f\n", int(d), emp.FreqD[d])
	}

	p.printf("Group means E[Y|S,D]:\n")
	for _, pair := range categorical.AllPairs() {
		// an empty group prints its NaN rather than hiding the row
		p.printf("  %s: mean=%.4f count=%d\n", pair, emp.GroupMeans[pair], emp.GroupCounts[pair])
	}

	p.printf("Overall mean(Y) = %.4f\n", emp.MeanY)
}

func renderRegression(p *printer, result *app.StudyResult) {
	p.printf("\n📉 REGRESSION y ~ d + s2 + s3\n")
	if result.Regression == nil {
		p.printf("Regression skipped: %s\n", result.RegressionNote)
		return
	}

	reg := result.Regression
	p.printf("%-12s %12s %12s %12s %12s\n", "Term", "Estimate", "Std Err", "t stat", "p value")
	for _, c := range reg.Coefficients {
		p.printf("%-12s %12.4f %12.4f %12.4f %12.4f\n", c.Name, c.Estimate, c.StdErr, c.TStat, c.PValue)
	}
	p.printf("n=%d  df=%d  R-squared=%.4f  adj=%.4f\n", reg.N, reg.DF, reg.RSquared, reg.AdjRSquared)
	p.printf("F=%.2f (p=%.4f)  residual SE=%.4f\n", reg.FStat, reg.FPValue, reg.ResidualSE)
}

func renderDiagnostics(p *printer, result *app.StudyResult) {
	diag := result.Diagnostics
	if diag == nil {
		return
	}

	p.printf("\n🧪 CONVERGENCE CHECKS\n")
	passed := 0
	for _, c := range diag.Checks {
		mark := "❌"
		if c.Pass {
			mark = "✅"
			passed++
		}
		p.printf("%s %-16s theory=%.4f empirical=%.4f |err|=%.4f tol=%.4f\n",
			mark, c.Name, c.Theoretical, c.Empirical, c.AbsErr, c.Tolerance)
	}
	p.printf("Chi-square GOF: stat=%.3f df=%d p=%.4f\n",
		diag.ChiSquare.Statistic, diag.ChiSquare.DF, diag.ChiSquare.PValue)
	if diag.DContrast != nil {
		c := diag.DContrast
		p.printf("D contrast E[Y|D=1]-E[Y|D=0]: theory=%.4f observed=%.4f (t=%.3f, p=%.4f, d=%.3f)\n",
			c.Theoretical, c.Observed, c.TStat, c.PValue, c.EffectSize)
	}

	if diag.Passed {
		p.printf("✅ ALL CHECKS PASSED (%d/%d)\n", passed, len(diag.Checks))
	} else {
		p.printf("❌ CHECKS FAILED (%d/%d passed)\n", passed, len(diag.Checks))
	}
}

// RenderSweep writes the per-n error table of a convergence sweep
func RenderSweep(w io.Writer, result *app.ConvergenceResult) error {
	p := &printer{w: w}

	p.printf("🔁 CONVERGENCE SWEEP\n")
	p.printf("Sweep: %s\n", result.SweepID.String())
	p.printf("Runtime: %dms\n", result.RuntimeMs)
	p.printf("\n%8s %6s %12s %12s %12s %12s\n",
		"n", "reps", "marg mean", "marg max", "group mean", "group max")
	for _, point := range result.Points {
		p.printf("%8d %6d %12.5f %12.5f %12.5f %12.5f\n",
			point.Records, point.Replications,
			point.MeanMarginalErr, point.MaxMarginalErr,
			point.MeanGroupMeanErr, point.MaxGroupMeanErr)
	}

	return p.err
}
