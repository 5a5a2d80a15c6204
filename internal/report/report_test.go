package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"covsim/adapters/rng"
	"covsim/app"
)

func renderedStudy(t *testing.T, records int) string {
	t.Helper()

	svc := app.NewStudyService(rng.New())
	result, err := svc.RunStudy(context.Background(), app.StudyRequest{Records: records, Seed: 42})
	if err != nil {
		t.Fatalf("RunStudy failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, result); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestRenderSectionOrder(t *testing.T) {
	out := renderedStudy(t, 2000)

	sections := []string{
		"STUDY REPORT",
		"THEORETICAL VALUES",
		"Marginal P(S):",
		"Conditional P(D|S):",
		"Conditional mean table E[Y|S,D]",
		"Overall E[Y]",
		"Conditional E[Y|S]:",
		"EMPIRICAL ESTIMATES",
		"Marginal P(D):",
		"Group means E[Y|S,D]:",
		"Overall mean(Y)",
		"REGRESSION y ~ d + s2 + s3",
		"CONVERGENCE CHECKS",
	}

	last := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("report is missing section %q\n%s", section, out)
		}
		if idx <= last {
			t.Fatalf("section %q appears out of order", section)
		}
		last = idx
	}
}

func TestRenderTheoreticalValues(t *testing.T) {
	out := renderedStudy(t, 2000)

	for _, want := range []string{
		"P(S=1) = 0.4400",
		"P(S=2) = 0.2400",
		"P(S=3) = 0.3200",
		"P(D=1|S=1) = 0.1818",
		"(S=1, D=1) -> 0.0000",
		"Overall E[Y] = 6.9600",
		"E[Y|S=1] = 3.2727",
		"E[Y|S=2] = 8.0000",
		"E[Y|S=3] = 11.2500",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report is missing %q", want)
		}
	}
}

func TestRenderRegressionTable(t *testing.T) {
	out := renderedStudy(t, 2000)

	for _, want := range []string{"(intercept)", "Term", "Std Err", "R-squared="} {
		if !strings.Contains(out, want) {
			t.Errorf("regression section is missing %q", want)
		}
	}
}

func TestRenderTinySampleSkipsRegressionAndPrintsNaN(t *testing.T) {
	// three records leave empty groups and too few observations to fit
	out := renderedStudy(t, 3)

	if !strings.Contains(out, "Regression skipped:") {
		t.Fatalf("expected regression skip notice\n%s", out)
	}
	if !strings.Contains(out, "mean=NaN") {
		t.Fatalf("empty groups must print NaN\n%s", out)
	}
}

func TestRenderSweep(t *testing.T) {
	svc := app.NewConvergenceService(rng.New(), nil)
	result, err := svc.RunSweep(context.Background(), app.ConvergenceRequest{
		Grid:         []int{200, 800},
		Replications: 2,
		BaseSeed:     7,
	})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}

	var buf bytes.Buffer
	if err := RenderSweep(&buf, result); err != nil {
		t.Fatalf("RenderSweep failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"CONVERGENCE SWEEP", "marg mean", "group max", "     200", "     800"} {
		if !strings.Contains(out, want) {
			t.Errorf("sweep table is missing %q\n%s", want, out)
		}
	}
}
