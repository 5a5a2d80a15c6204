package app

import (
	"context"
	"fmt"
	"time"

	"covsim/domain/categorical"
	"covsim/domain/core"
	"covsim/domain/theory"
	"covsim/internal/diagnostics"
	"covsim/internal/empirical"
	"covsim/internal/regress"
	"covsim/internal/sampler"
	"covsim/ports"
)

// StudyService runs the simulate-then-verify pipeline for one study
type StudyService struct {
	rngPort ports.RNGPort
}

// StudyRequest defines the inputs for a deterministic study run.
// Zero-value tables and parameters fall back to the canonical configuration.
type StudyRequest struct {
	Joint   categorical.JointTable
	Means   categorical.MeanTable
	Records int
	Spread  float64
	Seed    int64
	StudyID core.StudyID // optional, will be generated if empty
}

// StudyResult contains the complete output of one study. The resolved
// tables ride along so renderers can echo the exact configuration used.
type StudyResult struct {
	StudyID        core.StudyID           `json:"study_id"`
	CreatedAt      core.Timestamp         `json:"created_at"`
	Records        int                    `json:"records"`
	Spread         float64                `json:"spread"`
	Seed           int64                  `json:"seed"`
	Joint          categorical.JointTable `json:"-"`
	Means          categorical.MeanTable  `json:"-"`
	Fingerprint    core.DatasetHash       `json:"fingerprint"`
	Theory         *theory.Summary        `json:"theory"`
	Empirical      *empirical.Summary     `json:"empirical"`
	Regression     *regress.Summary       `json:"regression,omitempty"`
	RegressionNote string                 `json:"regression_note,omitempty"`
	Diagnostics    *diagnostics.Report    `json:"diagnostics"`
	RuntimeMs      int64                  `json:"runtime_ms"`
	Success        bool                   `json:"success"`
}

// NewStudyService creates a study service
func NewStudyService(rngPort ports.RNGPort) *StudyService {
	return &StudyService{rngPort: rngPort}
}

// RunStudy executes the full pipeline in fixed order: derive theory,
// generate the sample, summarize, regress, then run the convergence checks.
// A failed regression fit is recorded, not fatal; everything else is.
func (s *StudyService) RunStudy(ctx context.Context, req StudyRequest) (*StudyResult, error) {
	startTime := time.Now()

	studyID := req.StudyID
	if studyID == "" {
		studyID = core.NewStudyID()
	}

	joint := req.Joint
	if joint.IsZero() {
		joint = categorical.DefaultJoint()
	}
	means := req.Means
	if means.IsZero() {
		means = categorical.DefaultMeans()
	}

	cfg := sampler.DefaultConfig()
	if req.Records != 0 {
		cfg.Records = req.Records
	}
	if req.Spread != 0 {
		cfg.Spread = req.Spread
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	theo, err := theory.Derive(joint, means)
	if err != nil {
		return nil, fmt.Errorf("theory derivation failed: %w", err)
	}

	gen, err := sampler.New(joint, means)
	if err != nil {
		return nil, fmt.Errorf("sampler construction failed: %w", err)
	}

	rng, err := s.rngPort.SeededStream(ctx, "study", cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("rng stream creation failed: %w", err)
	}

	ds, err := gen.GenerateStream(rng, cfg.Records, cfg.Spread)
	if err != nil {
		return nil, fmt.Errorf("sample generation failed: %w", err)
	}

	emp, err := empirical.Summarize(ds)
	if err != nil {
		return nil, fmt.Errorf("empirical summary failed: %w", err)
	}

	var regNote string
	reg, regErr := regress.FitYOnDS(ds)
	if regErr != nil {
		reg = nil
		regNote = regErr.Error()
	}

	diag := diagnostics.Compare(theo, emp, joint, means, cfg.Spread)

	return &StudyResult{
		StudyID:        studyID,
		CreatedAt:      core.Now(),
		Records:        cfg.Records,
		Spread:         cfg.Spread,
		Seed:           cfg.Seed,
		Joint:          joint,
		Means:          means,
		Fingerprint:    ds.Fingerprint(),
		Theory:         theo,
		Empirical:      emp,
		Regression:     reg,
		RegressionNote: regNote,
		Diagnostics:    diag,
		RuntimeMs:      time.Since(startTime).Milliseconds(),
		Success:        true,
	}, nil
}
