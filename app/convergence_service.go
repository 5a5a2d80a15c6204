package app

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"covsim/domain/categorical"
	"covsim/domain/core"
	"covsim/domain/theory"
	"covsim/internal"
	"covsim/internal/empirical"
	"covsim/internal/sampler"
	"covsim/ports"
)

// ConvergenceService replicates studies across a grid of sample sizes to
// show the estimation error shrinking as n grows. Replications run
// concurrently; each (n, replication) job draws from its own derived
// stream, so the sweep result is independent of scheduling order.
type ConvergenceService struct {
	rngPort ports.RNGPort
	logger  *internal.Logger
}

// ConvergenceRequest defines the sweep. Zero-value fields fall back to the
// canonical sweep configuration.
type ConvergenceRequest struct {
	Joint        categorical.JointTable
	Means        categorical.MeanTable
	Grid         []int // sample sizes, one grid point each
	Replications int
	Spread       float64
	BaseSeed     int64
	MaxParallel  int64
	SweepID      core.StudyID // optional, will be generated if empty
}

// GridPoint aggregates replication errors at one sample size
type GridPoint struct {
	Records          int     `json:"records"`
	Replications     int     `json:"replications"`
	MeanMarginalErr  float64 `json:"mean_marginal_err"`
	MaxMarginalErr   float64 `json:"max_marginal_err"`
	MeanGroupMeanErr float64 `json:"mean_group_mean_err"`
	MaxGroupMeanErr  float64 `json:"max_group_mean_err"`
}

// ConvergenceResult contains the complete output of a sweep
type ConvergenceResult struct {
	SweepID   core.StudyID `json:"sweep_id"`
	Points    []GridPoint  `json:"points"`
	RuntimeMs int64        `json:"runtime_ms"`
	Success   bool         `json:"success"`
}

// replicationError holds the two error metrics of a single replication
type replicationError struct {
	marginal float64
	group    float64
}

// NewConvergenceService creates a convergence sweep service
func NewConvergenceService(rngPort ports.RNGPort, logger *internal.Logger) *ConvergenceService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ConvergenceService{rngPort: rngPort, logger: logger}
}

// RunSweep executes every (n, replication) job under a weighted semaphore
// and aggregates the per-replication errors into one row per grid point
func (s *ConvergenceService) RunSweep(ctx context.Context, req ConvergenceRequest) (*ConvergenceResult, error) {
	startTime := time.Now()

	sweepID := req.SweepID
	if sweepID == "" {
		sweepID = core.NewStudyID()
	}

	joint := req.Joint
	if joint.IsZero() {
		joint = categorical.DefaultJoint()
	}
	means := req.Means
	if means.IsZero() {
		means = categorical.DefaultMeans()
	}

	grid := req.Grid
	if len(grid) == 0 {
		grid = []int{500, 2000, 10000, 50000}
	}
	reps := req.Replications
	if reps <= 0 {
		reps = 3
	}
	defaults := sampler.DefaultConfig()
	spread := req.Spread
	if spread == 0 {
		spread = defaults.Spread
	}
	baseSeed := req.BaseSeed
	if baseSeed == 0 {
		baseSeed = defaults.Seed
	}
	maxParallel := req.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 4
	}

	for _, n := range grid {
		if n <= 0 {
			return nil, fmt.Errorf("grid entry must be > 0, got %d", n)
		}
	}

	theo, err := theory.Derive(joint, means)
	if err != nil {
		return nil, fmt.Errorf("theory derivation failed: %w", err)
	}
	gen, err := sampler.New(joint, means)
	if err != nil {
		return nil, fmt.Errorf("sampler construction failed: %w", err)
	}

	s.logger.Info("convergence sweep %s: %d grid points, %d replications, max parallel %d",
		sweepID.String(), len(grid), reps, maxParallel)

	sem := semaphore.NewWeighted(maxParallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	errsByPoint := make([][]replicationError, len(grid))
	for i := range errsByPoint {
		errsByPoint[i] = make([]replicationError, reps)
	}

	for gi, n := range grid {
		for rep := 0; rep < reps; rep++ {
			wg.Add(1)
			go func(gi, n, rep int) {
				defer wg.Done()

				if err := sem.Acquire(ctx, 1); err != nil {
					recordErr(&mu, &firstErr, fmt.Errorf("failed to acquire semaphore: %w", err))
					return
				}
				defer sem.Release(1)

				repErr, err := s.runReplication(ctx, gen, theo, joint, means, sweepID, n, rep, spread, baseSeed)
				if err != nil {
					recordErr(&mu, &firstErr, err)
					return
				}

				mu.Lock()
				errsByPoint[gi][rep] = repErr
				mu.Unlock()
			}(gi, n, rep)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	points := make([]GridPoint, len(grid))
	for gi, n := range grid {
		points[gi] = aggregate(n, errsByPoint[gi])
		s.logger.Debug("n=%d: max marginal err %.5f, max group-mean err %.5f",
			n, points[gi].MaxMarginalErr, points[gi].MaxGroupMeanErr)
	}

	runtimeMs := time.Since(startTime).Milliseconds()
	s.logger.Info("convergence sweep %s completed in %dms", sweepID.String(), runtimeMs)

	return &ConvergenceResult{
		SweepID:   sweepID,
		Points:    points,
		RuntimeMs: runtimeMs,
		Success:   true,
	}, nil
}

// runReplication draws one dataset from the job's derived stream and
// measures its worst marginal and group-mean deviation from theory
func (s *ConvergenceService) runReplication(ctx context.Context, gen *sampler.Generator, theo *theory.Summary, joint categorical.JointTable, means categorical.MeanTable, sweepID core.StudyID, n, rep int, spread float64, baseSeed int64) (replicationError, error) {
	key := fmt.Sprintf("n=%d/rep=%d", n, rep)
	rng, err := s.rngPort.Stream(ctx, sweepID.String(), "convergence", key, baseSeed)
	if err != nil {
		return replicationError{}, fmt.Errorf("rng stream for %s failed: %w", key, err)
	}

	ds, err := gen.GenerateStream(rng, n, spread)
	if err != nil {
		return replicationError{}, fmt.Errorf("generation for %s failed: %w", key, err)
	}
	emp, err := empirical.Summarize(ds)
	if err != nil {
		return replicationError{}, fmt.Errorf("summary for %s failed: %w", key, err)
	}

	marginal := 0.0
	for _, sl := range categorical.SLevels() {
		marginal = math.Max(marginal, math.Abs(emp.FreqS[sl]-theo.PS[sl]))
	}
	for _, d := range categorical.DLevels() {
		pd := 0.0
		for _, sl := range categorical.SLevels() {
			pd += joint.P(categorical.Pair{S: sl, D: d})
		}
		marginal = math.Max(marginal, math.Abs(emp.FreqD[d]-pd))
	}

	group := 0.0
	for _, pair := range categorical.AllPairs() {
		if emp.GroupCounts[pair] == 0 {
			continue
		}
		group = math.Max(group, math.Abs(emp.GroupMeans[pair]-means.Mu(pair)))
	}

	return replicationError{marginal: marginal, group: group}, nil
}

func aggregate(n int, errs []replicationError) GridPoint {
	point := GridPoint{Records: n, Replications: len(errs)}
	for _, e := range errs {
		point.MeanMarginalErr += e.marginal
		point.MeanGroupMeanErr += e.group
		point.MaxMarginalErr = math.Max(point.MaxMarginalErr, e.marginal)
		point.MaxGroupMeanErr = math.Max(point.MaxGroupMeanErr, e.group)
	}
	if len(errs) > 0 {
		point.MeanMarginalErr /= float64(len(errs))
		point.MeanGroupMeanErr /= float64(len(errs))
	}
	return point
}

func recordErr(mu *sync.Mutex, firstErr *error, err error) {
	mu.Lock()
	defer mu.Unlock()
	if *firstErr == nil {
		*firstErr = err
	}
}
