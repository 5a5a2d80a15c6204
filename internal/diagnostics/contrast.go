package diagnostics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"covsim/domain/categorical"
	"covsim/internal/empirical"
)

// DContrast compares the observed E[Y|D=1] - E[Y|D=0] difference against
// its theoretical value with Welch's unequal-variance t statistic. Under a
// faithful simulation the difference is zero up to sampling noise, so a
// tiny p-value flags a broken sampler, not an interesting finding.
type DContrast struct {
	Theoretical float64 `json:"theoretical"`
	Observed    float64 `json:"observed"`
	StdErr      float64 `json:"std_err"`
	TStat       float64 `json:"t_stat"`
	DF          float64 `json:"df"`
	PValue      float64 `json:"p_value"`
	EffectSize  float64 `json:"effect_size"`
}

// ContrastD builds the D-contrast diagnostic. It needs at least two
// observations in each D group; small samples simply skip the contrast.
func ContrastD(joint categorical.JointTable, means categorical.MeanTable, emp *empirical.Summary) (*DContrast, error) {
	theoretical, err := theoreticalContrast(joint, means)
	if err != nil {
		return nil, err
	}

	n0 := float64(emp.CountD[categorical.D0])
	n1 := float64(emp.CountD[categorical.D1])
	if n0 < 2 || n1 < 2 {
		return nil, fmt.Errorf("need at least two observations per D group, got %v and %v", n0, n1)
	}

	v0 := emp.VarYD[categorical.D0]
	v1 := emp.VarYD[categorical.D1]
	observed := emp.MeanYD[categorical.D1] - emp.MeanYD[categorical.D0]

	se := math.Sqrt(v0/n0 + v1/n1)
	if !(se > 0) || math.IsNaN(se) {
		return nil, fmt.Errorf("degenerate variance in D groups: %v and %v", v0, v1)
	}

	tStat := (observed - theoretical) / se
	df := math.Pow(v0/n0+v1/n1, 2) /
		(math.Pow(v0/n0, 2)/(n0-1) + math.Pow(v1/n1, 2)/(n1-1))

	pValue := 2 * (1 - distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.CDF(math.Abs(tStat)))
	pValue = clampUnit(pValue)

	pooledSD := math.Sqrt(((n0-1)*v0 + (n1-1)*v1) / (n0 + n1 - 2))
	effectSize := observed / pooledSD

	return &DContrast{
		Theoretical: theoretical,
		Observed:    observed,
		StdErr:      se,
		TStat:       tStat,
		DF:          df,
		PValue:      pValue,
		EffectSize:  effectSize,
	}, nil
}

// theoreticalContrast computes E[Y|D=1] - E[Y|D=0] from the tables
func theoreticalContrast(joint categorical.JointTable, means categorical.MeanTable) (float64, error) {
	contrast := 0.0
	sign := map[categorical.DLevel]float64{categorical.D0: -1, categorical.D1: 1}
	for _, d := range categorical.DLevels() {
		pd := 0.0
		ey := 0.0
		for _, s := range categorical.SLevels() {
			pair := categorical.Pair{S: s, D: d}
			pd += joint.P(pair)
			ey += joint.P(pair) * means.Mu(pair)
		}
		if pd == 0 {
			return 0, fmt.Errorf("marginal P(D=%d) is zero; the contrast is undefined", int(d))
		}
		contrast += sign[d] * ey / pd
	}
	return contrast, nil
}

func clampUnit(p float64) float64 {
	if math.IsNaN(p) {
		return 1
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
