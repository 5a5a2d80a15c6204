// Package theory derives marginal and conditional expectations analytically
// from the joint and conditional-mean tables.
package theory

import (
	"fmt"

	"covsim/domain/categorical"
)

// Summary holds every quantity derived from one pair of tables.
//
// All maps are freshly allocated per derivation and never mutated afterwards,
// so deriving twice from the same tables yields equal Summaries.
type Summary struct {
	// PS is the marginal P(S): the joint probabilities summed over D.
	PS map[categorical.SLevel]float64 `json:"p_s"`

	// PDGivenS maps each pair to P(D=d | S=s): joint probability / P(S).
	// For each S the values over D sum to 1.
	PDGivenS map[categorical.Pair]float64 `json:"p_d_given_s"`

	// EY is the overall expectation of Y: the probability-weighted sum of
	// the conditional means over all six pairs.
	EY float64 `json:"e_y"`

	// EYGivenS maps each S to E[Y | S]: sum over D of joint probability
	// times conditional mean, divided by P(S).
	EYGivenS map[categorical.SLevel]float64 `json:"e_y_given_s"`
}

// Derive computes P(S), P(D|S), E[Y] and E[Y|S] from the supplied tables.
// Pure function: no side effects, no retained references; the same tables
// always produce the same Summary.
//
// Fails fast when either table is uninitialized or when some S level
// carries zero marginal probability, in which case P(D|S) and E[Y|S] are
// undefined for that level (division guard, never NaN).
func Derive(joint categorical.JointTable, means categorical.MeanTable) (*Summary, error) {
	if joint.IsZero() {
		return nil, fmt.Errorf("joint table is not initialized")
	}
	if means.IsZero() {
		return nil, fmt.Errorf("conditional-mean table is not initialized")
	}

	ps := make(map[categorical.SLevel]float64, len(categorical.SLevels()))
	for _, s := range categorical.SLevels() {
		for _, d := range categorical.DLevels() {
			ps[s] += joint.P(categorical.Pair{S: s, D: d})
		}
	}

	pdGivenS := make(map[categorical.Pair]float64, len(categorical.AllPairs()))
	eyGivenS := make(map[categorical.SLevel]float64, len(categorical.SLevels()))
	for _, s := range categorical.SLevels() {
		if ps[s] == 0 {
			return nil, fmt.Errorf("marginal P(S=%d) is zero; P(D|S=%d) is undefined", int(s), int(s))
		}
		weighted := 0.0
		for _, d := range categorical.DLevels() {
			pair := categorical.Pair{S: s, D: d}
			pdGivenS[pair] = joint.P(pair) / ps[s]
			weighted += joint.P(pair) * means.Mu(pair)
		}
		eyGivenS[s] = weighted / ps[s]
	}

	ey := 0.0
	for _, pair := range categorical.AllPairs() {
		ey += joint.P(pair) * means.Mu(pair)
	}

	return &Summary{
		PS:       ps,
		PDGivenS: pdGivenS,
		EY:       ey,
		EYGivenS: eyGivenS,
	}, nil
}
