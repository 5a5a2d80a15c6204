// Package categorical defines the two fixed covariate level sets and the
// probability tables keyed by their (S, D) pairs.
package categorical

import "fmt"

// SLevel is the three-level covariate S
type SLevel int

const (
	S1 SLevel = 1
	S2 SLevel = 2
	S3 SLevel = 3
)

// DLevel is the binary covariate D
type DLevel int

const (
	D0 DLevel = 0
	D1 DLevel = 1
)

// SLevels returns the fixed S level set in ascending order
func SLevels() []SLevel {
	return []SLevel{S1, S2, S3}
}

// DLevels returns the fixed D level set in ascending order
func DLevels() []DLevel {
	return []DLevel{D0, D1}
}

// Pair is the explicit (S, D) tuple key shared by the joint and
// conditional-mean tables. Tables are keyed by Pair rather than positional
// indices, so nothing depends on matching row/column order by convention.
type Pair struct {
	S SLevel
	D DLevel
}

// Valid reports whether both levels belong to their fixed level sets
func (p Pair) Valid() bool {
	switch p.S {
	case S1, S2, S3:
	default:
		return false
	}
	return p.D == D0 || p.D == D1
}

func (p Pair) String() string {
	return fmt.Sprintf("(S=%d, D=%d)", int(p.S), int(p.D))
}

// MarshalText lets pair-keyed maps serialize as "s,d" JSON object keys
func (p Pair) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d,%d", int(p.S), int(p.D))), nil
}

// UnmarshalText parses the "s,d" form produced by MarshalText
func (p *Pair) UnmarshalText(text []byte) error {
	var s, d int
	if _, err := fmt.Sscanf(string(text), "%d,%d", &s, &d); err != nil {
		return fmt.Errorf("malformed pair key %q: %w", string(text), err)
	}
	parsed := Pair{S: SLevel(s), D: DLevel(d)}
	if !parsed.Valid() {
		return fmt.Errorf("pair key %q is outside the fixed level sets", string(text))
	}
	*p = parsed
	return nil
}

// AllPairs returns the six category pairs in canonical order: the D=0 pairs
// by ascending S, then the D=1 pairs. Sampling weights, dataset exports and
// report rows all follow this order.
func AllPairs() []Pair {
	pairs := make([]Pair, 0, len(SLevels())*len(DLevels()))
	for _, d := range DLevels() {
		for _, s := range SLevels() {
			pairs = append(pairs, Pair{S: s, D: d})
		}
	}
	return pairs
}
