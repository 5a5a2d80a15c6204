package sampler

import (
	"encoding/binary"
	"math"

	"covsim/domain/categorical"
	"covsim/domain/core"
)

// Record is one sampled observation: the categorical pair and its outcome
type Record struct {
	S categorical.SLevel
	D categorical.DLevel
	Y float64
}

// Pair returns the record's category pair key
func (r Record) Pair() categorical.Pair {
	return categorical.Pair{S: r.S, D: r.D}
}

// Dataset is the ordered output of one generation pass. It is consumed by
// the empirical summary and the regression, then discarded; the study
// pipeline never persists it.
type Dataset struct {
	Records []Record
}

// N returns the number of records
func (ds *Dataset) N() int {
	return len(ds.Records)
}

// YValues returns the outcome column in record order
func (ds *Dataset) YValues() []float64 {
	ys := make([]float64, len(ds.Records))
	for i, rec := range ds.Records {
		ys[i] = rec.Y
	}
	return ys
}

// DValues returns D as 0/1 regressor values in record order
func (ds *Dataset) DValues() []float64 {
	dv := make([]float64, len(ds.Records))
	for i, rec := range ds.Records {
		dv[i] = float64(rec.D)
	}
	return dv
}

// SDummies returns indicator columns for S=2 and S=3, with S=1 as baseline
func (ds *Dataset) SDummies() (s2, s3 []float64) {
	s2 = make([]float64, len(ds.Records))
	s3 = make([]float64, len(ds.Records))
	for i, rec := range ds.Records {
		switch rec.S {
		case categorical.S2:
			s2[i] = 1
		case categorical.S3:
			s3[i] = 1
		}
	}
	return s2, s3
}

// Fingerprint hashes every record in order. Two datasets carry equal
// fingerprints iff they are identical, which is how seeded reproducibility
// is verified and reported.
func (ds *Dataset) Fingerprint() core.DatasetHash {
	buf := make([]byte, 0, len(ds.Records)*10)
	var y [8]byte
	for _, rec := range ds.Records {
		buf = append(buf, byte(rec.S), byte(rec.D))
		binary.LittleEndian.PutUint64(y[:], math.Float64bits(rec.Y))
		buf = append(buf, y[:]...)
	}
	return core.NewDatasetHash(buf)
}
