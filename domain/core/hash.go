package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Short returns a 12-character prefix for display
func (h Hash) Short() string {
	if len(h) < 12 {
		return string(h)
	}
	return string(h[:12])
}

// DatasetHash fingerprints one generated dataset. Two datasets carry the
// same DatasetHash iff their records are identical in value and order.
type DatasetHash Hash

// NewDatasetHash creates a dataset fingerprint from serialized records
func NewDatasetHash(data []byte) DatasetHash {
	return DatasetHash(NewHash(data))
}

func (h DatasetHash) String() string { return Hash(h).String() }

// IsEmpty checks if the fingerprint is empty
func (h DatasetHash) IsEmpty() bool { return h == "" }

// Equals checks if two fingerprints are equal
func (h DatasetHash) Equals(other DatasetHash) bool { return h == other }

// Short returns a 12-character prefix for display
func (h DatasetHash) Short() string { return Hash(h).Short() }
