package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(dataset|lookback|nreps|seed)
// Returns hex-encoded hash (64 characters).
//
// The same dataset, parameters and seed always produce the same ID, so
// re-running an identical experiment collides in the archive instead of
// silently duplicating.
func ComputeRunID(dataset string, lookback, nreps, seed int) string {
	data := fmt.Sprintf("%s|%d|%d|%d", dataset, lookback, nreps, seed)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
