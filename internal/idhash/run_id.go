package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(owner|symbol|started_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(owner, symbol string, startedAt int64) string {
	data := fmt.Sprintf("%s|%s|%d", owner, symbol, startedAt)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ShortID returns the first 12 characters of id for display.
func ShortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
