package caching

import (
	"crypto/sha256"
	"encoding/hex"
)

const keyPrefix = "ciq"

// Fingerprint derives the deterministic cache key for a namespace and its
// canonicalized input: ciq:<namespace>:<first 16 hex chars of sha256>.
func Fingerprint(namespace, keyData string) string {
	sum := sha256.Sum256([]byte(keyData))
	return keyPrefix + ":" + namespace + ":" + hex.EncodeToString(sum[:])[:16]
}
