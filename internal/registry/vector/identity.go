package vector

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// pointNamespace is the fixed UUID namespace under which point ids are
// derived. It must never change: every process computing PointID for the
// same key has to agree without coordination.
var pointNamespace = uuid.MustParse("9f2c1a40-7b3e-4d11-8f6a-2e9b5c0d4a77")

// PointID returns the deterministic point id for a record key. It is a pure
// function of key, so re-upserting the same key always replaces the same
// stored point and independent writers never race on id allocation.
func PointID(key string) uuid.UUID {
	return uuid.NewSHA1(pointNamespace, []byte(key))
}

// ContentHash returns the truncated hex sha256 of value, carried in point
// payloads to detect staleness against the relational value.
func ContentHash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:16]
}
