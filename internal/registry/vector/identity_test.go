package vector

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointIDDeterministic(t *testing.T) {
	a := PointID("user-preference")
	b := PointID("user-preference")
	assert.Equal(t, a, b)

	// Repeated upserts for a key must always target the same stored point.
	require.NotEqual(t, uuid.Nil, a)
}

func TestPointIDDistinctKeys(t *testing.T) {
	assert.NotEqual(t, PointID("alpha"), PointID("beta"))
	assert.NotEqual(t, PointID("alpha"), PointID("alpha "))
}

func TestContentHash(t *testing.T) {
	h := ContentHash("some stored value")
	assert.Len(t, h, 16)
	assert.Equal(t, h, ContentHash("some stored value"))
	assert.NotEqual(t, h, ContentHash("some other value"))
}
