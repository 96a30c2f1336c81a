package local

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedTextsShape(t *testing.T) {
	e := &LocalEmbedder{}
	vectors, err := e.EmbedTexts(context.Background(), []string{"remember the milk", "qdrant hosts vectors"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	for _, v := range vectors {
		assert.Len(t, v, e.Dimension())
	}
}

func TestEmbedDeterministic(t *testing.T) {
	e := &LocalEmbedder{}
	a, err := e.EmbedTexts(context.Background(), []string{"stable input"})
	require.NoError(t, err)
	b, err := e.EmbedTexts(context.Background(), []string{"stable input"})
	require.NoError(t, err)
	assert.Equal(t, a[0], b[0])
}

func TestEmbedNormalized(t *testing.T) {
	e := &LocalEmbedder{}
	vectors, err := e.EmbedTexts(context.Background(), []string{"the quick brown fox"})
	require.NoError(t, err)

	var norm float64
	for _, v := range vectors[0] {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestEmbedEmptyText(t *testing.T) {
	e := &LocalEmbedder{}
	vectors, err := e.EmbedTexts(context.Background(), []string{""})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Len(t, vectors[0], e.Dimension())
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "42"}, tokenize("Hello, WORLD! 42"))
	assert.Nil(t, tokenize("   "))
}
