// Package local provides a dependency-free embedder that hashes tokens into
// a fixed-width normalized vector. It gives stable, deterministic embeddings
// without a model download; retrieval quality is lexical rather than truly
// semantic, but the vector pipeline behaves identically to a real model.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	registryembed "github.com/hivemind/memory-store/internal/registry/embed"
)

const (
	modelName = "hashed-bow"
	dimension = 384
)

func init() {
	registryembed.Register(registryembed.Plugin{
		Name: "local",
		Loader: func(_ context.Context) (registryembed.Embedder, error) {
			return &LocalEmbedder{}, nil
		},
	})
}

type LocalEmbedder struct{}

func (e *LocalEmbedder) ModelName() string { return modelName }
func (e *LocalEmbedder) Dimension() int    { return dimension }

func (e *LocalEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = embedOne(text)
	}
	return results, nil
}

func embedOne(text string) []float32 {
	vector := make([]float32, dimension)
	tokens := tokenize(text)
	for i, tok := range tokens {
		bump(vector, tok, 1)
		// Adjacent-pair features give short queries some phrase sensitivity.
		if i+1 < len(tokens) {
			bump(vector, tok+" "+tokens[i+1], 0.5)
		}
	}
	return normalize(vector)
}

func bump(vector []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	vector[int(h.Sum64()%uint64(dimension))] += weight
}

func normalize(vector []float32) []float32 {
	var norm float32
	for _, v := range vector {
		norm += v * v
	}
	if norm == 0 {
		return vector
	}
	inv := 1 / float32(math.Sqrt(float64(norm)))
	for i := range vector {
		vector[i] *= inv
	}
	return vector
}

func tokenize(text string) []string {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return nil
	}
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsNumber(r))
	})
}

var _ registryembed.Embedder = (*LocalEmbedder)(nil)
