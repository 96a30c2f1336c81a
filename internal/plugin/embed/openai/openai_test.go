package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionResolution(t *testing.T) {
	e := &OpenAIEmbedder{model: "text-embedding-3-small"}
	assert.Equal(t, 1536, e.Dimension())

	e = &OpenAIEmbedder{model: "text-embedding-3-large"}
	assert.Equal(t, 3072, e.Dimension())

	// An explicit override wins over the model's native width.
	e = &OpenAIEmbedder{model: "text-embedding-3-small", dimensions: 256}
	assert.Equal(t, 256, e.Dimension())

	// Unknown model without an override reports no dimension.
	e = &OpenAIEmbedder{model: "custom-model"}
	assert.Equal(t, 0, e.Dimension())
}
