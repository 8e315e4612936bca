package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		vec := NormalizeVector([]float32{3, 4})
		require.Len(t, vec, 2)
		assert.InDelta(t, 0.6, vec[0], 0.001)
		assert.InDelta(t, 0.8, vec[1], 0.001)
	})

	t.Run("input untouched", func(t *testing.T) {
		in := []float32{1, 2, 2}
		_ = NormalizeVector(in)
		assert.Equal(t, []float32{1, 2, 2}, in)
	})

	t.Run("zero vector", func(t *testing.T) {
		vec := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, vec)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})
}

func TestCosineSimilarity(t *testing.T) {
	a := NormalizeVector([]float32{1, 0})
	b := NormalizeVector([]float32{0, 1})
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 0.0001)
	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 0.0001)
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0, 5}, []float32{1}), 0.0001, "common prefix only")
}
