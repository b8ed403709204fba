package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []float32
		expected []float32
	}{
		{
			name:     "unit vector remains unchanged",
			input:    []float32{1.0, 0.0, 0.0},
			expected: []float32{1.0, 0.0, 0.0},
		},
		{
			name:     "scale non-unit vector",
			input:    []float32{3.0, 4.0},
			expected: []float32{0.6, 0.8},
		},
		{
			name:     "negative values",
			input:    []float32{-1.0, 1.0},
			expected: []float32{-1.0 / float32(math.Sqrt(2)), 1.0 / float32(math.Sqrt(2))},
		},
		{
			name:     "small values",
			input:    []float32{0.001, 0.002, 0.003},
			expected: normalizeReference([]float32{0.001, 0.002, 0.003}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := Normalize(tt.input)
			require.True(t, ok)
			require.Equal(t, len(tt.expected), len(result), "vector length mismatch")

			for i := range result {
				assert.InDelta(t, tt.expected[i], result[i], 1e-6, "element %d", i)
			}
			assert.InDelta(t, 1.0, norm(result), 1e-6, "magnitude should be 1.0")
		})
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	input := []float32{3, 4}
	_, ok := Normalize(input)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, input)
}

func TestNormalize_Degenerate(t *testing.T) {
	for name, input := range map[string][]float32{
		"zero":  {0, 0, 0},
		"empty": {},
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			result, ok := Normalize(input)
			assert.False(t, ok)
			assert.Nil(t, result)
		})
	}
}

// normalizeReference is a reference implementation for testing
func normalizeReference(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	magnitude := math.Sqrt(sum)

	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
