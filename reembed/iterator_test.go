package reembed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatches(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name    string
		size    int
		offsets []int
		sizes   []int
	}{
		{"even split", 5, []int{0}, []int{5}},
		{"remainder", 2, []int{0, 2, 4}, []int{2, 2, 1}},
		{"larger than input", 10, []int{0}, []int{5}},
		{"default size", 0, []int{0}, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var offsets, sizes []int
			for b := range Batches(texts, tt.size) {
				offsets = append(offsets, b.Offset)
				sizes = append(sizes, len(b.Texts))
			}
			assert.Equal(t, tt.offsets, offsets)
			assert.Equal(t, tt.sizes, sizes)
		})
	}
}

func TestBatches_Empty(t *testing.T) {
	count := 0
	for range Batches(nil, 3) {
		count++
	}
	assert.Zero(t, count)
}

func TestBatches_EarlyStop(t *testing.T) {
	count := 0
	for range Batches([]string{"a", "b", "c", "d"}, 1) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
