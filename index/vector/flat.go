package vector

import (
	"cmp"
	"fmt"
	"slices"
)

// Flat is an exhaustive inner-product index. Rows are stored normalized.
// It is not safe for concurrent mutation.
type Flat struct {
	dim  int
	rows [][]float32
}

var _ Store = (*Flat)(nil)

// NewFlat returns an empty index. A dim of 0 is fixed by the first Add.
func NewFlat(dim int) *Flat {
	return &Flat{dim: dim}
}

func (f *Flat) Available() bool { return true }
func (f *Flat) Dimension() int  { return f.dim }
func (f *Flat) Len() int        { return len(f.rows) }

func (f *Flat) Add(vectors ...[]float32) ([]int, error) {
	if len(vectors) == 0 {
		return []int{}, nil
	}
	dim := f.dim
	if dim == 0 {
		dim = len(vectors[0])
	}

	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), dim)
		}
		n, ok := Normalize(v)
		if !ok {
			return nil, ErrEmptyVector
		}
		normalized[i] = n
	}

	f.dim = dim
	ids := make([]int, len(normalized))
	for i, v := range normalized {
		ids[i] = len(f.rows)
		f.rows = append(f.rows, v)
	}
	return ids, nil
}

func (f *Flat) Search(query []float32, k int, keep func(id int) bool) ([]Match, error) {
	if k <= 0 || len(f.rows) == 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}
	q, ok := Normalize(query)
	if !ok {
		return nil, nil
	}

	matches := make([]Match, 0, len(f.rows))
	for id, row := range f.rows {
		if keep != nil && !keep(id) {
			continue
		}
		matches = append(matches, Match{ID: id, Score: dot(q, row)})
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (f *Flat) Compact(survivors []int) {
	rows := make([][]float32, 0, len(survivors))
	for _, id := range survivors {
		rows = append(rows, f.rows[id])
	}
	f.rows = rows
}

func (f *Flat) Vectors() [][]float32 {
	return f.rows
}

func (f *Flat) Restore(dim int, vectors [][]float32) error {
	rows := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: row %d has %d, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		n, ok := Normalize(v)
		if !ok {
			return fmt.Errorf("row %d: %w", i, ErrEmptyVector)
		}
		rows[i] = n
	}
	f.dim = dim
	f.rows = rows
	return nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
