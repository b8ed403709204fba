package reembed

import "fmt"

// checkDimensions verifies that every row has the same length and returns it.
func checkDimensions(rows [][]float32) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	dim := len(rows[0])
	for i, row := range rows {
		if len(row) != dim {
			return 0, fmt.Errorf("%w: row %d has %d, expected %d", ErrDimensionMismatch, i, len(row), dim)
		}
	}
	return dim, nil
}
