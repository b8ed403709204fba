// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vector holds the dense embedding rows of the corpus.
//
// Row i belongs to entry i. Flat is an exact inner-product index over unit
// vectors, so scores are cosine similarities. Null is used when no embedding
// model is configured: it keeps the row count aligned with the other indexes
// and never returns matches.
package vector

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector's width differs from the index width.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyVector is returned when a zero-length or zero-norm vector is added.
	ErrEmptyVector = errors.New("empty vector")
)

// Match is a row id with its similarity to the query.
type Match struct {
	ID    int
	Score float64
}

// Store is the row-aligned vector index used by the engine.
type Store interface {
	// Available reports whether the store can answer similarity queries.
	Available() bool
	// Dimension is the row width, 0 before the first row is added.
	Dimension() int
	// Len is the number of rows.
	Len() int
	// Add appends rows and returns their ids. Either all rows are added or none.
	Add(vectors ...[]float32) ([]int, error)
	// Search returns the k rows most similar to query among those accepted by
	// keep (nil accepts all), best first.
	Search(query []float32, k int, keep func(id int) bool) ([]Match, error)
	// Compact keeps only the rows listed in survivors, in that order.
	Compact(survivors []int)
	// Vectors exposes the rows for persistence. Callers must not modify them.
	Vectors() [][]float32
	// Restore replaces the contents with vectors of width dim.
	Restore(dim int, vectors [][]float32) error
}
