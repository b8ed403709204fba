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

package reembed

import "iter"

const (
	// DefaultBatchSize is the default number of texts sent to the embedder at once.
	DefaultBatchSize = 64
)

// Batch is a contiguous run of texts starting at Offset in the full list.
type Batch struct {
	Offset int
	Texts  []string
}

// Batches splits texts into consecutive batches of at most size texts.
// A size <= 0 uses DefaultBatchSize.
func Batches(texts []string, size int) iter.Seq[Batch] {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return func(yield func(Batch) bool) {
		for i := 0; i < len(texts); i += size {
			end := min(i+size, len(texts))
			if !yield(Batch{Offset: i, Texts: texts[i:end]}) {
				return
			}
		}
	}
}
