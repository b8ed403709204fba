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

// Package search provides hybrid semantic and keyword search over profile entries.
//
// The Searcher combines:
//   - Query expansion with static Korean/English data and AI vocabulary
//   - Semantic search over entry embeddings, weighted by category and by
//     data/AI lexicon hits in the entry text
//   - BM25 keyword search
//
// In hybrid mode both paths run with relaxed thresholds and their scores are
// combined as 0.7*semantic + 0.3*keyword per entry.
package search
