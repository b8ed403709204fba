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

// Package keyword implements an in-memory BM25 index over entry texts.
//
// Document ids are dense positions assigned in insertion order and match the
// entry ids of the owning engine. Deleted documents stop contributing to
// document frequencies, the live document count and the average length.
package keyword

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// BM25 parameters.
const (
	K1 = 1.5
	B  = 0.75
)

// Match is a scored document.
type Match struct {
	ID    int
	Score float64
}

type document struct {
	freqs  map[string]int
	length int
	live   bool
}

// Index is a BM25 inverted index. It is not safe for concurrent mutation;
// callers hold their own lock.
type Index struct {
	docs        []document
	postings    map[string][]int
	liveDocs    int
	totalLength int
}

// New returns an empty index.
func New() *Index {
	return &Index{postings: make(map[string][]int)}
}

// Len returns the number of document slots, live or deleted.
func (x *Index) Len() int {
	return len(x.docs)
}

// LiveCount returns the number of live documents.
func (x *Index) LiveCount() int {
	return x.liveDocs
}

// AverageLength returns the mean token count of live documents.
func (x *Index) AverageLength() float64 {
	if x.liveDocs == 0 {
		return 0
	}
	return float64(x.totalLength) / float64(x.liveDocs)
}

// DocFreq returns the number of live documents containing token.
func (x *Index) DocFreq(token string) int {
	return len(x.postings[token])
}

// Add indexes text under id, which must equal Len().
func (x *Index) Add(id int, text string) error {
	if id != len(x.docs) {
		return fmt.Errorf("keyword index: add id %d, expected %d", id, len(x.docs))
	}
	tokens := Tokenize(text)
	freqs := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freqs[tok]++
	}
	for tok := range freqs {
		x.postings[tok] = append(x.postings[tok], id)
	}
	x.docs = append(x.docs, document{freqs: freqs, length: len(tokens), live: true})
	x.liveDocs++
	x.totalLength += len(tokens)
	return nil
}

// Delete removes id from scoring. Deleting an unknown or already deleted
// id is a no-op.
func (x *Index) Delete(id int) {
	if id < 0 || id >= len(x.docs) || !x.docs[id].live {
		return
	}
	doc := &x.docs[id]
	for tok := range doc.freqs {
		ids := x.postings[tok]
		if i, found := slices.BinarySearch(ids, id); found {
			ids = slices.Delete(ids, i, i+1)
		}
		if len(ids) == 0 {
			delete(x.postings, tok)
		} else {
			x.postings[tok] = ids
		}
	}
	doc.live = false
	x.liveDocs--
	x.totalLength -= doc.length
}

// Rebuild replaces the index contents with texts, ids 0..len(texts)-1.
func (x *Index) Rebuild(texts []string) {
	*x = *New()
	for i, text := range texts {
		_ = x.Add(i, text) // ids are sequential
	}
}

// Scores returns the BM25 score of every document slot for tokens. Repeated
// tokens contribute once per occurrence. Deleted slots score zero.
//
// idf is ln((N - df + 0.5) / (df + 0.5)) over live documents and may be zero
// or negative for tokens present in half or more of the corpus.
func (x *Index) Scores(tokens []string) []float64 {
	scores := make([]float64, len(x.docs))
	n := float64(x.liveDocs)
	avg := x.AverageLength()
	if avg == 0 {
		return scores
	}

	for _, tok := range tokens {
		ids, ok := x.postings[tok]
		if !ok {
			continue
		}
		df := float64(len(ids))
		idf := math.Log((n - df + 0.5) / (df + 0.5))
		for _, id := range ids {
			doc := x.docs[id]
			tf := float64(doc.freqs[tok])
			norm := K1 * (1 - B + B*float64(doc.length)/avg)
			scores[id] += idf * (tf * (K1 + 1)) / (tf + norm)
		}
	}
	return scores
}

// Search tokenizes query and returns up to k live documents scoring strictly
// above minScore and accepted by keep, best first. Ties keep ascending id
// order. keep may be nil.
func (x *Index) Search(query string, k int, minScore float64, keep func(id int) bool) []Match {
	if k <= 0 || x.liveDocs == 0 {
		return nil
	}
	scores := x.Scores(Tokenize(query))

	var matches []Match
	for id, score := range scores {
		if !x.docs[id].live || score <= minScore {
			continue
		}
		if keep != nil && !keep(id) {
			continue
		}
		matches = append(matches, Match{ID: id, Score: score})
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
