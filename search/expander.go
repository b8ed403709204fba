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

package search

import (
	"strings"
	"unicode/utf8"
)

// QueryRepeat is how many times the original query leads the expanded query,
// which weights it above the added terms for both BM25 and the embedding.
const QueryRepeat = 5

// Expander rewrites a query with related Korean and English terms from the
// static data/AI vocabulary tables. It is stateless and deterministic.
type Expander struct {
	synonyms  []termGroup
	relations []termGroup
	contexts  []termGroup
}

// NewExpander returns an expander over the built-in tables.
func NewExpander() *Expander {
	return &Expander{
		synonyms:  synonymGroups,
		relations: techRelations,
		contexts:  dataContexts,
	}
}

// Expand returns the query repeated QueryRepeat times followed by the
// expansion terms, space separated.
func (e *Expander) Expand(query string) string {
	return Join(query, e.Terms(query))
}

// Join builds an expanded query from the original query and extra terms.
func Join(query string, terms []string) string {
	parts := make([]string, 0, QueryRepeat+len(terms))
	for range QueryRepeat {
		parts = append(parts, query)
	}
	parts = append(parts, terms...)
	return strings.Join(parts, " ")
}

// Terms returns the expansion terms for query in first-seen order, without
// duplicates and without the query itself.
func (e *Expander) Terms(query string) []string {
	q := strings.ToLower(query)
	terms := newTermSet(query)

	for _, g := range e.synonyms {
		if containsTerm(q, g.head) {
			terms.add(head(g.related, synonymLimit)...)
		}
		for _, value := range g.related {
			if !containsTerm(q, value) {
				continue
			}
			terms.add(g.head)
			terms.add(head(siblings(g.related, value), siblingLimit)...)
		}
	}

	for _, g := range e.relations {
		if containsTerm(q, g.head) {
			terms.add(head(g.related, relationLimit)...)
		}
	}

	for _, g := range e.contexts {
		if containsTerm(q, g.head) {
			terms.add(head(g.related, contextLimit)...)
		}
	}
	return terms.list
}

// termSet is an insertion-ordered set of terms.
type termSet struct {
	seen map[string]bool
	list []string
}

func newTermSet(exclude string) *termSet {
	return &termSet{seen: map[string]bool{exclude: true}, list: []string{}}
}

func (s *termSet) add(terms ...string) {
	for _, t := range terms {
		if s.seen[t] {
			continue
		}
		s.seen[t] = true
		s.list = append(s.list, t)
	}
}

// Merge appends extra terms (e.g. model suggestions) that are not yet present.
func Merge(query string, terms, extra []string) []string {
	set := newTermSet(query)
	set.add(terms...)
	set.add(extra...)
	return set.list
}

func head(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

func siblings(values []string, matched string) []string {
	out := make([]string, 0, len(values)-1)
	for _, v := range values {
		if v != matched {
			out = append(out, v)
		}
	}
	return out
}

// containsTerm reports whether the lowercased query contains term,
// case-insensitively. Short ASCII terms such as "r", "ai" or "sql" must be
// delimited by non-alphanumeric ASCII (or Hangul) so they do not fire inside
// longer words.
func containsTerm(q, term string) bool {
	t := strings.ToLower(term)
	if t == "" {
		return false
	}
	if !isShortASCII(t) {
		return strings.Contains(q, t)
	}
	for from := 0; from <= len(q)-len(t); {
		i := strings.Index(q[from:], t)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(t)
		if boundaryBefore(q, start) && boundaryAfter(q, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func isShortASCII(s string) bool {
	if len(s) > 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isASCIIAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func boundaryBefore(s string, i int) bool {
	return i == 0 || !isASCIIAlnum(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	return i >= len(s) || !isASCIIAlnum(s[i])
}
