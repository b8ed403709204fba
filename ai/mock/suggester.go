package mock

import (
	"context"
	"sync"
)

// MockTermSuggester is a test double for ai.TermSuggester.
type MockTermSuggester struct {
	// SuggestTermsFunc is called by SuggestTerms if set.
	// If nil, Terms is returned.
	SuggestTermsFunc func(ctx context.Context, query string) ([]string, error)

	// Terms is the fixed answer used when SuggestTermsFunc is nil.
	Terms []string

	mu        sync.Mutex
	callCount int
}

// NewMockTermSuggester creates a suggester that always answers with terms.
func NewMockTermSuggester(terms ...string) *MockTermSuggester {
	return &MockTermSuggester{Terms: terms}
}

// SuggestTerms returns the configured terms.
func (m *MockTermSuggester) SuggestTerms(ctx context.Context, query string) ([]string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.SuggestTermsFunc != nil {
		return m.SuggestTermsFunc(ctx, query)
	}
	out := make([]string, len(m.Terms))
	copy(out, m.Terms)
	return out, nil
}

// CallCount returns the number of times SuggestTerms was called.
func (m *MockTermSuggester) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
