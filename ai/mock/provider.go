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

package mock

import "github.com/poiesic/profiledb/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder and suggester instances.
type MockProvider struct {
	embedder  *MockEmbedder
	suggester *MockTermSuggester
	closed    bool
}

// NewMockProvider creates a new mock provider with a default mock embedder
// and no term suggester.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder() to access the concrete type for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder: NewMockEmbedder(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// suggester may be nil.
func NewMockProviderWithServices(embedder *MockEmbedder, suggester *MockTermSuggester) ai.AIProvider {
	return &MockProvider{
		embedder:  embedder,
		suggester: suggester,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	if p.embedder == nil {
		return nil
	}
	return p.embedder
}

// TermSuggester returns the mock suggester, or nil if none was supplied.
func (p *MockProvider) TermSuggester() ai.TermSuggester {
	if p.suggester == nil {
		return nil
	}
	return p.suggester
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockSuggester returns the underlying mock suggester, possibly nil.
func (p *MockProvider) GetMockSuggester() *MockTermSuggester {
	return p.suggester
}
