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

package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/profiledb/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// TermSuggester implements ai.TermSuggester using OpenAI-compatible chat APIs.
type TermSuggester struct {
	client   llms.Model
	maxTerms int
	logger   *slog.Logger
}

// suggestion is the wrapper structure for the model's JSON response.
type suggestion struct {
	Terms []string `json:"terms"`
}

// newTermSuggester is an internal constructor that returns the concrete type.
func newTermSuggester(config *ai.Config) (*TermSuggester, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.SuggesterHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.SuggesterModel),
	)
	if err != nil {
		return nil, err
	}

	return &TermSuggester{
		client:   client,
		maxTerms: config.MaxSuggestions,
		logger:   slog.Default().With("component", "openai-suggester"),
	}, nil
}

// NewTermSuggester creates a term suggester using the provided configuration.
//
// Returns ai.TermSuggester interface to enforce abstraction.
func NewTermSuggester(config *ai.Config) (ai.TermSuggester, error) {
	return newTermSuggester(config)
}

// SuggestTerms asks the chat model for related search terms. Malformed
// responses are retried up to three times.
func (s *TermSuggester) SuggestTerms(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt(s.maxTerms))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(query)},
		},
	}

	var result suggestion
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			s.logger.Debug("no choices returned from model")
			return []string{}, nil
		}

		responseText := cleanResponse(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			s.logger.Warn("error parsing suggester response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		s.logger.Error("failed to parse suggester response after retries", "err", lastErr)
		return nil, lastErr
	}

	terms := filterTerms(query, result.Terms, s.maxTerms)
	s.logger.Debug("suggested terms", "query", query, "total", len(result.Terms), "kept", len(terms))
	return terms, nil
}

// filterTerms trims, dedups and caps the model output. Terms equal to the
// query are dropped.
func filterTerms(query string, terms []string, limit int) []string {
	out := make([]string, 0, len(terms))
	seen := map[string]bool{strings.ToLower(query): true}
	for _, term := range terms {
		term = strings.TrimSpace(term)
		key := strings.ToLower(term)
		if term == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, term)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
