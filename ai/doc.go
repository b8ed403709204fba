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

// Package ai provides abstractions for the model services used by profiledb.
//
// Two interfaces are defined:
//
//   - Embedder: Generates vector embeddings from text
//   - TermSuggester: Proposes extra query terms with a chat model
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs (embeddings and term suggestions)
//   - ai/ollama: Ollama native API (embeddings)
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewEmbedder, ollama.NewEmbedder, ...) return
// interface types. Mock constructors return concrete types so tests can
// inject behavior and inspect call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithEmbeddingModel("bge-m3"))
//	embedder, err := openai.NewEmbedder(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "데이터 파이프라인 경험")
package ai
