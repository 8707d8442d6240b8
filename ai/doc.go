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

// Package ai defines the embedding collaborator the pipeline hands validated
// articles to.
//
// The package holds only abstractions and configuration. Implementations live
// in subpackages:
//   - ai/openai: OpenAI-compatible embedding APIs via langchaingo
//   - ai/mock: deterministic embedder for tests and offline runs
//
// # Constructor Return Type Pattern
//
// Production constructors return the ai.Embedder interface so callers cannot
// couple to a concrete client:
//
//	embedder, err := openai.NewEmbedder(config) // returns ai.Embedder
//
// Mock constructors return concrete types so tests can inject behavior and
// assert on calls:
//
//	mockEmbed := mock.NewMockEmbedder() // returns *mock.MockEmbedder
//	count := mockEmbed.CallCount()
package ai
