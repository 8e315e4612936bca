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


// Package ai provides abstractions for the AI services used by corpora.
//
// The only service the migration pipeline needs is a text embedder: the
// document store embeds each migrated record so it can be found by vector
// similarity later. Depending on the Embedder interface rather than a
// concrete client keeps the pipeline testable with a deterministic fake.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test double for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Production constructors return the interface:
//
//	embedder, err := openai.NewEmbedder(config) // returns ai.Embedder
//
// Test utility constructors return the concrete type so tests can inject
// behavior and inspect call counts:
//
//	mockEmbed := mock.NewMockEmbedder() // returns *mock.MockEmbedder
//	count := mockEmbed.CallCount()
package ai
