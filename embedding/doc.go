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

// Package embedding is the downstream stage that turns validated articles
// into embedded documents.
//
// Articles are cleaned of markup, split into overlapping chunks and sent to an
// ai.Embedder. The resulting unit vectors are handed to an Emitter. Sink plugs
// the whole stage into an ingestion.Runner.
//
// CachedEmbedder wraps any ai.Embedder with a persistent vector cache so
// reprocessing an archive range does not re-embed unchanged text.
package embedding
