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

// Package storage provides the storage abstraction layer for newsflow.
//
// This package defines repository interfaces that decouple storage implementation
// from pipeline logic. The pipeline itself never persists its output; storage
// backs the local article archive that feeds historical runs, and the progress
// checkpoints the runtime records.
//
// # Architecture
//
//   - ArchiveRepository: raw article payloads indexed by publication time
//   - CheckpointRepository: per-pipeline progress records
//   - VectorCache: embedding vectors keyed by content hash
//
// Raw payloads are stored exactly as delivered, malformed ones included, so
// that validation sees a historical run the way it would have seen the feed.
//
// # Usage
//
//	archive, checkpoints, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
