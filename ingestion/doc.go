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

// Package ingestion composes news sources with validation and inspection
// stages and drives the composed pipeline.
//
// A Builder turns run parameters into a Descriptor:
//   - the source is resolved by a source.Selector
//   - every raw batch passes through a Validator (strict or lenient)
//   - in debug runs an Inspector observes validated articles and rejections
//
// Building never executes anything. A Descriptor can be consumed sequentially
// through Articles, or handed to a Runner, which validates batches concurrently
// on a worker pool while keeping output in source order.
package ingestion
