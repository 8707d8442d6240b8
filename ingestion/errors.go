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

package ingestion

import (
	"errors"
	"fmt"

	"github.com/poiesic/newsflow/core"
)

var (
	// ErrSelectorRequired is returned when a Builder is created without a source selector.
	ErrSelectorRequired = errors.New("source selector required")

	// ErrDescriptorRequired is returned when a Runner is asked to run a nil descriptor.
	ErrDescriptorRequired = errors.New("pipeline descriptor required")

	// ErrSinkRequired is returned when a Runner is asked to run without a sink.
	ErrSinkRequired = errors.New("sink required")

	// ErrUnknownPolicy is returned when parsing a validation policy name fails.
	ErrUnknownPolicy = errors.New("unknown validation policy")
)

// ValidationError records a single payload that failed schema coercion.
type ValidationError struct {
	// Batch is the zero-based position of the batch within the run.
	Batch int
	// Index is the zero-based position of the payload within its batch.
	Index int
	// Payload is the rejected raw payload.
	Payload core.RawArticle
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("batch %d element %d: %v", e.Batch, e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) clone() *ValidationError {
	c := *e
	c.Payload = e.Payload.Clone()
	return &c
}
