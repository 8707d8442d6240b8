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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidArticle indicates a raw payload could not be coerced into a NewsArticle.
	ErrInvalidArticle = errors.New("invalid news article")

	// ErrMissingField indicates a required schema field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidFieldType indicates a field holds a value of the wrong type.
	ErrInvalidFieldType = errors.New("invalid field type")

	// ErrInvalidID indicates the article id is not a positive integer.
	ErrInvalidID = errors.New("article id must be a positive integer")

	// ErrEmptyHeadline indicates the Headline field is blank.
	ErrEmptyHeadline = errors.New("headline cannot be empty")

	// ErrEmptySource indicates the Source field is blank.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is missing, unparsable or out of order.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Run configuration errors
var (
	// ErrInvalidConfiguration indicates run parameters that cannot select a source,
	// such as batch mode without a complete, well-ordered date range.
	ErrInvalidConfiguration = errors.New("invalid pipeline configuration")

	// ErrUnknownMode indicates a mode string that is neither batch nor stream.
	ErrUnknownMode = errors.New("unknown run mode")
)
