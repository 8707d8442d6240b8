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
	"fmt"
	"strings"

	"github.com/poiesic/newsflow/core"
)

// Policy decides what a validation failure does to its batch.
type Policy int

const (
	// PolicyLenient drops malformed payloads and records them as rejections.
	PolicyLenient Policy = iota
	// PolicyStrict fails the whole batch on the first malformed payload.
	PolicyStrict
)

func (p Policy) String() string {
	switch p {
	case PolicyLenient:
		return "lenient"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses "lenient" or "strict". An empty string is lenient.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// BatchResult is the outcome of validating one raw batch.
type BatchResult struct {
	// Articles holds the payloads that parsed, in input order.
	Articles []*core.NewsArticle
	// Rejections holds the payloads that did not, in input order.
	Rejections []*ValidationError
}

// Validator parses raw batches into articles. It holds no mutable state and
// may be shared between goroutines.
type Validator struct {
	policy Policy
}

func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy}
}

func (v *Validator) Policy() Policy {
	return v.policy
}

// Apply validates every payload in batch, preserving order. Under
// PolicyStrict the first failure is returned as a *ValidationError and the
// result carries no articles.
func (v *Validator) Apply(batch core.RawMessage) (BatchResult, error) {
	return v.apply(0, batch)
}

func (v *Validator) apply(seq int, batch core.RawMessage) (BatchResult, error) {
	var result BatchResult
	if len(batch) > 0 {
		result.Articles = make([]*core.NewsArticle, 0, len(batch))
	}

	for i, raw := range batch {
		article, err := core.ParseArticle(raw)
		if err != nil {
			rejection := &ValidationError{Batch: seq, Index: i, Payload: raw, Err: err}
			if v.policy == PolicyStrict {
				return BatchResult{Rejections: []*ValidationError{rejection}}, rejection
			}
			result.Rejections = append(result.Rejections, rejection)
			continue
		}
		result.Articles = append(result.Articles, article)
	}
	return result, nil
}
