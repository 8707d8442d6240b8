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
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/source"
)

// Descriptor is a composed, not yet running pipeline: a source, a validation
// stage and an optional inspection stage. Descriptors share no mutable state
// with each other or with the Builder that made them.
type Descriptor struct {
	name      string
	params    core.RunParameters
	source    source.Source
	validator *Validator
	inspector Inspector
	logger    *slog.Logger
}

func (d *Descriptor) Name() string {
	return d.name
}

// Params returns a copy of the run parameters the descriptor was built from.
func (d *Descriptor) Params() core.RunParameters {
	return copyParams(d.params)
}

func (d *Descriptor) Source() source.Source {
	return d.source
}

func (d *Descriptor) Policy() Policy {
	return d.validator.Policy()
}

// Inspected reports whether an inspection stage is attached.
func (d *Descriptor) Inspected() bool {
	return d.inspector != nil
}

// ModelCacheDir is handed to downstream embedding stages as given.
func (d *Descriptor) ModelCacheDir() string {
	return d.params.ModelCacheDir
}

// Articles runs the pipeline sequentially and yields every validated article
// in source order. Source failures and strict validation failures are yielded
// once and end the sequence. The sequence can be restarted when the source can.
func (d *Descriptor) Articles(ctx context.Context) iter.Seq2[*core.NewsArticle, error] {
	return func(yield func(*core.NewsArticle, error) bool) {
		seq := 0
		for batch, err := range d.source.Batches(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}

			result, err := d.validate(seq, batch)
			seq++
			d.observe(result)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, article := range result.Articles {
				if !yield(article, nil) {
					return
				}
			}
		}
	}
}

func (d *Descriptor) validate(seq int, batch core.RawMessage) (BatchResult, error) {
	result, err := d.validator.apply(seq, batch)
	if err != nil {
		return result, fmt.Errorf("%s: %w", d.name, err)
	}
	if len(result.Rejections) > 0 {
		d.logger.Debug("dropped malformed payloads", "batch", seq, "rejected", len(result.Rejections))
	}
	return result, nil
}

func (d *Descriptor) observe(result BatchResult) {
	observe(d.inspector, result)
}

func copyParams(p core.RunParameters) core.RunParameters {
	if p.From != nil {
		from := *p.From
		p.From = &from
	}
	if p.To != nil {
		to := *p.To
		p.To = &to
	}
	return p
}
