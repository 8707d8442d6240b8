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

package source

import (
	"context"
	"fmt"
	"iter"

	"github.com/poiesic/newsflow/core"
)

// Fetcher is the external client for historical news. Implementations page
// through the inclusive range in publication order.
type Fetcher interface {
	// Fetch returns up to limit payloads published within r, skipping the first
	// offset. A result shorter than limit means the range is exhausted.
	Fetch(ctx context.Context, r TimeRange, offset, limit int) (core.RawMessage, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, r TimeRange, offset, limit int) (core.RawMessage, error)

func (f FetcherFunc) Fetch(ctx context.Context, r TimeRange, offset, limit int) (core.RawMessage, error) {
	return f(ctx, r, offset, limit)
}

// HistoricalSource reads a bounded range one page per batch and terminates
// once the range is exhausted. It is restartable.
type HistoricalSource struct {
	fetcher  Fetcher
	rng      TimeRange
	pageSize int
}

var _ Source = (*HistoricalSource)(nil)

// NewHistoricalSource creates a source over rng. A nil fetcher produces a
// source that fails with ErrSourceUnavailable when pulled.
func NewHistoricalSource(fetcher Fetcher, rng TimeRange, pageSize int) *HistoricalSource {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &HistoricalSource{
		fetcher:  fetcher,
		rng:      rng,
		pageSize: pageSize,
	}
}

func (h *HistoricalSource) Kind() Kind {
	return KindHistorical
}

// Range returns the publication window the source reads.
func (h *HistoricalSource) Range() TimeRange {
	return h.rng
}

func (h *HistoricalSource) Batches(ctx context.Context) iter.Seq2[core.RawMessage, error] {
	return func(yield func(core.RawMessage, error) bool) {
		if h.fetcher == nil {
			yield(nil, fmt.Errorf("%w: no historical fetcher configured", ErrSourceUnavailable))
			return
		}

		offset := 0
		for {
			if ctx.Err() != nil {
				return
			}

			page, err := h.fetcher.Fetch(ctx, h.rng, offset, h.pageSize)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				yield(nil, fmt.Errorf("%w: fetch %s at offset %d: %w", ErrSourceUnavailable, h.rng, offset, err))
				return
			}

			if len(page) > 0 && !yield(page, nil) {
				return
			}
			if len(page) < h.pageSize {
				return
			}
			offset += len(page)
		}
	}
}
