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
	"log/slog"
	"time"

	"github.com/poiesic/newsflow/core"
)

const (
	// DefaultPageSize is the default number of payloads requested per historical fetch.
	DefaultPageSize = 100
)

// Selector constructs sources for resolved specs. It holds only configuration,
// so every Source it returns is independent of the others.
type Selector struct {
	fetcher     Fetcher
	subscriber  Subscriber
	pageSize    int
	mockBatches []core.RawMessage
	logger      *slog.Logger
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithFetcher sets the external client used for historical ranges.
func WithFetcher(fetcher Fetcher) SelectorOption {
	return func(s *Selector) {
		s.fetcher = fetcher
	}
}

// WithSubscriber sets the external client used for the live feed.
func WithSubscriber(subscriber Subscriber) SelectorOption {
	return func(s *Selector) {
		s.subscriber = subscriber
	}
}

// WithPageSize sets how many payloads a historical source requests per fetch.
func WithPageSize(size int) SelectorOption {
	return func(s *Selector) {
		if size < 1 {
			size = DefaultPageSize
		}
		s.pageSize = size
	}
}

// WithMockBatches replaces the built-in financial news dataset. With no
// batches the mock feed is empty.
func WithMockBatches(batches ...core.RawMessage) SelectorOption {
	return func(s *Selector) {
		s.mockBatches = make([]core.RawMessage, len(batches))
		for i, b := range batches {
			s.mockBatches[i] = b.Clone()
		}
	}
}

// WithSelectorLogger sets a custom logger.
func WithSelectorLogger(logger *slog.Logger) SelectorOption {
	return func(s *Selector) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewSelector creates a Selector. Without a fetcher or subscriber the
// corresponding sources still build but fail with ErrSourceUnavailable when pulled.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		pageSize: DefaultPageSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "source-selector")
	return s
}

// Select resolves the run's source and constructs it. No I/O happens here.
// Batch mode without a complete, ordered range fails with
// core.ErrInvalidConfiguration before anything is constructed.
func (s *Selector) Select(mode core.Mode, from, to *time.Time, mockRequested bool) (Source, error) {
	spec, err := Resolve(mode, from, to, mockRequested)
	if err != nil {
		return nil, err
	}
	return s.FromSpec(spec), nil
}

// FromSpec constructs the Source a resolved spec describes.
func (s *Selector) FromSpec(spec Spec) Source {
	switch sp := spec.(type) {
	case MockSpec:
		s.logger.Debug("selected mock source")
		if s.mockBatches != nil {
			return newMockSource(s.mockBatches)
		}
		return NewMockSource()
	case HistoricalSpec:
		s.logger.Debug("selected historical source", "range", sp.Range.String(), "page_size", s.pageSize)
		return NewHistoricalSource(s.fetcher, sp.Range, s.pageSize)
	case LiveSpec:
		s.logger.Debug("selected live source")
		return NewLiveSource(s.subscriber)
	default:
		panic("source: unknown spec type")
	}
}
