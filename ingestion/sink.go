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
	"slices"
	"sync"

	"github.com/poiesic/newsflow/core"
)

// Sink receives validated articles, one batch at a time, in source order.
type Sink interface {
	Write(ctx context.Context, articles []*core.NewsArticle) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, articles []*core.NewsArticle) error

func (f SinkFunc) Write(ctx context.Context, articles []*core.NewsArticle) error {
	return f(ctx, articles)
}

// SliceSink collects everything written to it in memory.
type SliceSink struct {
	mu       sync.Mutex
	articles []*core.NewsArticle
}

var _ Sink = (*SliceSink)(nil)

func (s *SliceSink) Write(_ context.Context, articles []*core.NewsArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, articles...)
	return nil
}

// Articles returns a copy of the collected articles.
func (s *SliceSink) Articles() []*core.NewsArticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.articles)
}
