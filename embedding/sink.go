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

package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/newsflow/ai"
	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/ingestion"
	"github.com/tmc/langchaingo/textsplitter"
)

var (
	// ErrEmbedderRequired is returned when a Sink is created without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmitterRequired is returned when a Sink is created without an emitter.
	ErrEmitterRequired = errors.New("emitter required")
)

// Sink embeds validated articles and passes the documents to an Emitter.
type Sink struct {
	embedder ai.Embedder
	emitter  Emitter
	splitter textsplitter.TextSplitter
	logger   *slog.Logger
}

var _ ingestion.Sink = (*Sink)(nil)

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithSplitter sets the chunk splitter. A nil splitter embeds whole articles.
// Default is DefaultSplitter().
func WithSplitter(splitter textsplitter.TextSplitter) SinkOption {
	return func(s *Sink) {
		s.splitter = splitter
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SinkOption {
	return func(s *Sink) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

func NewSink(embedder ai.Embedder, emitter Emitter, opts ...SinkOption) (*Sink, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if emitter == nil {
		return nil, ErrEmitterRequired
	}

	s := &Sink{
		embedder: embedder,
		emitter:  emitter,
		splitter: DefaultSplitter(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "embedding-sink")
	return s, nil
}

// Write embeds one batch of articles. Document order follows article order.
func (s *Sink) Write(ctx context.Context, articles []*core.NewsArticle) error {
	var docs []*Document
	for _, article := range articles {
		articleDocs, err := NewDocuments(article, s.splitter)
		if err != nil {
			return err
		}
		docs = append(docs, articleDocs...)
	}
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	s.logger.Debug("embedding documents", "articles", len(articles), "documents", len(docs))
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d documents: %w", len(docs), err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(docs), len(vectors))
	}

	for i := range docs {
		docs[i].Vector = NormalizeVector(vectors[i])
	}
	return s.emitter.Emit(ctx, docs)
}
