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


// Package newsflow wires the news ingestion pipeline to local storage.
//
// An Engine owns a badger database holding the article archive, pipeline
// checkpoints and cached embedding vectors. Historical runs read from the
// archive; live runs read from a configured subscriber.
package newsflow

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/newsflow/ai"
	"github.com/poiesic/newsflow/ai/openai"
	"github.com/poiesic/newsflow/embedding"
	"github.com/poiesic/newsflow/ingestion"
	"github.com/poiesic/newsflow/seed"
	"github.com/poiesic/newsflow/source"
	"github.com/poiesic/newsflow/storage"
	"github.com/poiesic/newsflow/storage/badger"
)

const (
	DefaultFetchAttempts = 3
	DefaultFetchDelay    = 200 * time.Millisecond
)

type Engine struct {
	backend     *badger.Backend
	archive     storage.ArchiveRepository
	checkpoints storage.CheckpointRepository
	vectors     storage.VectorCache
	selector    *source.Selector
	logger      *slog.Logger

	mu          sync.Mutex
	modelCaches map[string]*badger.Backend
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory      bool
	subscriber    source.Subscriber
	pageSize      int
	fetchAttempts int
	fetchDelay    time.Duration
	logger        *slog.Logger
}

// WithInMemory keeps the database in memory. The path passed to Open is ignored.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithSubscriber sets the live feed used by stream runs.
func WithSubscriber(subscriber source.Subscriber) EngineOption {
	return func(o *engineOptions) {
		o.subscriber = subscriber
	}
}

func WithPageSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.pageSize = size
	}
}

// WithFetchRetries sets the retry policy for archive reads.
func WithFetchRetries(attempts int, baseDelay time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.fetchAttempts = attempts
		o.fetchDelay = baseDelay
	}
}

func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Open opens or creates the database at path.
func Open(path string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		pageSize:      source.DefaultPageSize,
		fetchAttempts: DefaultFetchAttempts,
		fetchDelay:    DefaultFetchDelay,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(path, options.inMemory)
	if err != nil {
		return nil, err
	}

	archive := badger.NewArchiveRepository(backend)
	fetcher := source.NewRetryingFetcher(source.NewArchiveFetcher(archive), options.fetchAttempts, options.fetchDelay)

	selectorOpts := []source.SelectorOption{
		source.WithFetcher(fetcher),
		source.WithPageSize(options.pageSize),
		source.WithSelectorLogger(options.logger),
	}
	if options.subscriber != nil {
		selectorOpts = append(selectorOpts, source.WithSubscriber(options.subscriber))
	}

	return &Engine{
		backend:     backend,
		archive:     archive,
		checkpoints: badger.NewCheckpointRepository(backend),
		vectors:     badger.NewVectorCache(backend),
		selector:    source.NewSelector(selectorOpts...),
		logger:      options.logger.With("component", "engine"),
		modelCaches: make(map[string]*badger.Backend),
	}, nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for dir, backend := range e.modelCaches {
		if err := backend.Close(); err != nil {
			e.logger.Error("error closing model cache", "dir", dir, "err", err)
			errs = append(errs, err)
		}
	}
	clear(e.modelCaches)

	if err := e.archive.Close(); err != nil {
		e.logger.Error("error closing archive", "err", err)
		errs = append(errs, err)
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Engine) Archive() storage.ArchiveRepository {
	return e.archive
}

func (e *Engine) CheckpointRepository() storage.CheckpointRepository {
	return e.checkpoints
}

func (e *Engine) Selector() *source.Selector {
	return e.selector
}

func (e *Engine) NewBuilder(opts ...ingestion.Option) (*ingestion.Builder, error) {
	return ingestion.NewBuilder(e.selector, opts...)
}

// NewRunner creates a runner that checkpoints into this engine's database.
// Options given later override the defaults.
func (e *Engine) NewRunner(opts ...ingestion.RunnerOption) (*ingestion.Runner, error) {
	return ingestion.NewRunner(append([]ingestion.RunnerOption{ingestion.WithCheckpoints(e.checkpoints)}, opts...)...)
}

func (e *Engine) NewSeeder(opts ...seed.Option) (*seed.Seeder, error) {
	return seed.NewSeeder(e.archive, opts...)
}

// NewEmbedder creates an embedder for config whose vectors are cached by
// content. The cache lives in config.ModelCacheDir when set and in the
// engine's own database otherwise.
func (e *Engine) NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	embedder, err := openai.NewEmbedder(config)
	if err != nil {
		return nil, err
	}
	return e.CachedEmbedder(embedder, config.EmbeddingModel, config.ModelCacheDir)
}

// CachedEmbedder wraps embedder with the vector cache for modelCacheDir.
func (e *Engine) CachedEmbedder(embedder ai.Embedder, model, modelCacheDir string) (ai.Embedder, error) {
	cache, err := e.vectorCache(modelCacheDir)
	if err != nil {
		return nil, err
	}
	return embedding.NewCachedEmbedder(embedder, cache, model), nil
}

func (e *Engine) vectorCache(dir string) (storage.VectorCache, error) {
	if dir == "" {
		return e.vectors, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	backend, ok := e.modelCaches[dir]
	if !ok {
		var err error
		if backend, err = badger.OpenBackend(dir, false); err != nil {
			return nil, err
		}
		e.modelCaches[dir] = backend
		e.logger.Debug("opened model cache", "dir", dir)
	}
	return badger.NewVectorCache(backend), nil
}
