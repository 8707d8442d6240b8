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
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/storage"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes a run.
type Stats struct {
	Batches  int
	Accepted int
	Rejected int
	// Rejections holds every payload dropped under PolicyLenient, in order.
	Rejections []*ValidationError
}

// Runner executes descriptors. Validation runs concurrently on a worker pool;
// inspection and sink writes happen in source order on a single goroutine.
type Runner struct {
	pool        *ants.Pool
	poolSize    int
	checkpoints storage.CheckpointRepository
	logger      *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner) error

// WithPoolSize sets the worker pool size for concurrent validation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) RunnerOption {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if r.pool != nil {
			r.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		r.poolSize = size
		return nil
	}
}

// WithCheckpoints records progress after every batch under the descriptor's name.
func WithCheckpoints(repo storage.CheckpointRepository) RunnerOption {
	return func(r *Runner) error {
		r.checkpoints = repo
		return nil
	}
}

// WithRunnerLogger sets a custom logger.
// Default is slog.Default().
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a Runner. Call Release when done with it.
func NewRunner(opts ...RunnerOption) (*Runner, error) {
	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		pool:     pool,
		poolSize: poolSize,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	r.logger = r.logger.With("component", "runner")
	return r, nil
}

// Release releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// pendingBatch is one batch in flight. done is closed once validation ends.
type pendingBatch struct {
	seq    int
	batch  core.RawMessage
	result BatchResult
	err    error
	done   chan struct{}
}

// Run drives d to completion and writes every validated batch to sink.
// A bounded source finishes on its own; a live source runs until ctx is
// cancelled, in which case ctx.Err() is returned along with the stats so far.
func (r *Runner) Run(ctx context.Context, d *Descriptor, sink Sink) (*Stats, error) {
	if d == nil {
		return nil, ErrDescriptorRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}

	logger := r.logger.With("pipeline", d.Name())
	stats := &Stats{}
	start := time.Now()

	checkpoint := r.loadCheckpoint(ctx, d.Name(), logger)

	g, gctx := errgroup.WithContext(ctx)
	inflight := make(chan *pendingBatch, r.poolSize)

	// Producer: pulls batches and hands them to the pool in source order.
	g.Go(func() error {
		defer close(inflight)

		seq := 0
		for batch, err := range d.Source().Batches(gctx) {
			if err != nil {
				return err
			}

			p := &pendingBatch{seq: seq, batch: batch, done: make(chan struct{})}
			seq++
			if err := r.pool.Submit(func() {
				defer close(p.done)
				p.result, p.err = d.validate(p.seq, p.batch)
			}); err != nil {
				return fmt.Errorf("submit batch %d: %w", p.seq, err)
			}

			select {
			case inflight <- p:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	// Consumer: waits for each batch in turn so output keeps source order.
	g.Go(func() error {
		for p := range inflight {
			select {
			case <-p.done:
			case <-gctx.Done():
				return nil
			}

			stats.Batches++
			d.observe(p.result)
			if p.err != nil {
				stats.Rejected += len(p.result.Rejections)
				return p.err
			}

			stats.Accepted += len(p.result.Articles)
			stats.Rejected += len(p.result.Rejections)
			stats.Rejections = append(stats.Rejections, p.result.Rejections...)

			if len(p.result.Articles) > 0 {
				if err := sink.Write(gctx, p.result.Articles); err != nil {
					return fmt.Errorf("write batch %d: %w", p.seq, err)
				}
			}

			r.saveCheckpoint(gctx, checkpoint, p.result.Articles, logger)
			logger.Debug("batch processed", "batch", p.seq,
				"accepted", len(p.result.Articles), "rejected", len(p.result.Rejections))
		}
		return nil
	})

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	logger.Info("run finished",
		"batches", stats.Batches,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"elapsed", time.Since(start),
		"err", err)
	return stats, err
}

// loadCheckpoint reports the previous run under name and starts a fresh
// checkpoint for this one.
func (r *Runner) loadCheckpoint(ctx context.Context, name string, logger *slog.Logger) *core.Checkpoint {
	if r.checkpoints == nil {
		return nil
	}

	previous, err := r.checkpoints.LoadCheckpoint(ctx, name)
	if err != nil {
		logger.Error("error loading checkpoint", "err", err)
	} else if previous != nil {
		logger.Info("previous checkpoint found",
			"processed", previous.Processed,
			"last_published", previous.LastPublished,
			"updated_at", previous.UpdatedAt)
	}
	return &core.Checkpoint{Pipeline: name}
}

// saveCheckpoint records progress. Failures are logged and do not stop the run.
func (r *Runner) saveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint, articles []*core.NewsArticle, logger *slog.Logger) {
	if checkpoint == nil {
		return
	}

	checkpoint.Processed += uint64(len(articles))
	for _, article := range articles {
		if article.CreatedAt.After(checkpoint.LastPublished) {
			checkpoint.LastPublished = article.CreatedAt
		}
	}

	if err := r.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
		logger.Error("error applying checkpoint", "err", err)
	}
}
