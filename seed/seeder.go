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


package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/storage"
)

const (
	DefaultBatchSize      = 500
	DefaultReportInterval = 1000
)

// ErrArchiveRequired is returned when a Seeder is created without an archive.
var ErrArchiveRequired = errors.New("archive required")

// Result summarizes a seeding run.
type Result struct {
	Read    int
	Added   int
	Skipped int
}

// Seeder writes raw payloads into an archive.
type Seeder struct {
	archive        storage.ArchiveRepository
	batchSize      int
	reportInterval int
	progress       io.Writer
	logger         *slog.Logger
}

type Option func(*Seeder) error

func WithBatchSize(size int) Option {
	return func(s *Seeder) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		s.batchSize = size
		return nil
	}
}

func WithReportInterval(interval int) Option {
	return func(s *Seeder) error {
		if interval < 1 {
			return fmt.Errorf("report interval must be positive, got %d", interval)
		}
		s.reportInterval = interval
		return nil
	}
}

// WithProgress enables progress output to w.
func WithProgress(w io.Writer) Option {
	return func(s *Seeder) error {
		s.progress = w
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

func NewSeeder(archive storage.ArchiveRepository, opts ...Option) (*Seeder, error) {
	if archive == nil {
		return nil, ErrArchiveRequired
	}
	s := &Seeder{
		archive:        archive,
		batchSize:      DefaultBatchSize,
		reportInterval: DefaultReportInterval,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "seeder")
	return s, nil
}

// Run archives payloads in batches. Payloads without a usable created_at
// cannot be placed in the date index and are skipped. Everything else is
// archived unvalidated.
func (s *Seeder) Run(ctx context.Context, payloads core.RawMessage) (*Result, error) {
	result := &Result{Read: len(payloads)}

	var tracker *ProgressTracker
	if s.progress != nil {
		tracker = NewProgressTracker(s.progress, len(payloads), s.reportInterval)
		tracker.Start()
		defer tracker.Finish()
	}

	batch := make([]storage.ArchiveEntry, 0, s.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		added, err := s.archive.AddEntries(ctx, batch...)
		if err != nil {
			return fmt.Errorf("archive batch: %w", err)
		}
		result.Added += added
		if tracker != nil {
			tracker.Increment(len(batch))
		}
		batch = batch[:0]
		return nil
	}

	for i, payload := range payloads {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		publishedAt, err := core.PublishedAt(payload)
		if err != nil {
			s.logger.Warn("skipping undated payload", "index", i, "err", err)
			result.Skipped++
			continue
		}
		batch = append(batch, storage.ArchiveEntry{PublishedAt: publishedAt, Payload: payload})
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := flush(); err != nil {
		return result, err
	}

	s.logger.Info("seeding complete", "read", result.Read, "added", result.Added, "skipped", result.Skipped)
	return result, nil
}
