package storage

import (
	"context"
	"time"

	"github.com/poiesic/newsflow/core"
)

// ArchiveEntry is a raw payload together with the publication time it is indexed by.
type ArchiveEntry struct {
	PublishedAt time.Time
	Payload     core.RawArticle
}

// ArchiveRepository stores raw article payloads for historical runs.
// Implementations must be thread-safe and support concurrent access.
type ArchiveRepository interface {
	// AddEntries stores payloads. Entries are keyed by a hash of their content,
	// so adding the same payload twice stores it once.
	// Returns the number of entries that were new.
	AddEntries(ctx context.Context, entries ...ArchiveEntry) (int, error)

	// GetRawArticlesByDateRange returns payloads with start <= PublishedAt <= end,
	// ordered by publication time, skipping the first offset matches and returning
	// at most limit (limit <= 0 means no limit).
	GetRawArticlesByDateRange(ctx context.Context, start, end time.Time, offset, limit int) (core.RawMessage, error)

	// CountByDateRange returns the number of payloads with start <= PublishedAt <= end.
	CountByDateRange(ctx context.Context, start, end time.Time) (int, error)

	// Close releases repository resources. It does not close the shared backend.
	Close() error
}

// CheckpointRepository persists pipeline progress.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint, setting UpdatedAt.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint returns the checkpoint for a pipeline, or nil, nil if none exists.
	LoadCheckpoint(ctx context.Context, pipeline string) (*core.Checkpoint, error)
}

type VectorCache interface {
	// GetVectors returns the cached vectors for keys. Missing keys are absent
	// from the result.
	GetVectors(ctx context.Context, keys ...core.ID) (map[core.ID][]float32, error)

	// PutVectors stores vectors by key, replacing existing entries.
	PutVectors(ctx context.Context, vectors map[core.ID][]float32) error
}
