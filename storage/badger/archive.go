package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/storage"
)

// ArchiveRepository implements storage.ArchiveRepository for BadgerDB.
type ArchiveRepository struct {
	backend *Backend
}

var _ storage.ArchiveRepository = (*ArchiveRepository)(nil)

// NewArchiveRepository creates a new ArchiveRepository.
func NewArchiveRepository(backend *Backend) *ArchiveRepository {
	return &ArchiveRepository{backend: backend}
}

// Close is a no-op; the backend is closed by its owner.
func (r *ArchiveRepository) Close() error {
	return nil
}

// AddEntries stores payloads keyed by a content hash of their encoding.
func (r *ArchiveRepository) AddEntries(ctx context.Context, entries ...storage.ArchiveEntry) (int, error) {
	added := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for i, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			if entry.PublishedAt.IsZero() {
				return fmt.Errorf("%w: entry %d has no publication time", storage.ErrInvalidQuery, i)
			}

			value, err := storage.MarshalRawArticle(entry.Payload)
			if err != nil {
				return err
			}
			id := core.IDFromContent(value)
			key := makeArchiveKey(id)

			// Identical payloads are stored once
			if _, err := tx.Get(key); err == nil {
				continue
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index
			dateKey := makeArchiveDateKey(entry.PublishedAt, id)
			if err := tx.Set(dateKey, storage.MarshalID(id)); err != nil {
				return err
			}
			added++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return added, nil
}

// GetRawArticlesByDateRange returns payloads with start <= PublishedAt <= end.
func (r *ArchiveRepository) GetRawArticlesByDateRange(ctx context.Context, start, end time.Time, offset, limit int) (core.RawMessage, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end precedes start", storage.ErrInvalidQuery)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: negative offset", storage.ErrInvalidQuery)
	}

	var results core.RawMessage
	err := r.scanDateRange(ctx, start, end, func(tx *badger.Txn, idx int, id core.ID) (bool, error) {
		if idx < offset {
			return true, nil
		}
		raw, err := r.readPayload(tx, id)
		if err != nil {
			return false, err
		}
		results = append(results, raw)
		return limit <= 0 || len(results) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CountByDateRange returns the number of payloads with start <= PublishedAt <= end.
func (r *ArchiveRepository) CountByDateRange(ctx context.Context, start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: end precedes start", storage.ErrInvalidQuery)
	}

	count := 0
	err := r.scanDateRange(ctx, start, end, func(_ *badger.Txn, _ int, _ core.ID) (bool, error) {
		count++
		return true, nil
	})
	return count, err
}

// scanDateRange walks the date index in order, calling fn with the match
// index and payload ID until fn returns false. The end bound is inclusive.
func (r *ArchiveRepository) scanDateRange(ctx context.Context, start, end time.Time, fn func(tx *badger.Txn, idx int, id core.ID) (bool, error)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialArchiveDateKey(start)
		stopKey := makePartialArchiveDateKey(end.Add(time.Microsecond))

		opts := badger.DefaultIteratorOptions
		opts.Prefix = archiveDateIndexPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		idx := 0
		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := iter.Item()
			if bytes.Compare(item.Key(), stopKey) >= 0 {
				break
			}

			var id core.ID
			if err := item.Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			more, err := fn(tx, idx, id)
			if err != nil {
				return err
			}
			idx++
			if !more {
				break
			}
		}
		return nil
	}, false)
}

func (r *ArchiveRepository) readPayload(tx *badger.Txn, id core.ID) (core.RawArticle, error) {
	item, err := tx.Get(makeArchiveKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: payload %d", storage.ErrNotFound, id)
		}
		return nil, err
	}

	var raw core.RawArticle
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		raw, unmarshalErr = storage.UnmarshalRawArticle(val)
		return unmarshalErr
	})
	return raw, err
}
