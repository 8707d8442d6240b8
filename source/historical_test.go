package source

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/poiesic/newsflow/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceFetcher pages over a fixed slice of payloads and records each call.
type sliceFetcher struct {
	mu      sync.Mutex
	items   core.RawMessage
	offsets []int
	failAt  int
	err     error
}

func (f *sliceFetcher) Fetch(ctx context.Context, r TimeRange, offset, limit int) (core.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offsets = append(f.offsets, offset)
	if f.err != nil && offset >= f.failAt {
		return nil, f.err
	}
	if offset >= len(f.items) {
		return nil, nil
	}
	end := min(offset+limit, len(f.items))
	return f.items[offset:end].Clone(), nil
}

func TestHistoricalSource_Pages(t *testing.T) {
	fetcher := &sliceFetcher{items: batchOf(1, 2, 3, 4, 5, 6, 7)}
	src := NewHistoricalSource(fetcher, TimeRange{From: day(1), To: day(2)}, 3)
	assert.Equal(t, KindHistorical, src.Kind())

	got, err := drain(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Len(t, got[0], 3)
	assert.Len(t, got[2], 1)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, ids(got))
	assert.Equal(t, []int{0, 3, 6}, fetcher.offsets)
}

func TestHistoricalSource_ExactMultipleEndsOnEmptyPage(t *testing.T) {
	fetcher := &sliceFetcher{items: batchOf(1, 2, 3, 4)}
	src := NewHistoricalSource(fetcher, TimeRange{From: day(1), To: day(2)}, 2)

	got, err := drain(context.Background(), src)
	require.NoError(t, err)

	// The trailing empty page is not yielded.
	assert.Len(t, got, 2)
	assert.Equal(t, []int{0, 2, 4}, fetcher.offsets)
}

func TestHistoricalSource_EmptyRange(t *testing.T) {
	src := NewHistoricalSource(&sliceFetcher{}, TimeRange{From: day(1), To: day(1)}, 10)

	got, err := drain(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoricalSource_PassesRange(t *testing.T) {
	rng := TimeRange{From: day(3), To: day(9)}
	var seen TimeRange
	fetcher := FetcherFunc(func(ctx context.Context, r TimeRange, offset, limit int) (core.RawMessage, error) {
		seen = r
		return nil, nil
	})

	_, err := drain(context.Background(), NewHistoricalSource(fetcher, rng, 0))
	require.NoError(t, err)
	assert.Equal(t, rng, seen)
}

func TestHistoricalSource_FetchError(t *testing.T) {
	boom := errors.New("archive offline")
	fetcher := &sliceFetcher{items: batchOf(1, 2, 3, 4), failAt: 2, err: boom}
	src := NewHistoricalSource(fetcher, TimeRange{From: day(1), To: day(2)}, 2)

	got, err := drain(context.Background(), src)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestHistoricalSource_CancelStopsSilently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := FetcherFunc(func(ctx context.Context, r TimeRange, offset, limit int) (core.RawMessage, error) {
		cancel()
		return nil, ctx.Err()
	})

	got, err := drain(ctx, NewHistoricalSource(fetcher, TimeRange{From: day(1), To: day(2)}, 2))
	require.NoError(t, err)
	assert.Empty(t, got)
}
