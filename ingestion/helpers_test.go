package ingestion

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/source"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func validPayload(id int) core.RawArticle {
	created := baseTime.Add(time.Duration(id) * time.Minute)
	return core.RawArticle{
		"id":         int64(id),
		"headline":   fmt.Sprintf("Headline %d", id),
		"summary":    "summary",
		"author":     "Desk",
		"created_at": created.Format(time.RFC3339),
		"updated_at": created.Add(time.Second).Format(time.RFC3339),
		"url":        fmt.Sprintf("https://news.example.com/%d", id),
		"content":    "<p>body</p>",
		"symbols":    []any{"AAPL"},
		"source":     "test",
	}
}

func malformedPayload(id int) core.RawArticle {
	raw := validPayload(id)
	delete(raw, "headline")
	return raw
}

func articleIDs(articles []*core.NewsArticle) []int64 {
	out := make([]int64, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func ptr(t time.Time) *time.Time {
	return &t
}

func newTestBuilder(t *testing.T, selector *source.Selector, opts ...Option) *Builder {
	t.Helper()
	b, err := NewBuilder(selector, opts...)
	require.NoError(t, err)
	return b
}

func newTestRunner(t *testing.T, opts ...RunnerOption) *Runner {
	t.Helper()
	r, err := NewRunner(opts...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r
}

// recordingInspector keeps everything it observes.
type recordingInspector struct {
	mu         sync.Mutex
	articles   []*core.NewsArticle
	rejections []*ValidationError
}

func (ri *recordingInspector) OnArticle(article *core.NewsArticle) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	ri.articles = append(ri.articles, article)
}

func (ri *recordingInspector) OnRejection(rejection *ValidationError) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	ri.rejections = append(ri.rejections, rejection)
}

// fixedFetcher serves payloads for a historical range from memory.
func fixedFetcher(payloads core.RawMessage) source.Fetcher {
	return source.FetcherFunc(func(ctx context.Context, r source.TimeRange, offset, limit int) (core.RawMessage, error) {
		if offset >= len(payloads) {
			return nil, nil
		}
		end := min(offset+limit, len(payloads))
		return payloads[offset:end].Clone(), nil
	})
}

func collect(ctx context.Context, d *Descriptor) ([]*core.NewsArticle, error) {
	var out []*core.NewsArticle
	for article, err := range d.Articles(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, article)
	}
	return out, nil
}
