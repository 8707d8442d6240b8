package source

import (
	"context"
	"time"

	"github.com/poiesic/newsflow/core"
)

// drain collects every batch from src until the sequence ends or fails.
func drain(ctx context.Context, src Source) ([]core.RawMessage, error) {
	var batches []core.RawMessage
	for batch, err := range src.Batches(ctx) {
		if err != nil {
			return batches, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

func ptr(t time.Time) *time.Time {
	return &t
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func article(id int) core.RawArticle {
	return core.RawArticle{
		"id":         int64(id),
		"headline":   "headline",
		"created_at": "2024-01-01T00:00:00Z",
		"source":     "test",
	}
}

func batchOf(ids ...int) core.RawMessage {
	msg := make(core.RawMessage, len(ids))
	for i, id := range ids {
		msg[i] = article(id)
	}
	return msg
}

func ids(batches []core.RawMessage) []int64 {
	var out []int64
	for _, b := range batches {
		for _, a := range b {
			out = append(out, a["id"].(int64))
		}
	}
	return out
}
