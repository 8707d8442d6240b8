package ingestion

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mutatingInspector vandalises everything it sees.
type mutatingInspector struct {
	seen int
}

func (m *mutatingInspector) OnArticle(article *core.NewsArticle) {
	m.seen++
	article.Headline = "MUTATED"
	article.Symbols = append(article.Symbols[:0], "MUTATED")
	article.ID = -1
}

func (m *mutatingInspector) OnRejection(rejection *ValidationError) {
	m.seen++
	rejection.Payload["headline"] = "MUTATED"
	rejection.Index = -1
}

func TestInspector_CannotMutateStream(t *testing.T) {
	ctx := context.Background()
	batches := []core.RawMessage{
		{validPayload(1), malformedPayload(2)},
		{validPayload(3)},
	}
	selector := source.NewSelector(source.WithMockBatches(batches...))

	plain := newTestBuilder(t, selector)
	tapper := &mutatingInspector{}
	tapped := newTestBuilder(t, selector, WithInspector(tapper))

	params := core.RunParameters{Mode: core.ModeStream, Debug: true}

	d1, err := plain.Build(params)
	require.NoError(t, err)
	want, err := collect(ctx, d1)
	require.NoError(t, err)

	runner := newTestRunner(t, WithPoolSize(2))
	d2, err := tapped.Build(params)
	require.NoError(t, err)
	sink := &SliceSink{}
	stats, err := runner.Run(ctx, d2, sink)
	require.NoError(t, err)

	assert.Equal(t, 3, tapper.seen)
	assert.Equal(t, want, sink.Articles())
	assert.Equal(t, []int64{1, 3}, articleIDs(sink.Articles()))
	require.Len(t, stats.Rejections, 1)
	assert.Equal(t, 1, stats.Rejections[0].Index)
	assert.NotContains(t, stats.Rejections[0].Payload, "headline")
}

func TestInspectorFunc(t *testing.T) {
	var headlines []string
	ins := InspectorFunc(func(a *core.NewsArticle) {
		headlines = append(headlines, a.Headline)
	})

	observe(ins, BatchResult{
		Articles:   []*core.NewsArticle{{Headline: "a"}, {Headline: "b"}},
		Rejections: []*ValidationError{{Index: 0, Err: core.ErrMissingField}},
	})
	assert.Equal(t, []string{"a", "b"}, headlines)
}

func TestLogInspector(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ins := NewLogInspector(logger, 12)

	ins.OnArticle(&core.NewsArticle{
		ID:       9,
		Headline: "A headline that is far too long to print",
		Source:   "benzinga",
		Symbols:  []string{"SPY", "QQQ"},
	})
	ins.OnRejection(&ValidationError{Batch: 1, Index: 3, Err: core.ErrEmptySource})

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "msg=article")
	assert.Contains(t, lines[0], "id=9")
	assert.Contains(t, lines[0], "symbols=SPY,QQQ")
	assert.Contains(t, lines[0], "component=inspector")
	assert.NotContains(t, lines[0], "far too long")

	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[1], "batch=1")
	assert.Contains(t, lines[1], "index=3")
}

func TestLogInspector_Defaults(t *testing.T) {
	ins := NewLogInspector(nil, 0)
	assert.Equal(t, DefaultHeadlineWidth, ins.width)
	assert.NotNil(t, ins.logger)
}
