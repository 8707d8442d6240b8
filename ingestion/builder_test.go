package ingestion

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuilder(t *testing.T) {
	t.Run("nil selector", func(t *testing.T) {
		_, err := NewBuilder(nil)
		assert.Equal(t, ErrSelectorRequired, err)
	})

	t.Run("defaults", func(t *testing.T) {
		b := newTestBuilder(t, source.NewSelector())
		assert.Equal(t, PolicyLenient, b.policy)
		assert.Nil(t, b.inspector)
		assert.NotNil(t, b.logger)
	})

	t.Run("invalid policy", func(t *testing.T) {
		_, err := NewBuilder(source.NewSelector(), WithPolicy(Policy(42)))
		assert.ErrorIs(t, err, ErrUnknownPolicy)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		b := newTestBuilder(t, source.NewSelector(), WithLogger(nil))
		assert.NotNil(t, b.logger)
	})
}

// Stream with debug runs the mock dataset, parsed, in original order.
func TestBuild_StreamDebugUsesMockDataset(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(t, source.NewSelector(), WithInspector(&recordingInspector{}))

	d, err := b.Build(core.RunParameters{Mode: core.ModeStream, Debug: true})
	require.NoError(t, err)
	assert.Equal(t, source.KindMock, d.Source().Kind())
	assert.True(t, d.Inspected())

	got, err := collect(ctx, d)
	require.NoError(t, err)

	var want []*core.NewsArticle
	for _, batch := range source.FinancialNews() {
		for _, raw := range batch {
			article, err := core.ParseArticle(raw)
			require.NoError(t, err)
			want = append(want, article)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mock pipeline output mismatch (-want +got):\n%s", diff)
	}
}

// An inverted range fails at build time.
func TestBuild_InvertedRange(t *testing.T) {
	fetched := false
	fetcher := source.FetcherFunc(func(ctx context.Context, r source.TimeRange, offset, limit int) (core.RawMessage, error) {
		fetched = true
		return nil, nil
	})
	b := newTestBuilder(t, source.NewSelector(source.WithFetcher(fetcher)))

	t1 := baseTime.Add(24 * time.Hour)
	t2 := baseTime
	d, err := b.BuildFrom(core.ModeBatch, &t1, &t2, "", false)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	assert.Nil(t, d)
	assert.False(t, fetched)
}

func TestBuild_BatchMissingBounds(t *testing.T) {
	b := newTestBuilder(t, source.NewSelector())
	from := baseTime

	for _, debug := range []bool{false, true} {
		for _, bounds := range [][2]*time.Time{{nil, nil}, {&from, nil}, {nil, &from}} {
			_, err := b.Build(core.RunParameters{Mode: core.ModeBatch, From: bounds[0], To: bounds[1], Debug: debug})
			assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
		}
	}
}

func TestBuild_StreamDebugIgnoresDates(t *testing.T) {
	b := newTestBuilder(t, source.NewSelector())
	later := baseTime.Add(time.Hour)

	for _, bounds := range [][2]*time.Time{{nil, nil}, {&baseTime, &later}, {&later, &baseTime}, {&later, nil}} {
		d, err := b.Build(core.RunParameters{Mode: core.ModeStream, From: bounds[0], To: bounds[1], Debug: true})
		require.NoError(t, err)
		assert.Equal(t, source.KindMock, d.Source().Kind())
	}
}

func TestBuild_BatchDebugNeverMocks(t *testing.T) {
	payloads := core.RawMessage{validPayload(1), validPayload(2)}
	b := newTestBuilder(t, source.NewSelector(source.WithFetcher(fixedFetcher(payloads))),
		WithInspector(&recordingInspector{}))

	d, err := b.BuildFrom(core.ModeBatch, ptr(baseTime), ptr(baseTime.Add(time.Hour)), "", true)
	require.NoError(t, err)
	assert.Equal(t, source.KindHistorical, d.Source().Kind())
	assert.True(t, d.Inspected())

	got, err := collect(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, articleIDs(got))
}

func TestBuild_StreamWithoutDebugIsLive(t *testing.T) {
	b := newTestBuilder(t, source.NewSelector())
	d, err := b.Build(core.RunParameters{Mode: core.ModeStream})
	require.NoError(t, err)
	assert.Equal(t, source.KindLive, d.Source().Kind())
	assert.False(t, d.Inspected())
	assert.Equal(t, "news-live", d.Name())
}

func TestBuild_InspectorOnlyInDebug(t *testing.T) {
	ins := &recordingInspector{}
	payloads := core.RawMessage{validPayload(1), malformedPayload(2)}
	b := newTestBuilder(t, source.NewSelector(source.WithFetcher(fixedFetcher(payloads))), WithInspector(ins))
	from, to := ptr(baseTime), ptr(baseTime.Add(time.Hour))

	quiet, err := b.BuildFrom(core.ModeBatch, from, to, "", false)
	require.NoError(t, err)
	assert.False(t, quiet.Inspected())
	_, err = collect(context.Background(), quiet)
	require.NoError(t, err)
	assert.Empty(t, ins.articles)

	loud, err := b.BuildFrom(core.ModeBatch, from, to, "", true)
	require.NoError(t, err)
	_, err = collect(context.Background(), loud)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, articleIDs(ins.articles))
	require.Len(t, ins.rejections, 1)
	assert.Equal(t, 1, ins.rejections[0].Index)
}

func TestBuild_DefaultInspectorInDebug(t *testing.T) {
	b := newTestBuilder(t, source.NewSelector())
	d, err := b.Build(core.RunParameters{Mode: core.ModeStream, Debug: true})
	require.NoError(t, err)
	assert.IsType(t, &LogInspector{}, d.inspector)
}

func TestBuild_DefaultInspectorLogsOneComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	b := newTestBuilder(t, source.NewSelector(), WithLogger(logger))
	d, err := b.Build(core.RunParameters{Mode: core.ModeStream, Debug: true})
	require.NoError(t, err)
	_, err = collect(context.Background(), d)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, "component="), line)
		assert.Contains(t, line, "component=inspector")
		assert.Contains(t, line, "pipeline="+d.Name())
	}
}

func TestBuild_Idempotent(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(t, source.NewSelector())
	params := core.RunParameters{Mode: core.ModeStream, Debug: true, ModelCacheDir: "/tmp/models"}

	d1, err := b.Build(params)
	require.NoError(t, err)
	d2, err := b.Build(params)
	require.NoError(t, err)

	assert.NotSame(t, d1, d2)
	assert.NotSame(t, d1.Source(), d2.Source())
	assert.Equal(t, d1.Name(), d2.Name())

	out1, err := collect(ctx, d1)
	require.NoError(t, err)

	// Mutating one descriptor's output leaves the other untouched.
	for _, a := range out1 {
		a.Headline = "changed"
	}

	out2, err := collect(ctx, d2)
	require.NoError(t, err)
	require.Len(t, out2, len(out1))
	for _, a := range out2 {
		assert.NotEqual(t, "changed", a.Headline)
	}

	// And a restart of the first yields the original data again.
	again, err := collect(ctx, d1)
	require.NoError(t, err)
	if diff := cmp.Diff(out2, again); diff != "" {
		t.Errorf("restarted mock pipeline differs (-want +got):\n%s", diff)
	}
}

func TestBuild_ParamsArePrivateCopies(t *testing.T) {
	payloads := core.RawMessage{validPayload(1)}
	b := newTestBuilder(t, source.NewSelector(source.WithFetcher(fixedFetcher(payloads))))

	from, to := baseTime, baseTime.Add(time.Hour)
	params := core.RunParameters{Mode: core.ModeBatch, From: &from, To: &to, ModelCacheDir: "/models"}
	d, err := b.Build(params)
	require.NoError(t, err)

	from = from.Add(100 * time.Hour)
	got := d.Params()
	assert.Equal(t, baseTime, *got.From)
	assert.Equal(t, "/models", d.ModelCacheDir())

	*got.To = time.Time{}
	assert.Equal(t, baseTime.Add(time.Hour), *d.Params().To)
}

func TestBuild_Names(t *testing.T) {
	payloads := core.RawMessage{validPayload(1)}
	selector := source.NewSelector(source.WithFetcher(fixedFetcher(payloads)))

	d, err := newTestBuilder(t, selector).BuildFrom(core.ModeBatch, ptr(baseTime), ptr(baseTime.Add(time.Hour)), "", false)
	require.NoError(t, err)
	assert.Equal(t, "news-historical-20240501T120000Z-20240501T130000Z", d.Name())

	d, err = newTestBuilder(t, selector, WithName("nightly")).Build(core.RunParameters{Mode: core.ModeStream, Debug: true})
	require.NoError(t, err)
	assert.Equal(t, "nightly", d.Name())
	assert.Equal(t, PolicyLenient, d.Policy())
}

func TestDescriptor_StrictStopsAtBadBatch(t *testing.T) {
	batches := []core.RawMessage{
		{validPayload(1), validPayload(2)},
		{validPayload(3), malformedPayload(4)},
		{validPayload(5)},
	}
	b := newTestBuilder(t, source.NewSelector(source.WithMockBatches(batches...)), WithPolicy(PolicyStrict))

	d, err := b.Build(core.RunParameters{Mode: core.ModeStream, Debug: true})
	require.NoError(t, err)

	got, err := collect(context.Background(), d)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Batch)
	assert.Equal(t, 1, verr.Index)
	assert.Equal(t, []int64{1, 2}, articleIDs(got))
}

func TestDescriptor_SourceErrorPropagates(t *testing.T) {
	b := newTestBuilder(t, source.NewSelector())
	d, err := b.Build(core.RunParameters{Mode: core.ModeStream})
	require.NoError(t, err)

	// No subscriber configured
	_, err = collect(context.Background(), d)
	assert.ErrorIs(t, err, source.ErrSourceUnavailable)
}
