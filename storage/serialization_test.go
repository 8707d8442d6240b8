package storage

import (
	"testing"
	"time"

	"github.com/poiesic/newsflow/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent([]byte("test content"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalRawArticle(t *testing.T) {
	created := time.Date(2024, 2, 14, 9, 30, 0, 0, time.UTC)
	raw := core.RawArticle{
		"id":         float64(1001),
		"headline":   "Stocks open higher",
		"created_at": "2024-02-14T09:30:00Z",
		"published":  created,
		"symbols":    []any{"SPY", "QQQ"},
		"source":     "benzinga",
	}

	data, err := MarshalRawArticle(raw)
	require.NoError(t, err)

	decoded, err := UnmarshalRawArticle(data)
	require.NoError(t, err)

	assert.Equal(t, "Stocks open higher", decoded["headline"])
	assert.Equal(t, "2024-02-14T09:30:00Z", decoded["created_at"])
	assert.Equal(t, []any{"SPY", "QQQ"}, decoded["symbols"])
	assert.EqualValues(t, 1001, decoded["id"])

	published, ok := decoded["published"].(time.Time)
	require.True(t, ok, "time values survive as time.Time")
	assert.True(t, created.Equal(published))

	// Decoded payloads still pass validation
	article, err := core.ParseArticle(decoded)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), article.ID)
}

func TestMarshalRawArticle_Deterministic(t *testing.T) {
	a := core.RawArticle{"b": "2", "a": "1", "c": []any{"x"}}
	b := core.RawArticle{"c": []any{"x"}, "a": "1", "b": "2"}

	da, err := MarshalRawArticle(a)
	require.NoError(t, err)
	db, err := MarshalRawArticle(b)
	require.NoError(t, err)

	assert.Equal(t, da, db)
	assert.Equal(t, core.IDFromContent(da), core.IDFromContent(db))
}

func TestUnmarshalRawArticle_Invalid(t *testing.T) {
	_, err := UnmarshalRawArticle([]byte{0xc1})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name       string
		checkpoint *core.Checkpoint
	}{
		{
			name: "full checkpoint",
			checkpoint: &core.Checkpoint{
				Pipeline:      "news-batch",
				Processed:     1234,
				LastPublished: now.Add(-time.Hour),
				UpdatedAt:     now,
			},
		},
		{
			name:       "zero times",
			checkpoint: &core.Checkpoint{Pipeline: "news-stream"},
		},
		{
			name:       "empty pipeline",
			checkpoint: &core.Checkpoint{Processed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalCheckpoint(tt.checkpoint)

			decoded, err := UnmarshalCheckpoint(data)
			require.NoError(t, err)

			assert.Equal(t, tt.checkpoint.Pipeline, decoded.Pipeline)
			assert.Equal(t, tt.checkpoint.Processed, decoded.Processed)
			assert.True(t, tt.checkpoint.LastPublished.Equal(decoded.LastPublished))
			assert.True(t, tt.checkpoint.UpdatedAt.Equal(decoded.UpdatedAt))
			assert.Equal(t, tt.checkpoint.LastPublished.IsZero(), decoded.LastPublished.IsZero())
		})
	}
}

func TestUnmarshalCheckpoint_Truncated(t *testing.T) {
	data := MarshalCheckpoint(&core.Checkpoint{Pipeline: "news", Processed: 300})

	_, err := UnmarshalCheckpoint(data[:len(data)-2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalVector(t *testing.T) {
	vector := []float32{0.25, -1.5, 0, 3.75}

	data, err := MarshalVector(vector)
	require.NoError(t, err)

	decoded, err := UnmarshalVector(data)
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)

	_, err = UnmarshalVector([]byte{0xc1})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
