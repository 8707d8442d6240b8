package source

import (
	"testing"
	"time"

	"github.com/poiesic/newsflow/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	from, to := ptr(day(1)), ptr(day(2))

	tests := []struct {
		name          string
		mode          core.Mode
		from, to      *time.Time
		mockRequested bool
		want          Spec
	}{
		{"batch with range", core.ModeBatch, from, to, false, HistoricalSpec{Range: TimeRange{From: day(1), To: day(2)}}},
		{"batch single instant", core.ModeBatch, from, from, false, HistoricalSpec{Range: TimeRange{From: day(1), To: day(1)}}},
		{"stream", core.ModeStream, nil, nil, false, LiveSpec{}},
		{"stream ignores dates", core.ModeStream, to, from, false, LiveSpec{}},
		{"stream debug is mock", core.ModeStream, nil, nil, true, MockSpec{}},
		{"mock wins over dates", core.ModeStream, from, to, true, MockSpec{}},
		{"mock wins over batch", core.ModeBatch, nil, nil, true, MockSpec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.mode, tt.from, tt.to, tt.mockRequested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind(), got.Kind())
		})
	}
}

func TestResolve_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		mode     core.Mode
		from, to *time.Time
	}{
		{"batch missing both", core.ModeBatch, nil, nil},
		{"batch missing to", core.ModeBatch, ptr(day(1)), nil},
		{"batch missing from", core.ModeBatch, nil, ptr(day(1))},
		{"batch inverted range", core.ModeBatch, ptr(day(3)), ptr(day(1))},
		{"unknown mode", core.Mode(0), ptr(day(1)), ptr(day(2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Resolve(tt.mode, tt.from, tt.to, false)
			assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
			assert.Nil(t, spec)
		})
	}
}

func TestResolve_UnknownModeWrapsSentinel(t *testing.T) {
	_, err := Resolve(core.Mode(9), nil, nil, false)
	assert.ErrorIs(t, err, core.ErrUnknownMode)
}

// Every valid (mode, from, to, mock) combination resolves to exactly the
// variant the selection rules predict.
func TestResolve_SelectionRules(t *testing.T) {
	dates := []*time.Time{nil, ptr(day(1)), ptr(day(5))}
	modes := []core.Mode{core.ModeBatch, core.ModeStream}

	for _, mode := range modes {
		for _, from := range dates {
			for _, to := range dates {
				for _, mock := range []bool{false, true} {
					spec, err := Resolve(mode, from, to, mock)
					switch {
					case mock:
						require.NoError(t, err)
						assert.Equal(t, KindMock, spec.Kind())
					case mode == core.ModeStream:
						require.NoError(t, err)
						assert.Equal(t, KindLive, spec.Kind())
					case from == nil || to == nil || from.After(*to):
						assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
					default:
						require.NoError(t, err)
						require.Equal(t, KindHistorical, spec.Kind())
						hs := spec.(HistoricalSpec)
						assert.Equal(t, *from, hs.Range.From)
						assert.Equal(t, *to, hs.Range.To)
					}
				}
			}
		}
	}
}
