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

package source

import (
	"fmt"
	"time"

	"github.com/poiesic/newsflow/core"
)

// Spec is the resolved source decision. Only HistoricalSpec carries a range,
// so a live or mock decision can never hold a stale date window.
type Spec interface {
	Kind() Kind
	spec()
}

// MockSpec selects the deterministic mock feed.
type MockSpec struct{}

// HistoricalSpec selects a bounded historical range.
type HistoricalSpec struct {
	Range TimeRange
}

// LiveSpec selects the unbounded live feed.
type LiveSpec struct{}

func (MockSpec) Kind() Kind       { return KindMock }
func (HistoricalSpec) Kind() Kind { return KindHistorical }
func (LiveSpec) Kind() Kind       { return KindLive }

func (MockSpec) spec()       {}
func (HistoricalSpec) spec() {}
func (LiveSpec) spec()       {}

// Resolve decides which source a run reads from.
//
// Rules, in order:
//  1. mockRequested selects the mock feed regardless of any dates.
//  2. Batch mode requires both bounds with from <= to and selects the
//     historical range; otherwise it fails with core.ErrInvalidConfiguration.
//  3. Stream mode selects the live feed; bounds are ignored.
//
// Callers set mockRequested only for debug stream runs (see
// core.RunParameters.MockRequested); batch runs never reach the mock.
func Resolve(mode core.Mode, from, to *time.Time, mockRequested bool) (Spec, error) {
	if mockRequested {
		return MockSpec{}, nil
	}

	switch mode {
	case core.ModeBatch:
		if err := core.ValidateRange(from, to); err != nil {
			return nil, err
		}
		return HistoricalSpec{Range: TimeRange{From: *from, To: *to}}, nil
	case core.ModeStream:
		return LiveSpec{}, nil
	default:
		return nil, fmt.Errorf("%w: %w: %s", core.ErrInvalidConfiguration, core.ErrUnknownMode, mode)
	}
}
