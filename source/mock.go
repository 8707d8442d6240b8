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
	"context"
	"iter"

	"github.com/poiesic/newsflow/core"
)

// MockSource replays a fixed, finite sequence of batches. It is restartable:
// every call to Batches replays the whole sequence from the start.
type MockSource struct {
	batches []core.RawMessage
}

var _ Source = (*MockSource)(nil)

// NewMockSource creates a mock source over the given batches, or over
// FinancialNews when none are given. The batches are copied.
func NewMockSource(batches ...core.RawMessage) *MockSource {
	if len(batches) == 0 {
		batches = FinancialNews()
	}
	return newMockSource(batches)
}

func newMockSource(batches []core.RawMessage) *MockSource {
	copied := make([]core.RawMessage, len(batches))
	for i, b := range batches {
		copied[i] = b.Clone()
	}
	return &MockSource{batches: copied}
}

func (m *MockSource) Kind() Kind {
	return KindMock
}

// Batches yields a copy of each batch so consumers cannot alter the dataset.
func (m *MockSource) Batches(ctx context.Context) iter.Seq2[core.RawMessage, error] {
	return func(yield func(core.RawMessage, error) bool) {
		for _, batch := range m.batches {
			if ctx.Err() != nil {
				return
			}
			if !yield(batch.Clone(), nil) {
				return
			}
		}
	}
}

// Len returns the number of batches the source replays.
func (m *MockSource) Len() int {
	return len(m.batches)
}

// FinancialNews returns the deterministic debug dataset: three batches of
// well-formed financial news payloads in the live feed's wire shape.
// Each call returns a fresh copy.
func FinancialNews() []core.RawMessage {
	return []core.RawMessage{
		{
			{
				"id":         int64(35000101),
				"headline":   "Treasury Yields Edge Higher Ahead of Fed Minutes",
				"summary":    "Benchmark 10-year yields rose two basis points as traders positioned for the release of the latest policy meeting minutes.",
				"author":     "Newsroom Staff",
				"created_at": "2023-11-21T13:05:12Z",
				"updated_at": "2023-11-21T13:05:13Z",
				"url":        "https://news.example.com/markets/treasury-yields-edge-higher",
				"content":    "<p>Benchmark <b>10-year</b> Treasury yields rose two basis points on Tuesday.</p><p>Traders are watching the minutes for hints on the path of rates into next year.</p>",
				"symbols":    []any{"TLT", "IEF"},
				"source":     "benzinga",
			},
			{
				"id":         int64(35000102),
				"headline":   "Chipmaker Shares Rally After Record Data Center Revenue",
				"summary":    "Semiconductor stocks climbed in premarket trading after a sector bellwether beat revenue estimates on data center demand.",
				"author":     "Markets Desk",
				"created_at": "2023-11-21T13:20:45Z",
				"updated_at": "2023-11-21T13:41:02Z",
				"url":        "https://news.example.com/tech/chipmaker-shares-rally",
				"content":    "<p>Shares of the largest chip designers gained as much as 4% before the open.</p><ul><li>Data center revenue tripled year over year.</li><li>Guidance topped consensus.</li></ul>",
				"symbols":    []any{"NVDA", "AMD", "SMH"},
				"source":     "benzinga",
			},
		},
		{
			{
				"id":         int64(35000117),
				"headline":   "Oil Slides as OPEC+ Delays Output Meeting",
				"summary":    "Crude futures fell more than 3% after the producer group postponed its ministerial meeting by four days.",
				"author":     "Commodities Team",
				"created_at": "2023-11-22T10:02:30Z",
				"updated_at": "2023-11-22T10:02:30Z",
				"url":        "https://news.example.com/commodities/oil-slides-opec-delay",
				"content":    "<p>Brent crude fell to its lowest in a week.</p><p>Analysts said the delay signals disagreement over production quotas.</p>",
				"symbols":    []any{"USO", "XOM", "CVX"},
				"source":     "benzinga",
			},
		},
		{
			{
				"id":         int64(35000140),
				"headline":   "Retailer Raises Holiday Outlook on Strong Online Sales",
				"summary":    "The company lifted its fourth-quarter forecast, citing double-digit growth in e-commerce orders.",
				"author":     "Consumer Desk",
				"created_at": "2023-11-22T12:45:00Z",
				"updated_at": "2023-11-22T12:50:19Z",
				"url":        "https://news.example.com/retail/holiday-outlook-raised",
				"content":    "<div><p>Same-store sales rose 5.2% in the third quarter.</p><script>trackView()</script></div>",
				"symbols":    []any{"WMT", "XRT"},
				"source":     "benzinga",
			},
			{
				"id":         int64(35000141),
				"headline":   "Dollar Steadies as Jobless Claims Fall",
				"summary":    "",
				"author":     "FX Desk",
				"created_at": "2023-11-22T13:31:07Z",
				"updated_at": "2023-11-22T13:31:07Z",
				"url":        "https://news.example.com/fx/dollar-steadies",
				"content":    "<p>Initial jobless claims dropped to 209,000, below expectations.</p>",
				"symbols":    []any{"UUP"},
				"source":     "benzinga",
			},
		},
	}
}
