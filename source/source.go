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
	"fmt"
	"iter"
	"time"

	"github.com/poiesic/newsflow/core"
)

// Kind identifies which kind of feed a Source reads from.
type Kind int

const (
	// KindMock is the fixed, deterministic debug feed.
	KindMock Kind = iota + 1
	// KindHistorical is a bounded historical range.
	KindHistorical
	// KindLive is an unbounded live feed.
	KindLive
)

func (k Kind) String() string {
	switch k {
	case KindMock:
		return "mock"
	case KindHistorical:
		return "historical"
	case KindLive:
		return "live"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Source yields batches of raw article payloads.
//
// Batches returns a sequence the runtime pulls from. A yielded error ends the
// sequence. Cancelling ctx ends the sequence without an error.
type Source interface {
	Kind() Kind
	Batches(ctx context.Context) iter.Seq2[core.RawMessage, error]
}

// TimeRange is an inclusive [From, To] publication window.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

func (r TimeRange) String() string {
	return r.From.Format(time.RFC3339) + ".." + r.To.Format(time.RFC3339)
}
