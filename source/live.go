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
	"errors"
	"fmt"
	"io"
	"iter"
	"sync/atomic"

	"github.com/poiesic/newsflow/core"
)

// Subscriber is the external client for the live feed.
type Subscriber interface {
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription delivers live batches until the feed ends or ctx is cancelled.
type Subscription interface {
	// Next blocks for the next batch. It returns io.EOF when the feed has ended.
	Next(ctx context.Context) (core.RawMessage, error)
	Close() error
}

// LiveSource reads an unbounded feed. A live feed cannot be replayed, so
// Batches may be iterated only once.
type LiveSource struct {
	subscriber Subscriber
	started    atomic.Bool
}

var _ Source = (*LiveSource)(nil)

// NewLiveSource creates a live source. A nil subscriber produces a source that
// fails with ErrSourceUnavailable when pulled.
func NewLiveSource(subscriber Subscriber) *LiveSource {
	return &LiveSource{subscriber: subscriber}
}

func (l *LiveSource) Kind() Kind {
	return KindLive
}

func (l *LiveSource) Batches(ctx context.Context) iter.Seq2[core.RawMessage, error] {
	return func(yield func(core.RawMessage, error) bool) {
		if !l.started.CompareAndSwap(false, true) {
			yield(nil, ErrNotRestartable)
			return
		}
		if l.subscriber == nil {
			yield(nil, fmt.Errorf("%w: no live subscriber configured", ErrSourceUnavailable))
			return
		}

		sub, err := l.subscriber.Subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			yield(nil, fmt.Errorf("%w: subscribe: %w", ErrSourceUnavailable, err))
			return
		}
		defer sub.Close()

		for {
			batch, err := sub.Next(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, io.EOF) {
					return
				}
				yield(nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
				return
			}
			if len(batch) == 0 {
				continue
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}
