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
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/poiesic/newsflow/core"
)

// MaxLineSize bounds a single line of a reader feed.
const MaxLineSize = 4 << 20

// ReaderSubscriber reads a live feed of JSON values from an io.Reader, one
// value per line: an array is a batch, an object is a single-article batch.
// A line that does not hold an array or object becomes a batch with one nil
// payload, so validation rejects it and the feed carries on. Blank lines are
// skipped. Numbers are kept as json.Number so large ids survive intact.
type ReaderSubscriber struct {
	r    io.Reader
	once sync.Once
}

var _ Subscriber = (*ReaderSubscriber)(nil)

// NewReaderSubscriber creates a subscriber over r, typically os.Stdin.
func NewReaderSubscriber(r io.Reader) *ReaderSubscriber {
	return &ReaderSubscriber{r: r}
}

// Subscribe may be called once; the reader cannot be rewound.
func (s *ReaderSubscriber) Subscribe(ctx context.Context) (Subscription, error) {
	var sub Subscription
	s.once.Do(func() {
		scanner := bufio.NewScanner(s.r)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
		sub = &readerSubscription{scanner: scanner}
	})
	if sub == nil {
		return nil, ErrNotRestartable
	}
	return sub, nil
}

type readerSubscription struct {
	scanner *bufio.Scanner
}

// Next does not interrupt a blocked read; cancellation is observed between lines.
func (rs *readerSubscription) Next(ctx context.Context) (core.RawMessage, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !rs.scanner.Scan() {
			if err := rs.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}

		line := bytes.TrimSpace(rs.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return decodeLine(line), nil
	}
}

func decodeLine(line []byte) core.RawMessage {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil || dec.More() {
		return core.RawMessage{nil}
	}

	switch v := value.(type) {
	case []any:
		// Non-object elements become nil payloads so validation rejects them
		// individually instead of failing the whole feed.
		msg := make(core.RawMessage, len(v))
		for i, item := range v {
			if obj, ok := item.(map[string]any); ok {
				msg[i] = core.RawArticle(obj)
			}
		}
		return msg
	case map[string]any:
		return core.RawMessage{core.RawArticle(v)}
	case nil:
		return nil
	default:
		return core.RawMessage{nil}
	}
}

func (rs *readerSubscription) Close() error {
	return nil
}

// ChannelSubscriber is an in-process live feed. Producers Publish batches and
// Close the feed when done; the subscription then ends with io.EOF.
type ChannelSubscriber struct {
	mu     sync.RWMutex
	ch     chan core.RawMessage
	closed bool
}

var _ Subscriber = (*ChannelSubscriber)(nil)

// NewChannelSubscriber creates a feed buffering up to buffer batches.
func NewChannelSubscriber(buffer int) *ChannelSubscriber {
	if buffer < 0 {
		buffer = 0
	}
	return &ChannelSubscriber{ch: make(chan core.RawMessage, buffer)}
}

// Publish sends a batch to the subscriber. It blocks while the buffer is full.
func (c *ChannelSubscriber) Publish(ctx context.Context, batch core.RawMessage) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrSubscriberClosed
	}

	select {
	case c.ch <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the feed. Batches already buffered are still delivered.
func (c *ChannelSubscriber) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}

func (c *ChannelSubscriber) Subscribe(ctx context.Context) (Subscription, error) {
	return &channelSubscription{ch: c.ch}, nil
}

type channelSubscription struct {
	ch <-chan core.RawMessage
}

func (cs *channelSubscription) Next(ctx context.Context) (core.RawMessage, error) {
	select {
	case batch, ok := <-cs.ch:
		if !ok {
			return nil, io.EOF
		}
		return batch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (cs *channelSubscription) Close() error {
	return nil
}
