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

package core

import (
	"encoding/binary"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for archived payloads.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(content []byte) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(content)
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RawArticle is a single untyped article payload as delivered by a source.
type RawArticle map[string]any

// Clone returns a deep copy of the payload. Nested slices and maps are copied.
func (r RawArticle) Clone() RawArticle {
	if r == nil {
		return nil
	}
	out := make(RawArticle, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	case []string:
		return slices.Clone(val)
	case map[string]any:
		return map[string]any(RawArticle(val).Clone())
	case RawArticle:
		return val.Clone()
	default:
		return v
	}
}

// RawMessage is one batch of raw payloads. A source yields a sequence of them.
type RawMessage []RawArticle

// Clone returns a deep copy of the batch.
func (m RawMessage) Clone() RawMessage {
	if m == nil {
		return nil
	}
	out := make(RawMessage, len(m))
	for i, raw := range m {
		out[i] = raw.Clone()
	}
	return out
}

// NewsArticle is a validated article. The JSON field names are the stable
// downstream contract and must not change between pipeline versions.
type NewsArticle struct {
	ID        int64     `json:"id"`
	Headline  string    `json:"headline"`
	Summary   string    `json:"summary"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `json:"url,omitempty"`
	Content   string    `json:"content"`
	Symbols   []string  `json:"symbols"`
	Source    string    `json:"source"`
}

// Body returns the article body text, falling back to the summary when the
// article carries no content.
func (a *NewsArticle) Body() string {
	if a.Content != "" {
		return a.Content
	}
	return a.Summary
}

// Clone returns a deep copy of the article.
func (a *NewsArticle) Clone() *NewsArticle {
	if a == nil {
		return nil
	}
	c := *a
	c.Symbols = slices.Clone(a.Symbols)
	return &c
}

// Checkpoint records how far a named pipeline has progressed.
type Checkpoint struct {
	Pipeline      string
	Processed     uint64
	LastPublished time.Time
	UpdatedAt     time.Time
}

// Metadata flattens the non-text attributes of an article for downstream consumers.
func (a *NewsArticle) Metadata() map[string]string {
	md := map[string]string{
		"source":     a.Source,
		"author":     a.Author,
		"created_at": a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.URL != "" {
		md["url"] = a.URL
	}
	if len(a.Symbols) > 0 {
		md["symbols"] = strings.Join(a.Symbols, ",")
	}
	maps.DeleteFunc(md, func(_, v string) bool { return v == "" })
	return md
}
