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

package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/newsflow/ai"
	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/storage"
)

// CachedEmbedder serves repeated texts from a VectorCache and only sends
// misses to the wrapped embedder. Cache keys include the model name so
// switching models never returns stale vectors.
type CachedEmbedder struct {
	embedder ai.Embedder
	cache    storage.VectorCache
	model    string
	logger   *slog.Logger
}

var _ ai.Embedder = (*CachedEmbedder)(nil)

func NewCachedEmbedder(embedder ai.Embedder, cache storage.VectorCache, model string) *CachedEmbedder {
	return &CachedEmbedder{
		embedder: embedder,
		cache:    cache,
		model:    model,
		logger:   slog.Default().With("component", "embedding-cache"),
	}
}

func (c *CachedEmbedder) key(text string) core.ID {
	return core.IDFromContent([]byte(c.model + "\x00" + text))
}

func (c *CachedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	keys := make([]core.ID, len(texts))
	for i, text := range texts {
		keys[i] = c.key(text)
	}

	cached, err := c.cache.GetVectors(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("read vector cache: %w", err)
	}

	var (
		missTexts []string
		missIdx   []int
	)
	for i, key := range keys {
		if _, ok := cached[key]; !ok {
			missTexts = append(missTexts, texts[i])
			missIdx = append(missIdx, i)
		}
	}

	results := make([][]float32, len(texts))
	if len(missTexts) > 0 {
		fresh, err := c.embedder.EmbedTexts(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if len(fresh) != len(missTexts) {
			return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(missTexts), len(fresh))
		}

		toStore := make(map[core.ID][]float32, len(fresh))
		for j, i := range missIdx {
			results[i] = fresh[j]
			toStore[keys[i]] = fresh[j]
		}
		if err := c.cache.PutVectors(ctx, toStore); err != nil {
			c.logger.Warn("error writing vector cache", "err", err)
		}
	}

	for i, key := range keys {
		if results[i] == nil {
			results[i] = cached[key]
		}
	}

	c.logger.Debug("embedded texts", "hits", len(texts)-len(missTexts), "misses", len(missTexts))
	return results, nil
}
