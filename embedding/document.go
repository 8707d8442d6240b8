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
	"fmt"
	"strings"

	"github.com/poiesic/newsflow/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the default chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the default overlap between adjacent chunks.
	DefaultChunkOverlap = 100
)

// Document is one embeddable chunk of an article.
type Document struct {
	ArticleID int64             `json:"article_id"`
	Chunk     int               `json:"chunk"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata"`
	Vector    []float32         `json:"vector,omitempty"`
}

// DefaultSplitter returns a recursive character splitter with the default
// chunk size and overlap.
func DefaultSplitter() textsplitter.TextSplitter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(DefaultChunkSize),
		textsplitter.WithChunkOverlap(DefaultChunkOverlap),
	)
}

// NewDocuments splits an article into documents. The headline leads the text
// and the body is cleaned of markup first. A nil splitter keeps the whole
// article in one document.
func NewDocuments(article *core.NewsArticle, splitter textsplitter.TextSplitter) ([]*Document, error) {
	body, err := CleanHTML(article.Body())
	if err != nil {
		return nil, fmt.Errorf("clean article %d: %w", article.ID, err)
	}

	text := strings.TrimSpace(article.Headline)
	if body != "" {
		text += "\n\n" + body
	}

	chunks := []string{text}
	if splitter != nil {
		if chunks, err = splitter.SplitText(text); err != nil {
			return nil, fmt.Errorf("split article %d: %w", article.ID, err)
		}
	}

	docs := make([]*Document, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		docs = append(docs, &Document{
			ArticleID: article.ID,
			Chunk:     len(docs),
			Text:      chunk,
			Metadata:  article.Metadata(),
		})
	}
	return docs, nil
}
