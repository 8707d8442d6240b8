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

package ingestion

import (
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/poiesic/newsflow/core"
)

// DefaultHeadlineWidth is the display width LogInspector truncates headlines to.
const DefaultHeadlineWidth = 72

// Inspector observes a pipeline after validation. Implementations receive
// copies, so nothing an inspector does can change what reaches the sink.
type Inspector interface {
	OnArticle(article *core.NewsArticle)
	OnRejection(rejection *ValidationError)
}

// InspectorFunc adapts a function to an Inspector that ignores rejections.
type InspectorFunc func(article *core.NewsArticle)

func (f InspectorFunc) OnArticle(article *core.NewsArticle) {
	f(article)
}

func (f InspectorFunc) OnRejection(*ValidationError) {}

// observe feeds a validated batch to the inspector in order.
func observe(inspector Inspector, result BatchResult) {
	if inspector == nil {
		return
	}
	for _, article := range result.Articles {
		inspector.OnArticle(article.Clone())
	}
	for _, rejection := range result.Rejections {
		inspector.OnRejection(rejection.clone())
	}
}

// LogInspector writes every observed article and rejection to a slog.Logger.
type LogInspector struct {
	logger *slog.Logger
	width  int
}

var _ Inspector = (*LogInspector)(nil)

// NewLogInspector creates an inspector that logs through logger. Headlines
// wider than width display cells are truncated; width < 1 uses
// DefaultHeadlineWidth.
func NewLogInspector(logger *slog.Logger, width int) *LogInspector {
	if logger == nil {
		logger = slog.Default()
	}
	if width < 1 {
		width = DefaultHeadlineWidth
	}
	return &LogInspector{
		logger: logger.With("component", "inspector"),
		width:  width,
	}
}

func (li *LogInspector) OnArticle(article *core.NewsArticle) {
	li.logger.Info("article",
		"id", article.ID,
		"headline", runewidth.Truncate(article.Headline, li.width, "…"),
		"source", article.Source,
		"created_at", article.CreatedAt,
		"symbols", strings.Join(article.Symbols, ","))
}

func (li *LogInspector) OnRejection(rejection *ValidationError) {
	li.logger.Warn("rejected payload",
		"batch", rejection.Batch,
		"index", rejection.Index,
		"err", rejection.Err)
}
