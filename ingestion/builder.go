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
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/source"
)

// Builder composes descriptors from run parameters.
type Builder struct {
	selector  *source.Selector
	policy    Policy
	inspector Inspector
	name      string
	logger    *slog.Logger
	// base is the logger before the builder scopes it to its own component.
	base *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPolicy sets the validation policy.
// Default is PolicyLenient.
func WithPolicy(policy Policy) Option {
	return func(b *Builder) error {
		if policy != PolicyLenient && policy != PolicyStrict {
			return fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
		}
		b.policy = policy
		return nil
	}
}

// WithInspector sets the inspector attached to debug builds.
// Default is a LogInspector on the builder's logger.
func WithInspector(inspector Inspector) Option {
	return func(b *Builder) error {
		b.inspector = inspector
		return nil
	}
}

// WithName fixes the descriptor name, which also keys run checkpoints.
// By default the name is derived from the resolved source.
func WithName(name string) Option {
	return func(b *Builder) error {
		b.name = name
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a Builder that resolves sources through selector.
func NewBuilder(selector *source.Selector, opts ...Option) (*Builder, error) {
	if selector == nil {
		return nil, ErrSelectorRequired
	}

	b := &Builder{
		selector: selector,
		policy:   PolicyLenient,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	b.base = b.logger
	b.logger = b.logger.With("component", "pipeline-builder")
	return b, nil
}

// Build composes a descriptor for params. Configuration errors are returned
// before any source is constructed. Nothing is executed.
func (b *Builder) Build(params core.RunParameters) (*Descriptor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params = copyParams(params)

	isMocked := params.MockRequested()
	src, err := b.selector.Select(params.Mode, params.From, params.To, isMocked)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		name:      b.name,
		params:    params,
		source:    src,
		validator: NewValidator(b.policy),
	}
	if d.name == "" {
		d.name = defaultName(src)
	}
	d.logger = b.logger.With("pipeline", d.name)

	if params.Debug {
		d.inspector = b.inspector
		if d.inspector == nil {
			d.inspector = NewLogInspector(b.base.With("pipeline", d.name), DefaultHeadlineWidth)
		}
	}

	b.logger.Debug("pipeline built",
		"pipeline", d.name,
		"mode", params.Mode,
		"source", src.Kind(),
		"mocked", isMocked,
		"policy", b.policy,
		"inspected", d.Inspected())
	return d, nil
}

// BuildFrom is Build with the run parameters spelled out.
func (b *Builder) BuildFrom(mode core.Mode, from, to *time.Time, modelCacheDir string, debug bool) (*Descriptor, error) {
	return b.Build(core.RunParameters{
		Mode:          mode,
		From:          from,
		To:            to,
		Debug:         debug,
		ModelCacheDir: modelCacheDir,
	})
}

func defaultName(src source.Source) string {
	if hs, ok := src.(*source.HistoricalSource); ok {
		r := hs.Range()
		return fmt.Sprintf("news-%s-%s-%s", src.Kind(),
			r.From.UTC().Format("20060102T150405Z"), r.To.UTC().Format("20060102T150405Z"))
	}
	return "news-" + src.Kind().String()
}
