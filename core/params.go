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
	"fmt"
	"strings"
	"time"
)

// Mode selects between a bounded historical run and a continuous live run.
type Mode int

const (
	// ModeBatch processes a fixed historical time range once, to completion.
	ModeBatch Mode = iota + 1
	// ModeStream processes a continuous, unbounded live feed.
	ModeStream
)

func (m Mode) String() string {
	switch m {
	case ModeBatch:
		return "batch"
	case ModeStream:
		return "stream"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts "batch" or "stream" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "batch":
		return ModeBatch, nil
	case "stream":
		return ModeStream, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// RunParameters configure a single pipeline build. They are treated as
// immutable once handed to a builder.
type RunParameters struct {
	Mode Mode
	// From and To bound a batch run. Both are ignored in stream mode.
	From *time.Time
	To   *time.Time
	// Debug enables the inspection tap, and in stream mode the mock feed.
	Debug bool
	// ModelCacheDir is passed through to the embedding stage untouched.
	ModelCacheDir string
}

// MockRequested reports whether the run should read from the deterministic
// mock feed. Batch runs never do, even under debug.
func (p RunParameters) MockRequested() bool {
	return p.Debug && p.Mode == ModeStream
}

// Validate checks that the parameters describe a runnable pipeline.
// Batch mode requires both bounds with From <= To.
func (p RunParameters) Validate() error {
	switch p.Mode {
	case ModeBatch:
		return ValidateRange(p.From, p.To)
	case ModeStream:
		return nil
	default:
		return fmt.Errorf("%w: %w: %s", ErrInvalidConfiguration, ErrUnknownMode, p.Mode)
	}
}

// ValidateRange checks a batch date range for presence and ordering.
func ValidateRange(from, to *time.Time) error {
	if from == nil || to == nil {
		return fmt.Errorf("%w: batch mode requires both from and to", ErrInvalidConfiguration)
	}
	if from.After(*to) {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvalidConfiguration,
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return nil
}
