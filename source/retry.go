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
	"log/slog"
	"time"

	"github.com/poiesic/newsflow/core"
)

// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0.
var ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

// RetryingFetcher wraps a Fetcher with exponential backoff. Retry policy
// belongs to the fetching side; sources themselves never retry.
type RetryingFetcher struct {
	fetcher     Fetcher
	maxAttempts int
	baseDelay   time.Duration
}

var _ Fetcher = (*RetryingFetcher)(nil)

// NewRetryingFetcher wraps fetcher. maxAttempts counts the first try.
func NewRetryingFetcher(fetcher Fetcher, maxAttempts int, baseDelay time.Duration) *RetryingFetcher {
	return &RetryingFetcher{
		fetcher:     fetcher,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

func (rf *RetryingFetcher) Fetch(ctx context.Context, r TimeRange, offset, limit int) (core.RawMessage, error) {
	var page core.RawMessage
	err := RetryWithBackoff(ctx, func() error {
		var err error
		page, err = rf.fetcher.Fetch(ctx, r, offset, limit)
		return err
	}, rf.maxAttempts, rf.baseDelay)
	return page, err
}

// RetryWithBackoff retries an operation with exponential backoff.
// maxAttempts: maximum number of attempts (must be > 0)
// baseDelay: base delay between retries (doubles on each retry)
// Returns the error from the last attempt if all attempts fail.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("fetch succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("fetch failed, will retry", "attempt", attempt, "maxAttempts", maxAttempts, "error", lastErr)

		if attempt == maxAttempts {
			break
		}

		delay := baseDelay << (attempt - 1)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
