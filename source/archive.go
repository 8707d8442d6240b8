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

	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/storage"
)

// ArchiveFetcher serves historical ranges from the local article archive.
type ArchiveFetcher struct {
	archive storage.ArchiveRepository
}

var _ Fetcher = (*ArchiveFetcher)(nil)

// NewArchiveFetcher creates a fetcher over archive.
func NewArchiveFetcher(archive storage.ArchiveRepository) *ArchiveFetcher {
	return &ArchiveFetcher{archive: archive}
}

func (f *ArchiveFetcher) Fetch(ctx context.Context, r TimeRange, offset, limit int) (core.RawMessage, error) {
	return f.archive.GetRawArticlesByDateRange(ctx, r.From, r.To, offset, limit)
}
