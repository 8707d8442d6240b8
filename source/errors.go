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

import "errors"

var (
	// ErrSourceUnavailable is returned when the underlying fetch or subscription fails.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNotRestartable is returned when a live source is iterated a second time.
	ErrNotRestartable = errors.New("source cannot be restarted")

	// ErrSubscriberClosed is returned when publishing to a closed ChannelSubscriber.
	ErrSubscriberClosed = errors.New("subscriber closed")
)
