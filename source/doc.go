// Package source selects and provides the input side of a news pipeline.
//
// A Source yields batches of raw article payloads (core.RawMessage) through a
// pull-style iterator that the runtime drives at its own pace. Three kinds exist:
//   - mock: a fixed, deterministic feed used only for stream-mode debugging
//   - historical: a bounded [from, to] range read through a Fetcher
//   - live: an unbounded feed read through a Subscriber
//
// Resolve decides which kind a run needs; Selector turns that decision into a
// concrete Source. Neither performs I/O. Fetchers and subscribers own their own
// retry policy; sources propagate their failures wrapped in ErrSourceUnavailable.
package source
