// Package metrics holds the per-request measurement types and their aggregation.
//
// A [RequestResult] is the immutable outcome of one chat-completion call: the prompt
// it carried, the trimmed response text or the classified failure, and the wall-clock
// duration of the call.
//
// # Classification
//
// [Classify] maps an error to an [ErrorKind] by case-insensitive substring search over
// the error's message. The rules are checked in a fixed priority order:
//
//	RATE_LIMIT > TIMEOUT > SERVICE_UNAVAILABLE > SERVER_ERROR > AUTH_ERROR > CONNECTION_ERROR > OTHER
//
// The classifier is a best-effort diagnostic. API client messages change between
// versions and the matching is not a protocol contract.
//
// # Collector
//
// The [Collector] aggregates a batch of results into [Stats]:
//
//	collector := metrics.NewCollector()
//	for _, r := range results {
//		collector.RecordResult(r)
//	}
//	stats := collector.Stats()
//
// Latency statistics cover successful requests only. Percentiles come from an
// HDR histogram with microsecond resolution.
//
// # Completion spread
//
// [NewSpread] summarizes the completion offsets of a concurrent batch: the first and
// last completion relative to dispatch and the window between them.
package metrics
