// Package completion is a minimal client for OpenAI-compatible chat-completion APIs.
//
// Each [Client.Complete] call sends one POST to {base}/chat/completions with a fixed
// model, token limit and temperature, and a message list of the configured system
// prompt followed by a single user prompt. There are no retries.
//
// Failures are returned as errors whose message is suitable for classification by
// [github.com/torosent/burstbench/internal/metrics.Classify]. HTTP failures surface as
// [*APIError], which carries the status code.
package completion
