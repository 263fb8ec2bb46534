// Package output renders benchmark results: the styled console report, the
// JSON results document, per-mode response transcripts and the diagnostic report.
package output
