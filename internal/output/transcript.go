package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/torosent/burstbench/internal/metrics"
	"github.com/torosent/burstbench/internal/runner"
)

// WriteTranscript writes the responses of one pass: successful requests first,
// then failures with their classification.
func WriteTranscript(w io.Writer, rep runner.ModeReport) error {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(&b, "%s\n%s REQUEST RESPONSES\n%s\n\n", rule, strings.ToUpper(string(rep.Mode)), rule)
	fmt.Fprintf(&b, "Total requests: %d\nSuccessful: %d\nFailed: %d\nTotal time: %.2fs\n\n",
		rep.Requests, rep.Successful, rep.Failed, rep.DurationSeconds)

	b.WriteString("SUCCESSFUL RESPONSES\n")
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	wrote := false
	for _, res := range rep.Results {
		if !res.Success {
			continue
		}
		wrote = true
		fmt.Fprintf(&b, "\nRequest %d (%.2fs)\n", res.Index+1, res.DurationSeconds)
		fmt.Fprintf(&b, "Prompt: %s\n", res.Prompt)
		fmt.Fprintf(&b, "Response: %s\n", res.ResponseText())
	}
	if !wrote {
		b.WriteString("\n(none)\n")
	}

	if failures := rep.Failures(); len(failures) > 0 {
		b.WriteString("\nFAILED REQUESTS\n")
		b.WriteString(strings.Repeat("-", ruleWidth) + "\n")
		for _, res := range failures {
			fmt.Fprintf(&b, "\nRequest %d (%.2fs)\n", res.Index+1, res.DurationSeconds)
			fmt.Fprintf(&b, "Prompt: %s\n", res.Prompt)
			fmt.Fprintf(&b, "Error type: %s (%s)\n", res.ErrorKind, metrics.FriendlyName(res.ErrorKind))
			if res.ErrorCode != 0 {
				fmt.Fprintf(&b, "Error code: %d\n", res.ErrorCode)
			}
			fmt.Fprintf(&b, "Error: %s\n", res.Error)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
