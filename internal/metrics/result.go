package metrics

import (
	"math"
	"time"
)

// RequestResult is the outcome of a single completion request.
type RequestResult struct {
	Index           int           `json:"index"`
	Prompt          string        `json:"prompt"`
	Response        *string       `json:"response"`
	Duration        time.Duration `json:"-"`
	DurationSeconds float64       `json:"duration"`
	Success         bool          `json:"success"`
	Error           string        `json:"error,omitempty"`
	ErrorKind       ErrorKind     `json:"error_kind,omitempty"`
	ErrorCode       int           `json:"error_code,omitempty"`
	TokensUsed      int           `json:"tokens_used,omitempty"`

	// CompletedAt is the offset from batch dispatch; set for concurrent runs only.
	CompletedAt        time.Duration `json:"-"`
	CompletedAtSeconds float64       `json:"completed_at,omitempty"`
}

// NewSuccess builds the result of a completed request.
func NewSuccess(index int, prompt, response string, duration time.Duration, tokens int) RequestResult {
	text := response
	return RequestResult{
		Index:           index,
		Prompt:          prompt,
		Response:        &text,
		Duration:        duration,
		DurationSeconds: RoundSeconds(duration),
		Success:         true,
		TokensUsed:      tokens,
	}
}

// NewFailure builds the result of a failed request, classifying err.
func NewFailure(index int, prompt string, err error, duration time.Duration) RequestResult {
	kind, code := Classify(err)
	if kind == "" {
		kind = KindOther
	}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return RequestResult{
		Index:           index,
		Prompt:          prompt,
		Duration:        duration,
		DurationSeconds: RoundSeconds(duration),
		Error:           msg,
		ErrorKind:       kind,
		ErrorCode:       code,
	}
}

// WithCompletion returns a copy of r stamped with its completion offset.
func (r RequestResult) WithCompletion(offset time.Duration) RequestResult {
	r.CompletedAt = offset
	r.CompletedAtSeconds = RoundSeconds(offset)
	return r
}

// ResponseText returns the response or "" for failed requests.
func (r RequestResult) ResponseText() string {
	if r.Response == nil {
		return ""
	}
	return *r.Response
}

// RoundSeconds converts d to seconds rounded to two decimals.
func RoundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
