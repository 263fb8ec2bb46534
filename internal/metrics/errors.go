package metrics

import (
	"errors"
	"strings"
)

// ErrorKind is the coarse category assigned to a failed request.
type ErrorKind string

const (
	KindRateLimit          ErrorKind = "RATE_LIMIT"
	KindTimeout            ErrorKind = "TIMEOUT"
	KindServiceUnavailable ErrorKind = "SERVICE_UNAVAILABLE"
	KindServerError        ErrorKind = "SERVER_ERROR"
	KindAuthError          ErrorKind = "AUTH_ERROR"
	KindConnectionError    ErrorKind = "CONNECTION_ERROR"
	KindOther              ErrorKind = "OTHER"
)

// StatusCoder is implemented by errors that carry the HTTP status of the failed call.
type StatusCoder interface {
	HTTPStatus() int
}

type classRule struct {
	kind     ErrorKind
	patterns []string
	code     int
}

// classRules is evaluated top to bottom; the first matching rule wins.
var classRules = []classRule{
	{kind: KindRateLimit, patterns: []string{"429", "rate_limit", "rate limit", "too many requests"}, code: 429},
	{kind: KindTimeout, patterns: []string{"timeout", "timed out", "deadline exceeded"}},
	{kind: KindServiceUnavailable, patterns: []string{"503", "service unavailable", "service_unavailable", "overloaded"}, code: 503},
	{kind: KindServerError, patterns: []string{"500", "502", "internal server error", "server_error", "bad gateway"}, code: 500},
	{kind: KindAuthError, patterns: []string{"401", "403", "unauthorized", "authentication", "invalid api key", "incorrect api key", "permission"}, code: 401},
	{kind: KindConnectionError, patterns: []string{"connection", "connect:", "no such host", "network"}},
}

var friendlyKinds = map[ErrorKind]string{
	KindRateLimit:          "Rate limit exceeded",
	KindTimeout:            "Request timed out",
	KindServiceUnavailable: "Service unavailable",
	KindServerError:        "Server error",
	KindAuthError:          "Authentication failed",
	KindConnectionError:    "Connection error",
	KindOther:              "Other error",
}

// Classify returns the kind of err and the numeric code associated with it.
// A status carried by the error chain takes precedence over the kind's default code.
// The code is 0 when none can be determined. Classify(nil) returns "", 0.
func Classify(err error) (ErrorKind, int) {
	if err == nil {
		return "", 0
	}

	msg := strings.ToLower(err.Error())
	kind, code := KindOther, 0
	for _, rule := range classRules {
		if containsAny(msg, rule.patterns) {
			kind, code = rule.kind, rule.code
			break
		}
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		if status := sc.HTTPStatus(); status > 0 {
			code = status
		}
	}
	return kind, code
}

// FriendlyName returns a human-friendly label for an error kind.
func FriendlyName(kind ErrorKind) string {
	if name, ok := friendlyKinds[kind]; ok {
		return name
	}
	if strings.TrimSpace(string(kind)) == "" {
		return "Unknown error"
	}
	return string(kind)
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
