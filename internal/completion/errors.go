package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const maxErrorMessageBytes = 512

// APIError is a non-2xx response from the completion endpoint.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}
	if gjson.ValidBytes(body) {
		errObj := gjson.GetBytes(body, "error")
		if errObj.Type == gjson.String {
			e.Message = errObj.String()
		} else {
			e.Message = errObj.Get("message").String()
			e.Type = errObj.Get("type").String()
			e.Code = errObj.Get("code").String()
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	e.Message = truncateMessage(e.Message, maxErrorMessageBytes)
	return e
}

// Error mirrors the "Error code: N - detail" form of the official SDKs.
func (e *APIError) Error() string {
	detail := e.Message
	if e.Code != "" {
		detail = e.Code + ": " + detail
	}
	if e.Type != "" && e.Type != e.Code {
		detail = detail + " (" + e.Type + ")"
	}
	if strings.TrimSpace(detail) == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("Error code: %d - %s", e.StatusCode, detail)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// TransportError is a failure to get any HTTP response. Its message omits the
// target address so that classification depends only on the failure itself.
type TransportError struct {
	Timeout bool
	Err     error
}

func newTransportError(err error) *TransportError {
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
	return &TransportError{Timeout: timeout, Err: err}
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return "Request timed out."
	}
	return "Connection error."
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// truncateMessage cuts s to at most limit bytes on a rune boundary.
func truncateMessage(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
