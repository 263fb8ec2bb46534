package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// AuthProvider injects credentials into HTTP requests.
type AuthProvider interface {
	InjectHeader(ctx context.Context, req *http.Request) error
}

// RequestBuilder produces JSON POST requests against a fixed target.
type RequestBuilder struct {
	target       string
	headers      http.Header
	authProvider AuthProvider
}

// NewRequestBuilder validates the target and extra headers.
// provider may be nil.
func NewRequestBuilder(target string, headers map[string]string, provider AuthProvider) (*RequestBuilder, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.New("target URL is required")
	}

	hdrs := http.Header{}
	for key, value := range headers {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" || strings.ContainsAny(key, "\r\n") {
			return nil, fmt.Errorf("invalid header key %q", key)
		}
		canonicalKey := http.CanonicalHeaderKey(trimmedKey)
		if strings.ContainsAny(value, "\r\n") {
			return nil, fmt.Errorf("invalid header value for %s", canonicalKey)
		}
		hdrs.Set(canonicalKey, value)
	}

	return &RequestBuilder{
		target:       target,
		headers:      hdrs,
		authProvider: provider,
	}, nil
}

// Target returns the URL requests are sent to.
func (b *RequestBuilder) Target() string {
	return b.target
}

// Build creates a POST request carrying body as JSON.
func (b *RequestBuilder) Build(ctx context.Context, body []byte) (*http.Request, error) {
	if b == nil {
		return nil, errors.New("builder cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header = make(http.Header, len(b.headers)+2)
	for key, values := range b.headers {
		for _, val := range values {
			req.Header.Add(key, val)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	if b.authProvider != nil {
		if err := b.authProvider.InjectHeader(ctx, req); err != nil {
			return nil, fmt.Errorf("auth provider inject header: %w", err)
		}
	}

	return req, nil
}

// NewClient returns an HTTP client whose pool can hold maxConnsPerHost idle
// connections, so a burst of that many requests reuses them on a second pass.
func NewClient(timeout time.Duration, maxConnsPerHost int) *http.Client {
	if timeout < 0 {
		timeout = 0
	}
	if maxConnsPerHost < 2 {
		maxConnsPerHost = 2
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxConnsPerHost * 2,
		MaxIdleConnsPerHost:   maxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
