// Package auth supplies credentials for outgoing completion requests.
package auth

import (
	"context"
	"net/http"
)

// Provider defines the interface for credential providers that inject
// authentication into HTTP requests.
type Provider interface {
	// Token returns the credential value.
	Token(ctx context.Context) (string, error)

	// InjectHeader sets the credential header on the provided HTTP request.
	InjectHeader(ctx context.Context, req *http.Request) error

	// Close releases any resources held by the provider.
	Close() error
}
