package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrEmptyKey is returned when a request is built without a credential.
var ErrEmptyKey = errors.New("api key is empty")

// APIKeyProvider injects a static API key. With the Authorization header the key
// is sent as a Bearer token; any other header (for example Azure's "api-key")
// carries the raw key.
type APIKeyProvider struct {
	key    string
	header string
}

// NewAPIKeyProvider creates a provider that writes key to header.
// An empty header defaults to Authorization.
func NewAPIKeyProvider(key, header string) *APIKeyProvider {
	header = strings.TrimSpace(header)
	if header == "" {
		header = "Authorization"
	}
	return &APIKeyProvider{
		key:    strings.TrimSpace(key),
		header: http.CanonicalHeaderKey(header),
	}
}

// Token returns the key without any network calls.
func (p *APIKeyProvider) Token(ctx context.Context) (string, error) {
	if p.key == "" {
		return "", ErrEmptyKey
	}
	return p.key, nil
}

// InjectHeader sets the credential header on req.
func (p *APIKeyProvider) InjectHeader(ctx context.Context, req *http.Request) error {
	token, err := p.Token(ctx)
	if err != nil {
		return err
	}
	if p.header == "Authorization" {
		req.Header.Set(p.header, "Bearer "+token)
		return nil
	}
	req.Header.Set(p.header, token)
	return nil
}

// Header returns the canonical name of the header the key is written to.
func (p *APIKeyProvider) Header() string {
	return p.header
}

// Masked returns the key with all but its last four characters hidden.
func (p *APIKeyProvider) Masked() string {
	return Mask(p.key)
}

// Close is a no-op for static keys.
func (p *APIKeyProvider) Close() error {
	return nil
}

// Mask hides all but the last four characters of secret.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", 4) + secret[len(secret)-4:]
}
