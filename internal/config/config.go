package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAPIKeyEnv    = "OPENAI_API_KEY"
	DefaultBaseURL      = "https://api.openai.com/v1"
	DefaultModel        = "gpt-3.5-turbo"
	DefaultMaxTokens    = 100
	DefaultTemperature  = 0.7
	DefaultSystemPrompt = "You are a helpful assistant. Answer concisely."
	DefaultRequests     = 10
	DefaultTimeout      = 60 * time.Second
	DefaultEnvFile      = ".env"
	DefaultAuthHeader   = "Authorization"
	DefaultLogLevel     = "info"
)

// ErrMissingCredential is returned by RequireCredential when no API key was resolved.
var ErrMissingCredential = errors.New("api key not set")

type Config struct {
	APIKeyEnv    string
	APIKey       string
	AuthHeader   string
	BaseURL      string
	Headers      map[string]string
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
	Requests     int
	Workers      int
	Prompts      []string
	PromptsFile  string
	Timeout      time.Duration
	OutputDir    string
	NoArtifacts  bool
	JSONOutput   bool
	LogErrors    bool
	LogLevel     string
	EnvFile      string
	ConfigFile   string
	Tracing      TracingConfig
}

// TracingConfig controls OpenTelemetry span export for completion requests.
type TracingConfig struct {
	Endpoint    string
	Protocol    string // "grpc" or "http"
	ServiceName string
	SampleRate  float64
	Insecure    bool
	Propagate   *bool
}

// Enabled reports whether an exporter endpoint is configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// ShouldPropagate reports whether W3C trace headers go out with each request.
// Propagation defaults to on.
func (t TracingConfig) ShouldPropagate() bool {
	if t.Propagate == nil {
		return true
	}
	return *t.Propagate
}

// EffectiveWorkers returns the concurrent pool size. Zero means one worker per request.
func (c Config) EffectiveWorkers() int {
	if c.Workers <= 0 || c.Workers > c.Requests {
		return c.Requests
	}
	return c.Workers
}

// CredentialFound reports whether an API key was resolved from the environment.
func (c Config) CredentialFound() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// RequireCredential fails with ErrMissingCredential when no key is available.
func (c Config) RequireCredential() error {
	if !c.CredentialFound() {
		return fmt.Errorf("%s: %w", c.APIKeyEnv, ErrMissingCredential)
	}
	return nil
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks the config for consistency. The API key is not checked here.
func (c Config) Validate() error {
	var issues []string

	if c.Requests < 1 {
		issues = append(issues, "requests must be at least 1")
	}
	if len(c.Prompts) == 0 {
		issues = append(issues, "at least one prompt is required")
	} else if c.Requests > len(c.Prompts) {
		issues = append(issues, fmt.Sprintf("requests (%d) exceeds the %d available prompts", c.Requests, len(c.Prompts)))
	}
	for i, p := range c.Prompts {
		if strings.TrimSpace(p) == "" {
			issues = append(issues, fmt.Sprintf("prompt %d is empty", i+1))
		}
	}
	if c.Workers < 0 {
		issues = append(issues, "workers must be non-negative")
	}

	if strings.TrimSpace(c.Model) == "" {
		issues = append(issues, "model is required")
	}
	if c.MaxTokens < 1 {
		issues = append(issues, "max tokens must be at least 1")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		issues = append(issues, "temperature must be between 0 and 2")
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be positive")
	}

	if strings.TrimSpace(c.BaseURL) == "" {
		issues = append(issues, "base url is required")
	} else if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, fmt.Sprintf("base url %q must be an absolute http(s) URL", c.BaseURL))
	}
	if strings.TrimSpace(c.APIKeyEnv) == "" {
		issues = append(issues, "api key env var name is required")
	}
	if strings.TrimSpace(c.AuthHeader) == "" || http.CanonicalHeaderKey(c.AuthHeader) == "" || strings.ContainsAny(c.AuthHeader, " \r\n:") {
		issues = append(issues, fmt.Sprintf("invalid auth header %q", c.AuthHeader))
	}
	for key, value := range c.Headers {
		if strings.TrimSpace(key) == "" || strings.ContainsAny(key, "\r\n") {
			issues = append(issues, fmt.Sprintf("invalid header key %q", key))
		}
		if strings.ContainsAny(value, "\r\n") {
			issues = append(issues, fmt.Sprintf("invalid header value for %s", key))
		}
	}

	if !c.NoArtifacts && strings.TrimSpace(c.OutputDir) == "" {
		issues = append(issues, "output dir is required unless artifacts are disabled")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		issues = append(issues, fmt.Sprintf("log level %q must be one of debug, info, warn, error", c.LogLevel))
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}

	return nil
}

func validateTracingConfig(t TracingConfig) []string {
	if !t.Enabled() {
		return nil
	}
	var issues []string
	switch strings.ToLower(t.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol %q must be grpc or http", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, "tracing sample rate must be between 0.0 and 1.0")
	}
	return issues
}
