package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "burstbench",
		Short:         "Compare sequential and concurrent chat-completion latency",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Workload flags
	flags.IntP("requests", "n", DefaultRequests, "Number of requests per mode")
	flags.IntP("workers", "w", 0, "Concurrent pool size (0 means one worker per request)")
	flags.String("prompts-file", "", "YAML file with the prompt list")

	// Completion flags
	flags.StringP("model", "m", DefaultModel, "Model name sent with each request")
	flags.Int("max-tokens", DefaultMaxTokens, "Maximum completion tokens per request")
	flags.Float64("temperature", DefaultTemperature, "Sampling temperature")
	flags.String("system-prompt", DefaultSystemPrompt, "System message sent before each prompt")
	flags.Duration("timeout", DefaultTimeout, "Per-request timeout")

	// Endpoint and credential flags
	flags.String("base-url", DefaultBaseURL, "Base URL of the OpenAI-compatible API")
	flags.String("api-key-env", DefaultAPIKeyEnv, "Environment variable holding the API key")
	flags.String("auth-header", DefaultAuthHeader, "Header carrying the API key (Authorization uses a Bearer prefix)")
	flags.StringSlice("header", nil, "Additional request header in key=value form")
	flags.String("env-file", DefaultEnvFile, "Dotenv file loaded before reading the API key")

	// Output flags
	flags.StringP("output-dir", "o", ".", "Directory for result artifacts")
	flags.Bool("no-artifacts", false, "Skip writing result artifacts")
	flags.Bool("json-output", false, "Print the JSON results document to stdout")
	flags.Bool("log-errors", false, "Log each failed request to stderr")
	flags.String("log-level", DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.String("otel-endpoint", "", "OTLP collector endpoint (enables tracing)")
	flags.String("otel-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.String("otel-service-name", "", "Service name reported with spans")
	flags.Float64("otel-sample-rate", 1.0, "Trace sampling ratio between 0.0 and 1.0")
	flags.Bool("otel-insecure", false, "Use a plaintext connection to the collector")
	flags.Bool("otel-propagate", true, "Inject W3C trace headers into completion requests")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\n%s\n\nFlags:\n", cmd.UseLine(), cmd.Short)
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("requests") {
		val, err := fs.GetInt("requests")
		if err != nil {
			return err
		}
		cfg.Requests = val
	}
	if fs.Changed("workers") {
		val, err := fs.GetInt("workers")
		if err != nil {
			return err
		}
		cfg.Workers = val
	}
	if fs.Changed("prompts-file") {
		val, err := fs.GetString("prompts-file")
		if err != nil {
			return err
		}
		cfg.PromptsFile = strings.TrimSpace(val)
	}
	if fs.Changed("model") {
		val, err := fs.GetString("model")
		if err != nil {
			return err
		}
		cfg.Model = strings.TrimSpace(val)
	}
	if fs.Changed("max-tokens") {
		val, err := fs.GetInt("max-tokens")
		if err != nil {
			return err
		}
		cfg.MaxTokens = val
	}
	if fs.Changed("temperature") {
		val, err := fs.GetFloat64("temperature")
		if err != nil {
			return err
		}
		cfg.Temperature = val
	}
	if fs.Changed("system-prompt") {
		val, err := fs.GetString("system-prompt")
		if err != nil {
			return err
		}
		cfg.SystemPrompt = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("base-url") {
		val, err := fs.GetString("base-url")
		if err != nil {
			return err
		}
		cfg.BaseURL = strings.TrimSpace(val)
	}
	if fs.Changed("api-key-env") {
		val, err := fs.GetString("api-key-env")
		if err != nil {
			return err
		}
		cfg.APIKeyEnv = strings.TrimSpace(val)
	}
	if fs.Changed("auth-header") {
		val, err := fs.GetString("auth-header")
		if err != nil {
			return err
		}
		cfg.AuthHeader = strings.TrimSpace(val)
	}
	if fs.Changed("env-file") {
		val, err := fs.GetString("env-file")
		if err != nil {
			return err
		}
		cfg.EnvFile = strings.TrimSpace(val)
	}
	if fs.Changed("output-dir") {
		val, err := fs.GetString("output-dir")
		if err != nil {
			return err
		}
		cfg.OutputDir = strings.TrimSpace(val)
	}
	if fs.Changed("no-artifacts") {
		val, err := fs.GetBool("no-artifacts")
		if err != nil {
			return err
		}
		cfg.NoArtifacts = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("log-errors") {
		val, err := fs.GetBool("log-errors")
		if err != nil {
			return err
		}
		cfg.LogErrors = val
	}
	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(val))
	}

	if err := applyTracingFlags(&cfg.Tracing, fs); err != nil {
		return err
	}

	vals, err := fs.GetStringSlice("header")
	if err != nil {
		return err
	}
	for _, raw := range vals {
		key, value, err := parseHeader(raw)
		if err != nil {
			return err
		}
		cfg.Headers[key] = value
	}
	return nil
}

func applyTracingFlags(t *TracingConfig, fs *pflag.FlagSet) error {
	if fs.Changed("otel-endpoint") {
		val, err := fs.GetString("otel-endpoint")
		if err != nil {
			return err
		}
		t.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("otel-protocol") {
		val, err := fs.GetString("otel-protocol")
		if err != nil {
			return err
		}
		t.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("otel-service-name") {
		val, err := fs.GetString("otel-service-name")
		if err != nil {
			return err
		}
		t.ServiceName = strings.TrimSpace(val)
	}
	if fs.Changed("otel-sample-rate") {
		val, err := fs.GetFloat64("otel-sample-rate")
		if err != nil {
			return err
		}
		t.SampleRate = val
	}
	if fs.Changed("otel-insecure") {
		val, err := fs.GetBool("otel-insecure")
		if err != nil {
			return err
		}
		t.Insecure = val
	}
	if fs.Changed("otel-propagate") {
		val, err := fs.GetBool("otel-propagate")
		if err != nil {
			return err
		}
		t.Propagate = &val
	}
	return nil
}

func parseHeader(raw string) (string, string, error) {
	parts := strings.SplitN(raw, "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid header %q, expected key=value", raw)
	}
	key := strings.TrimSpace(parts[0])
	if key == "" {
		return "", "", fmt.Errorf("invalid header %q, empty key", raw)
	}
	return http.CanonicalHeaderKey(key), strings.TrimSpace(parts[1]), nil
}
