package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/torosent/burstbench/internal/config"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

func TestParseFlagsDefaults(t *testing.T) {
	isolate(t)
	loader := config.NewLoader()

	cfg, err := loader.Load([]string{"--env-file="})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Requests != 10 {
		t.Errorf("Requests = %d, want 10", cfg.Requests)
	}
	if cfg.Model != "gpt-3.5-turbo" {
		t.Errorf("Model = %q, want gpt-3.5-turbo", cfg.Model)
	}
	if cfg.MaxTokens != 100 {
		t.Errorf("MaxTokens = %d, want 100", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}
	if cfg.SystemPrompt != "You are a helpful assistant. Answer concisely." {
		t.Errorf("SystemPrompt = %q", cfg.SystemPrompt)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %s, want 60s", cfg.Timeout)
	}
	if cfg.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnv = %q, want OPENAI_API_KEY", cfg.APIKeyEnv)
	}
	if len(cfg.Prompts) != 10 || cfg.Prompts[0] != "What is the capital of France?" {
		t.Errorf("Prompts = %v, want the default list", cfg.Prompts)
	}
	if cfg.EffectiveWorkers() != 10 {
		t.Errorf("EffectiveWorkers() = %d, want 10", cfg.EffectiveWorkers())
	}
	if cfg.Tracing.Enabled() {
		t.Error("tracing should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadHelp(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--help"})
	if !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("Load(--help) error = %v, want ErrHelpRequested", err)
	}
}

func TestLoadResolvesCredential(t *testing.T) {
	isolate(t)
	t.Setenv("BURSTBENCH_TEST_KEY", "sk-test")

	cfg, err := config.NewLoader().Load([]string{"--env-file=", "--api-key-env=BURSTBENCH_TEST_KEY"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want sk-test", cfg.APIKey)
	}
	if err := cfg.RequireCredential(); err != nil {
		t.Errorf("RequireCredential() error = %v", err)
	}
}

func TestRequireCredentialMissing(t *testing.T) {
	isolate(t)
	cfg, err := config.NewLoader().Load([]string{"--env-file="})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	err = cfg.RequireCredential()
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("RequireCredential() error = %v, want ErrMissingCredential", err)
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error %q should name the variable", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)
	const name = "BURSTBENCH_DOTENV_KEY"
	t.Cleanup(func() { _ = os.Unsetenv(name) })

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(name+"=sk-from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--env-file=" + path, "--api-key-env=" + name})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "sk-from-file" {
		t.Errorf("APIKey = %q, want sk-from-file", cfg.APIKey)
	}
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	isolate(t)
	const name = "BURSTBENCH_PRESET_KEY"
	t.Setenv(name, "sk-from-env")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(name+"=sk-from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--env-file=" + path, "--api-key-env=" + name})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "sk-from-env" {
		t.Errorf("APIKey = %q, want sk-from-env", cfg.APIKey)
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "burstbench.yaml")
	content := `
model: gpt-4o-mini
requests: 3
workers: 2
max_tokens: 50
temperature: 0.1
timeout: 15s
output_dir: results
prompts:
  - Say hi.
  - Count to three.
  - Name a color.
tracing:
  endpoint: localhost:4317
  insecure: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--env-file=", "--config", path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", cfg.Model)
	}
	if cfg.Requests != 3 || cfg.EffectiveWorkers() != 2 {
		t.Errorf("Requests/Workers = %d/%d, want 3/2", cfg.Requests, cfg.EffectiveWorkers())
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %s, want 15s", cfg.Timeout)
	}
	if cfg.OutputDir != "results" {
		t.Errorf("OutputDir = %q, want results", cfg.OutputDir)
	}
	if len(cfg.Prompts) != 3 || cfg.Prompts[2] != "Name a color." {
		t.Errorf("Prompts = %v", cfg.Prompts)
	}
	if !cfg.Tracing.Enabled() || !cfg.Tracing.Insecure {
		t.Errorf("Tracing = %+v, want enabled and insecure", cfg.Tracing)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("Tracing.SampleRate = %v, want default 1.0", cfg.Tracing.SampleRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"model": "from-file", "requests": 3, "json_output": true}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--env-file=", "--config", path, "--model", "from-flag"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model != "from-flag" {
		t.Errorf("Model = %q, want from-flag", cfg.Model)
	}
	if cfg.Requests != 3 {
		t.Errorf("Requests = %d, want 3 from file", cfg.Requests)
	}
	if !cfg.JSONOutput {
		t.Error("JSONOutput = false, want true from file")
	}
}

func TestLoadPromptsFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	if err := os.WriteFile(path, []byte("prompts:\n  - First?\n  - '  Second?  '\n  - ''\n"), 0o600); err != nil {
		t.Fatalf("write prompts: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--env-file=", "--prompts-file", path, "--requests", "2"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"First?", "Second?"}
	if strings.Join(cfg.Prompts, "|") != strings.Join(want, "|") {
		t.Errorf("Prompts = %q, want %q", cfg.Prompts, want)
	}
}

func TestShortPromptsFileCapsDefaultRequests(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("- One?\n- Two?\n- Three?\n"), 0o600); err != nil {
		t.Fatalf("write prompts: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--env-file=", "--prompts-file", path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Requests != 3 {
		t.Errorf("Requests = %d, want 3 (one per prompt)", cfg.Requests)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg, err = config.NewLoader().Load([]string{"--env-file=", "--prompts-file", path, "--requests", "5"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Requests != 5 {
		t.Errorf("explicit Requests = %d, want 5", cfg.Requests)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "exceeds the 3 available prompts") {
		t.Errorf("Validate() error = %v, want prompt count issue", err)
	}
}

func TestConfigFileDurationInSeconds(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"timeout": 45}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.NewLoader().Load([]string{"--env-file=", "--config", path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %s, want 45s", cfg.Timeout)
	}
}

func TestConfigFileUnknownKey(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("modle: gpt-4o\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.NewLoader().Load([]string{"--env-file=", "--config", path}); err == nil || !strings.Contains(err.Error(), "modle") {
		t.Errorf("Load() error = %v, want unknown key reported", err)
	}
}

func TestLoadPromptsList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.yaml")
	if err := os.WriteFile(path, []byte("- a\n- b\n"), 0o600); err != nil {
		t.Fatalf("write prompts: %v", err)
	}
	prompts, err := config.LoadPrompts(path)
	if err != nil {
		t.Fatalf("LoadPrompts() error = %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("len(prompts) = %d, want 2", len(prompts))
	}
}

func TestLoadPromptsErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("prompts: []\n"), 0o600); err != nil {
		t.Fatalf("write prompts: %v", err)
	}
	if _, err := config.LoadPrompts(empty); err == nil {
		t.Error("expected error for empty prompt list")
	}
	if _, err := config.LoadPrompts(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func validConfig() config.Config {
	return config.Config{
		APIKeyEnv:   "OPENAI_API_KEY",
		AuthHeader:  "Authorization",
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-3.5-turbo",
		MaxTokens:   100,
		Temperature: 0.7,
		Requests:    10,
		Prompts:     append([]string(nil), config.DefaultPrompts...),
		Timeout:     time.Minute,
		OutputDir:   ".",
		LogLevel:    "info",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"zero requests", func(c *config.Config) { c.Requests = 0 }, "requests must be at least 1"},
		{"too many requests", func(c *config.Config) { c.Requests = 11 }, "exceeds the 10 available prompts"},
		{"negative workers", func(c *config.Config) { c.Workers = -1 }, "workers must be non-negative"},
		{"empty model", func(c *config.Config) { c.Model = " " }, "model is required"},
		{"max tokens", func(c *config.Config) { c.MaxTokens = 0 }, "max tokens"},
		{"temperature", func(c *config.Config) { c.Temperature = 2.5 }, "temperature"},
		{"timeout", func(c *config.Config) { c.Timeout = 0 }, "timeout must be positive"},
		{"relative base url", func(c *config.Config) { c.BaseURL = "/v1" }, "absolute http(s) URL"},
		{"auth header", func(c *config.Config) { c.AuthHeader = "bad header" }, "invalid auth header"},
		{"log level", func(c *config.Config) { c.LogLevel = "trace" }, "log level"},
		{"output dir", func(c *config.Config) { c.OutputDir = "" }, "output dir"},
		{"output dir not needed", func(c *config.Config) { c.OutputDir = ""; c.NoArtifacts = true }, ""},
		{"tracing protocol", func(c *config.Config) {
			c.Tracing = config.TracingConfig{Endpoint: "localhost:4317", Protocol: "thrift", SampleRate: 1}
		}, "tracing protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	cfg := validConfig()
	cfg.Requests = 0
	cfg.Model = ""
	cfg.MaxTokens = 0

	var verr config.ValidationError
	if err := cfg.Validate(); !errors.As(err, &verr) {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}
	if got := len(verr.Issues()); got != 3 {
		t.Errorf("len(Issues()) = %d, want 3: %v", got, verr.Issues())
	}
}

func TestEffectiveWorkers(t *testing.T) {
	tests := []struct {
		requests, workers, want int
	}{
		{10, 0, 10},
		{10, 3, 3},
		{4, 8, 4},
	}
	for _, tt := range tests {
		cfg := config.Config{Requests: tt.requests, Workers: tt.workers}
		if got := cfg.EffectiveWorkers(); got != tt.want {
			t.Errorf("EffectiveWorkers(%d, %d) = %d, want %d", tt.requests, tt.workers, got, tt.want)
		}
	}
}
