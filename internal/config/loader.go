package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments, the optional config file and the dotenv
// file to produce a Config. The API key is resolved from the environment but is
// not required here; see Config.RequireCredential.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	fileCfg, err := decodeConfigFile(cfgViper)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKeyEnv:    DefaultAPIKeyEnv,
		AuthHeader:   DefaultAuthHeader,
		BaseURL:      DefaultBaseURL,
		Headers:      map[string]string{},
		Model:        DefaultModel,
		MaxTokens:    DefaultMaxTokens,
		Temperature:  DefaultTemperature,
		SystemPrompt: DefaultSystemPrompt,
		Requests:     DefaultRequests,
		Timeout:      DefaultTimeout,
		OutputDir:    ".",
		LogLevel:     DefaultLogLevel,
		EnvFile:      DefaultEnvFile,
		ConfigFile:   configPath,
		Tracing:      TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}

	fileCfg.apply(cfg)

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}

	if cfg.PromptsFile != "" {
		prompts, err := LoadPrompts(cfg.PromptsFile)
		if err != nil {
			return nil, err
		}
		cfg.Prompts = prompts
	}
	if len(cfg.Prompts) == 0 {
		cfg.Prompts = append([]string(nil), DefaultPrompts...)
	}
	// The default request count follows a shorter prompt list; an explicit
	// count is left for Validate to check.
	if !flagSet.Changed("requests") && fileCfg.Requests == nil && cfg.Requests > len(cfg.Prompts) {
		cfg.Requests = len(cfg.Prompts)
	}

	if err := loadEnvFile(cfg.EnvFile, flagSet.Changed("env-file")); err != nil {
		return nil, err
	}
	cfg.APIKey = strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))

	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	}

	return cfg, nil
}

// loadEnvFile loads a dotenv file without overriding variables that are already
// set. A missing file is only an error when the user named it explicitly.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}
