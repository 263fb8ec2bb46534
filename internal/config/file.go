package config

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// fileConfig holds the keys accepted in a config file. Pointer fields tell an
// absent key apart from an explicit zero value.
type fileConfig struct {
	APIKeyEnv    *string           `mapstructure:"api_key_env"`
	AuthHeader   *string           `mapstructure:"auth_header"`
	BaseURL      *string           `mapstructure:"base_url"`
	Headers      map[string]string `mapstructure:"headers"`
	Model        *string           `mapstructure:"model"`
	MaxTokens    *int              `mapstructure:"max_tokens"`
	Temperature  *float64          `mapstructure:"temperature"`
	SystemPrompt *string           `mapstructure:"system_prompt"`
	Requests     *int              `mapstructure:"requests"`
	Workers      *int              `mapstructure:"workers"`
	Prompts      []string          `mapstructure:"prompts"`
	PromptsFile  *string           `mapstructure:"prompts_file"`
	Timeout      *time.Duration    `mapstructure:"timeout"`
	OutputDir    *string           `mapstructure:"output_dir"`
	NoArtifacts  *bool             `mapstructure:"no_artifacts"`
	JSONOutput   *bool             `mapstructure:"json_output"`
	LogErrors    *bool             `mapstructure:"log_errors"`
	LogLevel     *string           `mapstructure:"log_level"`
	EnvFile      *string           `mapstructure:"env_file"`
	Tracing      *fileTracing      `mapstructure:"tracing"`
}

type fileTracing struct {
	Endpoint    *string  `mapstructure:"endpoint"`
	Protocol    *string  `mapstructure:"protocol"`
	ServiceName *string  `mapstructure:"service_name"`
	SampleRate  *float64 `mapstructure:"sample_rate"`
	Insecure    *bool    `mapstructure:"insecure"`
	Propagate   *bool    `mapstructure:"propagate"`
}

var durationType = reflect.TypeOf(time.Duration(0))

// decodeConfigFile decodes the settings read by v. Unknown keys are rejected so
// a misspelled option does not silently fall back to its default.
func decodeConfigFile(v *viper.Viper) (fileConfig, error) {
	var fc fileConfig
	err := v.Unmarshal(&fc,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(secondsDurationHook)),
		func(dc *mapstructure.DecoderConfig) { dc.ErrorUnused = true },
	)
	if err != nil {
		return fileConfig{}, fmt.Errorf("config file %s: %w", v.ConfigFileUsed(), err)
	}
	return fc, nil
}

// secondsDurationHook accepts Go duration strings ("90s", "2m") and bare
// numbers, which are read as seconds.
func secondsDurationHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != durationType {
		return data, nil
	}
	switch val := data.(type) {
	case string:
		s := strings.TrimSpace(val)
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return secondsToDuration(secs), nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: use a number of seconds or a value like 30s", val)
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case uint64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return secondsToDuration(val), nil
	}
	return data, nil
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

// apply copies every key present in the file onto cfg.
func (fc fileConfig) apply(cfg *Config) {
	assignTrimmed(&cfg.APIKeyEnv, fc.APIKeyEnv)
	assignTrimmed(&cfg.AuthHeader, fc.AuthHeader)
	assignTrimmed(&cfg.BaseURL, fc.BaseURL)
	if fc.Model != nil {
		if model := strings.TrimSpace(*fc.Model); model != "" {
			cfg.Model = model
		}
	}
	assign(&cfg.MaxTokens, fc.MaxTokens)
	assign(&cfg.Temperature, fc.Temperature)
	assign(&cfg.SystemPrompt, fc.SystemPrompt)
	assign(&cfg.Requests, fc.Requests)
	assign(&cfg.Workers, fc.Workers)
	if fc.Prompts != nil {
		cfg.Prompts = fc.Prompts
	}
	assignTrimmed(&cfg.PromptsFile, fc.PromptsFile)
	assign(&cfg.Timeout, fc.Timeout)
	assignTrimmed(&cfg.OutputDir, fc.OutputDir)
	assign(&cfg.NoArtifacts, fc.NoArtifacts)
	assign(&cfg.JSONOutput, fc.JSONOutput)
	assign(&cfg.LogErrors, fc.LogErrors)
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*fc.LogLevel))
	}
	assignTrimmed(&cfg.EnvFile, fc.EnvFile)

	if len(fc.Headers) > 0 && cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	// Config keys arrive lowercased; restore the canonical header form.
	for k, v := range fc.Headers {
		cfg.Headers[http.CanonicalHeaderKey(k)] = v
	}

	if t := fc.Tracing; t != nil {
		assignTrimmed(&cfg.Tracing.Endpoint, t.Endpoint)
		if t.Protocol != nil {
			cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(*t.Protocol))
		}
		assignTrimmed(&cfg.Tracing.ServiceName, t.ServiceName)
		assign(&cfg.Tracing.SampleRate, t.SampleRate)
		assign(&cfg.Tracing.Insecure, t.Insecure)
		if t.Propagate != nil {
			propagate := *t.Propagate
			cfg.Tracing.Propagate = &propagate
		}
	}
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func assignTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
