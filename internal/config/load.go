package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type loadOptions struct {
	lookupEnv func(string) (string, bool)
	readFile  func(string) ([]byte, error)
	homeDir   func() (string, error)
	overrides []func(*Config)
}

// Option customizes Load. The env/file/home hooks exist so tests can resolve
// configuration without touching the real process environment.
type Option func(*loadOptions)

// WithEnvLookup replaces os.LookupEnv.
func WithEnvLookup(fn func(string) (string, bool)) Option {
	return func(o *loadOptions) { o.lookupEnv = fn }
}

// WithFileReader replaces os.ReadFile for the config file.
func WithFileReader(fn func(string) ([]byte, error)) Option {
	return func(o *loadOptions) { o.readFile = fn }
}

// WithHomeDir replaces os.UserHomeDir.
func WithHomeDir(fn func() (string, error)) Option {
	return func(o *loadOptions) { o.homeDir = fn }
}

// WithOverride applies fn after all other sources, winning over them.
func WithOverride(fn func(*Config)) Option {
	return func(o *loadOptions) { o.overrides = append(o.overrides, fn) }
}

// Load resolves configuration with precedence: defaults, then the YAML file
// under the home directory, then environment variables, then overrides.
// When no LLM API key is available the provider degrades to ProviderMock so
// the pipeline still works end to end without credentials.
func Load(opts ...Option) (*Config, error) {
	options := &loadOptions{
		lookupEnv: os.LookupEnv,
		readFile:  os.ReadFile,
		homeDir:   os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(options)
	}

	cfg := defaults()

	if home, err := options.homeDir(); err == nil {
		path := filepath.Join(home, ConfigFileName)
		if data, err := options.readFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg, options.lookupEnv)

	for _, override := range options.overrides {
		override(cfg)
	}

	if cfg.LLMAPIKey == "" && cfg.LLMProvider != ProviderMock {
		cfg.LLMProvider = ProviderMock
	}
	if cfg.MaxComponents <= 0 {
		cfg.MaxComponents = defaults().MaxComponents
	}
	if cfg.AdapterTimeoutSeconds <= 0 {
		cfg.AdapterTimeoutSeconds = defaults().AdapterTimeoutSeconds
	}

	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("MOSAIC_LLM_PROVIDER", &cfg.LLMProvider)
	setString("MOSAIC_LLM_MODEL", &cfg.LLMModel)
	setString("MOSAIC_LLM_BASE_URL", &cfg.LLMBaseURL)
	setString("MOSAIC_LLM_API_KEY", &cfg.LLMAPIKey)
	if cfg.LLMAPIKey == "" {
		setString("OPENAI_API_KEY", &cfg.LLMAPIKey)
	}

	setString("OPENWEATHER_API_KEY", &cfg.OpenWeatherAPIKey)
	setString("YOUTUBE_API_KEY", &cfg.YouTubeAPIKey)
	setString("TICKETMASTER_API_KEY", &cfg.TicketmasterAPIKey)

	setInt("MOSAIC_MAX_COMPONENTS", &cfg.MaxComponents)
	setInt("MOSAIC_ADAPTER_TIMEOUT_SECONDS", &cfg.AdapterTimeoutSeconds)
	setString("MOSAIC_SERVER_HOST", &cfg.ServerHost)
	setInt("MOSAIC_SERVER_PORT", &cfg.ServerPort)

	if v, ok := lookup("MOSAIC_VERBOSE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
}
