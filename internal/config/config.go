// Package config resolves runtime settings from defaults, an optional YAML
// file in the user's home directory, and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the YAML file looked up under the user's home directory.
const ConfigFileName = ".mosaic-config.yaml"

// ProviderMock selects the built-in deterministic selector instead of a
// model-backed one. It is the automatic fallback when no API key is set.
const ProviderMock = "mock"

// Config is the resolved runtime configuration.
type Config struct {
	LLMProvider string `yaml:"llm_provider"`
	LLMModel    string `yaml:"llm_model"`
	LLMBaseURL  string `yaml:"llm_base_url"`
	LLMAPIKey   string `yaml:"llm_api_key,omitempty"`

	OpenWeatherAPIKey  string `yaml:"openweather_api_key,omitempty"`
	YouTubeAPIKey      string `yaml:"youtube_api_key,omitempty"`
	TicketmasterAPIKey string `yaml:"ticketmaster_api_key,omitempty"`

	MaxComponents         int `yaml:"max_components"`
	AdapterTimeoutSeconds int `yaml:"adapter_timeout_seconds"`

	ServerHost string `yaml:"server_host"`
	ServerPort int    `yaml:"server_port"`

	Verbose bool `yaml:"verbose"`
}

// AdapterTimeout returns the per-adapter-call timeout as a duration.
func (c *Config) AdapterTimeout() time.Duration {
	return time.Duration(c.AdapterTimeoutSeconds) * time.Second
}

func defaults() *Config {
	return &Config{
		LLMProvider:           "openai",
		LLMModel:              "gpt-4o-mini",
		LLMBaseURL:            "https://api.openai.com/v1",
		MaxComponents:         5,
		AdapterTimeoutSeconds: 9,
		ServerHost:            "127.0.0.1",
		ServerPort:            8090,
	}
}

// Save writes the configuration to path as YAML. Key material ends up in the
// file, so it is written owner-readable only.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
