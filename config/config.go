// Package config loads the process configuration from the environment,
// optionally seeded from a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvClientID     = "SMX_CLIENT_ID"
	EnvClientSecret = "SMX_CLIENT_SECRET"
	EnvBaseURL      = "STANDARD_METRICS_BASE_URL"
	EnvTokenURL     = "SMX_TOKEN_BASE_URL"
	EnvTimeout      = "REQUEST_TIMEOUT"
	EnvTokenCache   = "SMX_TOKEN_CACHE"
)

// DefaultBaseURL is the vendor's production API.
const DefaultBaseURL = "https://api.standardmetrics.com"

// DefaultTimeoutSeconds bounds each HTTP call unless overridden.
const DefaultTimeoutSeconds = 30.0

// Config holds the process configuration. Credentials are supplied once
// at load and are immutable for the process lifetime.
type Config struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	BaseURL      string `yaml:"base_url"`
	TokenURL     string `yaml:"token_url"`
	TokenCache   string `yaml:"token_cache"`
	Debug        bool   `yaml:"debug"`

	TimeoutSeconds float64 `yaml:"request_timeout"`

	Timeout time.Duration `yaml:"-"`
}

// Load reads the configuration. A non-empty path names a YAML file read
// first (with `${VAR}` environment references expanded);
// environment variables then override the file. Missing credentials or
// malformed values fail the load: the process cannot proceed without them.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, errRead := os.ReadFile(path)
		if errRead != nil {
			return nil, fmt.Errorf("failed to read config file: %w", errRead)
		}
		expanded := os.ExpandEnv(string(data))
		if errYAML := yaml.Unmarshal([]byte(expanded), &cfg); errYAML != nil {
			return nil, fmt.Errorf("failed to parse config: %w", errYAML)
		}
	}

	// Environment overrides
	if v := os.Getenv(EnvClientID); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		cfg.ClientSecret = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvTokenURL); v != "" {
		cfg.TokenURL = v
	}
	if v := os.Getenv(EnvTokenCache); v != "" {
		cfg.TokenCache = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		seconds, errFloat := strconv.ParseFloat(v, 64)
		if errFloat != nil {
			return nil, fmt.Errorf("%s: invalid float seconds: %q", EnvTimeout, v)
		}
		cfg.TimeoutSeconds = seconds
	}

	// Validate required fields
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%s is required", EnvClientID)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%s is required", EnvClientSecret)
	}
	if cfg.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("%s must be positive, got: %v", EnvTimeout, cfg.TimeoutSeconds)
	}

	// Set defaults
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = cfg.BaseURL + "/o/token/"
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds * float64(time.Second))

	return &cfg, nil
}
