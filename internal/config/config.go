// Package config provides application configuration management for rootmind.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variables that override the file.
const (
	EnvAPIURL  = "ROOTMIND_API_URL"
	EnvAPIKey  = "ROOTMIND_API_KEY"
	EnvTimeout = "ROOTMIND_TIMEOUT"
)

const (
	defaultAPIURL  = "http://localhost:8000"
	defaultTimeout = "120s"
	defaultTheme   = "dark"
)

// Config holds the rootmind configuration.
type Config struct {
	APIURL   string `json:"api_url"`             // Base URL of the study backend
	APIKey   string `json:"api_key,omitempty"`   // Sent as a bearer token when set
	Timeout  string `json:"timeout"`             // Per-request timeout (e.g. "120s")
	Theme    string `json:"theme"`               // Name of the active theme
	Language string `json:"language,omitempty"`  // UI language tag; empty follows the system
	StartDir string `json:"start_dir,omitempty"` // Initial directory of the file picker
}

// TimeoutDuration returns the parsed timeout (default: 120s).
func (c Config) TimeoutDuration() time.Duration {
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
			return d
		}
	}
	d, _ := time.ParseDuration(defaultTimeout)
	return d
}

// Dir returns the path to the .rootmind directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rootmind"), nil
}

// Path returns the path to the main config file.
func Path() (string, error) {
	configDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// Load loads the configuration from ~/.rootmind/config.json and applies
// environment overrides. A missing file yields the defaults and is not
// created; Save writes it.
func Load() (Config, error) {
	configPath, err := Path()
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, err
	default:
		// Start from defaults so missing keys keep their default values.
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

// LoadFile reads only the file, without environment overrides. Used by
// "config set" so env values are never persisted.
func LoadFile() (Config, error) {
	configPath, err := Path()
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		c.Timeout = v
	}
}

func (c *Config) fillDefaults() {
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.Timeout == "" {
		c.Timeout = defaultTimeout
	}
	if c.Theme == "" {
		c.Theme = defaultTheme
	}
}

// Default returns a default configuration with all defaults set.
func Default() Config {
	return Config{
		APIURL:  defaultAPIURL,
		Timeout: defaultTimeout,
		Theme:   defaultTheme,
	}
}

// Save saves the configuration to ~/.rootmind/config.json.
func Save(config Config) error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	// The file may hold an API key.
	return os.WriteFile(configPath, data, 0600)
}

// Keys lists the settable keys in display order.
var Keys = []string{"api_url", "api_key", "timeout", "theme", "language", "start_dir"}

// Get returns the value of a key.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "api_key":
		return c.APIKey, nil
	case "timeout":
		return c.Timeout, nil
	case "theme":
		return c.Theme, nil
	case "language":
		return c.Language, nil
	case "start_dir":
		return c.StartDir, nil
	}
	return "", fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
}

// Set assigns a key. The result is not validated; call Validate.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = value
	case "api_key":
		c.APIKey = value
	case "timeout":
		c.Timeout = value
	case "theme":
		c.Theme = value
	case "language":
		c.Language = value
	case "start_dir":
		c.StartDir = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "********"
	}
	return c
}
