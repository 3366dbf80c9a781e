// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for tutor-tui.
//
// Configuration lives in TOML with sensible defaults and environment
// variable overrides.
//
// Configuration file locations (in order of precedence):
//   - ~/.tutortui/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tutor-tui configuration.
type Config struct {
	// API configuration (tutoring backend)
	API APIConfig `toml:"api"`

	// Cache configuration (local transcript mirror)
	Cache CacheConfig `toml:"cache"`

	// Animation configuration (response delivery cadence)
	Animation AnimationConfig `toml:"animation"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// APIConfig contains tutoring backend configuration.
type APIConfig struct {
	// BaseURL is the backend origin
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the JSON request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// UploadTimeoutSecs is the multipart upload timeout in seconds
	UploadTimeoutSecs int `toml:"upload_timeout_secs"`
}

// CacheConfig contains local cache configuration.
type CacheConfig struct {
	// Path is the location of the cache database (empty = default ~/.tutortui/sessions.db)
	Path string `toml:"path"`
}

// AnimationConfig tunes the typewriter reveal of responses.
type AnimationConfig struct {
	// CharsPerStep is how many runes each animation step reveals
	CharsPerStep int `toml:"chars_per_step"`
	// IntervalMs is the step cadence in milliseconds
	IntervalMs int `toml:"interval_ms"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowSidebar starts with the session sidebar open
	ShowSidebar bool `toml:"show_sidebar"`
	// ModePollMs is the mode watcher interval in milliseconds
	ModePollMs int `toml:"mode_poll_ms"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://127.0.0.1:8080",
			TimeoutSecs:       60, // exchange calls wait on the LLM
			UploadTimeoutSecs: 120,
		},
		Cache: CacheConfig{
			Path: "",
		},
		Animation: AnimationConfig{
			CharsPerStep: 3,
			IntervalMs:   10,
		},
		UI: UIConfig{
			Theme:       "dark",
			ShowSidebar: true,
			ModePollMs:  500,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the tutor-tui configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tutortui"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultCachePath returns the default cache database location.
func DefaultCachePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions.db"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when the file is absent. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# tutor-tui configuration file")
	fmt.Fprintln(file, "# Generated by tutor-tui - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// DEFAULTS, VALIDATION, ENV OVERRIDES
// =============================================================================

// SetDefaults fills any missing or zero-value fields with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.UploadTimeoutSecs <= 0 {
		c.API.UploadTimeoutSecs = defaults.API.UploadTimeoutSecs
	}
	if c.Cache.Path == "" {
		if path, err := DefaultCachePath(); err == nil {
			c.Cache.Path = path
		}
	}
	if c.Animation.CharsPerStep <= 0 {
		c.Animation.CharsPerStep = defaults.Animation.CharsPerStep
	}
	if c.Animation.IntervalMs <= 0 {
		c.Animation.IntervalMs = defaults.Animation.IntervalMs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.ModePollMs <= 0 {
		c.UI.ModePollMs = defaults.UI.ModePollMs
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("api.base_url: invalid URL %q", c.API.BaseURL)
		}
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		return fmt.Errorf("ui.theme: invalid theme %q, must be one of: dark, light, auto", c.UI.Theme)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TUTOR_API_URL: overrides api.base_url
//   - TUTOR_CACHE_PATH: overrides cache.path
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("TUTOR_API_URL"); u != "" {
		c.API.BaseURL = u
	}
	if p := os.Getenv("TUTOR_CACHE_PATH"); p != "" {
		c.Cache.Path = p
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Timeout returns the JSON request timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// UploadTimeout returns the upload timeout as a duration.
func (c *APIConfig) UploadTimeout() time.Duration {
	return time.Duration(c.UploadTimeoutSecs) * time.Second
}

// Interval returns the animation step cadence as a duration.
func (c *AnimationConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// PollInterval returns the mode watcher cadence as a duration.
func (c *UIConfig) PollInterval() time.Duration {
	return time.Duration(c.ModePollMs) * time.Millisecond
}
