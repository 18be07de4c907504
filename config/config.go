// Package config provides configuration management for Chronophoto.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Duration is a time.Duration that reads "1m30s" style strings from JSON.
type Duration time.Duration

// UnmarshalJSON accepts either a Go duration string or integer nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON writes the duration as a Go duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config struct to hold all configuration data
type Config struct {
	ListenAddr     string   `json:"listen_addr" env:"LISTEN_ADDR"`
	APIBaseURL     string   `json:"api_base_url" env:"API_BASE_URL"`
	UserAgent      string   `json:"user_agent" env:"USER_AGENT"`
	ThumbWidth     int      `json:"thumb_width" env:"THUMB_WIDTH"`
	Interval       Duration `json:"interval"`
	FadeDelay      Duration `json:"fade_delay"`
	LoadTimeout    Duration `json:"load_timeout"`
	RequestTimeout Duration `json:"request_timeout"`
	RequestRate    float64  `json:"request_rate" env:"REQUEST_RATE"`
	RequestBurst   int      `json:"request_burst" env:"REQUEST_BURST"`
	LogFile        string   `json:"log_file" env:"LOG_FILE"`
	Debug          bool     `json:"debug" env:"DEBUG"`
}

// durationEnv carries duration overrides, since env parses time.Duration natively.
type durationEnv struct {
	Interval       time.Duration `env:"INTERVAL"`
	FadeDelay      time.Duration `env:"FADE_DELAY"`
	LoadTimeout    time.Duration `env:"LOAD_TIMEOUT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		ListenAddr:     DefaultListenAddr,
		APIBaseURL:     DefaultAPIBaseURL,
		UserAgent:      DefaultUserAgent,
		ThumbWidth:     DefaultThumbWidth,
		Interval:       Duration(DefaultInterval),
		FadeDelay:      Duration(DefaultFadeDelay),
		LoadTimeout:    Duration(DefaultLoadTimeout),
		RequestTimeout: Duration(DefaultRequestTimeout),
		RequestRate:    DefaultRequestRate,
		RequestBurst:   DefaultRequestBurst,
	}
}

// GetPath returns the path to the user's config directory
func GetPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(homeDir, ConfigSubDir), nil
}

// GetFilename returns the path to the user's config file
func GetFilename() (string, error) {
	dir, err := GetPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the config file at path (or the default location when empty), falls
// back to defaults when the file is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		p, err := GetFilename()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	if err := cfg.loadFromFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFromFile loads configuration from the specified file
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", filename, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	opts := env.Options{Prefix: EnvPrefix}
	if err := env.Parse(c, opts); err != nil {
		return fmt.Errorf("read env config: %w", err)
	}
	var d durationEnv
	if err := env.Parse(&d, opts); err != nil {
		return fmt.Errorf("read env config: %w", err)
	}
	if d.Interval > 0 {
		c.Interval = Duration(d.Interval)
	}
	if d.FadeDelay > 0 {
		c.FadeDelay = Duration(d.FadeDelay)
	}
	if d.LoadTimeout > 0 {
		c.LoadTimeout = Duration(d.LoadTimeout)
	}
	if d.RequestTimeout > 0 {
		c.RequestTimeout = Duration(d.RequestTimeout)
	}
	return nil
}

// Validate checks the config for values the service cannot run with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ListenAddr) == "":
		return errors.New("listen_addr is required")
	case strings.TrimSpace(c.APIBaseURL) == "":
		return errors.New("api_base_url is required")
	case c.ThumbWidth <= 0:
		return fmt.Errorf("thumb_width must be positive, got %d", c.ThumbWidth)
	case c.Interval <= 0:
		return errors.New("interval must be positive")
	case c.FadeDelay < 0:
		return errors.New("fade_delay must not be negative")
	case c.LoadTimeout <= 0:
		return errors.New("load_timeout must be positive")
	case c.RequestTimeout <= 0:
		return errors.New("request_timeout must be positive")
	case c.RequestRate <= 0:
		return errors.New("request_rate must be positive")
	case c.RequestBurst <= 0:
		return errors.New("request_burst must be positive")
	}
	return nil
}

// Save writes the configuration to filename, creating the directory if needed.
func (c Config) Save(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
