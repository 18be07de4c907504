package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, time.Minute, time.Duration(cfg.Interval))
	assert.Equal(t, time.Second, time.Duration(cfg.FadeDelay))
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	name, err := GetFilename()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".chronophoto", "config.json"), name)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"listen_addr": "0.0.0.0:8080",
		"thumb_width": 640,
		"interval": "30s",
		"fade_delay": "250ms",
		"debug": true
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr)
	assert.Equal(t, 640, cfg.ThumbWidth)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.Interval))
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.FadeDelay))
	assert.True(t, cfg.Debug)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"listen_addr": "0.0.0.0:8080"}`), 0o600))

	t.Setenv("CHRONOPHOTO_LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("CHRONOPHOTO_THUMB_WIDTH", "1024")
	t.Setenv("CHRONOPHOTO_FADE_DELAY", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	assert.Equal(t, 1024, cfg.ThumbWidth)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.FadeDelay))
}

func TestLoad_InvalidJSONFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"listen_addr": [`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"interval": "soon"}`), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.ListenAddr = " " }},
		{"empty api url", func(c *Config) { c.APIBaseURL = "" }},
		{"zero width", func(c *Config) { c.ThumbWidth = 0 }},
		{"zero interval", func(c *Config) { c.Interval = 0 }},
		{"negative fade", func(c *Config) { c.FadeDelay = Duration(-time.Second) }},
		{"zero load timeout", func(c *Config) { c.LoadTimeout = 0 }},
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"zero rate", func(c *Config) { c.RequestRate = 0 }},
		{"zero burst", func(c *Config) { c.RequestBurst = 0 }},
	}

	assert.NoError(t, Default().Validate())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Default()
	want.ThumbWidth = 1200
	want.Interval = Duration(2 * time.Minute)
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
