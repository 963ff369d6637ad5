package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/outline/layout"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/app/input", cfg.Input)
	assert.Equal(t, "/app/output", cfg.Output)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.Budget)
	assert.Empty(t, cfg.Profile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, int64(50<<20), cfg.Server.MaxUploadBytes)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("OUTLINE_INPUT", "/data/in")
	t.Setenv("OUTLINE_WORKERS", "3")
	t.Setenv("OUTLINE_BUDGET", "250ms")
	t.Setenv("OUTLINE_LOG_LEVEL", "debug")
	t.Setenv("OUTLINE_SERVER_ADDR", ":9000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/in", cfg.Input)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Budget)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outline.yaml")
	content := `
input: /srv/pdfs
workers: 2
log:
  format: text
server:
  max_upload_bytes: 1024
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/pdfs", cfg.Input)
	assert.Equal(t, "/app/output", cfg.Output, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, int64(1024), cfg.Server.MaxUploadBytes)
}

func TestLoadFileEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))
	t.Setenv("OUTLINE_WORKERS", "6")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"no upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLayoutConfig(t *testing.T) {
	cfg := &Config{}
	profile, err := cfg.LayoutConfig()
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultConfig().H1Ratio, profile.H1Ratio)

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("h1_ratio: 2.0\n"), 0o644))
	cfg.Profile = path

	profile, err = cfg.LayoutConfig()
	require.NoError(t, err)
	assert.Equal(t, 2.0, profile.H1Ratio)

	cfg.Profile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.LayoutConfig()
	assert.Error(t, err)
}

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	logger := cfg.NewLoggerTo(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "file", "a.pdf")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "a.pdf", entry["file"])

	buf.Reset()
	cfg.Log.Format = "text"
	cfg.NewLoggerTo(&buf).Warn("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
