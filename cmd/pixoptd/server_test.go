package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/pixopt/internal/config"
	"github.com/vmunix/pixopt/internal/convert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestServerConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8081
	cfg.Convert.Format = "WebP"
	cfg.Convert.Quality = 70
	cfg.Convert.Workers = 3
	empty := ""
	cfg.Convert.Suffix = &empty
	cfg.Scan.Recursive = true

	got, err := serverConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8081", got.Addr)
	assert.Equal(t, 3, got.Workers)
	assert.Equal(t, convert.FormatWebP, got.API.Format)
	assert.Equal(t, 70, got.API.Quality)
	assert.Equal(t, "", got.API.Suffix)
	assert.True(t, got.API.Recursive)
	assert.Equal(t, 400, got.API.PreviewWidth)
	assert.Equal(t, version, got.API.Version)
}

func TestServerConfig_BadFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Convert.Format = "avif"

	_, err := serverConfig(cfg)
	require.ErrorIs(t, err, convert.ErrInvalidFormat)
}

func TestLoadConfig_Explicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixopt.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 7070\n"), 0644))

	cfg, got, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixopt.toml")
	require.NoError(t, os.WriteFile(path, []byte("[convert]\nquality = 500\n"), 0644))

	_, _, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "convert.quality")
}

func TestLoadConfig_DefaultsWhenNothingDiscovered(t *testing.T) {
	t.Setenv("PIXOPT_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "xdg"))
	t.Chdir(t.TempDir())

	cfg, path, err := loadConfig("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, 5050, cfg.Server.Port)
}

func TestLoadConfig_PinnedConfigMissing(t *testing.T) {
	t.Setenv("PIXOPT_CONFIG", filepath.Join(t.TempDir(), "gone.toml"))

	_, _, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PIXOPT_CONFIG")
}

func TestLoadConfig_MissingOutputFolderLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixopt.toml")
	require.NoError(t, os.WriteFile(path, []byte("[convert]\noutput_folder = \"/nonexistent/usb/out\"\n"), 0644))

	cfg, _, err := loadConfig(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Warnings())
}
