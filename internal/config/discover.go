// internal/config/discover.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that pins the config file.
const EnvConfig = "PIXOPT_CONFIG"

// ErrNotFound means no config file exists at any searched location.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns $XDG_CONFIG_HOME/pixopt/config.toml, using ~/.config
// when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "config.toml")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "pixopt", "config.toml")
}

// SearchPaths lists the files Discover checks when PIXOPT_CONFIG is unset.
func SearchPaths() []string {
	return []string{
		filepath.Join(".", "config.toml"),
		DefaultPath(),
		"/etc/pixopt/config.toml",
	}
}

// Discover returns the config file to load. PIXOPT_CONFIG wins when set and
// must name a regular file; otherwise the first existing entry of
// SearchPaths is used. The error wraps ErrNotFound only when nothing was
// configured and nothing was found.
func Discover() (string, error) {
	if pinned := os.Getenv(EnvConfig); pinned != "" {
		info, err := os.Stat(pinned)
		if err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, pinned, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s=%s: is a directory", EnvConfig, pinned)
		}
		return pinned, nil
	}

	candidates := SearchPaths()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(candidates, ", "))
}
