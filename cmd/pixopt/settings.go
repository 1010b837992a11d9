package main

import (
	"errors"
	"fmt"

	"github.com/vmunix/pixopt/internal/config"
)

// loadSettings returns the config named by --config, the discovered config,
// or the built-in defaults when no config file exists anywhere.
func loadSettings() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config %s is invalid (run 'pixopt config check')", path)
		}
		return nil, err
	}
	return cfg, nil
}
