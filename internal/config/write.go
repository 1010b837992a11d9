// internal/config/write.go
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed default_config.toml
var defaultConfig string

// ErrExists is returned by WriteDefault when path is taken and overwrite is
// false.
var ErrExists = errors.New("config file already exists")

// WriteDefault writes the commented example config to path, creating parent
// directories. An existing file is replaced only when overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(defaultConfig); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
