// internal/config/validate.go
package config

import (
	"fmt"
	"os"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validFormats = map[string]bool{
	"original": true, "webp": true, "jpg": true, "png": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Conversion defaults
	if c.Convert.Quality != 0 && (c.Convert.Quality < 1 || c.Convert.Quality > 100) {
		errs = append(errs, fmt.Sprintf("convert.quality: must be between 1 and 100, got %d", c.Convert.Quality))
	}
	if !validFormats[strings.ToLower(c.Convert.Format)] {
		errs = append(errs, fmt.Sprintf("convert.format: must be one of original, webp, jpg, png; got %q", c.Convert.Format))
	}
	if c.Convert.Workers < 0 {
		errs = append(errs, fmt.Sprintf("convert.workers: must not be negative, got %d", c.Convert.Workers))
	}

	// Scan validation
	for _, ext := range c.Scan.Extensions {
		if strings.TrimSpace(ext) == "" {
			errs = append(errs, "scan.extensions: empty extension")
		}
	}

	// Preview validation
	if c.Preview.MaxWidth < 0 || c.Preview.MaxHeight < 0 {
		errs = append(errs, fmt.Sprintf("preview: max_width and max_height must be positive, got %dx%d", c.Preview.MaxWidth, c.Preview.MaxHeight))
	}
	if c.Preview.Quality != 0 && (c.Preview.Quality < 1 || c.Preview.Quality > 100) {
		errs = append(errs, fmt.Sprintf("preview.quality: must be between 1 and 100, got %d", c.Preview.Quality))
	}

	return errs
}

// Warnings reports settings that load fine but will not take effect as
// written. They never make Load fail.
func (c *Config) Warnings() []string {
	var warns []string
	if c.Convert.OutputFolder != "" {
		if info, err := os.Stat(c.Convert.OutputFolder); err != nil || !info.IsDir() {
			warns = append(warns, fmt.Sprintf("convert.output_folder: directory %q does not exist, outputs go next to their sources", c.Convert.OutputFolder))
		}
	}
	return warns
}
