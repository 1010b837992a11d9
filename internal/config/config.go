// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Convert ConvertConfig `toml:"convert"`
	Scan    ScanConfig    `toml:"scan"`
	Preview PreviewConfig `toml:"preview"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// ConvertConfig holds the defaults applied to conversion requests that
// leave a field unset.
type ConvertConfig struct {
	Suffix       *string `toml:"suffix"`
	Quality      int     `toml:"quality"`
	Format       string  `toml:"format"`
	OutputFolder string  `toml:"output_folder"`
	Workers      int     `toml:"workers"`
}

type ScanConfig struct {
	Recursive  bool     `toml:"recursive"`
	Extensions []string `toml:"extensions"`
}

type PreviewConfig struct {
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`
	Quality   int `toml:"quality"`
}

// SuffixOrDefault returns the configured output suffix. An explicitly empty
// suffix is kept.
func (c ConvertConfig) SuffixOrDefault() string {
	if c.Suffix == nil {
		return "-optimized"
	}
	return *c.Suffix
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping validation and missing-variable checks.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5050
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Convert.Quality == 0 {
		c.Convert.Quality = 85
	}
	if c.Convert.Format == "" {
		c.Convert.Format = "original"
	}
	if c.Preview.MaxWidth == 0 {
		c.Preview.MaxWidth = 400
	}
	if c.Preview.MaxHeight == 0 {
		c.Preview.MaxHeight = 300
	}
	if c.Preview.Quality == 0 {
		c.Preview.Quality = 75
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references in content.
// Unresolved references are left unchanged and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]

		value, ok := os.LookupEnv(name)
		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return out, missing
}
