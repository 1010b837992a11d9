// internal/config/error.go
package config

import (
	"fmt"
	"strings"
)

// ConfigError reports every problem found in one config file.
type ConfigError struct {
	Path    string
	Missing []string // "NAME: message" per unresolved ${VAR}
	Errors  []string // "section.key: message" per invalid field
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "missing environment variables: %s", strings.Join(e.Missing, "; "))
	}
	if len(e.Errors) > 0 {
		if len(e.Missing) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("validation failed:")
		for _, msg := range e.Errors {
			fmt.Fprintf(&b, "\n  - %s", msg)
		}
	}
	return b.String()
}

// HasErrors reports whether the file is unusable.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
