package convert

import (
	"fmt"
	"path/filepath"
)

// Defaults applied at the request boundary.
const (
	DefaultQuality = 85
	DefaultSuffix  = "-optimized"
)

// Job is one requested source-to-destination conversion.
type Job struct {
	// Path is the source file. Empty for images that arrived without a
	// filesystem location.
	Path string

	// Width is the target width in pixels; zero or negative keeps the size.
	Width int

	// Quality is the 1-100 encoder quality for lossy containers.
	Quality int

	Format Format
	Skip   bool
	NoPath bool

	// Name labels the job when Path is empty.
	Name string
}

// Validate checks the fields the pipeline cannot default.
func (j Job) Validate() error {
	if j.Quality < 1 || j.Quality > 100 {
		return fmt.Errorf("%w: %d (want 1-100)", ErrInvalidQuality, j.Quality)
	}
	if j.Format < FormatOriginal || j.Format > FormatPNG {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, j.Format)
	}
	return nil
}

// displayName is the label reported in the job's outcome.
func (j Job) displayName() string {
	if j.Path != "" {
		return filepath.Base(j.Path)
	}
	return j.Name
}

// Options is the run-level configuration shared by every job in a batch.
type Options struct {
	Suffix       string
	OutputFolder string
	Overwrite    bool
}

// DefaultOptions returns copy-out options with the default suffix.
func DefaultOptions() Options {
	return Options{Suffix: DefaultSuffix}
}

// Status is the terminal state of a job.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Outcome is the result of one job. Output and SizeKB are set only for
// StatusOK, Error only for StatusError.
type Outcome struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Output string `json:"output,omitempty"`
	SizeKB *int   `json:"size_kb,omitempty"`
	Error  string `json:"error,omitempty"`
}

func okOutcome(name, output string, sizeKB int) Outcome {
	return Outcome{Name: name, Status: StatusOK, Output: output, SizeKB: &sizeKB}
}

func errorOutcome(name string, err error) Outcome {
	return Outcome{Name: name, Status: StatusError, Error: message(err)}
}
