// internal/convert/errors.go
package convert

import "errors"

var (
	// ErrPathMissing indicates the job has no usable filesystem path.
	ErrPathMissing = errors.New("no file path available")

	// ErrNotFound indicates the job's path does not reference a regular file.
	ErrNotFound = errors.New("file not found on disk")

	// ErrInvalidFormat indicates an output format outside the supported set.
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidQuality indicates a quality outside 1-100.
	ErrInvalidQuality = errors.New("invalid quality")
)

// Outcome messages shown to the user for the path failures.
const (
	msgPathMissing = "No file path available. Use the folder path field to load images."
	msgNotFound    = "File not found on disk"
)

// message renders err for an Outcome.
func message(err error) string {
	switch {
	case errors.Is(err, ErrPathMissing):
		return msgPathMissing
	case errors.Is(err, ErrNotFound):
		return msgNotFound
	default:
		return err.Error()
	}
}
