package convert

import (
	"fmt"
	"strings"

	"github.com/vmunix/pixopt/internal/imaging"
)

// Format is the requested output format of a job.
type Format int

const (
	// FormatOriginal keeps the source container and extension.
	FormatOriginal Format = iota
	FormatWebP
	FormatJPG
	FormatPNG
)

var formatNames = [...]string{
	FormatOriginal: "original",
	FormatWebP:     "webp",
	FormatJPG:      "jpg",
	FormatPNG:      "png",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat parses a format name case-insensitively. An empty name is
// FormatOriginal.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatOriginal, nil
	}
	for i, name := range formatNames {
		if s == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want original, webp, jpg or png)", ErrInvalidFormat, s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ResolveFormat picks the container and file extension for a job.
//
// FormatOriginal keeps the lower-cased source extension and encodes in the
// decoded container, falling back to JPEG when the decoder's tag is empty or
// not one we can write.
func ResolveFormat(f Format, sourceExt, decodedFormat string) (imaging.Container, string) {
	switch f {
	case FormatOriginal:
		c, ok := imaging.ParseContainer(decodedFormat)
		if !ok {
			c = imaging.JPEG
		}
		return c, strings.ToLower(sourceExt)
	case FormatWebP:
		return imaging.WEBP, ".webp"
	case FormatJPG:
		return imaging.JPEG, ".jpg"
	case FormatPNG:
		return imaging.PNG, ".png"
	default:
		return imaging.JPEG, strings.ToLower(sourceExt)
	}
}
