// Package imaging decodes, resamples, normalizes and encodes raster images.
package imaging

import (
	"bufio"
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	// Decoders register themselves with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Container is an on-disk image encoding.
type Container string

const (
	JPEG Container = "JPEG"
	PNG  Container = "PNG"
	WEBP Container = "WEBP"
	GIF  Container = "GIF"
	BMP  Container = "BMP"
	TIFF Container = "TIFF"
)

// ParseContainer maps a decoder format tag ("jpeg", "png", ...) to a Container.
// The second return value is false for empty or unrecognised tags.
func ParseContainer(tag string) (Container, bool) {
	switch c := Container(strings.ToUpper(strings.TrimSpace(tag))); c {
	case JPEG, PNG, WEBP, GIF, BMP, TIFF:
		return c, true
	default:
		return "", false
	}
}

// ColorMode is the per-pixel channel layout of a raster.
type ColorMode string

const (
	ModeRGB      ColorMode = "RGB"
	ModeRGBA     ColorMode = "RGBA"
	ModeL        ColorMode = "L"
	ModeLA       ColorMode = "LA"
	ModePaletted ColorMode = "P"
	ModeCMYK     ColorMode = "CMYK"
)

// HasAlpha reports whether the mode carries a transparency channel.
func (m ColorMode) HasAlpha() bool {
	return m == ModeRGBA || m == ModeLA || m == ModePaletted
}

// ModeOf classifies img by its concrete type. Straight-alpha buffers are
// always RGBA; premultiplied ones count as RGB when every pixel is opaque,
// which is how the PNG decoder returns plain truecolor files.
func ModeOf(img image.Image) ColorMode {
	switch m := img.(type) {
	case *image.Paletted:
		return ModePaletted
	case *image.Gray, *image.Gray16:
		return ModeL
	case *image.Alpha, *image.Alpha16:
		return ModeLA
	case *image.CMYK:
		return ModeCMYK
	case *image.YCbCr:
		return ModeRGB
	case *image.NYCbCrA, *image.NRGBA, *image.NRGBA64:
		return ModeRGBA
	case *image.RGBA:
		if m.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	case *image.RGBA64:
		if m.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return ModeRGB
	}
	return ModeRGBA
}

// Raster is a decoded in-memory image.
type Raster struct {
	Image image.Image

	// Format is the decoder's tag for the source container ("jpeg", "png",
	// ...). It is empty when the raster did not come from a file.
	Format string
}

// Width returns the pixel width.
func (r *Raster) Width() int { return r.Image.Bounds().Dx() }

// Height returns the pixel height.
func (r *Raster) Height() int { return r.Image.Bounds().Dy() }

// Mode returns the raster's color mode.
func (r *Raster) Mode() ColorMode { return ModeOf(r.Image) }

// Decode reads the image at path.
func Decode(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDecode, path, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w %s: empty raster", ErrDecode, path)
	}
	return &Raster{Image: img, Format: format}, nil
}

// KB converts a byte count to whole kilobytes, rounding half to even.
func KB(n int64) int {
	return int(math.RoundToEven(float64(n) / 1024))
}

// Codec exposes the package functions as a value so callers can substitute
// their own implementation in tests.
type Codec struct{}

// Decode calls the package-level Decode.
func (Codec) Decode(path string) (*Raster, error) { return Decode(path) }

// Resize calls the package-level Resize.
func (Codec) Resize(r *Raster, width, height int) (*Raster, error) { return Resize(r, width, height) }

// Encode calls the package-level Encode.
func (Codec) Encode(r *Raster, c Container, quality int, dest string) error {
	return Encode(r, c, quality, dest)
}
