package imaging

import (
	"bytes"
	"fmt"

	"github.com/nfnt/resize"
)

// Resize resamples r to exactly width x height with a Lanczos3 filter.
func Resize(r *Raster, width, height int) (*Raster, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	img := resize.Resize(uint(width), uint(height), r.Image, resize.Lanczos3)
	return &Raster{Image: img, Format: r.Format}, nil
}

// Thumbnail decodes the image at path, scales it down to fit within
// maxWidth x maxHeight and returns it as JPEG bytes. Images that already
// fit are not enlarged.
func Thumbnail(path string, maxWidth, maxHeight, quality int) ([]byte, error) {
	if maxWidth < 1 || maxHeight < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, maxWidth, maxHeight)
	}
	r, err := Decode(path)
	if err != nil {
		return nil, err
	}
	img := resize.Thumbnail(uint(maxWidth), uint(maxHeight), r.Image, resize.Lanczos3)

	var buf bytes.Buffer
	if err := EncodeTo(&buf, img, JPEG, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
