// internal/imaging/errors.go
package imaging

import "errors"

var (
	// ErrDecode indicates the source bytes could not be parsed as a supported image.
	ErrDecode = errors.New("cannot decode image")

	// ErrEncode indicates the raster could not be serialized in the target container.
	ErrEncode = errors.New("cannot encode image")

	// ErrWrite indicates the encoded bytes could not be written to the destination.
	ErrWrite = errors.New("cannot write output")

	// ErrInvalidSize indicates a resize was requested to a non-positive dimension.
	ErrInvalidSize = errors.New("invalid target size")
)
