package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gen2brain/webp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Normalize converts img to a color mode the target container can store.
//
// PNG keeps RGB and RGBA as they are and widens everything else to RGBA, so
// palette transparency survives. Every other container gets RGB: RGBA,
// palette and luminance+alpha sources drop their alpha channel and keep the
// stored color of every pixel.
func Normalize(img image.Image, c Container) image.Image {
	mode := ModeOf(img)
	if c == PNG {
		if mode == ModeRGB || mode == ModeRGBA {
			return img
		}
		return toNRGBA(img)
	}
	if mode.HasAlpha() {
		return flatten(img)
	}
	return img
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// flatten returns an opaque copy of img. Pixels keep their straight
// (non-premultiplied) color; nothing is blended against a background.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}

// Encode normalizes r for c and writes it to dest. quality (1-100) applies
// to the lossy containers; PNG, TIFF and GIF ignore it.
//
// The file is written to a temporary sibling and renamed into place, so dest
// may be the file r was decoded from. The destination directory must exist.
func Encode(r *Raster, c Container, quality int, dest string) error {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, r.Image, c, quality); err != nil {
		return err
	}
	if err := writeFileAtomic(dest, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// EncodeTo normalizes img for c and streams the encoded bytes to w.
func EncodeTo(w io.Writer, img image.Image, c Container, quality int) error {
	img = Normalize(img, c)

	var err error
	switch c {
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, img)
	case WEBP:
		err = webp.Encode(w, img, webp.Options{Quality: quality, Method: 6})
	case GIF:
		err = gif.Encode(w, img, &gif.Options{NumColors: 256, Drawer: draw.FloydSteinberg})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		err = fmt.Errorf("unsupported container %q", c)
	}
	if err != nil {
		return fmt.Errorf("%w as %s: %v", ErrEncode, c, err)
	}
	return nil
}

// writeFileAtomic writes data next to dest and renames it over dest.
// It never creates directories.
func writeFileAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, dest)
}
