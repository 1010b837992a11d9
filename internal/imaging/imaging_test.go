package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// translucent returns a w x h NRGBA image whose left half is half transparent.
func translucent(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if x < w/2 {
				a = 128
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: a})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func hasTransparency(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

func TestParseContainer(t *testing.T) {
	tests := []struct {
		tag  string
		want Container
		ok   bool
	}{
		{"jpeg", JPEG, true},
		{"png", PNG, true},
		{"WEBP", WEBP, true},
		{"gif", GIF, true},
		{"bmp", BMP, true},
		{"tiff", TIFF, true},
		{"", "", false},
		{"jpg", "", false},
		{"heic", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, ok := ParseContainer(tt.tag)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeOf(t *testing.T) {
	r := image.Rect(0, 0, 2, 2)
	opaque := image.NewRGBA(r)
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 0xff
	}

	assert.Equal(t, ModeRGB, ModeOf(opaque))
	assert.Equal(t, ModeRGBA, ModeOf(image.NewRGBA(r)))
	assert.Equal(t, ModeRGBA, ModeOf(image.NewNRGBA(r)))
	assert.Equal(t, ModeRGB, ModeOf(image.NewYCbCr(r, image.YCbCrSubsampleRatio420)))
	assert.Equal(t, ModeL, ModeOf(image.NewGray(r)))
	assert.Equal(t, ModeLA, ModeOf(image.NewAlpha(r)))
	assert.Equal(t, ModeCMYK, ModeOf(image.NewCMYK(r)))
	assert.Equal(t, ModePaletted, ModeOf(image.NewPaletted(r, color.Palette{color.Black})))
}

func TestNormalize_PNGKeepsAlpha(t *testing.T) {
	src := translucent(4, 4)
	out := Normalize(src, PNG)
	assert.Same(t, src, out, "RGBA input should pass through untouched")

	pal := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Transparent, color.White})
	widened := Normalize(pal, PNG)
	assert.Equal(t, ModeRGBA, ModeOf(widened))
	assert.True(t, hasTransparency(widened))
}

func TestNormalize_OtherContainersStripAlpha(t *testing.T) {
	for _, c := range []Container{JPEG, WEBP, GIF, BMP, TIFF} {
		t.Run(string(c), func(t *testing.T) {
			out := Normalize(translucent(4, 4), c)
			assert.Equal(t, ModeRGB, ModeOf(out))
			assert.False(t, hasTransparency(out))
		})
	}
}

func TestNormalize_DroppedAlphaKeepsColor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 128})

	out := Normalize(src, JPEG)
	require.Equal(t, ModeRGB, ModeOf(out))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, color.RGBAModel.Convert(out.At(0, 0)))
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, color.RGBAModel.Convert(out.At(1, 0)))
}

func TestNormalize_PalettedTransparencyKeepsStoredColor(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{
		color.NRGBA{R: 0, G: 0, B: 255, A: 255},
		color.NRGBA{R: 255, G: 255, B: 255, A: 0},
	})
	pal.SetColorIndex(1, 0, 1)

	out := Normalize(pal, BMP)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, color.RGBAModel.Convert(out.At(0, 0)))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, color.RGBAModel.Convert(out.At(1, 0)))
}

func TestNormalize_GrayUntouchedForJPEG(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 3))
	assert.Same(t, g, Normalize(g, JPEG))
}

func TestDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, path, translucent(20, 10))

	r, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 20, r.Width())
	assert.Equal(t, 10, r.Height())
	assert.Equal(t, "png", r.Format)
	assert.Equal(t, ModeRGBA, r.Mode())
}

func TestDecode_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := Decode(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecode_Missing(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEncode_PNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.png")

	err := Encode(&Raster{Image: translucent(31, 17)}, PNG, 85, dest)
	require.NoError(t, err)

	r, err := Decode(dest)
	require.NoError(t, err)
	assert.Equal(t, 31, r.Width())
	assert.Equal(t, 17, r.Height())
	assert.True(t, hasTransparency(r.Image), "PNG output should keep the alpha channel")
}

func TestEncode_JPEGRoundTrip(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.jpg")

	err := Encode(&Raster{Image: translucent(31, 17)}, JPEG, 100, dest)
	require.NoError(t, err)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, 31, img.Bounds().Dx())
	assert.Equal(t, 17, img.Bounds().Dy())
	assert.False(t, hasTransparency(img), "JPEG output has no alpha channel")
}

func TestEncode_AllContainers(t *testing.T) {
	dir := t.TempDir()
	src := &Raster{Image: translucent(12, 8)}

	for _, c := range []Container{JPEG, PNG, WEBP, GIF, BMP, TIFF} {
		t.Run(string(c), func(t *testing.T) {
			dest := filepath.Join(dir, "out-"+string(c))
			require.NoError(t, Encode(src, c, 80, dest))

			r, err := Decode(dest)
			require.NoError(t, err)
			assert.Equal(t, 12, r.Width())
			assert.Equal(t, 8, r.Height())
			got, ok := ParseContainer(r.Format)
			require.True(t, ok, "format tag %q", r.Format)
			assert.Equal(t, c, got)
		})
	}
}

func TestEncode_UnknownContainer(t *testing.T) {
	err := Encode(&Raster{Image: translucent(2, 2)}, Container("HEIC"), 80, filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, ErrEncode)
}

func TestEncode_MissingDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "out.png")

	err := Encode(&Raster{Image: translucent(2, 2)}, PNG, 80, dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)

	_, statErr := os.Stat(filepath.Dir(dest))
	assert.True(t, os.IsNotExist(statErr), "Encode must not create directories")
}

func TestEncode_ReplacesSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "same.png")
	writePNG(t, path, translucent(40, 20))

	r, err := Decode(path)
	require.NoError(t, err)
	small, err := Resize(r, 20, 10)
	require.NoError(t, err)
	require.NoError(t, Encode(small, PNG, 85, path))

	again, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 20, again.Width())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should not be left behind")
}

func TestResize(t *testing.T) {
	r := &Raster{Image: translucent(200, 150), Format: "png"}

	out, err := Resize(r, 100, 75)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Width())
	assert.Equal(t, 75, out.Height())
	assert.Equal(t, "png", out.Format)
}

func TestResize_InvalidSize(t *testing.T) {
	_, err := Resize(&Raster{Image: translucent(4, 4)}, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestThumbnail(t *testing.T) {
	dir := t.TempDir()
	large := filepath.Join(dir, "large.png")
	writePNG(t, large, translucent(800, 400))

	data, err := Thumbnail(large, 400, 300, 75)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestThumbnail_NoUpscale(t *testing.T) {
	small := filepath.Join(t.TempDir(), "small.png")
	writePNG(t, small, translucent(40, 30))

	data, err := Thumbnail(small, 400, 300, 75)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestKB(t *testing.T) {
	assert.Equal(t, 0, KB(0))
	assert.Equal(t, 0, KB(512))
	assert.Equal(t, 2, KB(1536))
	assert.Equal(t, 1, KB(1024))
	assert.Equal(t, 100, KB(102400))
}
