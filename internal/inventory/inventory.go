// Package inventory lists and describes candidate images for conversion.
package inventory

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/vmunix/pixopt/internal/imaging"
)

// DefaultExtensions are the file extensions considered images.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp"}

// ImageInfo describes one candidate image.
type ImageInfo struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	SizeKB int    `json:"size_kb"`
	Format string `json:"format"`
	NoPath bool   `json:"no_path,omitempty"`
}

// Inspect reads the header of the image at path.
func Inspect(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return ImageInfo{}, err
	}

	name := filepath.Base(path)
	info, err := inspect(f, name)
	if err != nil {
		return ImageInfo{}, err
	}
	info.Path = path
	info.SizeKB = imaging.KB(st.Size())
	return info, nil
}

// InspectBytes describes an image that has no filesystem path, such as an
// uploaded file the client could not map to a location on disk.
func InspectBytes(name string, data []byte) (ImageInfo, error) {
	info, err := inspect(bytes.NewReader(data), name)
	if err != nil {
		return ImageInfo{}, err
	}
	info.SizeKB = imaging.KB(int64(len(data)))
	info.NoPath = true
	return info, nil
}

func inspect(r io.Reader, name string) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w %s: %v", imaging.ErrDecode, name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, fmt.Errorf("%w %s: empty raster", imaging.ErrDecode, name)
	}
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(name), ".")
	}
	return ImageInfo{
		Name:   name,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: strings.ToUpper(format),
	}, nil
}

// SortByName orders images case-insensitively by display name.
func SortByName(images []ImageInfo) {
	fold := cases.Fold()
	keys := make(map[string]string, len(images))
	for _, img := range images {
		if _, ok := keys[img.Name]; !ok {
			keys[img.Name] = fold.String(img.Name)
		}
	}
	sort.SliceStable(images, func(i, j int) bool {
		return keys[images[i].Name] < keys[images[j].Name]
	})
}
