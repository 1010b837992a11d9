package inventory

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config for the scanner.
type Config struct {
	// Extensions overrides DefaultExtensions. Matching is case-insensitive.
	Extensions []string
}

// Scanner inventories image files in a folder.
type Scanner struct {
	exts map[string]bool
	log  *slog.Logger
}

// NewScanner creates a scanner.
func NewScanner(cfg Config, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return &Scanner{exts: set, log: log}
}

// Supported reports whether name has an image extension.
func (s *Scanner) Supported(name string) bool {
	return s.exts[strings.ToLower(filepath.Ext(name))]
}

// Result is the outcome of a folder scan.
type Result struct {
	Folder string      `json:"folder"`
	Images []ImageInfo `json:"images"`

	// Skipped counts files with an image extension that failed to decode.
	Skipped int `json:"skipped"`
}

// Scan lists the images in folder, sorted case-insensitively by name.
// Subdirectories are walked only when recursive is set. Files that cannot
// be decoded are logged and counted in Result.Skipped.
func (s *Scanner) Scan(folder string, recursive bool) (*Result, error) {
	folder = strings.TrimSpace(folder)
	if info, err := os.Stat(folder); folder == "" || err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folder)
	}

	res := &Result{Folder: folder, Images: []ImageInfo{}}
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("walk error", "path", path, "error", err)
			if d != nil && d.IsDir() && path != folder {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != folder && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !(d.Type().IsRegular() || d.Type()&fs.ModeSymlink != 0) || !s.Supported(d.Name()) {
			return nil
		}

		img, err := Inspect(path)
		if err != nil {
			res.Skipped++
			s.log.Warn("skipping unreadable image", "path", path, "error", err)
			return nil
		}
		res.Images = append(res.Images, img)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", folder, err)
	}

	SortByName(res.Images)
	s.log.Info("folder scanned", "folder", folder, "images", len(res.Images), "skipped", res.Skipped, "recursive", recursive)
	return res, nil
}
