package convert

import (
	"os"
	"path/filepath"
	"strings"
)

// OutputPath returns where the converted source should be written.
//
// With Overwrite the file stays in its directory under its own base name and
// only the extension changes. A conversion that changes the extension
// therefore leaves the source behind as a sibling; it is not removed.
//
// Otherwise the name gets opts.Suffix and goes to opts.OutputFolder when that
// is an existing directory, else next to the source. No directory is created.
func OutputPath(source string, opts Options, ext string) string {
	dir := filepath.Dir(source)
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if opts.Overwrite {
		return filepath.Join(dir, base+ext)
	}

	name := base + opts.Suffix + ext
	if isDir(opts.OutputFolder) {
		return filepath.Join(opts.OutputFolder, name)
	}
	return filepath.Join(dir, name)
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
