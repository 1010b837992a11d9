package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"
)

// minSimilarity is the Jaro-Winkler score a near match needs to be accepted.
const minSimilarity = 0.95

// Resolve maps file names to paths inside folder. Browsers only report the
// base name of dropped files, so each name is tried as an exact file, then
// case-insensitively, then as the closest image name with the same
// extension. Names that match nothing are left out of the result.
func (s *Scanner) Resolve(folder string, names []string) (map[string]string, error) {
	folder = strings.TrimSpace(folder)
	if info, err := os.Stat(folder); folder == "" || err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folder)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", folder, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}

	fold := cases.Fold()
	resolved := make(map[string]string, len(names))
	for _, name := range names {
		if name == "" || filepath.Base(name) != name {
			continue
		}
		if match, ok := s.match(fold, name, files); ok {
			resolved[name] = filepath.Join(folder, match)
			continue
		}
		s.log.Debug("name not resolved", "folder", folder, "name", name)
	}
	return resolved, nil
}

func (s *Scanner) match(fold cases.Caser, name string, files []string) (string, bool) {
	for _, f := range files {
		if f == name {
			return f, true
		}
	}

	key := fold.String(name)
	for _, f := range files {
		if fold.String(f) == key {
			return f, true
		}
	}

	if !s.Supported(name) {
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(name))
	best, bestScore := "", float32(0)
	for _, f := range files {
		if strings.ToLower(filepath.Ext(f)) != ext {
			continue
		}
		score := edlib.JaroWinklerSimilarity(key, fold.String(f))
		if score > bestScore {
			best, bestScore = f, score
		}
	}
	if bestScore >= minSimilarity {
		s.log.Debug("name resolved by similarity", "name", name, "match", best, "score", bestScore)
		return best, true
	}
	return "", false
}
