package dataset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrSourceNotFound is returned when an input path does not exist in any of
// the searched locations. It matches fs.ErrNotExist under errors.Is.
var ErrSourceNotFound = fmt.Errorf("source not found: %w", fs.ErrNotExist)

// ResolvePath returns the absolute path of the first existing candidate for
// source. Relative sources are tried as given, then under each fallback dir.
func ResolvePath(source string, fallbacks ...string) (string, error) {
	candidates := []string{source}
	if !filepath.IsAbs(source) {
		for _, dir := range fallbacks {
			if dir == "" {
				continue
			}
			candidates = append(candidates, filepath.Join(dir, source))
		}
	}
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", c, err)
		}
		return abs, nil
	}
	return "", fmt.Errorf("%w: %s", ErrSourceNotFound, source)
}
