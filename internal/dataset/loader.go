package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Loader reads a table from a file on disk.
type Loader interface {
	CanLoad(path string) bool
	Load(path string) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no registered loader handles the file type.
var ErrUnsupported = errors.New("unsupported data source type")

// Load selects a loader based on the file name and reads the table.
func Load(path string) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path)
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = "(none)"
	}
	return nil, fmt.Errorf("%w: extension %s", ErrUnsupported, ext)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(sqliteLoader{})
}
