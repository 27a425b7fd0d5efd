package requests

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// ParseFunc decodes a whole node definitions file
type ParseFunc func(data []byte) (*Batch, error)

var (
	mu      sync.RWMutex
	formats = map[string]ParseFunc{
		".json": ParseJSON,
		".yaml": ParseYAML,
		".yml":  ParseYAML,
	}
)

// RegisterFormat ties a parser to a file extension such as ".toml". The
// extension match is case insensitive; registering an existing extension
// replaces its parser.
func RegisterFormat(ext string, parse ParseFunc) {
	mu.Lock()
	formats[strings.ToLower(ext)] = parse
	mu.Unlock()
}

// GetFormat picks the parser for path based on its extension
func GetFormat(path string) (ParseFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mu.RLock()
	parse, ok := formats[ext]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown node definitions file extension: %s", path)
	}
	return parse, nil
}
