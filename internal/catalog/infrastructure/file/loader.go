package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	catalog "ledwall-configurator/internal/catalog/domain"
)

// ErrUnsupportedFormat is returned for catalog files that are neither yaml nor toml.
var ErrUnsupportedFormat = errors.New("catalog file: unsupported format")

// Load reads a catalog override file and overlays it on the built-in tables.
// Tables present in the file replace the built-in ones; policy fields present
// in the file override the built-in values, zero included.
func Load(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	overlay, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	c, err := catalog.New(catalog.DefaultTables().Overlay(overlay))
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a catalog overlay in the format named by ext. Unknown keys are
// rejected so a misspelled field never silently falls back to a default.
func Decode(ext string, data []byte) (catalog.Overlay, error) {
	var t catalog.Overlay
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
			return catalog.Overlay{}, err
		}
	case ".toml":
		md, err := toml.Decode(string(data), &t)
		if err != nil {
			return catalog.Overlay{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return catalog.Overlay{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	default:
		return catalog.Overlay{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return t, nil
}

// Source loads the catalog from a file on every call.
type Source struct {
	Path string
}

// Load implements the catalog store source.
func (s Source) Load(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(s.Path)
}
