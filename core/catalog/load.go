package catalog

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
)

// osReadFile is a variable to allow testing of read errors.
var osReadFile = os.ReadFile

// Load reads and resolves a catalog file. The format is chosen by
// extension: ".yaml" and ".yml" are YAML, ".layers" is the layer
// declaration language (see ParseLayers).
func Load(path string) (*Catalog, error) {
	data, err := osReadFile(path)
	if err != nil {
		return nil, apperrors.NewIO("read", path, err)
	}

	var cat *Catalog
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cat, err = parseYAML(path, data)
	case ".layers":
		cat, err = parseLayers(path, data)
	default:
		return nil, apperrors.NewUnsupported("catalog format", "unknown extension "+ext)
	}
	if err != nil {
		return nil, err
	}

	if err := cat.Resolve(); err != nil {
		return nil, err
	}
	return cat, nil
}

// ParseYAML decodes a catalog from YAML without resolving it. Unknown keys
// are rejected.
func ParseYAML(data []byte) (*Catalog, error) {
	return parseYAML("", data)
}

func parseYAML(path string, data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cat Catalog
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return &Catalog{}, nil
		}
		return nil, apperrors.NewParse("catalog YAML", path, err.Error())
	}
	return &cat, nil
}
