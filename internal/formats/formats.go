// Package formats reads annotation graphs from document files.
//
// Each input format lives in its own subpackage and registers itself in
// init. Import the subpackages for the formats a binary should accept:
//
//	import (
//		_ "github.com/FocuswithJustin/annodex/internal/formats/json"
//		_ "github.com/FocuswithJustin/annodex/internal/formats/xml"
//	)
package formats

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/internal/archive"
)

// Source yields documents one at a time. Next returns io.EOF after the
// last document.
type Source interface {
	Next() (*ir.Document, error)
}

// Format describes a registered input format.
type Format struct {
	// Name identifies the format, for example "jsonl".
	Name string
	// Extensions lists the file extensions handled, with the leading dot.
	Extensions []string
	// NewSource creates a source reading documents from r.
	NewSource func(r io.Reader) (Source, error)
}

var (
	mu     sync.RWMutex
	byName = make(map[string]*Format)
	byExt  = make(map[string]*Format)
)

// Register adds a format. It panics on a duplicate name or extension.
func Register(f *Format) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := byName[f.Name]; dup {
		panic(fmt.Sprintf("formats: duplicate format %q", f.Name))
	}
	for _, ext := range f.Extensions {
		ext = strings.ToLower(ext)
		if other, dup := byExt[ext]; dup {
			panic(fmt.Sprintf("formats: extension %q already handled by %q", ext, other.Name))
		}
		byExt[ext] = f
	}
	byName[f.Name] = f
}

// Lookup returns the format registered under name.
func Lookup(name string) (*Format, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := byName[name]
	if !ok {
		return nil, apperrors.NewNotFound("format", name)
	}
	return f, nil
}

// ForPath returns the format matching the extension of path, ignoring a
// trailing compression extension.
func ForPath(path string) (*Format, error) {
	ext := strings.ToLower(filepath.Ext(archive.Base(path)))
	mu.RLock()
	defer mu.RUnlock()
	f, ok := byExt[ext]
	if !ok {
		return nil, apperrors.NewUnsupported("input format", fmt.Sprintf("no format handles %q", path))
	}
	return f, nil
}

// Names returns the registered format names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// File is a Source reading from an opened file.
type File struct {
	Source
	Path   string
	Format *Format
	r      *archive.Reader
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.r.Close()
}

// Open opens path with the format its extension implies, decompressing
// it first when needed. When format is non-empty it overrides detection.
func Open(path, format string) (*File, error) {
	var (
		f   *Format
		err error
	)
	if format != "" {
		f, err = Lookup(format)
	} else {
		f, err = ForPath(path)
	}
	if err != nil {
		return nil, err
	}

	r, err := archive.Open(path)
	if err != nil {
		return nil, apperrors.NewIO("open", path, err)
	}

	src, err := f.NewSource(r)
	if err != nil {
		r.Close()
		return nil, err
	}

	return &File{Source: src, Path: path, Format: f, r: r}, nil
}

// ReadAll drains src.
func ReadAll(src Source) ([]*ir.Document, error) {
	var docs []*ir.Document
	for {
		doc, err := src.Next()
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
}
