package archive

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
)

// Writer writes a possibly compressed file.
type Writer struct {
	io.Writer
	file       *os.File
	compressor io.WriteCloser
}

// Create creates path, compressing what is written according to its
// extension. Parent directories are created as needed.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	w, err := NewWriter(f, Detect(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	return &Writer{Writer: w, file: f, compressor: w}, nil
}

// NewWriter wraps w with a compressor for c. Closing the result flushes
// the compressor but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case XZ:
		xzw, err := xzNewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		return xzw, nil
	case Zstd:
		zw, err := zstdNewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return zw, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Gzip:
		return gzip.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression %d", c)
	}
}

// Close flushes the compressor and closes the underlying file.
func (w *Writer) Close() error {
	var errs []error
	if err := w.compressor.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
