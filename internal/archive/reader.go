package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// Reader reads a possibly compressed file.
type Reader struct {
	io.Reader
	file         *os.File
	decompressor io.Closer
}

// Open opens path for reading, decompressing it according to its
// extension.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r, closer, err := NewReader(f, Detect(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &Reader{Reader: r, file: f, decompressor: closer}, nil
}

// NewReader wraps r with a decompressor for c. The returned closer, when
// non-nil, must be closed after reading; it does not close r.
func NewReader(r io.Reader, c Compression) (io.Reader, io.Closer, error) {
	switch c {
	case None:
		return r, nil, nil
	case XZ:
		xzr, err := xzNewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("xz reader: %w", err)
		}
		return xzr, nil, nil // xz reader doesn't need closing
	case Zstd:
		zr, err := zstdNewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zr, closerFunc(func() error { zr.Close(); return nil }), nil
	case LZ4:
		return lz4.NewReader(r), nil, nil
	case Gzip:
		gzr, err := gzipNewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gzr, gzr, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression %d", c)
	}
}

// Close closes the decompressor and the underlying file.
func (r *Reader) Close() error {
	var errs []error
	if r.decompressor != nil {
		if err := r.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
