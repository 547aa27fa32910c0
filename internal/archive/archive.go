// Package archive opens document and token files, compressing or
// decompressing them according to their extension.
//
// Supported extensions are ".xz", ".zst", ".lz4" and ".gz". Any other file
// is read or written as is.
package archive

import (
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression identifies a stream compression format.
type Compression int

const (
	// None means the file is not compressed.
	None Compression = iota
	// XZ is LZMA2 in the xz container.
	XZ
	// Zstd is Zstandard.
	Zstd
	// LZ4 is the LZ4 frame format.
	LZ4
	// Gzip is gzip.
	Gzip
)

// Injectable constructors for testing.
var (
	xzNewReader   = xz.NewReader
	xzNewWriter   = xz.NewWriter
	zstdNewReader = func(r io.Reader) (*zstd.Decoder, error) { return zstd.NewReader(r) }
	zstdNewWriter = func(w io.Writer) (*zstd.Encoder, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	}
	gzipNewReader = gzip.NewReader
)

// String returns the conventional extension without the dot, or "none".
func (c Compression) String() string {
	switch c {
	case XZ:
		return "xz"
	case Zstd:
		return "zst"
	case LZ4:
		return "lz4"
	case Gzip:
		return "gz"
	default:
		return "none"
	}
}

// Detect returns the compression implied by the extension of path.
func Detect(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		return XZ
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	case ".gz":
		return Gzip
	default:
		return None
	}
}

// Base returns path with a compression extension removed, so that the
// content format can be detected from what remains.
func Base(path string) string {
	if Detect(path) == None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
