// Package sink provides index writers that persist compiled token streams.
package sink

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/core/stream"
	"github.com/FocuswithJustin/annodex/internal/archive"
)

// Writer receives compiled documents in order. Write consumes the stream.
type Writer interface {
	Write(ctx context.Context, doc *ir.Document, s *stream.Stream) error
	Close() error
}

// Open creates a file-backed writer for path. SQLite databases are chosen
// by the .db, .sqlite and .sqlite3 extensions; anything else is written as
// JSON lines, compressed according to its extension.
func Open(ctx context.Context, path string) (Writer, error) {
	switch strings.ToLower(filepath.Ext(archive.Base(path))) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(ctx, path)
	default:
		return CreateJSONL(path)
	}
}

// Record is the serialized form of one compiled document.
type Record struct {
	ID        string              `json:"id"`
	TextHash  string              `json:"text_hash"`
	Positions int                 `json:"positions"`
	Digest    string              `json:"digest"`
	Tokens    []stream.IndexToken `json:"tokens"`
}

// NewRecord drains s into a Record.
func NewRecord(doc *ir.Document, s *stream.Stream) Record {
	rec := Record{
		ID:        s.DocumentID(),
		TextHash:  ir.HashText(doc.Text),
		Positions: s.PositionCount(),
		Digest:    s.Digest(),
		Tokens:    make([]stream.IndexToken, 0, s.Remaining()),
	}
	for t := range s.All() {
		rec.Tokens = append(rec.Tokens, t)
	}
	return rec
}
