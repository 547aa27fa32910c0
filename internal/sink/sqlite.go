package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/core/sqlite"
	"github.com/FocuswithJustin/annodex/core/stream"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id        TEXT PRIMARY KEY,
		text_hash TEXT NOT NULL,
		positions INTEGER NOT NULL,
		digest    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tokens (
		doc_id    TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		seq       INTEGER NOT NULL,
		prefix    TEXT NOT NULL,
		postfix   TEXT NOT NULL,
		start_pos INTEGER NOT NULL,
		end_pos   INTEGER NOT NULL,
		PRIMARY KEY (doc_id, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS tokens_prefix ON tokens(prefix, postfix)`,
}

// SQLite stores documents and their tokens in a SQLite database.
// Writing a document that already exists replaces its tokens.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := sqlite.TuneForBulkLoad(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, schema...); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// DB returns the underlying database handle.
func (w *SQLite) DB() *sql.DB {
	return w.db
}

// Write stores doc and its tokens in one transaction.
func (w *SQLite) Write(ctx context.Context, doc *ir.Document, s *stream.Stream) error {
	rec := NewRecord(doc, s)

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write %s: %w", rec.ID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE doc_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("write %s: %w", rec.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, text_hash, positions, digest) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET text_hash = excluded.text_hash,
		 positions = excluded.positions, digest = excluded.digest`,
		rec.ID, rec.TextHash, rec.Positions, rec.Digest); err != nil {
		return fmt.Errorf("write %s: %w", rec.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tokens (doc_id, seq, prefix, postfix, start_pos, end_pos) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("write %s: %w", rec.ID, err)
	}
	defer stmt.Close()

	for i, t := range rec.Tokens {
		if _, err := stmt.ExecContext(ctx, rec.ID, i, t.Prefix, t.Postfix, t.Start, t.End); err != nil {
			return fmt.Errorf("write %s token %d: %w", rec.ID, i, err)
		}
	}
	return tx.Commit()
}

// TextHash returns the stored text hash of a document, or "" if it has
// not been written.
func (w *SQLite) TextHash(ctx context.Context, id string) (string, error) {
	var h string
	err := w.db.QueryRowContext(ctx, `SELECT text_hash FROM documents WHERE id = ?`, id).Scan(&h)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return h, err
}

// Close closes the database.
func (w *SQLite) Close() error {
	return w.db.Close()
}
