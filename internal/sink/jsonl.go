package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/core/stream"
	"github.com/FocuswithJustin/annodex/internal/archive"
)

// JSONL writes one Record per line.
type JSONL struct {
	w   *archive.Writer
	enc *json.Encoder
}

// CreateJSONL creates a JSON lines file at path.
func CreateJSONL(path string) (*JSONL, error) {
	w, err := archive.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONL{w: w, enc: json.NewEncoder(w)}, nil
}

// Write appends the record for doc.
func (j *JSONL) Write(ctx context.Context, doc *ir.Document, s *stream.Stream) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := j.enc.Encode(NewRecord(doc, s)); err != nil {
		return fmt.Errorf("write %s: %w", s.DocumentID(), err)
	}
	return nil
}

// Close flushes and closes the file.
func (j *JSONL) Close() error {
	return j.w.Close()
}
