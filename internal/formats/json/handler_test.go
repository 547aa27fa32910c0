package json

import (
	"errors"
	"io"
	"strings"
	"testing"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/internal/formats"
)

const oneDocument = `{"id": "d1", "text": "John Smith .", "spans": [
  {"layer": "Token", "begin": 0, "end": 4},
  {"layer": "Token", "begin": 5, "end": 10},
  {"layer": "Token", "begin": 11, "end": 12},
  {"id": "ne1", "layer": "NamedEntity", "begin": 0, "end": 10,
   "features": {"value": "PER", "identifier": null, "count": 2, "score": 0.5, "gold": true}}
]}`

func readAll(t *testing.T, input string) []*ir.Document {
	t.Helper()
	src, err := NewSource(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	docs, err := formats.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return docs
}

func TestSingleObject(t *testing.T) {
	docs := readAll(t, oneDocument)
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	doc := docs[0]
	if doc.ID != "d1" || len(doc.Spans) != 4 {
		t.Fatalf("doc = %q with %d spans, want d1 with 4", doc.ID, len(doc.Spans))
	}

	ne := doc.Spans[3]
	tests := []struct {
		feature string
		want    ir.ValueType
	}{
		{"value", ir.TypeString},
		{"identifier", ir.TypeNull},
		{"count", ir.TypeInt},
		{"score", ir.TypeFloat},
		{"gold", ir.TypeBool},
	}
	for _, tt := range tests {
		v, ok := ne.Feature(tt.feature)
		if !ok {
			t.Errorf("feature %s missing", tt.feature)
			continue
		}
		if v.Type() != tt.want {
			t.Errorf("feature %s type = %v, want %v", tt.feature, v.Type(), tt.want)
		}
	}
}

func TestArray(t *testing.T) {
	docs := readAll(t, "\n  ["+oneDocument+`, {"id": "d2", "text": ""}]`)
	if len(docs) != 2 || docs[1].ID != "d2" {
		t.Fatalf("docs = %d, want d1 and d2", len(docs))
	}
}

func TestEmptyArray(t *testing.T) {
	if docs := readAll(t, "[]"); len(docs) != 0 {
		t.Errorf("len(docs) = %d, want 0", len(docs))
	}
}

func TestLines(t *testing.T) {
	input := `{"id": "a", "text": "x"}
{"id": "b", "text": "y"}

{"id": "c", "text": "z"}
`
	docs := readAll(t, input)
	if len(docs) != 3 || docs[2].ID != "c" {
		t.Fatalf("len(docs) = %d, want 3", len(docs))
	}
}

func TestEmptyInput(t *testing.T) {
	if docs := readAll(t, "  \n"); len(docs) != 0 {
		t.Errorf("len(docs) = %d, want 0", len(docs))
	}
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"broken object", `{"id": "a", "text": }`},
		{"truncated array", `[{"id": "a"}`},
		{"nested feature", `{"spans": [{"layer": "T", "features": {"f": [1]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("NewSource() error = %v", err)
			}
			_, err = formats.ReadAll(src)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("ReadAll() error = %v, want ErrInvalidInput", err)
			}
			if _, err := src.Next(); err != io.EOF {
				t.Errorf("Next() after error = %v, want io.EOF", err)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{"json", "jsonl"} {
		if _, err := formats.Lookup(name); err != nil {
			t.Errorf("Lookup(%q) error = %v", name, err)
		}
	}
	f, err := formats.ForPath("corpus.ndjson.zst")
	if err != nil || f.Name != "jsonl" {
		t.Errorf("ForPath(corpus.ndjson.zst) = %v, %v, want jsonl", f, err)
	}
}
