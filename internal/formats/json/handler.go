// Package json reads documents encoded as JSON.
//
// A ".json" file holds one document object or an array of them. A ".jsonl"
// or ".ndjson" file holds one document object per line. Both decode into
// ir.Document directly:
//
//	{"id": "d1", "text": "John Smith .", "spans": [
//	  {"layer": "Token", "begin": 0, "end": 4},
//	  {"layer": "NamedEntity", "begin": 0, "end": 10, "features": {"value": "PER"}}
//	]}
package json

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"unicode"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/internal/formats"
)

func init() {
	Register()
}

// Register registers the "json" and "jsonl" formats.
func Register() {
	formats.Register(&formats.Format{
		Name:       "json",
		Extensions: []string{".json"},
		NewSource:  NewSource,
	})
	formats.Register(&formats.Format{
		Name:       "jsonl",
		Extensions: []string{".jsonl", ".ndjson"},
		NewSource:  NewSource,
	})
}

// Source decodes a sequence of JSON documents. A leading '[' switches to
// array mode; otherwise top-level values are decoded one after another.
type Source struct {
	dec   *json.Decoder
	array bool
	done  bool
	n     int
}

// NewSource creates a source reading from r.
func NewSource(r io.Reader) (formats.Source, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil && err != io.EOF {
		return nil, apperrors.NewIO("read", "", err)
	}

	s := &Source{dec: json.NewDecoder(br)}
	if first == '[' {
		if _, err := s.dec.Token(); err != nil {
			return nil, apperrors.NewParse("JSON", "", err.Error())
		}
		s.array = true
	}
	return s, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

// Next decodes the next document.
func (s *Source) Next() (*ir.Document, error) {
	if s.done {
		return nil, io.EOF
	}
	if s.array && !s.dec.More() {
		s.done = true
		if _, err := s.dec.Token(); err != nil {
			return nil, apperrors.NewParse("JSON", "", err.Error())
		}
		return nil, io.EOF
	}

	var doc ir.Document
	if err := s.dec.Decode(&doc); err != nil {
		if err == io.EOF && !s.array {
			s.done = true
			return nil, io.EOF
		}
		s.done = true
		return nil, apperrors.NewParse("JSON", "", fmt.Sprintf("document %d: %v", s.n, err))
	}
	s.n++
	return &doc, nil
}
