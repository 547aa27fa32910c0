// Package stream holds the flat, position-addressed token sequence produced
// for one document.
package stream

import (
	"encoding/binary"
	"encoding/hex"
	"iter"
	"sort"

	"github.com/zeebo/blake3"
)

// SegmentTag is the reserved tag of structural segment tokens.
const SegmentTag = "s"

// IndexToken is one entry of the token stream. Start and End are
// inclusive positions with Start <= End.
type IndexToken struct {
	Prefix  string `json:"prefix"`
	Postfix string `json:"postfix"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Stream is a finite, read-once sequence of index tokens.
// A Stream is not safe for concurrent use.
type Stream struct {
	docID     string
	positions int
	tokens    []IndexToken
	next      int
	digest    string
}

// Assemble concatenates token groups in the order given and stable-sorts
// the result by (Start, End), so tokens with equal positions keep their
// emission order.
func Assemble(docID string, positions int, groups ...[]IndexToken) *Stream {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	tokens := make([]IndexToken, 0, n)
	for _, g := range groups {
		tokens = append(tokens, g...)
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Start != tokens[j].Start {
			return tokens[i].Start < tokens[j].Start
		}
		return tokens[i].End < tokens[j].End
	})
	return &Stream{docID: docID, positions: positions, tokens: tokens}
}

// Empty returns a stream with no tokens and no positions.
func Empty(docID string) *Stream {
	return &Stream{docID: docID}
}

// Next returns the next token, or false once the stream is exhausted.
func (s *Stream) Next() (IndexToken, bool) {
	if s.next >= len(s.tokens) {
		return IndexToken{}, false
	}
	t := s.tokens[s.next]
	s.next++
	return t, true
}

// All returns an iterator over the remaining tokens. Ranging over it
// consumes the stream.
func (s *Stream) All() iter.Seq[IndexToken] {
	return func(yield func(IndexToken) bool) {
		for {
			t, ok := s.Next()
			if !ok || !yield(t) {
				return
			}
		}
	}
}

// Len returns the total number of tokens, consumed or not.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// Tokens returns a copy of the full token sequence without consuming
// the stream.
func (s *Stream) Tokens() []IndexToken {
	return append([]IndexToken(nil), s.tokens...)
}

// Remaining returns the number of tokens not yet consumed.
func (s *Stream) Remaining() int {
	return len(s.tokens) - s.next
}

// PositionCount returns the number of base-unit positions of the document.
func (s *Stream) PositionCount() int {
	return s.positions
}

// DocumentID returns the identifier of the compiled document.
func (s *Stream) DocumentID() string {
	return s.docID
}

// Digest returns the hex BLAKE3 digest of the position count and the full
// token sequence, independent of how much of the stream was consumed.
func (s *Stream) Digest() string {
	if s.digest == "" {
		s.digest = digest(s.positions, s.tokens)
	}
	return s.digest
}

func digest(positions int, tokens []IndexToken) string {
	h := blake3.New()
	var buf [binary.MaxVarintLen64]byte

	writeInt := func(v int) {
		n := binary.PutVarint(buf[:], int64(v))
		_, _ = h.Write(buf[:n])
	}
	writeString := func(str string) {
		writeInt(len(str))
		_, _ = h.Write([]byte(str))
	}

	writeInt(positions)
	writeInt(len(tokens))
	for _, t := range tokens {
		writeString(t.Prefix)
		writeString(t.Postfix)
		writeInt(t.Start)
		writeInt(t.End)
	}
	return hex.EncodeToString(h.Sum(nil))
}
