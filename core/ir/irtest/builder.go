// Package irtest provides builders for annotation graph fixtures.
package irtest

import (
	"strings"

	"github.com/FocuswithJustin/annodex/core/ir"
)

// Default layer names used by the builders.
const (
	TokenLayer    = "Token"
	SentenceLayer = "Sentence"
)

// BuildTokens creates a document from whitespace-separated text. Every run
// of non-blank characters becomes a Token span; every newline closes a
// Sentence span running from its first to its last token. Blank lines are
// skipped.
func BuildTokens(id, text string) *ir.Document {
	doc := &ir.Document{ID: id, Text: text}

	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		sentBegin, sentEnd := -1, -1
		i := 0
		for i < len(line) {
			if isBlank(line[i]) {
				i++
				continue
			}
			j := i
			for j < len(line) && !isBlank(line[j]) {
				j++
			}
			doc.AddSpan(TokenLayer, offset+i, offset+j)
			if sentBegin < 0 {
				sentBegin = offset + i
			}
			sentEnd = offset + j
			i = j
		}
		if sentBegin >= 0 {
			doc.AddSpan(SentenceLayer, sentBegin, sentEnd)
		}
		offset += len(line)
	}

	return doc
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Builder appends text piece by piece and records spans over it.
type Builder struct {
	doc *ir.Document
}

// NewBuilder creates a builder for a document with the given ID.
func NewBuilder(id string) *Builder {
	return &Builder{doc: &ir.Document{ID: id}}
}

// Position returns the current end of the text.
func (b *Builder) Position() int {
	return len(b.doc.Text)
}

// Add appends text. When layer is non-empty a span of that layer is
// recorded over the appended text and returned.
func (b *Builder) Add(text, layer string) *ir.Span {
	begin := len(b.doc.Text)
	b.doc.Text += text
	if layer == "" {
		return nil
	}
	return b.doc.AddSpan(layer, begin, len(b.doc.Text))
}

// Token appends text as a Token span.
func (b *Builder) Token(text string) *ir.Span {
	return b.Add(text, TokenLayer)
}

// Space appends a single blank.
func (b *Builder) Space() {
	b.Add(" ", "")
}

// Span records a span of the given layer over [begin, end).
func (b *Builder) Span(layer string, begin, end int) *ir.Span {
	return b.doc.AddSpan(layer, begin, end)
}

// Document returns the built document.
func (b *Builder) Document() *ir.Document {
	return b.doc
}
