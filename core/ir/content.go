package ir

import (
	"strconv"

	"github.com/google/uuid"
)

// content.go - Document utility functions
// Note: Type definitions are in types.go

// CoveredText returns the literal text covered by the span.
// Offsets outside the text are clamped; use ValidateDocument to reject them.
func (d *Document) CoveredText(s *Span) string {
	begin, end := s.Begin, s.End
	if begin < 0 {
		begin = 0
	}
	if end > len(d.Text) {
		end = len(d.Text)
	}
	if begin >= end {
		return ""
	}
	return d.Text[begin:end]
}

// SpansByLayer groups spans by layer name, preserving declaration order
// within each layer.
func (d *Document) SpansByLayer() map[string][]*Span {
	byLayer := make(map[string][]*Span)
	for _, s := range d.Spans {
		if s == nil {
			continue
		}
		byLayer[s.Layer] = append(byLayer[s.Layer], s)
	}
	return byLayer
}

// AddSpan appends a span and returns it.
func (d *Document) AddSpan(layer string, begin, end int) *Span {
	s := &Span{Layer: layer, Begin: begin, End: end}
	d.Spans = append(d.Spans, s)
	return s
}

// EnsureID assigns a random UUID when the document carries no identifier
// and returns the resulting ID.
func (d *Document) EnsureID() string {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return d.ID
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
