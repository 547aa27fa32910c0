// Package ir provides the annotation graph consumed by the token stream compiler.
//
// The graph uses stand-off markup: a Document holds its text once, and every
// annotation is a Span referencing a half-open byte range of that text. Spans
// carry their layer name and a map of typed feature values. Spans of one layer
// may overlap spans of the same or other layers arbitrarily; the only ordering
// requirement is on the base unit layer, checked when positions are assigned.
//
// # Core Types
//
//   - Document: text plus all spans, immutable once handed to the compiler
//   - Span: layer name, offsets, feature values
//   - Value: null, string, int, float or bool feature value
//
// # Offsets
//
// Offsets are UTF-8 byte offsets, end-exclusive, with 0 <= Begin <= End <= len(Text).
// ValidateDocument reports spans violating this.
//
// # Example
//
//	doc := &ir.Document{ID: "d1", Text: "John Smith ."}
//	doc.AddSpan("Token", 0, 4)
//	doc.AddSpan("Token", 5, 10)
//	doc.AddSpan("Token", 11, 12)
//	ne := doc.AddSpan("NamedEntity", 0, 10)
//	ne.SetFeature("value", ir.String("PER"))
package ir
