package ir

// types.go - Annotation graph type definitions
// A Document is the immutable input of the compiler: its text plus every
// annotation span over it, across all layers.

// Document is the text being indexed plus the full set of annotation spans over it.
type Document struct {
	// ID is the document identifier used in error and log context.
	ID string `json:"id"`

	// Text is the raw UTF-8 text. Span offsets are byte offsets into it.
	Text string `json:"text"`

	// Spans contains all annotation spans, in declaration order.
	Spans []*Span `json:"spans,omitempty"`

	// Attributes contains additional document metadata.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Span represents one annotation instance over a half-open byte range.
// Spans of any layer may overlap or nest freely; only the base unit layer
// is required to be non-overlapping.
type Span struct {
	// ID is the span identifier (optional, used in error context).
	ID string `json:"id,omitempty"`

	// Layer is the name of the layer this span belongs to.
	Layer string `json:"layer"`

	// Begin is the UTF-8 byte offset where the span starts.
	Begin int `json:"begin"`

	// End is the UTF-8 byte offset where the span ends (exclusive).
	End int `json:"end"`

	// Features maps feature names to typed values. Missing names and null
	// values are both treated as absent.
	Features map[string]Value `json:"features,omitempty"`
}

// Len returns the length of the span in bytes.
func (s *Span) Len() int {
	return s.End - s.Begin
}

// Feature returns the value of the named feature.
func (s *Span) Feature(name string) (Value, bool) {
	if s.Features == nil {
		return Value{}, false
	}
	v, ok := s.Features[name]
	return v, ok
}

// SetFeature sets a feature value.
func (s *Span) SetFeature(name string, v Value) {
	if s.Features == nil {
		s.Features = make(map[string]Value)
	}
	s.Features[name] = v
}

// Label returns a printable identifier for the span: its ID when set,
// otherwise its layer and offsets.
func (s *Span) Label() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Layer + "@" + itoa(s.Begin) + ":" + itoa(s.End)
}
