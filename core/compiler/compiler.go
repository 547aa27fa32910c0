// Package compiler turns an annotation graph into a positional token stream.
//
// Compilation of one document runs in four steps:
//
//  1. Validation: span offsets and declared feature kinds are checked.
//  2. Position index: base-unit spans become dense positions.
//  3. Encoding: segment spans become structural tokens, then every catalog
//     layer emits a presence token and one token per non-blank feature for
//     each of its spans.
//  4. Assembly: all tokens are ordered by position into a Stream.
//
// Any error discards the document; a partial stream is never returned.
//
// # Example
//
//	cat, _ := catalog.Load("layers.yaml")
//	c, err := compiler.New(cat)
//	if err != nil {
//		return err
//	}
//	s, err := c.Compile(doc)
//	for tok := range s.All() {
//		fmt.Println(tok.Prefix, tok.Postfix, tok.Start, tok.End)
//	}
package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/FocuswithJustin/annodex/core/catalog"
	"github.com/FocuswithJustin/annodex/core/codec"
	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/core/position"
	"github.com/FocuswithJustin/annodex/core/stream"
)

// Stats describes what a compilation produced.
type Stats struct {
	Positions          int // Base units, equal to the stream's position count
	SegmentTokens      int // Structural "s" tokens
	PresenceTokens     int // One per span of a catalog layer
	FeatureTokens      int // Tokens carrying a feature value
	SuppressedFeatures int // Declared features skipped as blank or absent
	DegenerateSpans    int // Spans overlapping no base unit
	IgnoredSpans       int // Spans of layers absent from the catalog
}

// Tokens returns the total number of emitted tokens.
func (s Stats) Tokens() int {
	return s.SegmentTokens + s.PresenceTokens + s.FeatureTokens
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Positions += o.Positions
	s.SegmentTokens += o.SegmentTokens
	s.PresenceTokens += o.PresenceTokens
	s.FeatureTokens += o.FeatureTokens
	s.SuppressedFeatures += o.SuppressedFeatures
	s.DegenerateSpans += o.DegenerateSpans
	s.IgnoredSpans += o.IgnoredSpans
}

// Compiler compiles documents against one resolved catalog.
// It is immutable and safe for concurrent use.
type Compiler struct {
	catalog  *catalog.Catalog
	registry *codec.Registry
	logger   *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRegistry sets the codec registry. The default is codec.Default.
func WithRegistry(r *codec.Registry) Option {
	return func(c *Compiler) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a compiler for a copy of cat. The copy is resolved, so a
// catalog with a reserved tag fails here rather than during compilation.
func New(cat *catalog.Catalog, opts ...Option) (*Compiler, error) {
	if cat == nil {
		return nil, apperrors.NewValidation("catalog", "catalog is nil")
	}
	resolved := cat.Clone()
	if err := resolved.Resolve(); err != nil {
		return nil, fmt.Errorf("resolve catalog: %w", err)
	}

	c := &Compiler{
		catalog:  resolved,
		registry: codec.Default,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Catalog returns the resolved catalog. It must not be modified.
func (c *Compiler) Catalog() *catalog.Catalog {
	return c.catalog
}

// Registry returns the codec registry used for feature values.
func (c *Compiler) Registry() *codec.Registry {
	return c.registry
}

// Compile compiles doc into a token stream.
func (c *Compiler) Compile(doc *ir.Document) (*stream.Stream, error) {
	s, _, err := c.CompileStats(doc)
	return s, err
}

// CompileStats compiles doc and reports what was emitted.
func (c *Compiler) CompileStats(doc *ir.Document) (*stream.Stream, Stats, error) {
	var stats Stats

	if errs := ir.ValidateDocument(doc); len(errs) > 0 {
		id := ""
		if doc != nil {
			id = doc.ID
		}
		return nil, Stats{}, fmt.Errorf("document %s: %w", id, errors.Join(errs...))
	}

	byLayer := doc.SpansByLayer()
	for name, spans := range byLayer {
		if _, known := c.catalog.Layer(name); !known && name != c.catalog.Segment {
			stats.IgnoredSpans += len(spans)
		}
	}

	if err := c.checkKinds(doc.ID, byLayer); err != nil {
		return nil, Stats{}, err
	}

	idx, err := buildIndex(doc.ID, byLayer[c.catalog.Base])
	if err != nil {
		return nil, Stats{}, err
	}
	stats.Positions = idx.Len()
	if idx.Len() == 0 {
		c.logger.Debug("document has no base units",
			"document_id", doc.ID,
			"base", c.catalog.Base)
		return stream.Empty(doc.ID), stats, nil
	}

	segments := encodeSegments(doc, byLayer[c.catalog.Segment], idx, &stats)

	groups := make([][]stream.IndexToken, 0, len(c.catalog.Layers)+1)
	groups = append(groups, segments)
	for _, layer := range c.catalog.Layers {
		spans := byLayer[layer.Name]
		if len(spans) == 0 {
			continue
		}
		enc := &layerEncoder{layer: layer, registry: c.registry}
		tokens, err := enc.encode(doc, spans, idx, &stats)
		if err != nil {
			return nil, Stats{}, err
		}
		groups = append(groups, tokens)
	}

	if stats.DegenerateSpans > 0 {
		c.logger.Debug("spans outside base units resolved to preceding unit",
			"document_id", doc.ID,
			"count", stats.DegenerateSpans)
	}

	return stream.Assemble(doc.ID, idx.Len(), groups...), stats, nil
}

// checkKinds fails when a catalog layer with spans in the document declares
// a feature kind the registry lacks.
func (c *Compiler) checkKinds(docID string, byLayer map[string][]*ir.Span) error {
	for _, layer := range c.catalog.Layers {
		if len(byLayer[layer.Name]) == 0 {
			continue
		}
		if errs := layer.CheckKinds(c.registry); len(errs) > 0 {
			var fk *apperrors.FeatureKindError
			if errors.As(errs[0], &fk) {
				fk.DocumentID = docID
			}
			return errs[0]
		}
	}
	return nil
}

// buildIndex creates the position index from the base-unit spans.
func buildIndex(docID string, spans []*ir.Span) (*position.Index, error) {
	units := make([]position.Range, len(spans))
	for i, s := range spans {
		units[i] = position.Range{Begin: s.Begin, End: s.End}
	}
	idx, err := position.New(units)
	if err != nil {
		var se *apperrors.SegmentationError
		if errors.As(err, &se) {
			se.DocumentID = docID
		}
		return nil, err
	}
	return idx, nil
}
