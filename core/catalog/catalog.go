// Package catalog describes the annotation layers a document may carry and
// how each one is tagged in the token stream.
//
// A Catalog is loaded once at startup (see Load) and resolved before use.
// Resolution applies defaults, adds the base unit layer when it is not
// declared, and rejects catalogs whose tags would be ambiguous in the index.
package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/annodex/core/codec"
	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/stream"
)

// Default layer names.
const (
	DefaultBase    = "Token"
	DefaultSegment = "Sentence"
)

// SegmentTag is the index tag reserved for structural segment tokens.
const SegmentTag = stream.SegmentTag

// Feature declares a named feature of a layer and the kind of its values.
type Feature struct {
	Name string     `yaml:"name" json:"name"`
	Kind codec.Kind `yaml:"kind" json:"kind"`
}

// Layer declares an annotation layer.
type Layer struct {
	// Name is the layer name spans refer to.
	Name string `yaml:"name" json:"name"`

	// UIName is the human-readable name the index tag is derived from.
	// When empty, Name is used.
	UIName string `yaml:"ui_name,omitempty" json:"ui_name,omitempty"`

	// Surface marks layers whose presence token carries the covered text.
	Surface bool `yaml:"surface,omitempty" json:"surface,omitempty"`

	// Features lists the declared features in emission order.
	Features []Feature `yaml:"features,omitempty" json:"features,omitempty"`
}

// Tag returns the index tag of the layer: its UIName, or Name when UIName
// is empty, with every whitespace character replaced by an underscore.
func (l *Layer) Tag() string {
	if l.UIName != "" {
		return SanitizeTag(l.UIName)
	}
	return SanitizeTag(l.Name)
}

// FeatureTag returns the index tag of the named feature.
func (l *Layer) FeatureTag(feature string) string {
	return l.Tag() + "." + feature
}

// SanitizeTag replaces every whitespace character with an underscore.
func SanitizeTag(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, s)
}

// Catalog is the set of layers known to the compiler.
type Catalog struct {
	// Base names the layer whose spans are the base units (positions).
	Base string `yaml:"base,omitempty" json:"base,omitempty"`

	// Segment names the layer whose spans become structural segment tokens.
	Segment string `yaml:"segment,omitempty" json:"segment,omitempty"`

	// Layers lists the declared layers in emission order.
	Layers []*Layer `yaml:"layers" json:"layers"`

	byName map[string]*Layer
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{Base: c.Base, Segment: c.Segment}
	for _, l := range c.Layers {
		if l == nil {
			out.Layers = append(out.Layers, nil)
			continue
		}
		cp := *l
		cp.Features = append([]Feature(nil), l.Features...)
		out.Layers = append(out.Layers, &cp)
	}
	return out
}

// Resolve applies defaults and validates the catalog in place.
//
// The base layer is prepended when not declared and is always a surface
// layer. A layer whose tag equals SegmentTag fails with a
// *errors.TagCollisionError. Empty or duplicate names, duplicate tags and
// duplicate feature names fail with a *errors.ValidationError. A feature
// without a kind defaults to codec.KindString.
func (c *Catalog) Resolve() error {
	if c.Base == "" {
		c.Base = DefaultBase
	}
	if c.Segment == "" {
		c.Segment = DefaultSegment
	}
	if c.Base == c.Segment {
		return apperrors.NewValidation("segment",
			fmt.Sprintf("segment layer %q must differ from base layer", c.Segment))
	}

	byName := make(map[string]*Layer, len(c.Layers)+1)
	byTag := make(map[string]string, len(c.Layers)+1)

	for i, l := range c.Layers {
		if l == nil {
			return apperrors.NewValidation(fmt.Sprintf("layers[%d]", i), "layer is nil")
		}
		if strings.TrimSpace(l.Name) == "" {
			return apperrors.NewValidation(fmt.Sprintf("layers[%d].name", i), "layer name is required")
		}
		if _, dup := byName[l.Name]; dup {
			return apperrors.NewValidation(fmt.Sprintf("layers[%d].name", i),
				fmt.Sprintf("duplicate layer %q", l.Name))
		}
		byName[l.Name] = l
	}

	if base, ok := byName[c.Base]; ok {
		base.Surface = true
	} else {
		base = &Layer{Name: c.Base, Surface: true}
		c.Layers = append([]*Layer{base}, c.Layers...)
		byName[c.Base] = base
	}

	for _, l := range c.Layers {
		tag := l.Tag()
		if tag == SegmentTag {
			return &apperrors.TagCollisionError{Layer: l.Name, Tag: tag}
		}
		if other, dup := byTag[tag]; dup {
			return apperrors.NewValidation(l.Name,
				fmt.Sprintf("tag %q already used by layer %q", tag, other))
		}
		byTag[tag] = l.Name

		seen := make(map[string]bool, len(l.Features))
		for j := range l.Features {
			f := &l.Features[j]
			if strings.TrimSpace(f.Name) == "" {
				return apperrors.NewValidation(fmt.Sprintf("%s.features[%d]", l.Name, j), "feature name is required")
			}
			if seen[f.Name] {
				return apperrors.NewValidation(fmt.Sprintf("%s.features[%d]", l.Name, j),
					fmt.Sprintf("duplicate feature %q", f.Name))
			}
			seen[f.Name] = true
			if f.Kind == "" {
				f.Kind = codec.KindString
			}
		}
	}

	c.byName = byName
	return nil
}

// Layer returns the named layer. The catalog must be resolved.
func (c *Catalog) Layer(name string) (*Layer, bool) {
	l, ok := c.byName[name]
	return l, ok
}

// BaseLayer returns the base unit layer. The catalog must be resolved.
func (c *Catalog) BaseLayer() *Layer {
	return c.byName[c.Base]
}

// CheckKinds reports every declared feature whose kind reg has no codec
// for, as *errors.FeatureKindError values in declaration order.
func (c *Catalog) CheckKinds(reg *codec.Registry) []error {
	var errs []error
	for _, l := range c.Layers {
		errs = append(errs, l.CheckKinds(reg)...)
	}
	return errs
}

// CheckKinds reports every feature of the layer whose kind reg lacks.
func (l *Layer) CheckKinds(reg *codec.Registry) []error {
	var errs []error
	for _, f := range l.Features {
		if !reg.Has(f.Kind) {
			errs = append(errs, &apperrors.FeatureKindError{
				Layer:   l.Name,
				Feature: f.Name,
				Kind:    string(f.Kind),
			})
		}
	}
	return errs
}
