package catalog

import (
	"errors"
	"testing"

	"github.com/FocuswithJustin/annodex/core/codec"
	apperrors "github.com/FocuswithJustin/annodex/core/errors"
)

func namedEntityCatalog() *Catalog {
	return &Catalog{
		Layers: []*Layer{{
			Name:   "NamedEntity",
			UIName: "Named Entity",
			Features: []Feature{
				{Name: "value", Kind: codec.KindString},
				{Name: "identifier", Kind: codec.KindString},
			},
		}},
	}
}

func TestSanitizeTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Named Entity", "Named_Entity"},
		{"Token", "Token"},
		{"a\tb\nc", "a_b_c"},
		{"  x ", "__x_"},
		{"non breaking", "non_breaking"},
	}
	for _, tt := range tests {
		if got := SanitizeTag(tt.in); got != tt.want {
			t.Errorf("SanitizeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLayerTag(t *testing.T) {
	l := &Layer{Name: "NamedEntity", UIName: "Named Entity"}
	if got := l.Tag(); got != "Named_Entity" {
		t.Errorf("Tag() = %q, want %q", got, "Named_Entity")
	}
	if got := l.FeatureTag("value"); got != "Named_Entity.value" {
		t.Errorf("FeatureTag() = %q, want %q", got, "Named_Entity.value")
	}
	l.UIName = ""
	if got := l.Tag(); got != "NamedEntity" {
		t.Errorf("Tag() without UIName = %q, want %q", got, "NamedEntity")
	}
}

func TestResolveDefaults(t *testing.T) {
	cat := namedEntityCatalog()
	if err := cat.Resolve(); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cat.Base != DefaultBase || cat.Segment != DefaultSegment {
		t.Errorf("Base, Segment = %q, %q, want %q, %q", cat.Base, cat.Segment, DefaultBase, DefaultSegment)
	}
	if len(cat.Layers) != 2 || cat.Layers[0].Name != "Token" {
		t.Fatalf("Layers[0] = %+v, want base layer prepended", cat.Layers[0])
	}
	base := cat.BaseLayer()
	if base == nil || !base.Surface {
		t.Errorf("BaseLayer() = %+v, want surface layer", base)
	}
	if _, ok := cat.Layer("NamedEntity"); !ok {
		t.Error("Layer(NamedEntity) not found")
	}
	if _, ok := cat.Layer("Missing"); ok {
		t.Error("Layer(Missing) found, want not found")
	}
}

func TestResolveDeclaredBaseBecomesSurface(t *testing.T) {
	cat := &Catalog{Layers: []*Layer{{Name: "NamedEntity"}, {Name: "Token"}}}
	if err := cat.Resolve(); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(cat.Layers) != 2 {
		t.Fatalf("len(Layers) = %d, want 2", len(cat.Layers))
	}
	if cat.Layers[1].Name != "Token" || !cat.Layers[1].Surface {
		t.Errorf("Layers[1] = %+v, want surface Token in declared position", cat.Layers[1])
	}
}

func TestResolveIdempotent(t *testing.T) {
	cat := namedEntityCatalog()
	if err := cat.Resolve(); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := cat.Resolve(); err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if len(cat.Layers) != 2 {
		t.Errorf("len(Layers) = %d after two resolves, want 2", len(cat.Layers))
	}
}

func TestResolveFeatureKindDefault(t *testing.T) {
	cat := &Catalog{Layers: []*Layer{{Name: "Lemma", Features: []Feature{{Name: "value"}}}}}
	if err := cat.Resolve(); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	l, _ := cat.Layer("Lemma")
	if l.Features[0].Kind != codec.KindString {
		t.Errorf("Kind = %q, want %q", l.Features[0].Kind, codec.KindString)
	}
}

func TestResolveReservedTag(t *testing.T) {
	tests := []struct {
		name  string
		layer *Layer
	}{
		{"name", &Layer{Name: "s"}},
		{"ui name", &Layer{Name: "Sent", UIName: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &Catalog{Layers: []*Layer{tt.layer}}
			err := cat.Resolve()
			if !errors.Is(err, apperrors.ErrReservedTagCollision) {
				t.Fatalf("Resolve() error = %v, want ErrReservedTagCollision", err)
			}
			var tc *apperrors.TagCollisionError
			if !errors.As(err, &tc) || tc.Tag != "s" {
				t.Errorf("TagCollisionError = %+v, want tag s", tc)
			}
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	tests := []struct {
		name string
		cat  *Catalog
	}{
		{"base equals segment", &Catalog{Base: "Token", Segment: "Token"}},
		{"nil layer", &Catalog{Layers: []*Layer{nil}}},
		{"empty name", &Catalog{Layers: []*Layer{{Name: " "}}}},
		{"duplicate name", &Catalog{Layers: []*Layer{{Name: "A"}, {Name: "A"}}}},
		{"duplicate tag", &Catalog{Layers: []*Layer{{Name: "A B"}, {Name: "AB", UIName: "A B"}}}},
		{"empty feature", &Catalog{Layers: []*Layer{{Name: "A", Features: []Feature{{Name: ""}}}}}},
		{"duplicate feature", &Catalog{Layers: []*Layer{{Name: "A", Features: []Feature{{Name: "f"}, {Name: "f"}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Resolve()
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Resolve() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestClone(t *testing.T) {
	cat := namedEntityCatalog()
	cp := cat.Clone()
	if err := cp.Resolve(); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	cp.Layers[1].Features[0].Name = "changed"
	if len(cat.Layers) != 1 {
		t.Errorf("original len(Layers) = %d, want 1", len(cat.Layers))
	}
	if cat.Layers[0].Features[0].Name != "value" {
		t.Errorf("original feature = %q, want %q", cat.Layers[0].Features[0].Name, "value")
	}
}

func TestCheckKinds(t *testing.T) {
	cat := &Catalog{Layers: []*Layer{{
		Name: "Link",
		Features: []Feature{
			{Name: "target", Kind: "uri"},
			{Name: "label", Kind: codec.KindString},
			{Name: "weight", Kind: "vector"},
		},
	}}}
	if err := cat.Resolve(); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	errs := cat.CheckKinds(codec.Default)
	if len(errs) != 2 {
		t.Fatalf("CheckKinds() returned %d errors, want 2: %v", len(errs), errs)
	}
	var fk *apperrors.FeatureKindError
	if !errors.As(errs[0], &fk) {
		t.Fatalf("error type = %T, want *FeatureKindError", errs[0])
	}
	if fk.Layer != "Link" || fk.Feature != "target" || fk.Kind != "uri" {
		t.Errorf("FeatureKindError = %+v, want Link.target uri", fk)
	}
	if !errors.Is(errs[1], apperrors.ErrUnsupportedFeatureKind) {
		t.Errorf("errs[1] = %v, want ErrUnsupportedFeatureKind", errs[1])
	}
}
