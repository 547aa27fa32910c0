package ir

import (
	"testing"
)

func TestCoveredText(t *testing.T) {
	doc := &Document{Text: "I am John Smith ."}
	tests := []struct {
		name string
		span *Span
		want string
	}{
		{"word", &Span{Begin: 5, End: 9}, "John"},
		{"multi word", &Span{Begin: 5, End: 15}, "John Smith"},
		{"zero width", &Span{Begin: 4, End: 4}, ""},
		{"clamped", &Span{Begin: 16, End: 40}, "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.CoveredText(tt.span); got != tt.want {
				t.Errorf("CoveredText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpansByLayer(t *testing.T) {
	doc := &Document{Text: "a b"}
	t1 := doc.AddSpan("Token", 0, 1)
	ne := doc.AddSpan("NamedEntity", 0, 3)
	t2 := doc.AddSpan("Token", 2, 3)
	doc.Spans = append(doc.Spans, nil)

	byLayer := doc.SpansByLayer()
	if len(byLayer) != 2 {
		t.Fatalf("len(SpansByLayer()) = %d, want 2", len(byLayer))
	}
	tokens := byLayer["Token"]
	if len(tokens) != 2 || tokens[0] != t1 || tokens[1] != t2 {
		t.Errorf("Token spans = %v, want declaration order [t1 t2]", tokens)
	}
	if got := byLayer["NamedEntity"]; len(got) != 1 || got[0] != ne {
		t.Errorf("NamedEntity spans = %v, want [ne]", got)
	}
}

func TestSpanFeature(t *testing.T) {
	s := &Span{Layer: "NamedEntity"}
	if _, ok := s.Feature("value"); ok {
		t.Error("Feature() on empty span reported a value")
	}
	s.SetFeature("value", String("PER"))
	v, ok := s.Feature("value")
	if !ok {
		t.Fatal("Feature() did not find value")
	}
	if got, _ := v.AsString(); got != "PER" {
		t.Errorf("value = %q, want %q", got, "PER")
	}
}

func TestSpanLabel(t *testing.T) {
	if got := (&Span{ID: "ne1", Layer: "NamedEntity"}).Label(); got != "ne1" {
		t.Errorf("Label() = %q, want %q", got, "ne1")
	}
	if got := (&Span{Layer: "Token", Begin: 3, End: 7}).Label(); got != "Token@3:7" {
		t.Errorf("Label() = %q, want %q", got, "Token@3:7")
	}
}

func TestEnsureID(t *testing.T) {
	doc := &Document{}
	id := doc.EnsureID()
	if len(id) != 36 {
		t.Errorf("generated ID %q is not a UUID", id)
	}
	if again := doc.EnsureID(); again != id {
		t.Errorf("EnsureID() changed an existing ID: %q -> %q", id, again)
	}

	named := &Document{ID: "doc-1"}
	if got := named.EnsureID(); got != "doc-1" {
		t.Errorf("EnsureID() = %q, want %q", got, "doc-1")
	}
}
