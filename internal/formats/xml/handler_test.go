package xml

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/internal/formats"
)

const corpus = `<?xml version="1.0" encoding="UTF-8"?>
<corpus>
  <document id="d1" lang="en">
    <text>John Smith &amp; co .</text>
    <span layer="Token" begin="0" end="4"/>
    <span layer="Token" begin="5" end="10"/>
    <span layer="NamedEntity" begin="0" end="10" id="ne1">
      <feature name="value">PER</feature>
      <feature name="identifier" type="null"/>
      <feature name="confidence" type="float">0.9</feature>
      <feature name="rank" type="integer">3</feature>
      <feature name="gold" type="boolean">true</feature>
    </span>
  </document>
  <document id="d2">
    <text>second</text>
  </document>
</corpus>`

func readAll(t *testing.T, input string) ([]*ir.Document, error) {
	t.Helper()
	src, err := NewSource(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	return formats.ReadAll(src)
}

func TestReadCorpus(t *testing.T) {
	docs, err := readAll(t, corpus)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}

	doc := docs[0]
	if doc.ID != "d1" {
		t.Errorf("ID = %q, want d1", doc.ID)
	}
	if doc.Text != "John Smith & co ." {
		t.Errorf("Text = %q, want %q", doc.Text, "John Smith & co .")
	}
	if doc.Attributes["lang"] != "en" {
		t.Errorf("Attributes[lang] = %q, want en", doc.Attributes["lang"])
	}
	if len(doc.Spans) != 3 {
		t.Fatalf("len(Spans) = %d, want 3", len(doc.Spans))
	}

	ne := doc.Spans[2]
	if ne.ID != "ne1" || ne.Layer != "NamedEntity" || ne.Begin != 0 || ne.End != 10 {
		t.Errorf("span = %+v", ne)
	}
	if v, _ := ne.Feature("value"); v.GoString() != `"PER"` {
		t.Errorf("value = %s, want \"PER\"", v.GoString())
	}
	if v, _ := ne.Feature("identifier"); !v.IsNull() {
		t.Errorf("identifier = %s, want null", v.GoString())
	}
	if v, _ := ne.Feature("confidence"); v.Type() != ir.TypeFloat {
		t.Errorf("confidence type = %v, want float", v.Type())
	}
	if v, _ := ne.Feature("rank"); v.Type() != ir.TypeInt {
		t.Errorf("rank type = %v, want int", v.Type())
	}
	if v, _ := ne.Feature("gold"); v.Type() != ir.TypeBool {
		t.Errorf("gold type = %v, want bool", v.Type())
	}

	if docs[1].ID != "d2" || docs[1].Text != "second" || len(docs[1].Spans) != 0 {
		t.Errorf("second document = %+v", docs[1])
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad offset", `<document><span layer="T" begin="x" end="1"/></document>`, apperrors.ErrInvalidInput},
		{"missing offset", `<document><span layer="T" begin="0"/></document>`, apperrors.ErrInvalidInput},
		{"bad integer", `<document><span layer="T" begin="0" end="1"><feature name="n" type="integer">abc</feature></span></document>`, apperrors.ErrInvalidInput},
		{"unnamed feature", `<document><span layer="T" begin="0" end="1"><feature>x</feature></span></document>`, apperrors.ErrInvalidInput},
		{"unknown type", `<document><span layer="T" begin="0" end="1"><feature name="f" type="uri">x</feature></span></document>`, apperrors.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(t, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadAll() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	f, err := formats.ForPath("corpus.xml.xz")
	if err != nil || f.Name != "xml" {
		t.Errorf("ForPath(corpus.xml.xz) = %v, %v, want xml", f, err)
	}
}
