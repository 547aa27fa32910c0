package catalog

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/annodex/core/codec"
	apperrors "github.com/FocuswithJustin/annodex/core/errors"
)

// layersFile is the participle grammar for ".layers" catalog files:
//
//	# comment
//	base Token
//	segment Sentence
//	layer Lemma surface { value: string }
//	layer NamedEntity "Named Entity" { value: string, identifier: string }
//
//nolint:govet // participle grammar tags are not standard struct tags
type layersFile struct {
	Decls []*layersDecl `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type layersDecl struct {
	Base    *string    `  "base" @Ident`
	Segment *string    `| "segment" @Ident`
	Layer   *layerDecl `| "layer" @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type layerDecl struct {
	Name     string         `@Ident`
	UIName   *string        `@String?`
	Surface  bool           `@"surface"?`
	Features []*featureDecl `( "{" @@* "}" )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type featureDecl struct {
	Name string `@Ident ":"`
	Kind string `@Ident ","?`
}

// layersLexer defines the tokens of ".layers" files.
// Order matters: comments and strings are matched before identifiers.
var layersLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\r\n]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.\-]*`},
	{Name: "Punct", Pattern: `[{}:,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// layersParser is the participle parser for ".layers" files.
var layersParser = participle.MustBuild[layersFile](
	participle.Lexer(layersLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

// ParseLayers decodes a catalog from the layer declaration language without
// resolving it. A later base or segment declaration overrides an earlier one.
func ParseLayers(data []byte) (*Catalog, error) {
	return parseLayers("", data)
}

func parseLayers(path string, data []byte) (*Catalog, error) {
	parsed, err := layersParser.ParseBytes(path, data)
	if err != nil {
		return nil, apperrors.NewParse("catalog layers", path, err.Error())
	}

	cat := &Catalog{}
	for _, d := range parsed.Decls {
		switch {
		case d.Base != nil:
			cat.Base = *d.Base
		case d.Segment != nil:
			cat.Segment = *d.Segment
		case d.Layer != nil:
			cat.Layers = append(cat.Layers, d.Layer.toLayer())
		}
	}
	return cat, nil
}

func (d *layerDecl) toLayer() *Layer {
	l := &Layer{Name: d.Name, Surface: d.Surface}
	if d.UIName != nil {
		l.UIName = *d.UIName
	}
	for _, f := range d.Features {
		l.Features = append(l.Features, Feature{Name: f.Name, Kind: codec.Kind(f.Kind)})
	}
	return l
}
