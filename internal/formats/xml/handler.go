// Package xml reads documents from stand-off XML.
//
// Documents may appear anywhere in the file and are streamed one at a time:
//
//	<corpus>
//	  <document id="d1" lang="en">
//	    <text>John Smith .</text>
//	    <span layer="Token" begin="0" end="4"/>
//	    <span layer="NamedEntity" begin="0" end="10" id="ne1">
//	      <feature name="value">PER</feature>
//	      <feature name="confidence" type="float">0.9</feature>
//	    </span>
//	  </document>
//	</corpus>
//
// Attributes of the document element other than id become document
// attributes. A feature's type is one of string (the default), integer,
// float, boolean or null.
package xml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/internal/formats"
)

func init() {
	Register()
}

// Register registers the "xml" format.
func Register() {
	formats.Register(&formats.Format{
		Name:       "xml",
		Extensions: []string{".xml"},
		NewSource:  NewSource,
	})
}

// Compiled expressions, relative to a document element.
var (
	textExpr    = xpath.MustCompile("text")
	spanExpr    = xpath.MustCompile("span")
	featureExpr = xpath.MustCompile("feature")
)

// documentPath selects the streamed elements.
const documentPath = "//document"

// Source streams documents from an XML file.
type Source struct {
	parser *xmlquery.StreamParser
	n      int
}

// NewSource creates a source reading from r.
func NewSource(r io.Reader) (formats.Source, error) {
	p, err := xmlquery.CreateStreamParser(r, documentPath)
	if err != nil {
		return nil, apperrors.NewParse("XML", "", err.Error())
	}
	return &Source{parser: p}, nil
}

// Next parses the next document element.
func (s *Source) Next() (*ir.Document, error) {
	node, err := s.parser.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, apperrors.NewParse("XML", "", err.Error())
	}
	s.n++

	doc, err := parseDocument(node)
	if err != nil {
		return nil, fmt.Errorf("document %d: %w", s.n-1, err)
	}
	return doc, nil
}

func parseDocument(node *xmlquery.Node) (*ir.Document, error) {
	doc := &ir.Document{}
	for _, attr := range node.Attr {
		name := attr.Name.Local
		if name == "id" {
			doc.ID = attr.Value
			continue
		}
		if doc.Attributes == nil {
			doc.Attributes = make(map[string]string)
		}
		doc.Attributes[name] = attr.Value
	}

	if text := xmlquery.QuerySelector(node, textExpr); text != nil {
		doc.Text = text.InnerText()
	}

	for i, sn := range xmlquery.QuerySelectorAll(node, spanExpr) {
		span, err := parseSpan(sn)
		if err != nil {
			return nil, fmt.Errorf("span %d: %w", i, err)
		}
		doc.Spans = append(doc.Spans, span)
	}
	return doc, nil
}

func parseSpan(node *xmlquery.Node) (*ir.Span, error) {
	span := &ir.Span{
		ID:    node.SelectAttr("id"),
		Layer: node.SelectAttr("layer"),
	}

	var err error
	if span.Begin, err = intAttr(node, "begin"); err != nil {
		return nil, err
	}
	if span.End, err = intAttr(node, "end"); err != nil {
		return nil, err
	}

	for _, fn := range xmlquery.QuerySelectorAll(node, featureExpr) {
		name := fn.SelectAttr("name")
		if name == "" {
			return nil, apperrors.NewParse("XML", "", "feature without name")
		}
		v, err := parseValue(fn.SelectAttr("type"), fn.InnerText())
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", name, err)
		}
		span.SetFeature(name, v)
	}
	return span, nil
}

func intAttr(node *xmlquery.Node, name string) (int, error) {
	raw := node.SelectAttr(name)
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.NewParse("XML", "", fmt.Sprintf("attribute %s: %q is not an integer", name, raw))
	}
	return v, nil
}

func parseValue(typ, raw string) (ir.Value, error) {
	switch typ {
	case "", "string":
		return ir.String(raw), nil
	case "null":
		return ir.Null(), nil
	case "integer":
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return ir.Value{}, apperrors.NewParse("XML", "", fmt.Sprintf("%q is not an integer", raw))
		}
		return ir.Int(i), nil
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return ir.Value{}, apperrors.NewParse("XML", "", fmt.Sprintf("%q is not a float", raw))
		}
		return ir.Float(f), nil
	case "boolean":
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return ir.Value{}, apperrors.NewParse("XML", "", fmt.Sprintf("%q is not a boolean", raw))
		}
		return ir.Bool(b), nil
	default:
		return ir.Value{}, apperrors.NewUnsupported("feature type", typ)
	}
}
