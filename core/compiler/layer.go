package compiler

import (
	"errors"
	"sort"

	"github.com/FocuswithJustin/annodex/core/catalog"
	"github.com/FocuswithJustin/annodex/core/codec"
	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/core/position"
	"github.com/FocuswithJustin/annodex/core/stream"
)

// layerEncoder emits the tokens of one catalog layer.
type layerEncoder struct {
	layer    *catalog.Layer
	registry *codec.Registry
}

// encode emits, for each span in text order, a presence token followed by
// one token per declared feature with a non-blank value.
func (e *layerEncoder) encode(doc *ir.Document, spans []*ir.Span, idx *position.Index, stats *Stats) ([]stream.IndexToken, error) {
	ordered := make([]*ir.Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Begin != ordered[j].Begin {
			return ordered[i].Begin < ordered[j].Begin
		}
		return ordered[i].End < ordered[j].End
	})

	tag := e.layer.Tag()
	tokens := make([]stream.IndexToken, 0, len(ordered)*(1+len(e.layer.Features)))

	for _, s := range ordered {
		p0, p1, _ := idx.Resolve(s.Begin, s.End)
		if idx.Degenerate(s.Begin, s.End) {
			stats.DegenerateSpans++
		}

		presence := stream.IndexToken{Prefix: tag, Start: p0, End: p1}
		if e.layer.Surface {
			presence.Postfix = doc.CoveredText(s)
		}
		tokens = append(tokens, presence)
		stats.PresenceTokens++

		for _, f := range e.layer.Features {
			v, _ := s.Feature(f.Name)
			payload, ok, err := e.registry.Encode(f.Kind, v)
			if err != nil {
				return nil, annotate(err, doc.ID, s, e.layer.Name, f.Name)
			}
			if !ok {
				stats.SuppressedFeatures++
				continue
			}
			tokens = append(tokens, stream.IndexToken{
				Prefix:  tag + "." + f.Name,
				Postfix: payload,
				Start:   p0,
				End:     p1,
			})
			stats.FeatureTokens++
		}
	}

	return tokens, nil
}

// annotate adds document and span context to codec errors.
func annotate(err error, docID string, s *ir.Span, layer, feature string) error {
	var ve *apperrors.ValueError
	if errors.As(err, &ve) {
		ve.DocumentID = docID
		ve.SpanID = s.Label()
		ve.Feature = feature
		return err
	}
	var fk *apperrors.FeatureKindError
	if errors.As(err, &fk) {
		fk.DocumentID = docID
		fk.Layer = layer
		fk.Feature = feature
		return err
	}
	return apperrors.Wrapf(err, "document %s: span %s: feature %s", docID, s.Label(), feature)
}
