package compiler

import (
	"sort"

	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/core/position"
	"github.com/FocuswithJustin/annodex/core/stream"
)

// encodeSegments emits one structural token per segment span, ordered by
// begin offset with ties kept in declaration order. The payload is the
// covered text.
func encodeSegments(doc *ir.Document, spans []*ir.Span, idx *position.Index, stats *Stats) []stream.IndexToken {
	ordered := make([]*ir.Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Begin < ordered[j].Begin
	})

	tokens := make([]stream.IndexToken, 0, len(ordered))
	for _, s := range ordered {
		p0, p1, _ := idx.Resolve(s.Begin, s.End)
		if idx.Degenerate(s.Begin, s.End) {
			stats.DegenerateSpans++
		}
		tokens = append(tokens, stream.IndexToken{
			Prefix:  stream.SegmentTag,
			Postfix: doc.CoveredText(s),
			Start:   p0,
			End:     p1,
		})
	}
	stats.SegmentTokens += len(tokens)
	return tokens
}
