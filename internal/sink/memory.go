package sink

import (
	"context"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/core/stream"
)

// Memory is an in-memory positional index. For every document it keeps a
// posting list per prefix and per (prefix, postfix) pair; each list holds
// the positions the matching tokens cover.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]*memDoc
}

// Term names a (prefix, postfix) pair.
type Term struct {
	Prefix  string
	Postfix string
}

type memDoc struct {
	positions int
	digest    string
	byPrefix  map[string]*roaring.Bitmap
	byTerm    map[Term]*roaring.Bitmap
}

// NewMemory creates an empty index.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*memDoc)}
}

// Write indexes the stream, replacing any previous entry for the document.
func (m *Memory) Write(ctx context.Context, _ *ir.Document, s *stream.Stream) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := &memDoc{
		positions: s.PositionCount(),
		digest:    s.Digest(),
		byPrefix:  make(map[string]*roaring.Bitmap),
		byTerm:    make(map[Term]*roaring.Bitmap),
	}
	for t := range s.All() {
		lo, hi := uint64(t.Start), uint64(t.End)+1
		bitmap(d.byPrefix, t.Prefix).AddRange(lo, hi)
		bitmap(d.byTerm, Term{t.Prefix, t.Postfix}).AddRange(lo, hi)
	}

	m.mu.Lock()
	m.docs[s.DocumentID()] = d
	m.mu.Unlock()
	return nil
}

func bitmap[K comparable](m map[K]*roaring.Bitmap, k K) *roaring.Bitmap {
	b, ok := m[k]
	if !ok {
		b = roaring.New()
		m[k] = b
	}
	return b
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Documents returns the indexed document IDs in sorted order.
func (m *Memory) Documents() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Positions returns the position count of a document.
func (m *Memory) Positions(docID string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.docs[docID]
	if !ok {
		return 0, false
	}
	return d.positions, true
}

// Digest returns the stream digest recorded for a document.
func (m *Memory) Digest(docID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if d, ok := m.docs[docID]; ok {
		return d.digest
	}
	return ""
}

// Lookup returns the positions covered by tokens with the given prefix and
// postfix. The result is a copy and may be modified.
func (m *Memory) Lookup(docID, prefix, postfix string) *roaring.Bitmap {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if d, ok := m.docs[docID]; ok {
		if b, ok := d.byTerm[Term{prefix, postfix}]; ok {
			return b.Clone()
		}
	}
	return roaring.New()
}

// LookupPrefix returns the positions covered by tokens with the given
// prefix, whatever their postfix.
func (m *Memory) LookupPrefix(docID, prefix string) *roaring.Bitmap {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if d, ok := m.docs[docID]; ok {
		if b, ok := d.byPrefix[prefix]; ok {
			return b.Clone()
		}
	}
	return roaring.New()
}

// Cooccur returns the positions covered by all of the given terms.
// No terms yields an empty bitmap.
func (m *Memory) Cooccur(docID string, terms ...Term) *roaring.Bitmap {
	if len(terms) == 0 {
		return roaring.New()
	}
	result := m.Lookup(docID, terms[0].Prefix, terms[0].Postfix)
	for _, t := range terms[1:] {
		if result.IsEmpty() {
			break
		}
		result.And(m.Lookup(docID, t.Prefix, t.Postfix))
	}
	return result
}
