// Package codec maps feature value kinds to canonical string encodings.
//
// Every feature declared in the layer catalog names a Kind. The compiler looks
// the kind up in a Registry and uses the Codec it finds to turn the span's
// typed value into the payload of an index token. Exactly one codec exists per
// kind; a kind without a codec is a hard error, never stringified.
package codec

import (
	"sort"
	"sync"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
)

// Kind names a feature value kind, for example "string" or "integer".
type Kind string

// Codec encodes values of one kind into their canonical string form.
type Codec interface {
	Kind() Kind
	Encode(v ir.Value) (string, error)
}

// Registry holds at most one Codec per Kind.
//
// Registration happens during startup. Lookups after that take a read lock
// only, so a populated Registry can be shared by concurrent compilations.
type Registry struct {
	mu     sync.RWMutex
	codecs map[Kind]Codec
}

// NewRegistry creates a registry holding the given codecs.
func NewRegistry(codecs ...Codec) (*Registry, error) {
	r := &Registry{codecs: make(map[Kind]Codec, len(codecs))}
	for _, c := range codecs {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a codec. A second codec for a kind already present fails
// with a *errors.DuplicateCodecError.
func (r *Registry) Register(c Codec) error {
	if c == nil {
		return apperrors.NewValidation("codec", "codec is nil")
	}
	kind := c.Kind()
	if kind == "" {
		return apperrors.NewValidation("codec", "codec kind is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codecs == nil {
		r.codecs = make(map[Kind]Codec)
	}
	if _, exists := r.codecs[kind]; exists {
		return &apperrors.DuplicateCodecError{Kind: string(kind)}
	}
	r.codecs[kind] = c
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(c Codec) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Lookup returns the codec for kind, or a *errors.FeatureKindError when
// none is registered.
func (r *Registry) Lookup(kind Kind) (Codec, error) {
	r.mu.RLock()
	c, ok := r.codecs[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, &apperrors.FeatureKindError{Kind: string(kind)}
	}
	return c, nil
}

// Has reports whether a codec for kind is registered.
func (r *Registry) Has(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codecs[kind]
	return ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	kinds := make([]Kind, 0, len(r.codecs))
	for k := range r.codecs {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Encode returns the canonical encoding of v under kind.
//
// The kind is checked first: an unregistered kind fails even for a blank
// value. A blank value (null, empty or whitespace-only string) then yields
// ok == false and no error, meaning no token should be emitted.
func (r *Registry) Encode(kind Kind, v ir.Value) (payload string, ok bool, err error) {
	c, err := r.Lookup(kind)
	if err != nil {
		return "", false, err
	}
	if v.IsBlank() {
		return "", false, nil
	}
	payload, err = c.Encode(v)
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}
