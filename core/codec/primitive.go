package codec

import (
	"strconv"
	"strings"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
)

// Built-in kinds.
const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindBoolean Kind = "boolean"
)

// Default is the process-wide registry holding the built-in codecs.
// It is populated at package init and must not be modified afterwards.
var Default = mustDefault()

func mustDefault() *Registry {
	r, err := NewRegistry(StringCodec{}, IntegerCodec{}, FloatCodec{}, BooleanCodec{})
	if err != nil {
		panic(err)
	}
	return r
}

// Builtins returns fresh instances of the built-in codecs, for callers
// assembling their own registry.
func Builtins() []Codec {
	return []Codec{StringCodec{}, IntegerCodec{}, FloatCodec{}, BooleanCodec{}}
}

func mismatch(kind Kind, v ir.Value) error {
	return &apperrors.ValueError{Kind: string(kind), Value: v.GoString()}
}

// StringCodec passes strings through unchanged.
type StringCodec struct{}

func (StringCodec) Kind() Kind { return KindString }

func (StringCodec) Encode(v ir.Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", mismatch(KindString, v)
	}
	return s, nil
}

// IntegerCodec writes integers in base 10. Strings holding an integer are
// accepted and re-emitted canonically.
type IntegerCodec struct{}

func (IntegerCodec) Kind() Kind { return KindInteger }

func (IntegerCodec) Encode(v ir.Value) (string, error) {
	if i, ok := v.AsInt(); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if s, ok := v.AsString(); ok {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err == nil {
			return strconv.FormatInt(i, 10), nil
		}
	}
	return "", mismatch(KindInteger, v)
}

// FloatCodec writes the shortest decimal that round-trips, without exponent.
// Integers and numeric strings are accepted.
type FloatCodec struct{}

func (FloatCodec) Kind() Kind { return KindFloat }

func (FloatCodec) Encode(v ir.Value) (string, error) {
	switch v.Type() {
	case ir.TypeFloat:
		f, _ := v.AsFloat()
		return formatFloat(f), nil
	case ir.TypeInt:
		i, _ := v.AsInt()
		return formatFloat(float64(i)), nil
	case ir.TypeString:
		s, _ := v.AsString()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return formatFloat(f), nil
		}
	}
	return "", mismatch(KindFloat, v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// BooleanCodec writes "true" or "false". Strings accepted by
// strconv.ParseBool are re-emitted canonically.
type BooleanCodec struct{}

func (BooleanCodec) Kind() Kind { return KindBoolean }

func (BooleanCodec) Encode(v ir.Value) (string, error) {
	if b, ok := v.AsBool(); ok {
		return strconv.FormatBool(b), nil
	}
	if s, ok := v.AsString(); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err == nil {
			return strconv.FormatBool(b), nil
		}
	}
	return "", mismatch(KindBoolean, v)
}
