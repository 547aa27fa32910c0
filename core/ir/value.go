package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueType identifies the concrete type stored in a Value.
type ValueType uint8

// Value type constants.
const (
	// TypeNull is the zero value and represents an absent value.
	TypeNull ValueType = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
)

// String returns the string representation of the ValueType.
func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a typed feature value. The zero Value is null.
//
// The JSON form is the bare scalar: null, "text", 42, 0.5, true.
type Value struct {
	typ ValueType
	s   string
	i   int64
	f   float64
	b   bool
}

// Null returns a null Value.
func Null() Value { return Value{} }

// String returns a string Value.
func String(v string) Value { return Value{typ: TypeString, s: v} }

// Int returns an integer Value.
func Int(v int64) Value { return Value{typ: TypeInt, i: v} }

// Float returns a floating point Value.
func Float(v float64) Value { return Value{typ: TypeFloat, f: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{typ: TypeBool, b: v} }

// Type returns the concrete type of the value.
func (v Value) Type() ValueType { return v.typ }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// IsBlank reports whether the value carries nothing worth indexing:
// null, or a string that is empty or whitespace only.
func (v Value) IsBlank() bool {
	switch v.typ {
	case TypeNull:
		return true
	case TypeString:
		return strings.TrimSpace(v.s) == ""
	default:
		return false
	}
}

// AsString returns the string value if Type is TypeString.
func (v Value) AsString() (string, bool) {
	if v.typ != TypeString {
		return "", false
	}
	return v.s, true
}

// AsInt returns the integer value if Type is TypeInt.
func (v Value) AsInt() (int64, bool) {
	if v.typ != TypeInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float value if Type is TypeFloat.
func (v Value) AsFloat() (float64, bool) {
	if v.typ != TypeFloat {
		return 0, false
	}
	return v.f, true
}

// AsBool returns the boolean value if Type is TypeBool.
func (v Value) AsBool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.b, true
}

// GoString returns a printable form used in error messages.
func (v Value) GoString() string {
	switch v.typ {
	case TypeString:
		return strconv.Quote(v.s)
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeString:
		return json.Marshal(v.s)
	case TypeInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case TypeFloat:
		return json.Marshal(v.f)
	case TypeBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. Integral numbers become
// TypeInt, all other numbers TypeFloat.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case string:
		*v = String(x)
	case bool:
		*v = Bool(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			*v = Int(i)
			return nil
		}
		f, err := x.Float64()
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", x, err)
		}
		*v = Float(f)
	default:
		return fmt.Errorf("feature values must be scalars, got %T", raw)
	}
	return nil
}
