package ir

import (
	"encoding/json"
	"testing"
)

func TestValueUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		wantType ValueType
		wantStr  string
	}{
		{`null`, TypeNull, "null"},
		{`"PER"`, TypeString, `"PER"`},
		{`42`, TypeInt, "42"},
		{`-7`, TypeInt, "-7"},
		{`0.25`, TypeFloat, "0.25"},
		{`1e3`, TypeFloat, "1000"},
		{`true`, TypeBool, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tt.input), &v); err != nil {
				t.Fatalf("json.Unmarshal(%s) failed: %v", tt.input, err)
			}
			if v.Type() != tt.wantType {
				t.Errorf("Type() = %v, want %v", v.Type(), tt.wantType)
			}
			if got := v.GoString(); got != tt.wantStr {
				t.Errorf("GoString() = %s, want %s", got, tt.wantStr)
			}
		})
	}
}

func TestValueUnmarshalRejectsComposite(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`["a"]`), &v); err == nil {
		t.Error("json.Unmarshal accepted an array feature value")
	}
}

func TestValueIsBlank(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"zero value", Value{}, true},
		{"null", Null(), true},
		{"empty string", String(""), true},
		{"whitespace", String(" \t\n"), true},
		{"text", String("PER"), false},
		{"zero int", Int(0), false},
		{"false", Bool(false), false},
		{"zero float", Float(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsBlank(); got != tt.want {
				t.Errorf("IsBlank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocumentJSON(t *testing.T) {
	input := `{
		"id": "ne-doc",
		"text": "John Smith",
		"spans": [
			{"layer": "Token", "begin": 0, "end": 4},
			{"layer": "Token", "begin": 5, "end": 10},
			{"id": "ne1", "layer": "NamedEntity", "begin": 0, "end": 10,
			 "features": {"value": "PER", "identifier": null, "confidence": 0.9}}
		]
	}`

	var doc Document
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if len(doc.Spans) != 3 {
		t.Fatalf("len(Spans) = %d, want 3", len(doc.Spans))
	}
	ne := doc.Spans[2]
	if v, _ := ne.Feature("value"); v.GoString() != `"PER"` {
		t.Errorf("value = %s, want %q", v.GoString(), "PER")
	}
	if v, ok := ne.Feature("identifier"); !ok || !v.IsNull() {
		t.Errorf("identifier = %s (present %v), want present null", v.GoString(), ok)
	}
	if v, _ := ne.Feature("confidence"); v.Type() != TypeFloat {
		t.Errorf("confidence type = %v, want float", v.Type())
	}

	out, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var again Document
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("json.Unmarshal of re-encoded document failed: %v", err)
	}
	if v, _ := again.Spans[2].Feature("value"); v.GoString() != `"PER"` {
		t.Errorf("re-decoded value = %s, want %q", v.GoString(), "PER")
	}
}
