package ir

import (
	"errors"
	"testing"
)

func TestHashBytes(t *testing.T) {
	data := []byte("This is a test .")
	hash := HashBytes(data)

	// Should be 64 hex characters (SHA-256)
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}
	if hash2 := HashBytes(data); hash != hash2 {
		t.Errorf("same data produced different hashes: %q vs %q", hash, hash2)
	}
	if hash3 := HashBytes([]byte("Different content")); hash == hash3 {
		t.Error("different data produced same hash")
	}
}

func TestHashText(t *testing.T) {
	text := "I am John Smith ."
	hash := HashText(text)

	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}
	if hash != HashText(text) {
		t.Error("HashText is not deterministic")
	}
	if hash == HashBytes([]byte(text)) {
		t.Error("HashText should use BLAKE3, not SHA-256")
	}
}

func TestHashDocument(t *testing.T) {
	doc := &Document{ID: "d1", Text: "John Smith"}
	ne := doc.AddSpan("NamedEntity", 0, 10)
	ne.SetFeature("value", String("PER"))

	hash, err := HashDocument(doc)
	if err != nil {
		t.Fatalf("HashDocument failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}

	ne.SetFeature("value", String("ORG"))
	changed, err := HashDocument(doc)
	if err != nil {
		t.Fatalf("HashDocument failed: %v", err)
	}
	if changed == hash {
		t.Error("changing a feature value did not change the document hash")
	}
}

func TestHashDocumentMarshalError(t *testing.T) {
	orig := jsonMarshal
	defer func() { jsonMarshal = orig }()
	jsonMarshal = func(v any) ([]byte, error) {
		return nil, errors.New("marshal failed")
	}

	if _, err := HashDocument(&Document{ID: "d1"}); err == nil {
		t.Error("HashDocument should propagate marshal errors")
	}
}
