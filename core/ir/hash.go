package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"
)

// jsonMarshal is a variable to allow testing of marshal errors.
var jsonMarshal = json.Marshal

// HashBytes computes the SHA-256 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashText computes the BLAKE3 hash of a document text.
// Index writers record it so a re-indexed document can be detected as unchanged.
func HashText(text string) string {
	h := blake3.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// HashDocument computes the SHA-256 hash of a Document by serializing to JSON.
func HashDocument(d *Document) (string, error) {
	data, err := jsonMarshal(d)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}
