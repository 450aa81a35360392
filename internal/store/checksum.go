package store

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Checksum returns a stable identifier for a grammar's source text, used
// as the compiled_tables cache key so a grammar edit invalidates its
// cached table automatically.
func Checksum(grammarText string) string {
	sum := blake2b.Sum256([]byte(grammarText))
	return hex.EncodeToString(sum[:])
}
