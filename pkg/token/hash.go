package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// HashLength is the length of a hex SHA-256 hash.
const HashLength = 64

// Hash returns the hex SHA-256 of token.
func Hash(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// Verify reports whether token hashes to expectedHash. The hash is
// compared case-insensitively in constant time; an empty hash never
// matches.
func Verify(token, expectedHash string) bool {
	if len(expectedHash) != HashLength {
		return false
	}
	actual := Hash(token)
	return subtle.ConstantTimeCompare([]byte(actual), []byte(strings.ToLower(expectedHash))) == 1
}

// ValidHash reports whether s looks like a value produced by Hash.
func ValidHash(s string) bool {
	if len(s) != HashLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
