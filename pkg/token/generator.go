package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Prefix marks printlink API tokens.
const Prefix = "plt_"

// DefaultLength is the default amount of randomness in bytes.
const DefaultLength = 32

// Generate returns a new random API token.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength returns a token carrying length random bytes.
// Fewer than 16 bytes is rejected.
func GenerateWithLength(length int) (string, error) {
	if length < 16 {
		return "", fmt.Errorf("token: length %d below minimum 16", length)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(b), nil
}
