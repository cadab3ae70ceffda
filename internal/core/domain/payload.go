package domain

import (
	"encoding/base64"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Payload encodings.
const (
	// EncodingBase64 is standard base64 text; the default.
	EncodingBase64 = "base64"

	// EncodingUTF8 is raw text. Any tag other than base64 is treated this way.
	EncodingUTF8 = "utf8"
)

// NormalizeEncoding returns the effective encoding for a caller tag.
func NormalizeEncoding(tag string) string {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", EncodingBase64:
		return EncodingBase64
	default:
		return EncodingUTF8
	}
}

// DecodePayload converts a caller payload into the bytes sent to the printer.
//
// base64 payloads are decoded with the standard alphabet. Any other tag
// treats the payload as text and encodes it as UTF-8; invalid sequences are
// replaced with U+FFFD rather than rejected. DecodePayload has no side
// effects.
func DecodePayload(payload, encoding string) ([]byte, error) {
	switch NormalizeEncoding(encoding) {
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return nil, ErrPayloadDecode.WithDetails("invalid base64 data").WithCause(err)
		}
		return b, nil
	default:
		b, err := unicode.UTF8.NewEncoder().Bytes([]byte(payload))
		if err != nil {
			return nil, ErrPayloadDecode.WithDetails("invalid text data").WithCause(err)
		}
		return b, nil
	}
}
