package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Keys whose values carry print data. Only the size is logged.
var payloadKeyPatterns = []string{
	"payload",
	"data",
}

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
}

// maxPlainValueLen is the longest opaque (space-free) value logged as is.
const maxPlainValueLen = 64

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		keyLower := strings.ToLower(a.Key)

		if matchesAny(keyLower, payloadKeyPatterns) {
			return slog.String(a.Key, sizeOnly(strVal))
		}
		if matchesAny(keyLower, sensitiveKeyPatterns) {
			if strVal != "" {
				return slog.String(a.Key, redactedValue)
			}
			return a
		}
		if IsSensitiveValue(strVal) {
			return slog.String(a.Key, maskValue(strVal))
		}
	}

	// Handle nested groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

func matchesAny(key string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

func sizeOnly(value string) string {
	return fmt.Sprintf("<%d bytes>", len(value))
}

// maskValue keeps the first and last 3 characters.
// Format: first 3 chars + "..." + last 3 chars
func maskValue(value string) string {
	if len(value) <= 12 {
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// RedactString manually redacts a string value.
// Use this when you need to redact a value before logging.
func RedactString(value string) string {
	if IsSensitiveValue(value) {
		return maskValue(value)
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	return matchesAny(keyLower, payloadKeyPatterns) || matchesAny(keyLower, sensitiveKeyPatterns)
}

// IsSensitiveValue reports whether value looks like an opaque blob, such as
// base64 print data pasted into an error message.
func IsSensitiveValue(value string) bool {
	if len(value) <= maxPlainValueLen {
		return false
	}
	return !strings.ContainsAny(value, " \t\n")
}
