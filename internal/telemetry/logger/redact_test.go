package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newJSONLogger(t *testing.T, buf *bytes.Buffer) Logger {
	t.Helper()
	l, err := New(Config{Level: "info", Format: "json", Output: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	return logEntry
}

func TestRedactSensitive_Payload(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.Info("send", "payload", "XlhBXkZPNTAsNTBeRkRIZWxsb15GU15YWg==")

	entry := decodeEntry(t, &buf)
	if got := entry["payload"]; got != "<36 bytes>" {
		t.Errorf("payload = %v, want size only", got)
	}
}

func TestRedactSensitive_SensitiveKeyName(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"password", "mypassword123"},
		{"api_secret", "secret-value"},
		{"auth_header", "Bearer xyz"},
		{"credential", "cred123"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var buf bytes.Buffer
			l := newJSONLogger(t, &buf)
			l.Info("test", tt.key, tt.value)

			entry := decodeEntry(t, &buf)
			if got := entry[tt.key]; got != redactedValue {
				t.Errorf("%s = %v, want %q", tt.key, got, redactedValue)
			}
		})
	}
}

func TestRedactSensitive_LongOpaqueValue(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	blob := strings.Repeat("QUJD", 30)
	l.Info("decode failed", "detail", blob)

	entry := decodeEntry(t, &buf)
	if got := entry["detail"]; got != "QUJ...UJD" {
		t.Errorf("detail = %v, want masked", got)
	}
}

func TestRedactSensitive_NormalValues(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.Info("connected", "conn_id", "2f6c1a52-7d0e-4b6a-9a57-3c1f3f0f1b8e", "host", "192.168.1.50")

	entry := decodeEntry(t, &buf)
	if entry["conn_id"] != "2f6c1a52-7d0e-4b6a-9a57-3c1f3f0f1b8e" {
		t.Errorf("conn_id should not be redacted, got %v", entry["conn_id"])
	}
	if entry["host"] != "192.168.1.50" {
		t.Errorf("host should not be redacted, got %v", entry["host"])
	}
}

func TestRedactSensitive_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.With("req", "x").Info("nested", "password", "hunter2")

	entry := decodeEntry(t, &buf)
	if entry["password"] != redactedValue {
		t.Errorf("password = %v", entry["password"])
	}
}

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"short value", "hello", "hello"},
		{"sentence", strings.Repeat("word ", 20), strings.Repeat("word ", 20)},
		{"long blob", "ABC" + strings.Repeat("x", 80) + "XYZ", "ABC...XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactString(tt.input); got != tt.expected {
				t.Errorf("RedactString() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"payload", true},
		{"PAYLOAD", true},
		{"print_data", true},
		{"password", true},
		{"auth", true},
		{"conn_id", false},
		{"host", false},
		{"port", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsSensitiveKey(tt.key); got != tt.expected {
				t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestMaskValue(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"ABCDEFGHIJKLMNOP", "ABC...NOP"},
		{"ABCDEFGHIJKL", "***"},
		{"AB", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := maskValue(tt.value); got != tt.expected {
				t.Errorf("maskValue(%q) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}
