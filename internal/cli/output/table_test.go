package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

type connRow struct {
	ID        string     `json:"id" table:"ID"`
	Host      string     `json:"host" table:"HOST"`
	Port      int        `json:"port" table:"PORT"`
	BytesSent int64      `json:"bytes_sent" table:"BYTES,wide"`
	LastSend  *time.Time `json:"last_send_at" table:"LAST SEND,wide"`
	secret    string
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTable_Render(t *testing.T) {
	table := NewTable("NAME", "VALUE")
	table.AddRow("key1", "value1")
	table.AddRow("longer-key", "v2")

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got := lines(buf.String())
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(got), buf.String())
	}
	if !strings.HasPrefix(got[0], "NAME") {
		t.Errorf("header line = %q", got[0])
	}
	// Columns are aligned.
	if strings.Index(got[1], "value1") != strings.Index(got[2], "v2") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestTable_NoHeaders(t *testing.T) {
	table := Table{Headers: []string{"NAME"}, Rows: [][]string{{"x"}}}

	var buf bytes.Buffer
	f := &TableFormatter{NoHeaders: true}
	if err := f.Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "NAME") {
		t.Errorf("header printed with NoHeaders:\n%s", buf.String())
	}
}

func TestTableFormatter_SliceOfStructs(t *testing.T) {
	rows := []connRow{
		{ID: "c1", Host: "10.0.0.5", Port: 9100, BytesSent: 42},
		{ID: "c2", Host: "10.0.0.6", Port: 9100},
	}

	tests := []struct {
		name        string
		wide        bool
		wantHeaders []string
		hidden      []string
	}{
		{"narrow", false, []string{"ID", "HOST", "PORT"}, []string{"BYTES", "LAST SEND"}},
		{"wide", true, []string{"ID", "HOST", "PORT", "BYTES", "LAST SEND"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&TableFormatter{Wide: tt.wide}).Format(&buf, rows); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			out := lines(buf.String())
			if len(out) != 3 {
				t.Fatalf("got %d lines, want 3:\n%s", len(out), buf.String())
			}
			for _, h := range tt.wantHeaders {
				if !strings.Contains(out[0], h) {
					t.Errorf("header %q missing from %q", h, out[0])
				}
			}
			for _, h := range tt.hidden {
				if strings.Contains(out[0], h) {
					t.Errorf("wide header %q shown in narrow mode", h)
				}
			}
			if !strings.Contains(out[1], "c1") || !strings.Contains(out[2], "c2") {
				t.Errorf("rows out of order:\n%s", buf.String())
			}
		})
	}
}

func TestTableFormatter_PointerSlice(t *testing.T) {
	rows := []*connRow{{ID: "c1"}, nil}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := len(lines(buf.String())); got != 2 {
		t.Errorf("got %d lines, want header plus one row", got)
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{}).Format(&buf, &connRow{ID: "c1", Host: "h", Port: 1})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "FIELD") {
		t.Errorf("expected FIELD/VALUE table:\n%s", out)
	}
	if strings.Contains(out, "secret") {
		t.Error("unexported field rendered")
	}
}

func TestTableFormatter_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{}).Format(&buf, map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := lines(buf.String())
	if len(out) != 3 || !strings.HasPrefix(out[1], "a") || !strings.HasPrefix(out[2], "b") {
		t.Errorf("map rows not sorted:\n%s", buf.String())
	}
}

func TestTableFormatter_FallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []int{1, 2}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "[") {
		t.Errorf("expected JSON fallback, got:\n%s", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	var nilTime *time.Time

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"empty string", "", "-"},
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"uint", uint8(7), "7"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"nil pointer", nilTime, "-"},
		{"time", ts, "2026-01-02 03:04:05"},
		{"zero time", time.Time{}, "-"},
		{"empty slice", []string{}, "-"},
		{"slice", []string{"a", "b"}, "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(reflect.ValueOf(tt.in)); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("BytesSent"); got != "Bytes_Sent" {
		t.Errorf("toSnakeCase() = %q", got)
	}
	if got := toSnakeCase("bytes_sent"); got != "bytes_sent" {
		t.Errorf("toSnakeCase() = %q", got)
	}
}
