package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/yndnr/minikv-go/pkg/resp"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatRaw, false},
		{"raw", FormatRaw, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"table", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("expected YAMLFormatter")
	}
	if _, ok := NewFormatter("unknown").(*RawFormatter); !ok {
		t.Error("unknown format should fall back to raw")
	}
}

// ============================================================
// Raw Formatter Tests
// ============================================================

func TestRawFormatter_Replies(t *testing.T) {
	tests := []struct {
		name  string
		frame resp.Frame
		want  string
	}{
		{"simple", resp.Simple("OK"), "OK\n"},
		{"bulk", resp.BulkString("world"), "world\n"},
		{"binary bulk", resp.Bulk([]byte{0xff, 0x00, 'a'}), "\xff\x00a\n"},
		{"null", resp.Null(), "(nil)\n"},
		{"integer", resp.Integer(42), "(integer) 42\n"},
		{"error", resp.Error("ERR MKV-CMD-4001 unknown command"), "(error) ERR MKV-CMD-4001 unknown command\n"},
		{"empty array", resp.Array(), "(empty array)\n"},
		{
			name:  "nested array",
			frame: resp.Array(resp.BulkString("a"), resp.Array(resp.Integer(1), resp.Null())),
			want:  "1) a\n2) 1) (integer) 1\n   2) (nil)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&RawFormatter{}).Format(&buf, FromFrame(tt.frame)); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestRawFormatter_Struct(t *testing.T) {
	data := &struct {
		Status string `json:"status"`
		Keys   int    `json:"keys"`
		Hidden string `json:"-"`
	}{Status: "healthy", Keys: 3, Hidden: "x"}

	var buf bytes.Buffer
	if err := (&RawFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "status:  healthy\nkeys:    3\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestRawFormatter_NilAndString(t *testing.T) {
	var buf bytes.Buffer
	f := &RawFormatter{}
	if err := f.Format(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("Format(nil) = %q, %v", buf.String(), err)
	}
	if err := f.Format(&buf, "connected"); err != nil || buf.String() != "connected\n" {
		t.Errorf("Format(string) = %q, %v", buf.String(), err)
	}
}

// ============================================================
// Structured Formatter Tests
// ============================================================

func TestJSONFormatter_Reply(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, FromFrame(resp.BulkString("world"))); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"type": "bulk"`, `"value": "world"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() = %s, missing %s", out, want)
		}
	}
	if strings.Contains(out, "encoding") {
		t.Errorf("UTF-8 value should not carry an encoding: %s", out)
	}
}

func TestJSONFormatter_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, nil); err != nil {
		t.Fatalf("Format(nil) error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "null" {
		t.Errorf("Format(nil) = %q, want null", got)
	}
}

func TestYAMLFormatter_Reply(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, FromFrame(resp.Integer(7))); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "type: integer\ninteger: 7\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestYAMLFormatter_Struct(t *testing.T) {
	data := struct {
		Status string `yaml:"status"`
		Keys   int    `yaml:"keys"`
	}{"healthy", 2}

	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "status: healthy\nkeys: 2\n" {
		t.Errorf("Format() = %q", buf.String())
	}
}

// ============================================================
// FromFrame Tests
// ============================================================

func TestFromFrame(t *testing.T) {
	str := func(s string) *string { return &s }
	one := int64(1)

	tests := []struct {
		name  string
		frame resp.Frame
		want  Reply
	}{
		{"simple", resp.Simple("PONG"), Reply{Type: "simple", Value: str("PONG")}},
		{"null", resp.Null(), Reply{Type: "null"}},
		{"error", resp.Error("ERR x"), Reply{Type: "error", Error: "ERR x"}},
		{"binary", resp.Bulk([]byte{0xff}), Reply{Type: "bulk", Value: str("/w=="), Encoding: EncodingBase64}},
		{"array", resp.Array(resp.Integer(1)), Reply{Type: "array", Items: []Reply{{Type: "integer", Integer: &one}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromFrame(tt.frame)
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreUnexported(Reply{})); diff != "" {
				t.Errorf("FromFrame() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if !FromFrame(resp.Error("ERR")).IsError() || FromFrame(resp.Null()).IsError() {
		t.Error("IsError() mismatch")
	}
}
