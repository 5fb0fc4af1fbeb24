package repl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompleter_Names(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"GET", "SET", "PING", "CONNECT", "HELP", "EXIT"}},
		{"g", []string{"GET"}},
		{"SE", []string{"SET"}},
		{"c", []string{"CONNECT"}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := c.Names(tt.prefix)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Names(%q) mismatch (-want +got):\n%s", tt.prefix, diff)
			}
		})
	}
}

func TestCompleter_CompleteCarriesUsage(t *testing.T) {
	got := NewCompleter().Complete("ping")
	if len(got) != 1 || got[0].Usage != "PING [message]" {
		t.Errorf("Complete(ping) = %+v", got)
	}
}
