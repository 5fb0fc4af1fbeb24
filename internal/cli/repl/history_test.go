package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_Add(t *testing.T) {
	h := NewHistory("")
	h.Add("a")
	h.Add("b")
	h.Add("b")
	h.Add("a")

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (consecutive duplicates collapse)", h.Len())
	}
}

func TestHistory_Add_MaxSize(t *testing.T) {
	h := NewHistory("")
	h.maxSize = 3
	for _, c := range []string{"cmd1", "cmd2", "cmd3", "cmd4"} {
		h.Add(c)
	}

	if diff := cmp.Diff([]string{"cmd2", "cmd3", "cmd4"}, h.entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Get(t *testing.T) {
	h := NewHistory("")
	h.Add("first")
	h.Add("second")
	h.Add("third")

	tests := []struct {
		index int
		want  string
	}{
		{0, "third"},
		{1, "second"},
		{2, "first"},
		{3, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := h.Get(tt.index); got != tt.want {
			t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(file)
	h.Add("SET k v")
	h.Add("GET k")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	h2 := NewHistory(file)
	if err := h2.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(h.entries, h2.entries); diff != "" {
		t.Errorf("loaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_MemoryOnly(t *testing.T) {
	h := NewHistory("")
	h.Add("x")
	if err := h.Save(); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}

func TestHistory_Load_Missing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestDefaultHistoryFile(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := DefaultHistoryFile(); got != filepath.Join("/home/tester", ".minikv", "history") {
		t.Errorf("DefaultHistoryFile() = %q", got)
	}
}
