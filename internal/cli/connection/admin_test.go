package connection

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewAdminClient_BaseURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"127.0.0.1:9380", "http://127.0.0.1:9380"},
		{"http://host:1/", "http://host:1"},
		{"https://host:2", "https://host:2"},
	}
	for _, tt := range tests {
		if got := NewAdminClient(tt.addr, 0).BaseURL(); got != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestAdminClient_Health(t *testing.T) {
	var agent string
	s := newAdminStub(t, func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"code": "OK",
			"data": map[string]any{
				"status": "healthy", "version": "dev", "uptime": "3s", "keys": 2, "connections": 1,
			},
		})
	})

	h, err := NewAdminClient(s.URL, time.Second).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	want := &Health{Status: "healthy", Version: "dev", Uptime: "3s", Keys: 2, Connections: 1}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("Health() mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(agent, "minikv-cli/") {
		t.Errorf("User-Agent = %q", agent)
	}
}

func TestAdminClient_NotReady(t *testing.T) {
	s := newAdminStub(t, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusServiceUnavailable, map[string]any{
			"code": "NOT_READY", "message": "kv listener not running",
		})
	})

	err := NewAdminClient(s.URL, time.Second).Ready(context.Background())
	if err == nil || !strings.Contains(err.Error(), "NOT_READY") {
		t.Errorf("Ready() error = %v, want NOT_READY", err)
	}
}

func TestAdminClient_BadStatusWithoutEnvelope(t *testing.T) {
	s := newAdminStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := NewAdminClient(s.URL, time.Second).Ready(context.Background())
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("Ready() error = %v, want status 502", err)
	}
}
