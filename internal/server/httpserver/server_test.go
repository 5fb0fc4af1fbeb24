package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/minikv-go/internal/telemetry/logger"
	"github.com/yndnr/minikv-go/internal/telemetry/metric"
)

type stubProbe struct{}

func (stubProbe) Ready() error     { return nil }
func (stubProbe) Keys() int        { return 7 }
func (stubProbe) Connections() int { return 1 }

func TestServer_StartAndShutdown(t *testing.T) {
	reg := metric.NewRegistry()
	router := NewRouter(&RouterConfig{Metrics: reg, Probe: stubProbe{}, Logger: logger.Discard()})

	s := New("127.0.0.1:0", router, logger.Discard())
	if s.Addr() != nil {
		t.Error("Addr() should be nil before Start")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + s.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	select {
	case err := <-s.done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("server did not stop")
	}
}

func TestServer_StartBindError(t *testing.T) {
	s := New("not-an-address", http.NotFoundHandler(), logger.Discard())
	if err := s.Start(); err == nil {
		t.Error("Start() should fail for an invalid address")
	}
}

func TestNewRouter_Routes(t *testing.T) {
	reg := metric.NewRegistry()
	reg.ConnectionOpened()
	router := NewRouter(&RouterConfig{Metrics: reg, Probe: stubProbe{}, Logger: logger.Discard()})

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/health", http.StatusOK, `"keys":7`},
		{http.MethodGet, "/ready", http.StatusOK, `"status":"ready"`},
		{http.MethodGet, "/metrics", http.StatusOK, "minikv_connections_active 1"},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			body, _ := io.ReadAll(rec.Body)
			if tt.body != "" && !strings.Contains(string(body), tt.body) {
				t.Errorf("body missing %q:\n%s", tt.body, body)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("X-Request-ID header missing")
			}
		})
	}
}

func TestNewRouter_NilConfig(t *testing.T) {
	router := NewRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/ready without probe = %d, want 503", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("/metrics without registry = %d, want 404", rec.Code)
	}

	var body map[string]any
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode /health: %v", err)
	}
	if body["code"] != "OK" {
		t.Errorf("/health code = %v", body["code"])
	}
}
