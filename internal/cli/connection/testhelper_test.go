package connection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yndnr/minikv-go/internal/server/kvserver"
	"github.com/yndnr/minikv-go/internal/storage/memory"
	"github.com/yndnr/minikv-go/internal/telemetry/logger"
)

func startKV(t *testing.T) *kvserver.Server {
	t.Helper()
	cfg := kvserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := kvserver.New(cfg, memory.New(), kvserver.WithLogger(logger.Discard()))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func dialKV(t *testing.T, srv *kvserver.Server) *Client {
	t.Helper()
	c, err := Dial(context.Background(), srv.Addr().String(), Options{})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func newAdminStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(handler)
	t.Cleanup(s.Close)
	return s
}
