package command

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/minikv-go/internal/server/httpserver"
	"github.com/yndnr/minikv-go/internal/server/kvserver"
	"github.com/yndnr/minikv-go/internal/storage/memory"
	"github.com/yndnr/minikv-go/internal/telemetry/logger"
)

// startKV runs a kv server on an ephemeral port.
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

// startAdmin serves the admin routes for srv.
func startAdmin(t *testing.T, srv *kvserver.Server) *httptest.Server {
	t.Helper()
	h := httpserver.NewRouter(&httpserver.RouterConfig{Probe: srv, Logger: logger.Discard()})
	s := httptest.NewServer(h)
	t.Cleanup(s.Close)
	return s
}

// runCLI runs the app with a private config path and captured output.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &out

	full := append([]string{"minikv-cli", "--config", filepath.Join(t.TempDir(), "cli.yaml")}, args...)
	err := app.Run(full)
	return out.String(), err
}
