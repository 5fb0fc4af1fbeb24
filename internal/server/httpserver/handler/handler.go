package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/minikv-go/internal/infra/buildinfo"
	"github.com/yndnr/minikv-go/internal/telemetry/logger"
)

// Probe reports server state to the health endpoints.
type Probe interface {
	// Ready returns nil once the KV listener accepts connections.
	Ready() error
	// Keys returns the number of stored keys.
	Keys() int
	// Connections returns the number of open client connections.
	Connections() int
}

// Handler serves the admin endpoints.
type Handler struct {
	probe   Probe
	logger  logger.Logger
	started time.Time
	version string
}

// New creates a handler.
func New(probe Probe, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		probe:   probe,
		logger:  log,
		started: time.Now(),
		version: buildinfo.Version,
	}
}

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-ID"

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

func getRequestID(r *http.Request) string {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get(RequestIDHeader)
}
