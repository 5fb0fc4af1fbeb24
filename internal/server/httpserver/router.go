package httpserver

import (
	"net/http"

	"github.com/yndnr/minikv-go/internal/server/httpserver/handler"
	"github.com/yndnr/minikv-go/internal/telemetry/logger"
	"github.com/yndnr/minikv-go/internal/telemetry/metric"
)

// RouterConfig holds the dependencies of the admin routes.
type RouterConfig struct {
	// Metrics is exposed at /metrics. Nil disables the route.
	Metrics *metric.Registry

	// Probe backs /health and /ready.
	Probe handler.Probe

	// Logger for request logging.
	Logger logger.Logger
}

// NewRouter creates the admin router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = &RouterConfig{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(cfg.Probe, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	return Chain(mux, RequestID(log), Recover(), AccessLog())
}
