package handler

import (
	"net/http"
	"time"
)

// Health handles GET /health. It succeeds while the process is serving HTTP.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	hl := Health{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
	}
	if h.probe != nil {
		hl.Keys = h.probe.Keys()
		hl.Connections = h.probe.Connections()
	}
	h.writeJSON(w, r, http.StatusOK, NewResponse(getRequestID(r), hl))
}

// Ready handles GET /ready. It reports 503 until the KV listener is up.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.probe == nil {
		h.writeJSON(w, r, http.StatusServiceUnavailable, NewErrorResponse(getRequestID(r), "NOT_READY", "no probe configured"))
		return
	}
	if err := h.probe.Ready(); err != nil {
		h.writeJSON(w, r, http.StatusServiceUnavailable, NewErrorResponse(getRequestID(r), "NOT_READY", err.Error()))
		return
	}
	h.writeJSON(w, r, http.StatusOK, NewResponse(getRequestID(r), map[string]string{"status": "ready"}))
}
