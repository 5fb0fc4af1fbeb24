package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "minikv"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Connection metrics
	ConnectionsActive   prometheus.Gauge
	ConnectionsAccepted prometheus.Counter
	ConnectionsRejected prometheus.Counter
	AcceptErrors        prometheus.Counter
	ProtocolErrors      *prometheus.CounterVec

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Keyspace metrics
	StoreOps        *prometheus.CounterVec
	StoreOpDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with all minikv metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "connections_active",
			Help:      "Number of currently open client connections",
		}),
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted client connections",
		}),
		ConnectionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "connections_rejected_total",
			Help:      "Total number of connections rejected by the admission gate",
		}),
		AcceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "accept_errors_total",
			Help:      "Total number of failed accept attempts",
		}),
		ProtocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "protocol_errors_total",
			Help:      "Total number of connections dropped for protocol violations",
		}, []string{"reason"}),

		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "commands_total",
			Help:      "Total number of processed commands",
		}, []string{"command", "status"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution latency in seconds",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"command"}),

		StoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "store_operations_total",
			Help:      "Total number of keyspace operations",
		}, []string{"op", "result"}),
		StoreOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Keyspace operation latency in seconds, including lock wait",
			Buckets:   []float64{.000001, .000005, .00001, .00005, .0001, .0005, .001},
		}, []string{"op"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectionsActive,
		r.ConnectionsAccepted,
		r.ConnectionsRejected,
		r.AcceptErrors,
		r.ProtocolErrors,
		r.CommandsTotal,
		r.CommandDuration,
		r.StoreOps,
		r.StoreOpDuration,
	)

	return r
}

// Registerer exposes the underlying registry for additional collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer exposes the underlying registry for scraping.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}

// RegisterKeyCount exposes fn as the minikv_keys gauge.
func (r *Registry) RegisterKeyCount(fn func() int) error {
	return r.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "keys",
		Help:      "Number of keys in the keyspace",
	}, func() float64 {
		return float64(fn())
	}))
}

// ConnectionOpened records an accepted connection.
func (r *Registry) ConnectionOpened() {
	if r == nil {
		return
	}
	r.ConnectionsAccepted.Inc()
	r.ConnectionsActive.Inc()
}

// ConnectionClosed records a closed connection.
func (r *Registry) ConnectionClosed() {
	if r == nil {
		return
	}
	r.ConnectionsActive.Dec()
}

// IncConnectionsRejected records a connection turned away by the admission gate.
func (r *Registry) IncConnectionsRejected() {
	if r == nil {
		return
	}
	r.ConnectionsRejected.Inc()
}

// IncAcceptErrors records a failed accept attempt.
func (r *Registry) IncAcceptErrors() {
	if r == nil {
		return
	}
	r.AcceptErrors.Inc()
}

// RecordProtocolError records a connection dropped for a protocol violation.
func (r *Registry) RecordProtocolError(reason string) {
	if r == nil {
		return
	}
	r.ProtocolErrors.WithLabelValues(reason).Inc()
}

// RecordCommand records a processed command and its latency.
func (r *Registry) RecordCommand(command, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.CommandsTotal.WithLabelValues(command, status).Inc()
	r.CommandDuration.WithLabelValues(command).Observe(d.Seconds())
}

// RecordStoreOp records a keyspace operation and its latency.
func (r *Registry) RecordStoreOp(op, result string, d time.Duration) {
	if r == nil {
		return
	}
	r.StoreOps.WithLabelValues(op, result).Inc()
	r.StoreOpDuration.WithLabelValues(op).Observe(d.Seconds())
}
