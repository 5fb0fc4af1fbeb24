package storage

import (
	"time"

	"github.com/yndnr/minikv-go/internal/telemetry/metric"
)

// Instrumented wraps a KV and records operation counts and latencies.
type Instrumented struct {
	inner   KV
	metrics *metric.Registry
}

var _ KV = (*Instrumented)(nil)

// NewInstrumented wraps inner. A nil registry yields a pass-through wrapper.
func NewInstrumented(inner KV, metrics *metric.Registry) *Instrumented {
	return &Instrumented{inner: inner, metrics: metrics}
}

// Get implements KV.
func (s *Instrumented) Get(key []byte) ([]byte, bool) {
	start := time.Now()
	v, ok := s.inner.Get(key)
	result := "hit"
	if !ok {
		result = "miss"
	}
	s.metrics.RecordStoreOp("get", result, time.Since(start))
	return v, ok
}

// Set implements KV.
func (s *Instrumented) Set(key, value []byte) {
	start := time.Now()
	s.inner.Set(key, value)
	s.metrics.RecordStoreOp("set", "ok", time.Since(start))
}

// Len implements KV.
func (s *Instrumented) Len() int {
	return s.inner.Len()
}

// Unwrap returns the wrapped keyspace.
func (s *Instrumented) Unwrap() KV {
	return s.inner
}
