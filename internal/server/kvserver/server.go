package kvserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/semaphore"

	"github.com/yndnr/minikv-go/internal/core/domain"
	"github.com/yndnr/minikv-go/internal/storage"
	"github.com/yndnr/minikv-go/internal/telemetry/logger"
	"github.com/yndnr/minikv-go/internal/telemetry/metric"
	"github.com/yndnr/minikv-go/pkg/cmap"
	"github.com/yndnr/minikv-go/pkg/resp"
)

// Accept retry backoff bounds.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Config holds the KV server configuration.
type Config struct {
	// Addr is the plaintext listen address. Empty disables the plain listener.
	Addr string
	// TLSAddr is the TLS listen address. Empty disables the TLS listener.
	TLSAddr string
	// TLSConfig is required when TLSAddr is set.
	TLSConfig *tls.Config

	// MaxConnections bounds concurrently served connections. Zero means unbounded.
	MaxConnections int

	// IdleTimeout bounds the wait for the first byte of a request.
	IdleTimeout time.Duration
	// ReadTimeout bounds the time to receive the rest of a started request.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing one reply.
	WriteTimeout time.Duration

	// RateLimit is the number of commands per second allowed per connection.
	// Zero disables rate limiting.
	RateLimit int

	// MaxBulkLen and MaxArrayLen bound decoded frames.
	MaxBulkLen  int
	MaxArrayLen int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6380",
		IdleTimeout:  5 * time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		MaxBulkLen:   resp.DefaultMaxBulkLen,
		MaxArrayLen:  resp.DefaultMaxArrayLen,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// Server accepts client connections and serves them against a shared KV.
type Server struct {
	cfg     *Config
	kv      storage.KV
	logger  logger.Logger
	metrics *metric.Registry

	gate  *semaphore.Weighted
	conns *cmap.Map[*conn]

	mu      sync.Mutex
	plainLn net.Listener
	tlsLn   net.Listener

	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a server. The KV is shared by every connection.
func New(cfg *Config, kv storage.KV, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:    cfg,
		kv:     kv,
		logger: logger.Default(),
		conns:  cmap.New[*conn](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.MaxConnections > 0 {
		s.gate = semaphore.NewWeighted(int64(cfg.MaxConnections))
	}

	return s
}

// Start binds the configured listeners and begins accepting in the background.
// A bind failure is returned and nothing is left listening.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Addr == "" && s.cfg.TLSAddr == "" {
		return errors.New("kvserver: no listen address configured")
	}
	if s.cfg.TLSAddr != "" && s.cfg.TLSConfig == nil {
		return errors.New("kvserver: TLS address set without TLS config")
	}
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("kvserver: already started")
	}

	var plainLn, tlsLn net.Listener
	if s.cfg.Addr != "" {
		ln, err := net.Listen("tcp", s.cfg.Addr)
		if err != nil {
			s.running.Store(false)
			return fmt.Errorf("kvserver: listen %s: %w", s.cfg.Addr, err)
		}
		plainLn = ln
	}
	if s.cfg.TLSAddr != "" {
		ln, err := tls.Listen("tcp", s.cfg.TLSAddr, s.cfg.TLSConfig)
		if err != nil {
			if plainLn != nil {
				_ = plainLn.Close()
			}
			s.running.Store(false)
			return fmt.Errorf("kvserver: listen tls %s: %w", s.cfg.TLSAddr, err)
		}
		tlsLn = ln
	}

	s.mu.Lock()
	s.plainLn, s.tlsLn = plainLn, tlsLn
	s.mu.Unlock()

	for _, ln := range []net.Listener{plainLn, tlsLn} {
		if ln == nil {
			continue
		}
		s.logger.Info("kv server listening", "address", ln.Addr().String())
		s.wg.Add(1)
		go func(ln net.Listener) {
			defer s.wg.Done()
			s.acceptLoop(ctx, ln)
		}(ln)
	}

	return nil
}

// Addr returns the plain listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plainLn == nil {
		return nil
	}
	return s.plainLn.Addr()
}

// TLSAddr returns the TLS listener address, or nil when TLS is disabled.
func (s *Server) TLSAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tlsLn == nil {
		return nil
	}
	return s.tlsLn.Addr()
}

// ActiveConnections returns the number of connections being served.
func (s *Server) ActiveConnections() int {
	return s.conns.Len()
}

// Running reports whether the server has been started and not shut down.
func (s *Server) Running() bool {
	return s.running.Load()
}

// ErrNotRunning is reported by Ready before Start and after Shutdown.
var ErrNotRunning = errors.New("kvserver: not running")

// Ready returns nil while the listeners accept connections.
func (s *Server) Ready() error {
	if !s.running.Load() {
		return ErrNotRunning
	}
	return nil
}

// Connections returns the number of connections being served.
func (s *Server) Connections() int {
	return s.ActiveConnections()
}

// Keys returns the number of keys in the shared store.
func (s *Server) Keys() int {
	if s.kv == nil {
		return 0
	}
	return s.kv.Len()
}

// Shutdown closes the listeners and every open connection, then waits for
// all connection goroutines to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error

	s.mu.Lock()
	for _, ln := range []net.Listener{s.plainLn, s.tlsLn} {
		if ln == nil {
			continue
		}
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	s.mu.Unlock()

	s.conns.Range(func(_ string, c *conn) bool {
		c.close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	var delay time.Duration

	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.metrics.IncAcceptErrors()

			if delay == 0 {
				delay = minAcceptDelay
			} else {
				delay *= 2
			}
			if delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.logger.Warn("accept failed, retrying", "error", err, "delay", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
			continue
		}
		delay = 0

		if s.gate != nil && !s.gate.TryAcquire(1) {
			s.metrics.IncConnectionsRejected()
			s.reject(nc)
			continue
		}

		c := newConn(s, nc, ulid.Make().String())
		s.conns.Set(c.id, c)
		s.metrics.ConnectionOpened()

		// Shutdown may have swept the registry between Accept and Set.
		if !s.running.Load() {
			c.close()
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			c.serve(ctx)
		}()
	}
}

// reject answers a connection turned away by the admission gate.
func (s *Server) reject(nc net.Conn) {
	defer nc.Close()

	s.logger.Warn("connection rejected", "remote", nc.RemoteAddr().String(), "max_connections", s.cfg.MaxConnections)

	timeout := s.cfg.WriteTimeout
	if timeout <= 0 || timeout > time.Second {
		timeout = time.Second
	}
	_ = nc.SetWriteDeadline(time.Now().Add(timeout))
	_, _ = nc.Write(resp.Encode(errorReply(domain.ErrTooManyClients)))
}
