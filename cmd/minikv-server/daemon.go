package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/yndnr/minikv-go/internal/infra/tlsroots"
	"github.com/yndnr/minikv-go/internal/server/config"
	"github.com/yndnr/minikv-go/internal/server/httpserver"
	"github.com/yndnr/minikv-go/internal/server/httpserver/handler"
	"github.com/yndnr/minikv-go/internal/server/kvserver"
	"github.com/yndnr/minikv-go/internal/storage"
	"github.com/yndnr/minikv-go/internal/storage/memory"
	"github.com/yndnr/minikv-go/internal/telemetry/logger"
	"github.com/yndnr/minikv-go/internal/telemetry/metric"
)

var _ handler.Probe = (*kvserver.Server)(nil)

// daemon owns the running listeners of one server process.
type daemon struct {
	log     logger.Logger
	metrics *metric.Registry
	store   storage.KV
	certs   *tlsroots.CertWatcher
	kv      *kvserver.Server
	admin   *httpserver.Server
}

// start builds the store and starts the KV and admin listeners.
// Nothing is left running when it fails.
func start(ctx context.Context, cfg *config.ServerConfig, log logger.Logger) (*daemon, error) {
	metrics := metric.NewRegistry()

	store := storage.NewInstrumented(
		memory.New(memory.WithShardCount(cfg.Store.Shards)),
		metrics,
	)
	if err := metrics.RegisterKeyCount(store.Len); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	d := &daemon{log: log, metrics: metrics, store: store}

	kvCfg := kvConfig(&cfg.Server.KV)
	if cfg.Server.KV.TLSAddr != "" {
		certs, err := tlsroots.NewCertWatcher(
			cfg.Server.KV.TLSCertFile,
			cfg.Server.KV.TLSKeyFile,
			tlsroots.WithLogger(log.Named("tls")),
		)
		if err != nil {
			return nil, err
		}
		kvCfg.TLSConfig = certs.ServerConfig()
		d.certs = certs
	}

	d.kv = kvserver.New(kvCfg, store,
		kvserver.WithLogger(log.Named("kv")),
		kvserver.WithMetrics(metrics),
	)
	if err := d.kv.Start(ctx); err != nil {
		return nil, err
	}
	if d.certs != nil {
		d.certs.StartAsync()
	}

	if cfg.Server.Admin.Enabled {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: metrics,
			Probe:   d.kv,
			Logger:  log.Named("admin"),
		})
		d.admin = httpserver.New(cfg.Server.Admin.Addr, router, log.Named("admin"))
		if err := d.admin.Start(); err != nil {
			_ = d.kv.Shutdown(ctx)
			if d.certs != nil {
				d.certs.Stop()
			}
			return nil, err
		}
	}

	return d, nil
}

// stop shuts the admin listener down first so probes report the KV going away last.
func (d *daemon) stop(ctx context.Context) error {
	var errs []error
	if d.admin != nil {
		d.log.Info("shutting down admin server")
		if err := d.admin.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin: %w", err))
		}
	}
	d.log.Info("shutting down kv server")
	if err := d.kv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("kv: %w", err))
	}
	if d.certs != nil {
		d.certs.Stop()
	}
	return errors.Join(errs...)
}

// kvConfig converts the file configuration. TLSConfig is left for the caller.
func kvConfig(c *config.KVConfig) *kvserver.Config {
	return &kvserver.Config{
		Addr:           c.Addr,
		TLSAddr:        c.TLSAddr,
		MaxConnections: c.MaxConnections,
		IdleTimeout:    c.IdleTimeout,
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
		RateLimit:      c.RateLimit,
		MaxBulkLen:     c.MaxBulkLen,
		MaxArrayLen:    c.MaxArrayLen,
	}
}
