package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/minikv-go/internal/infra/buildinfo"
	"github.com/yndnr/minikv-go/internal/infra/confloader"
	"github.com/yndnr/minikv-go/internal/infra/shutdown"
	"github.com/yndnr/minikv-go/internal/server/config"
	"github.com/yndnr/minikv-go/internal/telemetry/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "minikv-server",
		Usage:   "in-memory key-value server",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"MINIKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "KV listen address (overrides server.kv.addr)",
			},
			&cli.StringFlag{
				Name:  "admin-addr",
				Usage: "Admin HTTP listen address (overrides server.admin.addr)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: json, text",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	configFile := c.String("config")
	overrides := flagOverrides(c)

	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting minikv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", configFile)

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := start(ctx, cfg, log)
	if err != nil {
		return err
	}

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log)
	shutdownHandler.OnShutdown(d.stop)

	if configFile != "" {
		w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else if err := w.Watch(configFile); err != nil {
			log.Warn("config watcher unavailable", "error", err)
			_ = w.Stop()
		} else {
			w.OnChange(func(path string) {
				reloadLogLevel(path, overrides, log)
			})
			w.StartAsync()
			shutdownHandler.OnShutdown(func(context.Context) error {
				return w.Stop()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// flagOverrides maps explicitly set flags to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	keys := map[string]string{
		"addr":       "server.kv.addr",
		"admin-addr": "server.admin.addr",
		"log-level":  "log.level",
		"log-format": "log.format",
	}
	out := make(map[string]any)
	for flag, key := range keys {
		if c.IsSet(flag) {
			out[key] = c.String(flag)
		}
	}
	return out
}

// loadConfig loads defaults, file, environment and flags, then verifies.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithFlags(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and makes it the default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// reloadLogLevel re-reads the configuration after a file change. Only the
// log level is applied live; an invalid file leaves everything unchanged.
func reloadLogLevel(path string, overrides map[string]any, log logger.Logger) {
	cfg, err := loadConfig(path, overrides)
	if err != nil {
		log.Warn("config reload rejected", "path", path, "error", err)
		return
	}

	old := logger.GetLevel()
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Warn("config reload rejected", "path", path, "error", err)
		return
	}
	if now := logger.GetLevel(); now != old {
		log.Info("log level updated", "from", old, "to", now)
	}
}
