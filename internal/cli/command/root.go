package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/minikv-go/internal/cli/config"
	"github.com/yndnr/minikv-go/internal/cli/connection"
	"github.com/yndnr/minikv-go/internal/cli/output"
	"github.com/yndnr/minikv-go/internal/infra/buildinfo"
)

const (
	metaSettings = "settings"
	metaConnMgr  = "connMgr"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "minikv-cli",
		Usage:   "minikv command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			GetCommand(),
			SetCommand(),
			PingCommand(),
			StatusCommand(),
			ReplCommand(),
		},
		Before: before,
		After: func(c *cli.Context) error {
			if mgr := GetConnectionManager(c); mgr != nil {
				return mgr.Disconnect()
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file (default ~/.minikv/cli.yaml)",
			EnvVars: []string{"MINIKV_CLI_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "minikv server address",
			EnvVars: []string{"MINIKV_SERVER"},
			Value:   config.DefaultServer,
		},
		&cli.StringFlag{
			Name:    "admin",
			Usage:   "minikv admin HTTP address",
			EnvVars: []string{"MINIKV_ADMIN"},
			Value:   config.DefaultAdmin,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: raw, json, yaml",
			Value:   config.DefaultOutput,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-command timeout",
			Value: config.DefaultTimeout,
		},
		&cli.BoolFlag{
			Name:  "tls",
			Usage: "Connect with TLS",
		},
		&cli.StringFlag{
			Name:  "tls-ca",
			Usage: "PEM file with CA certificates to trust",
		},
		&cli.BoolFlag{
			Name:  "tls-insecure",
			Usage: "Skip server certificate verification",
		},
	}
}

// Settings is the resolved configuration of one invocation.
type Settings struct {
	Server      string
	Admin       string
	Output      output.Format
	Timeout     time.Duration
	HistoryFile string
	Dial        connection.Options
}

// resolveSettings merges the config file under explicitly set flags.
func resolveSettings(c *cli.Context) (*Settings, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("admin") {
		cfg.Admin = c.String("admin")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("tls") {
		cfg.TLS.Enabled = c.Bool("tls")
	}
	if c.IsSet("tls-ca") {
		cfg.TLS.CAFile = c.String("tls-ca")
		cfg.TLS.Enabled = true
	}
	if c.IsSet("tls-insecure") {
		cfg.TLS.InsecureSkipVerify = c.Bool("tls-insecure")
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	tlsConfig, err := cfg.TLS.ClientTLS()
	if err != nil {
		return nil, err
	}

	return &Settings{
		Server:      cfg.Server,
		Admin:       cfg.Admin,
		Output:      format,
		Timeout:     cfg.Timeout,
		HistoryFile: cfg.HistoryFile,
		Dial:        connection.Options{TLSConfig: tlsConfig, DialTimeout: cfg.Timeout},
	}, nil
}

func before(c *cli.Context) error {
	s, err := resolveSettings(c)
	if err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[metaSettings] = s
	c.App.Metadata[metaConnMgr] = connection.NewManager(s.Dial)
	return nil
}

// GetSettings retrieves the resolved settings from context.
func GetSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[metaSettings].(*Settings); ok {
		return s
	}
	return nil
}

// GetConnectionManager retrieves the connection manager from context.
func GetConnectionManager(c *cli.Context) *connection.Manager {
	if mgr, ok := c.App.Metadata[metaConnMgr].(*connection.Manager); ok {
		return mgr
	}
	return nil
}

// EnsureConnected connects the manager to the configured server if needed
// and returns the client.
func EnsureConnected(ctx context.Context, c *cli.Context) (*connection.Client, error) {
	mgr := GetConnectionManager(c)
	s := GetSettings(c)
	if mgr == nil || s == nil {
		return nil, fmt.Errorf("CLI not initialized")
	}
	if !mgr.IsConnected() {
		if err := mgr.Connect(ctx, s.Server); err != nil {
			return nil, err
		}
	}
	return mgr.Client()
}

// commandContext derives a context bounded by the configured timeout.
func commandContext(c *cli.Context) (context.Context, context.CancelFunc) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if s := GetSettings(c); s != nil && s.Timeout > 0 {
		return context.WithTimeout(ctx, s.Timeout)
	}
	return context.WithCancel(ctx)
}

// render writes data in the configured output format.
func render(c *cli.Context, data any) error {
	format := output.FormatRaw
	if s := GetSettings(c); s != nil {
		format = s.Output
	}
	return output.NewFormatter(format).Format(c.App.Writer, data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
