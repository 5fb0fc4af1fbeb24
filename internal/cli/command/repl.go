package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/minikv-go/internal/cli/output"
	"github.com/yndnr/minikv-go/internal/cli/repl"
)

// ReplCommand returns the interactive shell command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"shell"},
		Usage:   "Start an interactive shell",
		Action:  replAction,
	}
}

func replAction(c *cli.Context) error {
	s := GetSettings(c)
	mgr := GetConnectionManager(c)
	if s == nil || mgr == nil {
		return fmt.Errorf("CLI not initialized")
	}

	historyFile := s.HistoryFile
	if historyFile == "" {
		historyFile = repl.DefaultHistoryFile()
	}

	r := repl.New(
		newExecutor(c),
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithFormatter(output.NewFormatter(s.Output)),
		repl.WithHistory(repl.NewHistory(historyFile)),
	)

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return r.Run(ctx)
}

// newExecutor sends REPL lines to the server. CONNECT switches servers;
// a failed round trip drops the connection so the next line redials.
func newExecutor(c *cli.Context) repl.Executor {
	s := GetSettings(c)
	mgr := GetConnectionManager(c)
	target := s.Server

	return func(ctx context.Context, args []string) (any, error) {
		if s.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.Timeout)
			defer cancel()
		}

		if strings.EqualFold(args[0], "connect") {
			if len(args) != 2 {
				return nil, fmt.Errorf("usage: CONNECT host:port")
			}
			if err := mgr.Connect(ctx, args[1]); err != nil {
				return nil, err
			}
			target = args[1]
			return "connected to " + target, nil
		}

		if !mgr.IsConnected() {
			if err := mgr.Connect(ctx, target); err != nil {
				return nil, err
			}
		}
		client, err := mgr.Client()
		if err != nil {
			return nil, err
		}

		f, err := client.DoStrings(ctx, args...)
		if err != nil {
			_ = mgr.Disconnect()
			return nil, fmt.Errorf("connection to %s lost: %w", target, err)
		}
		return output.FromFrame(f), nil
	}
}
