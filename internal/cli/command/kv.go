package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/minikv-go/internal/cli/output"
	"github.com/yndnr/minikv-go/pkg/resp"
)

// ErrServerReply is returned after an error reply has been rendered.
var ErrServerReply = errors.New("server returned an error reply")

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value of a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("get requires exactly one KEY")
			}
			return roundTrip(c, []byte("GET"), []byte(c.Args().First()))
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set the value of a key",
		ArgsUsage: "KEY [VALUE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read the value from a file (binary safe)",
			},
		},
		Action: setAction,
	}
}

func setAction(c *cli.Context) error {
	key := c.Args().First()
	var value []byte

	switch path := c.String("file"); {
	case path != "" && c.NArg() == 1:
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read value: %w", err)
		}
		value = b
	case path == "" && c.NArg() == 2:
		value = []byte(c.Args().Get(1))
	default:
		return fmt.Errorf("set requires KEY VALUE or KEY --file PATH")
	}

	return roundTrip(c, []byte("SET"), []byte(key), value)
}

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Check the server connection",
		ArgsUsage: "[MESSAGE]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return fmt.Errorf("ping takes at most one MESSAGE")
			}
			args := [][]byte{[]byte("PING")}
			if c.NArg() == 1 {
				args = append(args, []byte(c.Args().First()))
			}
			return roundTrip(c, args...)
		},
	}
}

// roundTrip sends one command and renders its reply.
func roundTrip(c *cli.Context, args ...[]byte) error {
	ctx, cancel := commandContext(c)
	defer cancel()

	client, err := EnsureConnected(ctx, c)
	if err != nil {
		return err
	}

	f, err := client.Do(ctx, args...)
	if err != nil {
		return err
	}
	if err := render(c, output.FromFrame(f)); err != nil {
		return err
	}
	if f.Kind == resp.KindError {
		return ErrServerReply
	}
	return nil
}
