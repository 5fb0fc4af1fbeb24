package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/minikv-go/internal/cli/connection"
)

// Status combines the admin health payload with readiness.
type Status struct {
	Status      string `json:"status" yaml:"status"`
	Version     string `json:"version" yaml:"version"`
	Uptime      string `json:"uptime" yaml:"uptime"`
	Keys        int    `json:"keys" yaml:"keys"`
	Connections int    `json:"connections" yaml:"connections"`
	Ready       bool   `json:"ready" yaml:"ready"`
	Reason      string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show server health from the admin endpoint",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	ctx, cancel := commandContext(c)
	defer cancel()

	s := GetSettings(c)
	admin := connection.NewAdminClient(s.Admin, s.Timeout)

	h, err := admin.Health(ctx)
	if err != nil {
		return err
	}

	st := Status{
		Status:      h.Status,
		Version:     h.Version,
		Uptime:      h.Uptime,
		Keys:        h.Keys,
		Connections: h.Connections,
		Ready:       true,
	}
	if err := admin.Ready(ctx); err != nil {
		st.Ready = false
		st.Reason = err.Error()
	}
	return render(c, st)
}
