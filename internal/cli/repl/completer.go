package repl

import "strings"

// Command describes one REPL command for help and completion.
type Command struct {
	Name    string
	Usage   string
	Summary string
}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []Command
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []Command{
			{"GET", "GET key", "Get the value of a key"},
			{"SET", "SET key value", "Set the value of a key"},
			{"PING", "PING [message]", "Check the connection"},
			{"CONNECT", "CONNECT host:port", "Switch to another server"},
			{"HELP", "HELP [prefix]", "Show commands"},
			{"EXIT", "EXIT", "Leave the shell"},
		},
	}
}

// Complete returns the commands whose name starts with prefix, ignoring case.
func (c *Completer) Complete(prefix string) []Command {
	prefix = strings.ToUpper(prefix)
	var out []Command
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd.Name, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}

// Names returns the completions as bare names.
func (c *Completer) Names(prefix string) []string {
	cmds := c.Complete(prefix)
	names := make([]string, len(cmds))
	for i, cmd := range cmds {
		names[i] = cmd.Name
	}
	return names
}
