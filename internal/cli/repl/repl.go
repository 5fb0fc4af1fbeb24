package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"

	"github.com/yndnr/minikv-go/internal/cli/output"
)

// DefaultPrompt is shown before each line.
const DefaultPrompt = "minikv> "

// Executor runs one tokenized line and returns a value for the formatter.
type Executor func(ctx context.Context, args []string) (any, error)

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	formatter output.Formatter
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO replaces stdin/stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithFormatter sets the result formatter.
func WithFormatter(f output.Formatter) Option {
	return func(r *REPL) {
		r.formatter = f
	}
}

// WithPrompt sets the prompt.
func WithPrompt(p string) Option {
	return func(r *REPL) {
		r.prompt = p
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a new REPL instance.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    DefaultPrompt,
		exec:      exec,
		formatter: &output.RawFormatter{},
		completer: NewCompleter(),
		history:   NewHistory(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until EOF, exit/quit or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "(warning) history not loaded: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "(warning) history not saved: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.output)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(r.output, "(error) %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch strings.ToLower(args[0]) {
		case "exit", "quit":
			return nil
		case "help":
			r.printHelp(args[1:])
			continue
		}

		r.execute(ctx, args)
	}
}

func (r *REPL) execute(ctx context.Context, args []string) {
	result, err := r.exec(ctx, args)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		return
	}
	if err := r.formatter.Format(r.output, result); err != nil {
		fmt.Fprintf(r.output, "(error) format: %v\n", err)
	}
}

func (r *REPL) printHelp(args []string) {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	for _, c := range r.completer.Complete(prefix) {
		fmt.Fprintf(r.output, "  %-24s %s\n", c.Usage, c.Summary)
	}
}
