package main

import (
	"errors"
	"os"

	"github.com/yndnr/minikv-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		// The error reply itself was already printed.
		if !errors.Is(err, command.ErrServerReply) {
			command.PrintError("%v", err)
		}
		os.Exit(1)
	}
}
