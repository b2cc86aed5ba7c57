// Package main is the entry point for the rulebook CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/thoreinstein/rulebook/cmd/rulebook/commands"
	"github.com/thoreinstein/rulebook/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := commands.Execute(ctx)
	stop()

	if err != nil {
		commands.PrintError(os.Stderr, err)
	}
	os.Exit(errors.ExitCode(err))
}
