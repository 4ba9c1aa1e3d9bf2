// Package main provides the entry point for the inkwell preprocessor.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/aretw0/inkwell"
	"github.com/aretw0/inkwell/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(inkwell.Version))
	return cli.ExitCode(err)
}
