package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/jsb/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.New(os.Stdout, os.Stderr).Execute(ctx, os.Args[1:])
	cancel()
	os.Exit(cli.ExitCode(err))
}
