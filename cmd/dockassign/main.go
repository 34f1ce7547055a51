// Package main is the entry point for the dockassign CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"dockassign/internal/backend/navixy"
	"dockassign/internal/cli"
	"dockassign/internal/commands"
	"dockassign/internal/config"
	"dockassign/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return navixy.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		dispatcher.SetDefault("form")
	}

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
