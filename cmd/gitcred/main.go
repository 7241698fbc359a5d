package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gitcred/gitcred/cmd/gitcred/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := cmd.RootCmd
	if err := command.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
