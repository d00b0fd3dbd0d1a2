package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/diewo77/dashcore/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, os.Args, os.Stdout); err != nil {
		stop()
		os.Exit(1)
	}
}
