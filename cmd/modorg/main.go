package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/modorg/internal/cli"
	"github.com/arthur-debert/modorg/pkg/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, output.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		stop()
		os.Exit(1)
	}
}
