// Command ensureline keeps a single line of a file or dataset in the desired state.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/ensureline/internal/cli"
	"github.com/aretw0/ensureline/internal/presentation/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		tui.PrintError(os.Stderr, err, tui.Profile(os.Stderr))
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}
