// Command lifetrack manages the weekly planner, habit, task and finance
// trackers from the terminal.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"lifetrack/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cli.Run(ctx, args, stdout, stderr, cli.Options{})
}
