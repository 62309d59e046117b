package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/PolarWolf314/passman/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		if !cmd.IsDisplayed(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
