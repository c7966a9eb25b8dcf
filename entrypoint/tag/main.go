package main

import (
	"text2phenotype.com/postag/cli"
	"text2phenotype.com/postag/logger"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	logger.SetupLogging()
	mainLogger := logger.NewLogger("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.RunTag(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
		}
		mainLogger.Error().Err(err).Msg("Tagging failed")
		stop()
		os.Exit(1)
	}
}
