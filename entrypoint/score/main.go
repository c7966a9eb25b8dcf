package main

import (
	"text2phenotype.com/postag/cli"
	"text2phenotype.com/postag/logger"
	"errors"
	"fmt"
	"os"
)

func main() {
	logger.SetupLogging()
	mainLogger := logger.NewLogger("Main")

	if err := cli.RunScore(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
		}
		mainLogger.Error().Err(err).Msg("Scoring failed")
		os.Exit(1)
	}
}
