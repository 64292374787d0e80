// Command tuner is a guitar tuner. It listens to an audio input (or a
// synthetic performance), estimates the pitch of every block, matches it
// against a tuning and reports cents deviation and plucks on the terminal
// and over HTTP.
//
// Usage:
//
//	tuner listen [flags]
//	tuner simulate --notes E2,A2+12,D3-30 [flags]
//	tuner estimate --freq 110 [flags]
//	tuner devices
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		logger := slog.Default()
		if log != nil {
			logger = log
		}
		logger.ErrorContext(context.Background(), "tuner failed", slog.Any("error", xerrors.New(err)))
		return 1
	}
	return 0
}
