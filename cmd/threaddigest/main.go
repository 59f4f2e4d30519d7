// Package main provides the entry point for the threaddigest CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/threaddigest/internal/cli"
)

var Version = "dev"

func main() {
	// Setup logging; stdout carries the digest document.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx, Version)
	stop()

	if err != nil {
		log.Error().Err(err).Msg("threaddigest failed")
	}
	os.Exit(cli.ExitCode(err))
}
