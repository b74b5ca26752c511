// Package main is the entry point for the collabhub API server.
//
// main stays minimal: load configuration, build the logger, hand both to
// internal/server and block until shutdown.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sakif/collabhub/internal/config"
	"github.com/sakif/collabhub/internal/logging"
	"github.com/sakif/collabhub/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, zl, err := logging.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer zl.Sync()
	slog.SetDefault(logger)

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET not set, using the built-in development secret")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		return err
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
