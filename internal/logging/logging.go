// Package logging builds the application's *slog.Logger.
//
// Code throughout the repository logs through the standard log/slog API.
// Underneath, records are encoded by zap: JSON with ISO8601 timestamps in
// production, zap's colored console encoder in development. The bridge is
// go.uber.org/zap/exp/zapslog.
package logging

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New returns a slog.Logger backed by zap, plus the zap.Logger itself so the
// caller can Sync it on shutdown.
//
// level is one of debug, info, warn, error.
func New(development bool, level string) (*slog.Logger, *zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	zl, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("logging: building zap logger: %w", err)
	}

	return FromZap(zl), zl, nil
}

// FromZap wraps an existing zap.Logger in the slog API.
func FromZap(zl *zap.Logger) *slog.Logger {
	return slog.New(zapslog.NewHandler(zl.Core(), zapslog.WithCaller(true)))
}

// Nop discards everything. Tests use it.
func Nop() *slog.Logger {
	return FromZap(zap.NewNop())
}
