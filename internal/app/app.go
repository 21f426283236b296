// Package app wires the engine together for the CLI: logger, simulation
// registry with the compiled-in catalog, and config loader. Consumers only
// read from the registry; it is never mutated after construction.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/decisim/internal/ctxlog"
	"github.com/vk/decisim/internal/loader"
	"github.com/vk/decisim/internal/registry"
)

// Config holds the runtime options every command shares.
type Config struct {
	LogFormat string // "text" or "json"
	LogLevel  string // "debug", "info", "warn", "error"
}

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	logger   *slog.Logger
	registry *registry.Registry
	loader   *loader.Loader
}

// New constructs a fully initialized App with its own isolated logger and a
// registry populated from entries (the built-in catalog when none are given).
func New(logW io.Writer, cfg Config, entries ...registry.Entry) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)

	reg := registry.New()
	if len(entries) == 0 {
		entries = builtinEntries()
	}
	for _, e := range entries {
		reg.Register(e)
	}
	logger.Debug("Registry populated.", "simulations", len(entries))

	return &App{
		logger:   logger,
		registry: reg,
		loader:   loader.New(),
	}
}

// Context attaches the app's logger to ctx for everything downstream.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Logger returns the app's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Registry returns the simulation catalog.
func (a *App) Registry() *registry.Registry { return a.registry }

// Loader returns the configuration file loader.
func (a *App) Loader() *loader.Loader { return a.loader }
