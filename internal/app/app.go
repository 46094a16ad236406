package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/fibbench/internal/bench"
	"github.com/vk/fibbench/internal/ctxlog"
	"github.com/vk/fibbench/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	clock    bench.Clock
}

// NewApp is the constructor for the main application. Reports go to outW,
// logs to logW. With no modules given, the core modules are registered.
//
// An invalid registry is a programmer error, so NewApp panics on it.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "cases", len(reg.CaseRegistry))

	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
		clock:    bench.SystemClock,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
