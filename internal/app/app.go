package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/funcli/internal/ctxlog"
	"github.com/vk/funcli/internal/manifest"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	errW    io.Writer
	logger  *slog.Logger
	config  *Config
	command *manifest.Command
}

// NewApp is the constructor for the main application. Bound arguments and
// help go to outW; logs and usage diagnostics go to errW.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: config,
	}
}

// Command returns the loaded manifest, or nil before Load. This is
// primarily for testing.
func (a *App) Command() *manifest.Command {
	return a.command
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
