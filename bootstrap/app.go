package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/linekit/logger"
)

// DefaultGracefulTimeout bounds the stop hooks unless overridden.
const DefaultGracefulTimeout = 15 * time.Second

// App is a long-running application with start and stop hooks.
type App struct {
	Name    string
	Version string
	Logger  *logger.Logger

	gracefulTimeout time.Duration

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// New creates an application.
func New(name, version string, opts ...Option) *App {
	a := &App{
		Name:            name,
		Version:         version,
		gracefulTimeout: DefaultGracefulTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = logger.Get("bootstrap")
	}
	return a
}

// Run executes the lifecycle: start hooks, ready hooks, a wait until ctx
// is done, then the stop hooks. When startup fails the stop hooks still run
// and the startup error is returned.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", map[string]any{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("Shutdown after failed startup reported errors", logger.ErrorFields("stop", stopErr))
		}
		return err
	}
	a.Logger.Info("Application ready", logger.DurationFields("startup", time.Since(start)))

	<-ctx.Done()
	a.Logger.Info("Context canceled, shutting down")
	return a.stop()
}

func (a *App) startup(ctx context.Context) error {
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}
	return nil
}

// stop runs every stop hook within the graceful timeout. The hooks get a
// fresh context since the run context is already canceled.
func (a *App) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	if err := runAllHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("stop", err))
		return err
	}
	a.Logger.Info("Application shutdown complete")
	return nil
}
