package bootstrap

import (
	"time"

	"github.com/kbukum/linekit/logger"
)

// Option configures the App during creation.
type Option func(*App)

// WithLogger sets the application logger. The default is the "bootstrap"
// component logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithGracefulTimeout sets the maximum duration of the stop hooks.
func WithGracefulTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.gracefulTimeout = d
		}
	}
}
