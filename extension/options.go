package extension

import (
	"log/slog"

	"github.com/xraph/lens/engine"
	mw "github.com/xraph/lens/middleware"
)

// ExtOption configures the lens Forge extension.
type ExtOption func(*Extension)

// WithEngine sets the scheduler engine to inspect. When no engine is
// supplied, Register resolves one from the app's DI container.
func WithEngine(eng engine.Engine) ExtOption {
	return func(e *Extension) {
		e.eng = eng
	}
}

// WithMiddleware adds engine middleware, applied around every query the
// inspector makes.
func WithMiddleware(m mw.Middleware) ExtOption {
	return func(e *Extension) {
		e.mws = append(e.mws, m)
	}
}

// WithConfig sets the extension configuration directly.
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithDisableRoutes disables the registration of HTTP routes.
func WithDisableRoutes() ExtOption {
	return func(e *Extension) {
		e.config.DisableRoutes = true
	}
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) ExtOption {
	return func(e *Extension) {
		e.config.RequireConfig = require
	}
}

// WithLogger sets the structured logger for the inspector.
func WithLogger(l *slog.Logger) ExtOption {
	return func(e *Extension) {
		e.logger = l
	}
}
