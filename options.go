package lens

import "log/slog"

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the structured logger that reports absorbed engine
// failures. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(in *Inspector) {
		if l != nil {
			in.logger = l
		}
	}
}
