package lens

import "errors"

var (
	// ErrNoEngine is returned by NewInspector when given a nil engine.
	ErrNoEngine = errors.New("lens: no engine configured")
)
