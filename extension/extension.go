// Package extension provides the Forge extension adapter for lens.
//
// It implements the forge.Extension interface so scheduler introspection
// can be mounted into a Forge application: the engine comes from an
// option or from the app's DI container, the inspector is registered
// back into the container for other extensions, and the read-only API
// routes are registered on the app router.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.lens" or "lens" keys.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/lens"
	"github.com/xraph/lens/api"
	"github.com/xraph/lens/engine"
	mw "github.com/xraph/lens/middleware"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "lens"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Read-only introspection over a running job scheduler"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts lens as a Forge extension. It implements the
// forge.Extension interface so the introspection service can be mounted
// into any Forge app.
type Extension struct {
	*forge.BaseExtension

	config     Config
	eng        engine.Engine
	inspector  *lens.Inspector
	apiHandler *api.API
	logger     *slog.Logger
	mws        []mw.Middleware
}

// New creates a lens Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Inspector returns the introspection service.
// This is nil until Register is called.
func (e *Extension) Inspector() *lens.Inspector { return e.inspector }

// API returns the API handler.
func (e *Extension) API() *api.API { return e.apiHandler }

// Register implements [forge.Extension]. It resolves the engine, builds
// the inspector, and optionally registers HTTP routes.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if err := e.init(fapp); err != nil {
		return err
	}

	// Register the inspector in the DI container so other extensions can
	// use it.
	if err := vessel.Provide(fapp.Container(), func() (*lens.Inspector, error) {
		return e.inspector, nil
	}); err != nil {
		return fmt.Errorf("lens: register inspector in container: %w", err)
	}

	return nil
}

// init builds the inspector and API handler.
func (e *Extension) init(fapp forge.App) error {
	eng := e.eng
	if eng == nil {
		// No engine supplied: resolve one from the DI container.
		resolved, err := vessel.Inject[engine.Engine](fapp.Container())
		if err != nil {
			return fmt.Errorf("lens: no engine configured and none found in container: %w", err)
		}
		eng = resolved
	}

	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	if len(e.mws) > 0 {
		eng = mw.Wrap(eng, e.mws...)
	}
	e.eng = eng

	insp, err := lens.NewInspector(eng, lens.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("lens: create inspector: %w", err)
	}
	e.inspector = insp

	// Create the API handler.
	e.apiHandler = api.New(insp, fapp.Router())

	// Register HTTP routes unless disabled.
	if !e.config.DisableRoutes {
		e.apiHandler.RegisterRoutes(fapp.Router())
	}

	return nil
}

// Start implements [forge.Extension]. The view is passive; there is
// nothing to run.
func (e *Extension) Start(_ context.Context) error {
	if e.inspector == nil {
		return errors.New("lens: extension not initialized")
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension]. Engines exposing a Ping method
// are pinged; anything else answers a cheap group listing.
func (e *Extension) Health(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("lens: extension not initialized")
	}

	if p, ok := e.eng.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	_, err := e.eng.JobGroupNames(ctx)
	return err
}

// Handler returns the HTTP handler for all API routes.
// Convenience for standalone use outside Forge.
func (e *Extension) Handler() http.Handler {
	if e.apiHandler == nil {
		return http.NotFoundHandler()
	}
	return e.apiHandler.Handler()
}

// RegisterRoutes registers the introspection routes into a Forge router.
func (e *Extension) RegisterRoutes(router forge.Router) {
	if e.apiHandler != nil {
		e.apiHandler.RegisterRoutes(router)
	}
}

// --- Config Loading (mirrors the family's extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("lens: configuration is required but not found in config files; " +
				"ensure 'extensions.lens' or 'lens' key exists in your config")
		}
		e.config = programmaticConfig
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("lens: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.lens" first (namespaced pattern).
	if cm.IsSet("extensions.lens") {
		if err := cm.Bind("extensions.lens", &cfg); err == nil {
			e.Logger().Debug("lens: loaded config from file",
				forge.F("key", "extensions.lens"),
			)
			return cfg, true
		}
		e.Logger().Warn("lens: failed to bind extensions.lens config",
			forge.F("error", "bind failed"),
		)
	}

	// Try bare "lens" key.
	if cm.IsSet("lens") {
		if err := cm.Bind("lens", &cfg); err == nil {
			e.Logger().Debug("lens: loaded config from file",
				forge.F("key", "lens"),
			)
			return cfg, true
		}
		e.Logger().Warn("lens: failed to bind lens config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence; programmatic bool flags fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.RequireConfig {
		yamlConfig.RequireConfig = true
	}
	return yamlConfig
}
