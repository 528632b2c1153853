package extension

// Config holds configuration for the lens Forge extension.
type Config struct {
	// DisableRoutes disables the registration of HTTP routes.
	// Useful when embedding lens for container-injected use only.
	DisableRoutes bool `default:"false" json:"disable_routes"`

	// RequireConfig makes Register fail when neither "extensions.lens"
	// nor "lens" is present in the app's config files.
	RequireConfig bool `default:"false" json:"require_config"`
}
