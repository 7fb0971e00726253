package parameter

// RegistryBuilderOption is a functional option applied to a registry during NewRegistry.
type RegistryBuilderOption func(*registry)

// WithAspectRatioParameter names the parameter SetAspectRatio writes to.
// When the schema has no parameter of that name, SetAspectRatio does nothing.
//
// Parameters:
//   - name: the parameter name (default AspectRatioName)
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithAspectRatioParameter(name string) RegistryBuilderOption {
	return func(r *registry) {
		r.aspectName = name
	}
}

// WithAnimated starts the named parameters with their animation running.
// NewRegistry fails if a name is unknown or the parameter has no animation.
//
// Parameters:
//   - names: parameter names to animate from the first frame
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithAnimated(names ...string) RegistryBuilderOption {
	return func(r *registry) {
		r.pendingAnimated = append(r.pendingAnimated, names...)
	}
}
