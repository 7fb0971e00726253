package shader

// ShaderBuilderOption is a functional option applied during NewShader.
type ShaderBuilderOption func(*shader)

// WithValidation enables or disables the naga front-end check for WGSL sources.
// GLSL sources are unaffected; the driver validates them at link time.
//
// Parameters:
//   - enabled: whether to validate
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithValidation(enabled bool) ShaderBuilderOption {
	return func(s *shader) {
		s.validate = enabled
	}
}
