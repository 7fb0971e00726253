package renderer

import (
	"log/slog"
	"slices"

	"github.com/Carmen-Shannon/pendulum/common"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the WGPU backend.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the initial clear color.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(c common.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithUniformLayout requires every built program to declare the named uniform block with exactly
// these fields, in order.
//
// Parameters:
//   - block: the uniform struct (WGSL) or block (GLSL) name
//   - names: the expected field names in declaration order
//
// Returns:
//   - RendererBuilderOption: a function that applies the uniform layout option to a renderer
func WithUniformLayout(block string, names []string) RendererBuilderOption {
	return func(r *renderer) {
		r.uniformBlock = block
		r.uniformFields = slices.Clone(names)
		if r.uniformFields == nil {
			r.uniformFields = []string{}
		}
	}
}

// WithBlending alpha-blends the curve over the cleared frame instead of overwriting it.
//
// Parameters:
//   - enabled: true to blend with straight alpha
//
// Returns:
//   - RendererBuilderOption: a function that applies the blending option to a renderer
func WithBlending(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.blend = enabled
	}
}

// WithWireframe draws the generated vertices as a line strip, which shows how the curve is
// sampled across its thickness.
func WithWireframe(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.wireframe = enabled
	}
}

// WithShaderValidation toggles the naga front-end pass run over WGSL sources before they reach the device.
func WithShaderValidation(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.validate = enabled
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
