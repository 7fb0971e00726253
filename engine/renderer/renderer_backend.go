package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/pendulum/common"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/shader"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeGL selects the OpenGL 4.1 core backend.
	BackendTypeGL
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeGL:
		return "gl"
	default:
		return fmt.Sprintf("backend(%d)", int(t))
	}
}

// ParseBackendType maps a configuration name to a backend type.
//
// Parameters:
//   - name: "wgpu" or "gl"
//
// Returns:
//   - RendererBackendType: the backend type
//   - error: an error for unknown names
func ParseBackendType(name string) (RendererBackendType, error) {
	switch name {
	case "wgpu":
		return BackendTypeWGPU, nil
	case "gl":
		return BackendTypeGL, nil
	default:
		return 0, fmt.Errorf("unknown renderer backend %q", name)
	}
}

// Language returns the shading language the backend consumes.
//
// Returns:
//   - shader.Language: LanguageWGSL for WGPU, LanguageGLSL for GL
func (t RendererBackendType) Language() shader.Language {
	if t == BackendTypeGL {
		return shader.LanguageGLSL
	}
	return shader.LanguageWGSL
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the contract both GPU backends implement. All methods run on the
// render thread.
type RendererBackend interface {
	// ConfigureSurface sizes the swapchain (or viewport) and any multisample targets.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: an error if the surface targets could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets how frames are delivered to the display. Takes effect on the next
	// ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the frame is cleared to.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// RegisterRenderPipeline creates the GPU program for a pipeline whose shaders are already
	// parsed and attaches it to the pipeline.
	//
	// Parameters:
	//   - p: the pipeline holding the vertex and fragment shaders
	//
	// Returns:
	//   - error: a *shader.CompileError if the GPU rejects the program
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitUniformBuffer allocates the uniform buffer bound at group 0 binding 0.
	//
	// Parameters:
	//   - size: the allocation size in bytes
	//
	// Returns:
	//   - error: a *BufferBuildError on failure
	InitUniformBuffer(size uint64) error

	// WriteUniforms writes data at offset 0 of the uniform buffer.
	//
	// Parameters:
	//   - data: the packed uniform bytes
	WriteUniforms(data []byte)

	// BeginFrame acquires the next frame target and begins the render pass.
	//
	// Returns:
	//   - error: an error if the target could not be acquired
	BeginFrame() error

	// Draw binds the pipeline and uniform group and draws vertexCount vertices.
	//
	// Parameters:
	//   - p: the pipeline to draw with
	//   - vertexCount: the number of vertices, generated in the vertex stage
	Draw(p pipeline.Pipeline, vertexCount uint32)

	// EndFrame ends the render pass and submits the recorded work.
	EndFrame()

	// Present displays the frame.
	Present()

	// Release frees every GPU object owned by the backend. Pipelines are released by their owner.
	Release()
}
