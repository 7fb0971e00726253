package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/pendulum/common"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/shader"
	"github.com/Carmen-Shannon/pendulum/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend
	logger      *slog.Logger

	// uniformBlock and uniformFields describe the parameter block every program must declare.
	// A nil uniformFields skips the check.
	uniformBlock  string
	uniformFields []string
	validate      bool
	builds        int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           common.Color
	blend                bool
	wireframe            bool
}

// alphaBlend is the blend state used when blending is enabled: straight alpha over the target.
var alphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// Renderer draws the parametric curve with a single shader program fed from one uniform buffer.
//
// The Renderer builds programs from raw shader sources, so it can be handed straight to a
// reload scheduler as the program builder. The backend (WGPU or GL) is chosen at construction.
type Renderer interface {
	// BackendType returns the backend the renderer was created with.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// BuildProgram parses, validates and links a vertex and fragment source pair into a pipeline.
	// Nothing is retained on failure.
	//
	// Parameters:
	//   - vertexSource: the vertex stage source in the backend's shading language
	//   - fragmentSource: the fragment stage source in the backend's shading language
	//
	// Returns:
	//   - pipeline.Pipeline: the ready pipeline, owned by the caller
	//   - error: a *shader.CompileError or *shader.LayoutError describing the rejection
	BuildProgram(vertexSource, fragmentSource string) (pipeline.Pipeline, error)

	// InitUniformBuffer allocates the parameter uniform buffer. Must be called before the first
	// BuildProgram on the WGPU backend.
	//
	// Parameters:
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: a *BufferBuildError if allocation fails
	InitUniformBuffer(size uint64) error

	// WriteUniforms uploads packed parameter bytes to the uniform buffer.
	//
	// Parameters:
	//   - data: the packed bytes
	WriteUniforms(data []byte)

	// Resize configures the underlying backend to handle a new surface size.
	// A zero-sized surface (minimized window) is ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// SetClearColor sets the background color used by every frame.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// BeginFrame acquires the next frame target and clears it.
	//
	// Returns:
	//   - error: an error if no target could be acquired; the caller should Resize and skip the frame
	BeginFrame() error

	// Draw draws vertexCount vertices with the given pipeline.
	//
	// Parameters:
	//   - p: the pipeline returned by BuildProgram
	//   - vertexCount: the number of vertices to generate
	//
	// Returns:
	//   - error: an error if p is nil
	Draw(p pipeline.Pipeline, vertexCount uint32) error

	// EndFrame ends the render pass and submits the frame's work.
	EndFrame()

	// Present displays the submitted frame.
	Present()

	// Release frees the backend. Pipelines returned by BuildProgram must be released first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the given window.
//
// Parameters:
//   - backendType: the backend to create
//   - win: the window to render into; BackendTypeGL needs a window created with window.ClientAPIOpenGL
//   - options: functional options
//
// Returns:
//   - Renderer: the renderer, with its surface configured to the window size
//   - error: an error if the backend could not be created
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRendererConfig(backendType, options...)

	var (
		backend RendererBackend
		err     error
	)
	switch backendType {
	case BackendTypeWGPU:
		backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	case BackendTypeGL:
		backend, err = newGLRendererBackend(win, r.uniformBlock)
	default:
		err = fmt.Errorf("unsupported renderer backend %s", backendType)
	}
	if err != nil {
		return nil, err
	}

	if err := r.attach(backend, win.Width(), win.Height()); err != nil {
		backend.Release()
		return nil, err
	}
	r.logger.Info("renderer ready", "backend", backendType.String(), "width", win.Width(), "height", win.Height())
	return r, nil
}

func newRendererConfig(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		backendType:  backendType,
		logger:       slog.Default(),
		uniformBlock: "Params",
		validate:     true,
		presentMode:  PresentModeVSync,
		msaa:         MSAA4x,
		clearColor:   common.DefaultClearColor,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// attach applies the collected configuration to a freshly created backend.
func (r *renderer) attach(backend RendererBackend, width, height int) error {
	r.backend = backend
	backend.SetPresentMode(r.presentMode)
	backend.SetClearColor(r.clearColor)
	return r.Resize(width, height)
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) BuildProgram(vertexSource, fragmentSource string) (pipeline.Pipeline, error) {
	r.builds++
	key := fmt.Sprintf("pendulum#%d", r.builds)
	language := r.backendType.Language()

	vs, err := shader.NewShader(key+".vert", shader.StageVertex, language, vertexSource, shader.WithValidation(r.validate))
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(key+".frag", shader.StageFragment, language, fragmentSource, shader.WithValidation(r.validate))
	if err != nil {
		return nil, err
	}

	if r.uniformFields != nil {
		if err := shader.CheckUniformLayout(vs, r.uniformBlock, r.uniformFields); err != nil {
			return nil, err
		}
		// The fragment stage may leave the block out, but a declared block must agree.
		if _, ok := fs.UniformFields(r.uniformBlock); ok {
			if err := shader.CheckUniformLayout(fs, r.uniformBlock, r.uniformFields); err != nil {
				return nil, err
			}
		}
	}

	options := append([]pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	}, r.rasterOptions()...)
	p := pipeline.NewPipeline(key, options...)
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// rasterOptions is the fixed raster state of the curve: one strip, no culling since the
// strip winding flips along the curve.
func (r *renderer) rasterOptions() []pipeline.PipelineBuilderOption {
	topology := wgpu.PrimitiveTopologyTriangleStrip
	if r.wireframe {
		topology = wgpu.PrimitiveTopologyLineStrip
	}
	blend := alphaBlend
	return []pipeline.PipelineBuilderOption{
		pipeline.WithTopology(topology),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		pipeline.WithWriteMask(wgpu.ColorWriteMaskAll),
		pipeline.WithBlendEnabled(r.blend),
		pipeline.WithBlendState(&blend),
	}
}

func (r *renderer) InitUniformBuffer(size uint64) error {
	if size == 0 {
		return &BufferBuildError{Size: size, Err: errors.New("size must be positive")}
	}
	return r.backend.InitUniformBuffer(size)
}

func (r *renderer) WriteUniforms(data []byte) {
	r.backend.WriteUniforms(data)
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetClearColor(c common.Color) {
	r.clearColor = c
	r.backend.SetClearColor(c)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(p pipeline.Pipeline, vertexCount uint32) error {
	if p == nil {
		return errors.New("draw without a pipeline")
	}
	r.backend.Draw(p, vertexCount)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
