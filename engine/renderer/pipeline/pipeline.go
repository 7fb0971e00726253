package pipeline

import (
	"github.com/Carmen-Shannon/pendulum/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the backend handle of a linked render program along with the raster state used to create it.
type pipeline struct {
	key string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is set by the WGPU backend, glProgram by the OpenGL backend.
	renderPipeline *wgpu.RenderPipeline
	glProgram      uint32
	releaseFunc    func()
	released       bool

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline is a linked vertex + fragment program ready to draw. The raster state accessors
// are expressed in wgpu terms; the OpenGL backend maps them to the equivalent GL state.
type Pipeline interface {
	// Key returns the label the pipeline was created with.
	//
	// Returns:
	//   - string: the pipeline key
	Key() string

	// Shader retrieves the shader for a stage.
	//
	// Parameters:
	//   - stage: shader.StageVertex or shader.StageFragment
	//
	// Returns:
	//   - shader.Shader: the shader, or nil if not set
	Shader(stage shader.Stage) shader.Shader

	// RenderPipeline returns the WGPU render pipeline, nil for other backends.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// GLProgram returns the OpenGL program name, zero for other backends.
	//
	// Returns:
	//   - uint32: the program name
	GLProgram() uint32

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology, wgpu.PrimitiveTopologyTriangleStrip by default
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state
	BlendState() *wgpu.BlendState

	// SetRenderPipeline sets the WGPU render pipeline.
	//
	// Parameters:
	//   - p: the render pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// SetGLProgram sets the OpenGL program name and the function that deletes it.
	//
	// Parameters:
	//   - program: the linked program name
	//   - release: called once by Release, may be nil
	SetGLProgram(program uint32, release func())

	// Release frees the backend objects. Calling it more than once is a no-op.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline. The backend attaches the GPU handle afterwards via
// SetRenderPipeline or SetGLProgram.
//
// Parameters:
//   - key: the pipeline label
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline with triangle-strip topology and culling disabled
func NewPipeline(key string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:          key,
		blendEnabled: false,
		cullMode:     wgpu.CullModeNone,
		topology:     wgpu.PrimitiveTopologyTriangleStrip,
		frontFace:    wgpu.FrontFaceCCW,
		writeMask:    wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
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
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Shader(stage shader.Stage) shader.Shader {
	switch stage {
	case shader.StageVertex:
		return p.vertexShader
	case shader.StageFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) GLProgram() uint32 {
	return p.glProgram
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) SetGLProgram(program uint32, release func()) {
	p.glProgram = program
	p.releaseFunc = release
}

func (p *pipeline) Release() {
	if p.released {
		return
	}
	p.released = true
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.releaseFunc != nil {
		p.releaseFunc()
		p.releaseFunc = nil
	}
	p.glProgram = 0
}
