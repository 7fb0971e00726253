package renderer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/pendulum/common"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/shader"
	"github.com/Carmen-Shannon/pendulum/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var glInitOnce sync.Once

type glRendererBackendImpl struct {
	window       window.Window
	uniformBlock string

	swapInterval int
	clearColor   common.Color
	width        int32
	height       int32

	ubo     uint32
	uboSize uint64

	// vao is empty; vertices come from gl_VertexID but core profile still requires a bound VAO.
	vao uint32

	inFrame bool
}

var _ RendererBackend = &glRendererBackendImpl{}

// newGLRendererBackend binds the window's context to the calling thread and loads the GL
// entry points.
//
// Parameters:
//   - w: a window created with window.ClientAPIOpenGL
//   - uniformBlock: the name of the uniform block bound to binding point 0
//
// Returns:
//   - *glRendererBackendImpl: the backend
//   - error: an error if the window has no GL context or GL failed to load
func newGLRendererBackend(w window.Window, uniformBlock string) (*glRendererBackendImpl, error) {
	if w.ClientAPI() != window.ClientAPIOpenGL {
		return nil, errors.New("gl backend requires a window with an OpenGL context")
	}
	w.MakeContextCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	b := &glRendererBackendImpl{
		window:       w,
		uniformBlock: uniformBlock,
		swapInterval: 1,
		clearColor:   common.DefaultClearColor,
	}
	gl.GenVertexArrays(1, &b.vao)
	return b, nil
}

func (b *glRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.width = int32(width)
	b.height = int32(height)
	b.window.SetSwapInterval(b.swapInterval)
	return nil
}

func (b *glRendererBackendImpl) SetPresentMode(mode PresentMode) {
	if mode == PresentModeUncapped {
		b.swapInterval = 0
		return
	}
	b.swapInterval = 1
}

func (b *glRendererBackendImpl) SetClearColor(c common.Color) {
	b.clearColor = c
}

func (b *glRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.StageVertex)
	fragmentShader := p.Shader(shader.StageFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	vs, err := compileGLShader(vertexShader)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileGLShader(fragmentShader)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return &shader.CompileError{Key: p.Key(), Stage: shader.StageFragment, Err: fmt.Errorf("link: %s", strings.TrimRight(log, "\x00"))}
	}

	// An unused block is compiled out and reports INVALID_INDEX; such a program simply
	// ignores the parameters.
	index := gl.GetUniformBlockIndex(program, gl.Str(b.uniformBlock+"\x00"))
	if index != gl.INVALID_INDEX {
		gl.UniformBlockBinding(program, index, uniformBinding)
	}

	p.SetGLProgram(program, func() { gl.DeleteProgram(program) })
	return nil
}

func compileGLShader(s shader.Shader) (uint32, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if s.Stage() == shader.StageFragment {
		shaderType = gl.FRAGMENT_SHADER
	}

	handle := gl.CreateShader(shaderType)
	csources, free := gl.Strs(s.Source() + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(logText))
		gl.DeleteShader(handle)
		return 0, &shader.CompileError{Key: s.Key(), Stage: s.Stage(), Err: errors.New(strings.TrimRight(logText, "\x00"))}
	}
	return handle, nil
}

func (b *glRendererBackendImpl) InitUniformBuffer(size uint64) error {
	if b.ubo != 0 {
		return fmt.Errorf("uniform buffer already initialized")
	}

	gl.GenBuffers(1, &b.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, int(size), nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &b.ubo)
		b.ubo = 0
		return &BufferBuildError{Size: size, Err: fmt.Errorf("gl error 0x%x", code)}
	}
	b.uboSize = size
	return nil
}

func (b *glRendererBackendImpl) WriteUniforms(data []byte) {
	if b.ubo == 0 || len(data) == 0 {
		return
	}
	n := len(data)
	if uint64(n) > b.uboSize {
		n = int(b.uboSize)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, n, gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (b *glRendererBackendImpl) BeginFrame() error {
	if b.inFrame {
		return ErrFrameInProgress
	}
	b.inFrame = true

	gl.Viewport(0, 0, b.width, b.height)
	gl.ClearColor(float32(b.clearColor.R), float32(b.clearColor.G), float32(b.clearColor.B), float32(b.clearColor.A))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	return nil
}

func (b *glRendererBackendImpl) Draw(p pipeline.Pipeline, vertexCount uint32) {
	if !b.inFrame || p.GLProgram() == 0 || vertexCount == 0 {
		return
	}
	gl.UseProgram(p.GLProgram())
	applyGLRasterState(p)
	gl.BindVertexArray(b.vao)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, uniformBinding, b.ubo)
	gl.DrawArrays(glDrawMode(p.Topology()), 0, int32(vertexCount))
	gl.BindVertexArray(0)
}

// applyGLRasterState sets the culling, winding, color mask and blending the pipeline asks for.
func applyGLRasterState(p pipeline.Pipeline) {
	if p.CullMode() == wgpu.CullModeNone {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(glCullFace(p.CullMode()))
	}
	if p.FrontFace() == wgpu.FrontFaceCW {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}

	mask := p.WriteMask()
	gl.ColorMask(mask&wgpu.ColorWriteMaskRed != 0, mask&wgpu.ColorWriteMaskGreen != 0,
		mask&wgpu.ColorWriteMaskBlue != 0, mask&wgpu.ColorWriteMaskAlpha != 0)

	if blend := p.BlendState(); p.BlendEnabled() && blend != nil {
		gl.Enable(gl.BLEND)
		gl.BlendEquationSeparate(glBlendOperation(blend.Color.Operation), glBlendOperation(blend.Alpha.Operation))
		gl.BlendFuncSeparate(glBlendFactor(blend.Color.SrcFactor), glBlendFactor(blend.Color.DstFactor),
			glBlendFactor(blend.Alpha.SrcFactor), glBlendFactor(blend.Alpha.DstFactor))
	} else {
		gl.Disable(gl.BLEND)
	}
}

func glCullFace(mode wgpu.CullMode) uint32 {
	if mode == wgpu.CullModeFront {
		return gl.FRONT
	}
	return gl.BACK
}

func glBlendOperation(op wgpu.BlendOperation) uint32 {
	switch op {
	case wgpu.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT
	case wgpu.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case wgpu.BlendOperationMin:
		return gl.MIN
	case wgpu.BlendOperationMax:
		return gl.MAX
	default:
		return gl.FUNC_ADD
	}
}

func glBlendFactor(f wgpu.BlendFactor) uint32 {
	switch f {
	case wgpu.BlendFactorZero:
		return gl.ZERO
	case wgpu.BlendFactorSrc:
		return gl.SRC_COLOR
	case wgpu.BlendFactorOneMinusSrc:
		return gl.ONE_MINUS_SRC_COLOR
	case wgpu.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case wgpu.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case wgpu.BlendFactorDst:
		return gl.DST_COLOR
	case wgpu.BlendFactorOneMinusDst:
		return gl.ONE_MINUS_DST_COLOR
	case wgpu.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case wgpu.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		return gl.ONE
	}
}

// glDrawMode maps a pipeline topology onto the matching GL primitive mode.
func glDrawMode(topology wgpu.PrimitiveTopology) uint32 {
	switch topology {
	case wgpu.PrimitiveTopologyPointList:
		return gl.POINTS
	case wgpu.PrimitiveTopologyLineList:
		return gl.LINES
	case wgpu.PrimitiveTopologyLineStrip:
		return gl.LINE_STRIP
	case wgpu.PrimitiveTopologyTriangleList:
		return gl.TRIANGLES
	default:
		return gl.TRIANGLE_STRIP
	}
}

func (b *glRendererBackendImpl) EndFrame() {
	if b.inFrame {
		gl.Flush()
	}
}

func (b *glRendererBackendImpl) Present() {
	if !b.inFrame {
		return
	}
	b.window.SwapBuffers()
	b.inFrame = false
}

func (b *glRendererBackendImpl) Release() {
	if b.ubo != 0 {
		gl.DeleteBuffers(1, &b.ubo)
		b.ubo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}
