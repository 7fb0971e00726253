package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"testing/fstest"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/pendulum/common"
	"github.com/Carmen-Shannon/pendulum/engine/animation"
	"github.com/Carmen-Shannon/pendulum/engine/panel"
	"github.com/Carmen-Shannon/pendulum/engine/parameter"
	"github.com/Carmen-Shannon/pendulum/engine/reload"
	"github.com/Carmen-Shannon/pendulum/engine/renderer"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pendulum/engine/uniform"
	"github.com/Carmen-Shannon/pendulum/engine/window"
)

type fakeWindow struct {
	width, height int
	redraws       int
	wakes         int
	closed        bool
	maxUpdates    int

	onUpdate  func()
	onKeyDown func(uint32)
	onKeyUp   func(uint32)
	onScroll  func(float32)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(cb func())                { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(func(int, int))           {}
func (w *fakeWindow) SetScrollCallback(cb func(float32))         { w.onScroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(uint32))         { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(uint32))           { w.onKeyUp = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) ClientAPI() window.ClientAPI                { return window.ClientAPINone }
func (w *fakeWindow) MakeContextCurrent()                        {}
func (w *fakeWindow) SwapBuffers()                               {}
func (w *fakeWindow) SetSwapInterval(int)                        {}
func (w *fakeWindow) RequestRedraw()                             { w.redraws++ }
func (w *fakeWindow) Wake()                                      { w.wakes++ }
func (w *fakeWindow) IsRunning() bool                            { return !w.closed }
func (w *fakeWindow) Stop()                                      { w.closed = true }
func (w *fakeWindow) Close() error                               { w.closed = true; return nil }
func (w *fakeWindow) Width() int                                 { return w.width }
func (w *fakeWindow) Height() int                                { return w.height }

// ProcessMessages runs the update callback until the window closes or maxUpdates is reached.
func (w *fakeWindow) ProcessMessages() {
	for i := 0; !w.closed && i < w.maxUpdates; i++ {
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

type fakeRenderer struct {
	writes    [][]byte
	draws     []uint32
	drawn     []pipeline.Pipeline
	resizes   [][2]int
	beginErrs []error
	presented int
	panicOn   int
	frames    int
}

var _ renderer.Renderer = &fakeRenderer{}

func (r *fakeRenderer) BackendType() renderer.RendererBackendType { return renderer.BackendTypeWGPU }
func (r *fakeRenderer) BuildProgram(string, string) (pipeline.Pipeline, error) {
	return pipeline.NewPipeline("fake"), nil
}
func (r *fakeRenderer) InitUniformBuffer(uint64) error { return nil }
func (r *fakeRenderer) WriteUniforms(data []byte) {
	r.writes = append(r.writes, append([]byte(nil), data...))
}
func (r *fakeRenderer) Resize(width, height int) error {
	r.resizes = append(r.resizes, [2]int{width, height})
	return nil
}
func (r *fakeRenderer) SetClearColor(common.Color) {}
func (r *fakeRenderer) BeginFrame() error {
	r.frames++
	if r.panicOn > 0 && r.frames == r.panicOn {
		panic("device lost")
	}
	if len(r.beginErrs) > 0 {
		err := r.beginErrs[0]
		r.beginErrs = r.beginErrs[1:]
		return err
	}
	return nil
}
func (r *fakeRenderer) Draw(p pipeline.Pipeline, n uint32) error {
	r.draws = append(r.draws, n)
	r.drawn = append(r.drawn, p)
	return nil
}
func (r *fakeRenderer) EndFrame() {}
func (r *fakeRenderer) Present()  { r.presented++ }
func (r *fakeRenderer) Release()  {}

type testRig struct {
	engine    *engine
	window    *fakeWindow
	renderer  *fakeRenderer
	registry  parameter.Registry
	scheduler reload.Scheduler[pipeline.Pipeline]
	builds    int
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRig(t *testing.T, schema parameter.Schema, sources fstest.MapFS, options ...EngineBuilderOption) *testRig {
	t.Helper()
	rig := &testRig{
		window:   &fakeWindow{width: 800, height: 400, maxUpdates: 1},
		renderer: &fakeRenderer{},
	}

	var err error
	rig.registry, err = parameter.NewRegistry(schema)
	require.NoError(t, err)

	builder := reload.BuilderFunc[pipeline.Pipeline](func(vs, fs string) (pipeline.Pipeline, error) {
		rig.builds++
		if vs == "broken" {
			return nil, errors.New("compile failed")
		}
		return pipeline.NewPipeline(vs), nil
	})
	rig.scheduler = reload.NewScheduler[pipeline.Pipeline](builder, sources, "v", "f", reload.WithLogger(quietLogger()))
	require.NoError(t, rig.scheduler.Start())

	options = append([]EngineBuilderOption{WithLogger(quietLogger())}, options...)
	e, err := NewEngine(rig.window, rig.renderer, rig.registry, rig.scheduler, options...)
	require.NoError(t, err)
	rig.engine = e.(*engine)
	return rig
}

func shaderSources(vs string) fstest.MapFS {
	return fstest.MapFS{
		"v": &fstest.MapFile{Data: []byte(vs)},
		"f": &fstest.MapFile{Data: []byte("frag")},
	}
}

func scenarioSchema() parameter.Schema {
	radius := animation.Oscillate(0.5, 0.3, 1, 0)
	return parameter.Schema{
		{Name: parameter.AspectRatioName, Default: 1, Min: 0, Max: 16, Hidden: true},
		{Name: parameter.PointCountName, Default: 200000, Min: 1000, Max: 1000000},
		{Name: "zoom", Default: 1, Min: 0.1, Max: 4},
		{Name: "line_thickness", Default: 0.0007, Min: 0.0005, Max: 0.01},
		{Name: "radius0", Default: 0.4, Min: 0, Max: 0.7, Animation: &radius, Animated: true},
	}
}

func TestStepFirstFrameScenario(t *testing.T) {
	rig := newRig(t, scenarioSchema(), shaderSources("vs"))

	next := rig.engine.Step(FrameState{Frame: 0, Width: 800, Height: 400})

	assert.Equal(t, FrameState{Frame: 1, Width: 800, Height: 400}, next)
	require.Len(t, rig.renderer.writes, 1)
	assert.Equal(t, uniform.Marshal([]float32{2, 200000, 1, 0.0007, 0.5}), rig.renderer.writes[0])
	assert.Equal(t, []uint32{200000}, rig.renderer.draws)
	assert.Equal(t, 1, rig.renderer.presented)
	assert.Equal(t, 1, rig.window.redraws, "an animation ran")
}

func TestStepWithoutAnimationDoesNotRequestRedraw(t *testing.T) {
	schema := scenarioSchema()
	schema[4].Animated = false
	rig := newRig(t, schema, shaderSources("vs"))

	rig.engine.Step(FrameState{Width: 10, Height: 10})
	assert.Zero(t, rig.window.redraws)
	assert.Equal(t, float32(1), rig.registry.At(0).Value())
}

func TestStepReloadCadence(t *testing.T) {
	rig := newRig(t, scenarioSchema(), shaderSources("vs"))

	state := FrameState{Width: 800, Height: 400}
	for range 180 {
		state = rig.engine.Step(state)
	}
	assert.Equal(t, uint64(180), state.Frame)
	assert.Equal(t, uint64(3), rig.scheduler.Stats().Attempts)
	assert.Equal(t, 4, rig.builds, "startup plus frames 0, 60 and 120")
	assert.Len(t, rig.renderer.draws, 180)
}

func TestStepKeepsProgramWhenReloadFails(t *testing.T) {
	sources := shaderSources("vs")
	rig := newRig(t, scenarioSchema(), sources)
	before, ok := rig.scheduler.Current()
	require.True(t, ok)

	sources["v"] = &fstest.MapFile{Data: []byte("broken")}
	rig.engine.Step(FrameState{Frame: 0, Width: 800, Height: 400})

	after, ok := rig.scheduler.Current()
	require.True(t, ok)
	assert.Same(t, before, after)
	assert.Same(t, before, rig.renderer.drawn[0])
	assert.Equal(t, uint64(1), rig.scheduler.Stats().Failures)
}

func TestStepSkipsDrawWhenFrameUnavailable(t *testing.T) {
	rig := newRig(t, scenarioSchema(), shaderSources("vs"))
	rig.renderer.beginErrs = []error{errors.New("surface outdated")}

	next := rig.engine.Step(FrameState{Frame: 5, Width: 640, Height: 480})

	assert.Equal(t, uint64(6), next.Frame)
	assert.Empty(t, rig.renderer.draws)
	assert.Zero(t, rig.renderer.presented)
	assert.Equal(t, [][2]int{{640, 480}}, rig.renderer.resizes)
	assert.Len(t, rig.renderer.writes, 1, "uniforms are still uploaded")
}

func TestStepZeroHeightKeepsAspect(t *testing.T) {
	schema := scenarioSchema()
	schema[4].Animated = false
	rig := newRig(t, schema, shaderSources("vs"))

	rig.engine.Step(FrameState{Width: 300, Height: 100})
	rig.engine.Step(FrameState{Frame: 1, Width: 300, Height: 0})
	assert.Equal(t, float32(3), rig.registry.At(0).Value())
}

func TestVertexCount(t *testing.T) {
	for _, tc := range []struct {
		in   float32
		want uint32
	}{
		{200000, 200000},
		{1999.9, 1999},
		{0.5, 0},
		{-3, 0},
		{float32(math.NaN()), 0},
		{float32(math.Inf(1)), math.MaxUint32},
	} {
		assert.Equal(t, tc.want, vertexCount(tc.in), "vertexCount(%v)", tc.in)
	}
}

func TestHandleKey(t *testing.T) {
	rig := newRig(t, parameter.DefaultSchema(), shaderSources("vs"))
	e := rig.engine
	zoom, _ := rig.registry.Index("zoom")
	radius, _ := rig.registry.Index("radius0")

	e.HandleKey(common.KeyDown)
	e.HandleKey(common.KeyRight)
	z := rig.registry.At(zoom)
	assert.InDelta(t, 1+z.Step(), z.Value(), 1e-6)

	e.HandleKey(common.KeyLeftShift)
	e.HandleKey(common.KeyLeft)
	e.HandleKeyUp(common.KeyLeftShift)
	assert.InDelta(t, 1-9*z.Step(), z.Value(), 1e-5)

	e.HandleKey(common.KeyR)
	assert.Equal(t, float32(1), z.Value())

	e.HandleKey(common.KeyDown)
	e.HandleKey(common.KeyDown)
	e.HandleKey(common.KeySpace)
	assert.True(t, rig.registry.At(radius).Animated())

	for range 50 {
		e.HandleKey(common.KeyDown)
	}
	assert.Equal(t, len(e.visible)-1, e.selected)
	e.HandleKey(common.KeyEsc)
	assert.Equal(t, 57, rig.window.redraws)
}

func TestHandleScroll(t *testing.T) {
	rig := newRig(t, parameter.DefaultSchema(), shaderSources("vs"))
	e := rig.engine
	zoom, _ := rig.registry.Index("zoom")
	z := rig.registry.At(zoom)

	e.HandleKey(common.KeyDown)
	redraws := rig.window.redraws

	e.HandleScroll(1)
	assert.InDelta(t, 1+z.Step(), z.Value(), 1e-6)
	assert.True(t, e.dirty)

	e.HandleScroll(-2)
	assert.InDelta(t, 1-z.Step(), z.Value(), 1e-6)

	e.HandleScroll(0.25)
	assert.InDelta(t, 1, z.Value(), 1e-6, "a fractional notch still moves one step")

	e.HandleKey(common.KeyLeftShift)
	e.HandleScroll(-1)
	e.HandleKeyUp(common.KeyLeftShift)
	assert.InDelta(t, 1-coarseSteps*z.Step(), z.Value(), 1e-5)

	e.HandleScroll(0)
	assert.Equal(t, redraws+4, rig.window.redraws)
}

type fakePanel struct {
	commands  chan panel.Command
	published []parameter.Snapshot
}

func (p *fakePanel) Start(context.Context) error    { return nil }
func (p *fakePanel) Commands() <-chan panel.Command { return p.commands }
func (p *fakePanel) Publish(s parameter.Snapshot)   { p.published = append(p.published, s) }
func (p *fakePanel) Close()                         {}

func TestStepDrainsPanelCommands(t *testing.T) {
	fp := &fakePanel{commands: make(chan panel.Command, 4)}
	schema := scenarioSchema()
	schema[4].Animated = false
	rig := newRig(t, schema, shaderSources("vs"), WithPanel(fp))
	zoom, _ := rig.registry.Index("zoom")

	rig.engine.Step(FrameState{Width: 800, Height: 400})
	require.Len(t, fp.published, 1)

	rig.engine.Step(FrameState{Frame: 1, Width: 800, Height: 400})
	assert.Len(t, fp.published, 1, "nothing changed")

	fp.commands <- panel.Command{Kind: panel.CommandSetValue, Index: zoom, Value: 2}
	rig.engine.Step(FrameState{Frame: 2, Width: 800, Height: 400})
	assert.Equal(t, float32(2), rig.registry.At(zoom).Value())
	require.Len(t, fp.published, 2)
	assert.Equal(t, float32(2), fp.published[1].Params[zoom].Value)
	assert.Equal(t, uniform.Marshal([]float32{2, 200000, 2, 0.0007, 0.4}), rig.renderer.writes[2])

	fp.commands <- panel.Command{Kind: panel.CommandQuit}
	rig.engine.Step(FrameState{Frame: 3, Width: 800, Height: 400})
	assert.True(t, rig.engine.quitting.Load())
	assert.Equal(t, 1, rig.window.wakes)
}

func TestRunStopsOnQuit(t *testing.T) {
	rig := newRig(t, scenarioSchema(), shaderSources("vs"))
	rig.window.maxUpdates = 100

	fp := &fakePanel{commands: make(chan panel.Command, 1)}
	rig.engine.panel = fp
	fp.commands <- panel.Command{Kind: panel.CommandQuit}

	require.NoError(t, rig.engine.Run(context.Background()))
	assert.True(t, rig.window.closed)
	assert.Equal(t, uint64(1), rig.engine.state.Frame)
	assert.NotNil(t, rig.window.onKeyDown)
	assert.NotNil(t, rig.window.onKeyUp)
	assert.NotNil(t, rig.window.onScroll)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	rig := newRig(t, scenarioSchema(), shaderSources("vs"))
	rig.window.maxUpdates = 100

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rig.engine.quitting.Store(true)

	require.NoError(t, rig.engine.Run(ctx))
	assert.True(t, rig.window.closed)
	assert.Zero(t, rig.engine.state.Frame)
}

func TestRunRecoversPanic(t *testing.T) {
	rig := newRig(t, scenarioSchema(), shaderSources("vs"))
	rig.window.maxUpdates = 100
	rig.renderer.panicOn = 3

	err := rig.engine.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.True(t, rig.window.closed)
	assert.Equal(t, uint64(2), rig.engine.state.Frame)
}

func TestNewEngineValidation(t *testing.T) {
	rig := newRig(t, scenarioSchema(), shaderSources("vs"))

	_, err := NewEngine(nil, rig.renderer, rig.registry, rig.scheduler)
	assert.Error(t, err)

	noPoints, err := parameter.NewRegistry(parameter.Schema{{Name: "zoom", Max: 1}})
	require.NoError(t, err)
	_, err = NewEngine(rig.window, rig.renderer, noPoints, rig.scheduler)
	assert.ErrorContains(t, err, parameter.PointCountName)
}
