package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/Carmen-Shannon/pendulum/common"
	"github.com/Carmen-Shannon/pendulum/engine/animation"
	"github.com/Carmen-Shannon/pendulum/engine/panel"
	"github.com/Carmen-Shannon/pendulum/engine/parameter"
	"github.com/Carmen-Shannon/pendulum/engine/profiler"
	"github.com/Carmen-Shannon/pendulum/engine/reload"
	"github.com/Carmen-Shannon/pendulum/engine/renderer"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pendulum/engine/uniform"
	"github.com/Carmen-Shannon/pendulum/engine/window"
)

// FrameState is the explicit per-frame input of Step.
type FrameState struct {
	// Frame is the zero-based frame index. It drives the animation clock and the reload cadence.
	Frame uint64

	// Width and Height are the current framebuffer size in pixels.
	Width  int
	Height int
}

// engine implements the Engine interface.
// Everything except Quit runs on the window's thread.
type engine struct {
	window    window.Window
	renderer  renderer.Renderer
	registry  parameter.Registry
	scheduler reload.Scheduler[pipeline.Pipeline]
	clock     animation.Clock
	logger    *slog.Logger

	panel            panel.Panel
	profiler         *profiler.Profiler
	profilingEnabled bool

	pointIndex int
	visible    []int
	selected   int
	shift      bool

	// Reused across frames so the steady state does not allocate.
	values []float32
	bytes  []byte

	// dirty marks registry changes the panel has not seen yet.
	dirty bool

	state    FrameState
	quitting atomic.Bool
	closed   atomic.Bool
	runErr   error
}

// Engine is the render loop: it owns the frame counter and, once per frame, feeds the
// registry through the uniform buffer into the current shader program.
type Engine interface {
	// Step renders one frame.
	//
	// The order is fixed: drain panel commands, write the aspect ratio, run animations
	// (requesting a redraw when any ran), upload the packed uniforms, give the reload
	// scheduler its tick, draw point_count vertices as a triangle strip, present.
	// A frame whose target cannot be acquired reconfigures the surface and skips drawing,
	// but still counts.
	//
	// Parameters:
	//   - state: the frame index and current framebuffer size
	//
	// Returns:
	//   - FrameState: the state for the next frame
	Step(state FrameState) FrameState

	// HandleKey applies a window keyboard control to the selected parameter.
	// Up/Down (or Tab) select, Left/Right nudge (coarsely while Shift is held), -/= and
	// PageDown/PageUp nudge coarsely, Space or Enter toggles the animation and R resets.
	//
	// Parameters:
	//   - keyCode: a GLFW key code, see common.Key*
	HandleKey(keyCode uint32)

	// HandleKeyUp tracks modifier releases.
	//
	// Parameters:
	//   - keyCode: a GLFW key code
	HandleKeyUp(keyCode uint32)

	// HandleScroll nudges the selected parameter one step per scroll notch in the direction of
	// delta, coarsely while Shift is held.
	//
	// Parameters:
	//   - delta: the vertical scroll offset; positive scrolls up
	HandleScroll(delta float32)

	// Run drives Step from the window loop until the window closes, Quit is called, the panel
	// asks to quit or ctx is cancelled.
	//
	// Parameters:
	//   - ctx: cancelling it shuts the loop down
	//
	// Returns:
	//   - error: non-nil only when a frame panicked
	Run(ctx context.Context) error

	// Quit asks the loop to stop after the current frame. Safe to call from any goroutine.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates the render loop over already constructed components.
//
// Parameters:
//   - win: the window providing the loop, size and key input
//   - r: the renderer owning the uniform buffer
//   - registry: the parameters to pack; must contain parameter.PointCountName
//   - scheduler: a started reload scheduler providing the current program
//   - options: functional options
//
// Returns:
//   - Engine: the engine
//   - error: an error if a component is missing
func NewEngine(win window.Window, r renderer.Renderer, registry parameter.Registry, scheduler reload.Scheduler[pipeline.Pipeline], options ...EngineBuilderOption) (Engine, error) {
	if win == nil || r == nil || registry == nil || scheduler == nil {
		return nil, errors.New("engine needs a window, renderer, registry and scheduler")
	}
	pointIndex, ok := registry.Index(parameter.PointCountName)
	if !ok {
		return nil, fmt.Errorf("registry has no %q parameter", parameter.PointCountName)
	}

	e := &engine{
		window:     win,
		renderer:   r,
		registry:   registry,
		scheduler:  scheduler,
		logger:     slog.Default(),
		pointIndex: pointIndex,
		dirty:      true,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profilingEnabled && e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	for _, v := range registry.Snapshot().Visible() {
		e.visible = append(e.visible, v.Index)
	}
	return e, nil
}

func (e *engine) Step(state FrameState) FrameState {
	e.drainCommands()

	e.registry.SetAspectRatio(state.Width, state.Height)
	if e.registry.Animate(e.clock.Time(state.Frame)) {
		e.window.RequestRedraw()
		e.dirty = true
	}

	e.values = uniform.PackInto(e.values, e.registry)
	e.bytes = uniform.MarshalInto(e.bytes, e.values)
	e.renderer.WriteUniforms(e.bytes)

	e.scheduler.Tick(state.Frame)

	if err := e.renderer.BeginFrame(); err != nil {
		e.logger.Debug("frame skipped", "frame", state.Frame, "err", err)
		if err := e.renderer.Resize(state.Width, state.Height); err != nil {
			e.logger.Warn("surface reconfigure failed", "err", err)
		}
	} else {
		if current, ok := e.scheduler.Current(); ok {
			if err := e.renderer.Draw(current, vertexCount(e.registry.At(e.pointIndex).Value())); err != nil {
				e.logger.Warn("draw failed", "err", err)
			}
		}
		e.renderer.EndFrame()
		e.renderer.Present()
	}

	if e.profiler != nil {
		e.profiler.Tick(e.scheduler.Stats())
	}
	if e.panel != nil && e.dirty {
		e.panel.Publish(e.registry.Snapshot())
		e.dirty = false
	}

	return FrameState{Frame: state.Frame + 1, Width: state.Width, Height: state.Height}
}

// drainCommands applies every queued panel command without blocking.
func (e *engine) drainCommands() {
	if e.panel == nil {
		return
	}
	commands := e.panel.Commands()
	for {
		select {
		case c := <-commands:
			if c.Kind == panel.CommandQuit {
				e.Quit()
				continue
			}
			if c.Apply(e.registry) {
				e.dirty = true
			}
		default:
			return
		}
	}
}

// vertexCount truncates a point count toward zero. Negative and NaN counts draw nothing.
func vertexCount(v float32) uint32 {
	f := float64(v)
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(f)
	}
}

func (e *engine) HandleKey(keyCode uint32) {
	if keyCode == common.KeyLeftShift || keyCode == common.KeyRightShift {
		e.shift = true
		return
	}
	if len(e.visible) == 0 {
		return
	}
	index := e.visible[e.selected]
	var steps float32 = 1
	if e.shift {
		steps = coarseSteps
	}
	changed := false

	switch keyCode {
	case common.KeyUp:
		e.selected = max(e.selected-1, 0)
	case common.KeyDown, common.KeyTab:
		e.selected = min(e.selected+1, len(e.visible)-1)
	case common.KeyLeft:
		changed = e.registry.Nudge(index, -steps)
	case common.KeyRight:
		changed = e.registry.Nudge(index, steps)
	case common.KeyMinus, common.KeyPageDown:
		changed = e.registry.Nudge(index, -coarseSteps)
	case common.KeyEqual, common.KeyPageUp:
		changed = e.registry.Nudge(index, coarseSteps)
	case common.KeySpace, common.KeyEnter:
		changed = e.registry.ToggleAnimation(index)
	case common.KeyR:
		changed = e.registry.Reset(index)
	default:
		return
	}

	if p := e.registry.At(e.visible[e.selected]); p != nil {
		e.logger.Debug("parameter", "name", p.Name(), "value", p.Value(), "animated", p.Animated())
	}
	if changed {
		e.dirty = true
	}
	e.window.RequestRedraw()
}

func (e *engine) HandleKeyUp(keyCode uint32) {
	if keyCode == common.KeyLeftShift || keyCode == common.KeyRightShift {
		e.shift = false
	}
}

func (e *engine) HandleScroll(delta float32) {
	if delta == 0 || len(e.visible) == 0 {
		return
	}
	steps := float32(math.Copysign(math.Max(math.Round(math.Abs(float64(delta))), 1), float64(delta)))
	if e.shift {
		steps *= coarseSteps
	}
	if e.registry.Nudge(e.visible[e.selected], steps) {
		e.dirty = true
	}
	e.window.RequestRedraw()
}

func (e *engine) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, e.Quit)
	defer stop()

	e.state = FrameState{Width: e.window.Width(), Height: e.window.Height()}
	e.window.SetKeyDownCallback(e.HandleKey)
	e.window.SetKeyUpCallback(e.HandleKeyUp)
	e.window.SetScrollCallback(e.HandleScroll)
	e.window.SetResizeCallback(func(width, height int) {
		if err := e.renderer.Resize(width, height); err != nil {
			e.logger.Warn("resize failed", "width", width, "height", height, "err", err)
		}
	})
	e.window.SetUpdateCallback(e.update)

	e.logger.Info("render loop started", "width", e.state.Width, "height", e.state.Height)
	e.window.ProcessMessages()
	e.logger.Info("render loop stopped", "frames", e.state.Frame)

	return e.runErr
}

// update is the window loop callback. A panic inside a frame is recovered once and ends the loop.
func (e *engine) update() {
	if e.quitting.Load() {
		e.close()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.runErr = fmt.Errorf("render loop panic: %v", r)
			e.logger.Error("render loop panic", "frame", e.state.Frame, "panic", r)
			e.quitting.Store(true)
			e.close()
		}
	}()

	e.state.Width = e.window.Width()
	e.state.Height = e.window.Height()
	e.state = e.Step(e.state)

	if e.quitting.Load() {
		e.close()
	}
}

// close ends the window loop. The window itself is destroyed by its owner once the GPU
// resources bound to it are released.
func (e *engine) close() {
	e.closed.Store(true)
	e.window.Stop()
}

func (e *engine) Quit() {
	if e.quitting.CompareAndSwap(false, true) && !e.closed.Load() {
		e.window.Wake()
	}
}
