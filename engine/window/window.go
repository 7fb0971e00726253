package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ClientAPI selects the graphics context created with the window.
type ClientAPI int

const (
	// ClientAPINone creates no context; the WGPU backend attaches a surface instead.
	ClientAPINone ClientAPI = iota

	// ClientAPIOpenGL creates an OpenGL 4.1 core profile context.
	ClientAPIOpenGL
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical scroll delta (positive = up)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	// Escape is handled by the window itself and never reaches the callback.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// ClientAPI returns the context type the window was created with.
	//
	// Returns:
	//   - ClientAPI: ClientAPINone or ClientAPIOpenGL
	ClientAPI() ClientAPI

	// MakeContextCurrent binds the window's OpenGL context to the calling thread.
	// It is a no-op for ClientAPINone.
	MakeContextCurrent()

	// SwapBuffers presents the OpenGL back buffer. It is a no-op for ClientAPINone.
	SwapBuffers()

	// SetSwapInterval sets the number of vertical blanks to wait in SwapBuffers.
	// It is a no-op for ClientAPINone.
	//
	// Parameters:
	//   - interval: 1 for vsync, 0 for uncapped
	SetSwapInterval(interval int)

	// RequestRedraw makes the next loop iteration run without waiting for an event.
	// Only meaningful for a lazy window. Must be called from the loop thread.
	RequestRedraw()

	// Wake interrupts a lazy loop blocked waiting for events. Safe to call from any goroutine.
	Wake()

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Stop makes IsRunning report false so ProcessMessages returns after the current
	// iteration. The window and its context stay alive until Close.
	Stop()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop until the window is closed, calling the
	// update callback each iteration. A lazy window blocks between iterations until an event,
	// a Wake or a prior RequestRedraw.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title     string
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int
	width     int
	height    int

	clientAPI ClientAPI
	lazy      bool

	// redrawRequested is only touched on the loop thread.
	redrawRequested bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:           "Pendulum",
		maxWidth:        glfwDontCare,
		maxHeight:       glfwDontCare,
		minWidth:        320,
		minHeight:       240,
		width:           1280,
		height:          720,
		clientAPI:       ClientAPINone,
		redrawRequested: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) ClientAPI() ClientAPI {
	return w.clientAPI
}

func (w *engineWindow) MakeContextCurrent() {
	if w.clientAPI == ClientAPIOpenGL {
		platformMakeContextCurrent(w)
	}
}

func (w *engineWindow) SwapBuffers() {
	if w.clientAPI == ClientAPIOpenGL {
		platformSwapBuffers(w)
	}
}

func (w *engineWindow) SetSwapInterval(interval int) {
	if w.clientAPI == ClientAPIOpenGL {
		platformSwapInterval(interval)
	}
}

func (w *engineWindow) RequestRedraw() {
	w.redrawRequested = true
}

func (w *engineWindow) Wake() {
	platformWake()
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Stop() {
	platformStop(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		wait := w.lazy && !w.redrawRequested
		w.redrawRequested = false
		if succ := platformProcessMessages(w, wait); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
