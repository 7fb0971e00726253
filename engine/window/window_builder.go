package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithMaxWidth sets the maximum allowed window width. Unlimited by default.
//
// Parameters:
//   - maxWidth: maximum width in pixels; zero or less removes the limit
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxWidth(maxWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		if maxWidth <= 0 {
			maxWidth = glfwDontCare
		}
		w.maxWidth = maxWidth
	}
}

// WithMaxHeight sets the maximum allowed window height. Unlimited by default.
//
// Parameters:
//   - maxHeight: maximum height in pixels; zero or less removes the limit
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxHeight(maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		if maxHeight <= 0 {
			maxHeight = glfwDontCare
		}
		w.maxHeight = maxHeight
	}
}

// WithMinWidth sets the minimum allowed window width.
//
// Parameters:
//   - minWidth: minimum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinWidth(minWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
	}
}

// WithMinHeight sets the minimum allowed window height.
//
// Parameters:
//   - minHeight: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinHeight(minHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minHeight = minHeight
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithClientAPI selects the graphics context created with the window.
// The OpenGL renderer backend requires ClientAPIOpenGL; the WGPU backend requires ClientAPINone.
//
// Parameters:
//   - api: the context type
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithClientAPI(api ClientAPI) WindowBuilderOption {
	return func(w *engineWindow) {
		w.clientAPI = api
	}
}

// WithLazy makes the message loop wait for events instead of spinning. Frames are then only
// produced on input, resize, Wake or after RequestRedraw.
//
// Parameters:
//   - lazy: true for an event-driven loop
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithLazy(lazy bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.lazy = lazy
	}
}
