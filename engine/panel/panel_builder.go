package panel

import "log/slog"

// PanelBuilderOption is a functional option applied to a panel during construction via NewPanel.
type PanelBuilderOption func(*panel)

// WithTitle sets the heading drawn on the first row.
//
// Parameters:
//   - title: the heading text
//
// Returns:
//   - PanelBuilderOption: a function that applies the title option to a panel
func WithTitle(title string) PanelBuilderOption {
	return func(p *panel) {
		p.title = title
	}
}

// WithWake sets a function called after every queued command, used to wake a render loop
// blocked waiting for window events. It must be safe to call from any goroutine.
//
// Parameters:
//   - wake: the wake function, nil for none
//
// Returns:
//   - PanelBuilderOption: a function that applies the wake option to a panel
func WithWake(wake func()) PanelBuilderOption {
	return func(p *panel) {
		if wake != nil {
			p.wake = wake
		}
	}
}

// WithCommandBuffer sets the capacity of the command channel. Commands beyond it are dropped.
func WithCommandBuffer(size int) PanelBuilderOption {
	return func(p *panel) {
		if size > 0 {
			p.commands = make(chan Command, size)
		}
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) PanelBuilderOption {
	return func(p *panel) {
		if logger != nil {
			p.logger = logger
		}
	}
}
