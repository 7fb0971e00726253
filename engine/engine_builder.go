package engine

import (
	"log/slog"

	"github.com/Carmen-Shannon/pendulum/engine/panel"
	"github.com/Carmen-Shannon/pendulum/engine/profiler"
)

// coarseSteps is the nudge size for the coarse adjustment keys.
const coarseSteps = 10

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler sets the profiler used when profiling is enabled.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
		e.profilingEnabled = p != nil
	}
}

// WithPanel attaches a control panel. Its commands are drained at the start of every frame
// and it receives a snapshot whenever a parameter changed.
//
// Parameters:
//   - p: the panel, already started or started later by the caller
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPanel(p panel.Panel) EngineBuilderOption {
	return func(e *engine) {
		e.panel = p
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
