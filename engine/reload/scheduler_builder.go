package reload

import "log/slog"

// schedulerConfig collects option values; it is not generic so options can be shared by
// schedulers of any program type.
type schedulerConfig struct {
	interval uint64
	logger   *slog.Logger
}

// SchedulerBuilderOption is a functional option applied during NewScheduler.
type SchedulerBuilderOption func(*schedulerConfig)

// WithInterval sets the number of frames between reload attempts.
// Values <= 0 keep DefaultInterval.
//
// Parameters:
//   - frames: the reload cadence in frames
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithInterval(frames int) SchedulerBuilderOption {
	return func(c *schedulerConfig) {
		if frames > 0 {
			c.interval = uint64(frames)
		}
	}
}

// WithLogger sets the logger used for reload notifications.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SchedulerBuilderOption {
	return func(c *schedulerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
