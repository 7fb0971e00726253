package reload

import (
	"fmt"
	"io/fs"
	"log/slog"
)

// DefaultInterval is the number of frames between reload attempts.
const DefaultInterval = 60

// State is the reload scheduler's position in its check-and-act cycle.
type State int

const (
	// StateIdle waits for the next reload boundary.
	StateIdle State = iota

	// StateReloadDue is entered on a boundary frame, just before the sources are read.
	StateReloadDue

	// StateReloading covers reading and compiling the sources.
	StateReloading
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReloadDue:
		return "reload-due"
	case StateReloading:
		return "reloading"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result describes what one Tick did.
type Result struct {
	// Attempted is true on boundary frames.
	Attempted bool

	// Reloaded is true when the current program was replaced.
	Reloaded bool

	// Err is the read or build failure of an attempt that kept the old program.
	Err error
}

// Stats counts reload attempts since the scheduler was created. Start is not counted.
type Stats struct {
	Attempts  uint64
	Successes uint64
	Failures  uint64
}

// scheduler is the implementation of the Scheduler interface.
type scheduler[P Program] struct {
	builder      ProgramBuilder[P]
	sources      fs.FS
	vertexPath   string
	fragmentPath string

	interval uint64
	logger   *slog.Logger

	current    P
	hasCurrent bool
	state      State
	stats      Stats
}

// Scheduler owns the live shader program and rebuilds it from disk on a fixed frame cadence.
// A failed rebuild leaves the live program untouched. Scheduler is driven from the render
// thread only.
type Scheduler[P Program] interface {
	// Start performs the initial build. There is no previous program to fall back to, so the
	// caller should treat an error as fatal.
	//
	// Returns:
	//   - error: a *SourceReadError or the builder's error
	Start() error

	// Tick runs the check-and-act step for a frame. On frames where frame % interval == 0 it
	// reads both sources and rebuilds; the attempt always completes within the call.
	//
	// Parameters:
	//   - frame: the current frame index
	//
	// Returns:
	//   - Result: what happened on this frame
	Tick(frame uint64) Result

	// Current returns the live program.
	//
	// Returns:
	//   - P: the live program, the zero value before a successful build
	//   - bool: false when no build has succeeded yet
	Current() (P, bool)

	// State returns the scheduler state. Outside Tick this is always StateIdle.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Stats returns the attempt counters.
	//
	// Returns:
	//   - Stats: a copy of the counters
	Stats() Stats

	// Interval returns the number of frames between attempts.
	//
	// Returns:
	//   - uint64: the interval in frames
	Interval() uint64

	// Release releases the live program. The scheduler must not be used afterwards.
	Release()
}

var _ Scheduler[Program] = &scheduler[Program]{}

// NewScheduler creates a Scheduler reading both stage sources from the given file system.
//
// Parameters:
//   - builder: compiles sources into a program
//   - sources: the file system holding the sources, e.g. os.DirFS(shaderDir)
//   - vertexPath: path of the vertex source inside sources
//   - fragmentPath: path of the fragment source inside sources
//   - options: functional options
//
// Returns:
//   - Scheduler[P]: a scheduler with no program yet; call Start
func NewScheduler[P Program](builder ProgramBuilder[P], sources fs.FS, vertexPath, fragmentPath string, options ...SchedulerBuilderOption) Scheduler[P] {
	cfg := schedulerConfig{
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return &scheduler[P]{
		builder:      builder,
		sources:      sources,
		vertexPath:   vertexPath,
		fragmentPath: fragmentPath,
		interval:     cfg.interval,
		logger:       cfg.logger,
		state:        StateIdle,
	}
}

func (s *scheduler[P]) Start() error {
	p, err := s.build()
	if err != nil {
		return fmt.Errorf("initial shader build: %w", err)
	}
	s.replace(p)
	s.logger.Info("shaders loaded", "vertex", s.vertexPath, "fragment", s.fragmentPath)
	return nil
}

func (s *scheduler[P]) Tick(frame uint64) Result {
	if frame%s.interval != 0 {
		return Result{}
	}

	s.state = StateReloadDue
	s.stats.Attempts++
	defer func() { s.state = StateIdle }()

	s.state = StateReloading
	p, err := s.build()
	if err != nil {
		s.stats.Failures++
		s.logger.Warn("error compiling shaders", "frame", frame, "err", err)
		return Result{Attempted: true, Err: err}
	}

	s.replace(p)
	s.stats.Successes++
	s.logger.Info("shaders reloaded", "frame", frame)
	return Result{Attempted: true, Reloaded: true}
}

func (s *scheduler[P]) Current() (P, bool) {
	return s.current, s.hasCurrent
}

func (s *scheduler[P]) State() State {
	return s.state
}

func (s *scheduler[P]) Stats() Stats {
	return s.stats
}

func (s *scheduler[P]) Interval() uint64 {
	return s.interval
}

func (s *scheduler[P]) Release() {
	if s.hasCurrent {
		s.current.Release()
	}
	var zero P
	s.current = zero
	s.hasCurrent = false
}

// build reads both sources and hands them to the builder.
func (s *scheduler[P]) build() (P, error) {
	var zero P
	vs, err := s.read(s.vertexPath)
	if err != nil {
		return zero, err
	}
	fsrc, err := s.read(s.fragmentPath)
	if err != nil {
		return zero, err
	}
	p, err := s.builder.BuildProgram(vs, fsrc)
	if err != nil {
		return zero, err
	}
	return p, nil
}

func (s *scheduler[P]) read(path string) (string, error) {
	data, err := fs.ReadFile(s.sources, path)
	if err != nil {
		return "", &SourceReadError{Path: path, Err: err}
	}
	return string(data), nil
}

// replace swaps in p and releases the program it supersedes.
func (s *scheduler[P]) replace(p P) {
	old, had := s.current, s.hasCurrent
	s.current = p
	s.hasCurrent = true
	if had {
		old.Release()
	}
}
