package reload

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vertPath = "pendulum.vert"
	fragPath = "pendulum.frag"
)

type fakeProgram struct {
	vertex   string
	released int
}

func (p *fakeProgram) Release() {
	p.released++
}

// fakeBuilder fails on any source containing "broken" and records every build.
type fakeBuilder struct {
	builds int
	built  []*fakeProgram
}

func (b *fakeBuilder) BuildProgram(vs, fs string) (*fakeProgram, error) {
	b.builds++
	if vs == "broken" || fs == "broken" {
		return nil, errors.New("syntax error")
	}
	p := &fakeProgram{vertex: vs}
	b.built = append(b.built, p)
	return p, nil
}

func sources(vs, fs string) fstest.MapFS {
	return fstest.MapFS{
		vertPath: &fstest.MapFile{Data: []byte(vs)},
		fragPath: &fstest.MapFile{Data: []byte(fs)},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScheduler(b *fakeBuilder, src fs.FS, options ...SchedulerBuilderOption) Scheduler[*fakeProgram] {
	options = append([]SchedulerBuilderOption{WithLogger(quietLogger())}, options...)
	return NewScheduler[*fakeProgram](b, src, vertPath, fragPath, options...)
}

func TestStartBuildsInitialProgram(t *testing.T) {
	b := &fakeBuilder{}
	s := newTestScheduler(b, sources("v1", "f1"))

	_, ok := s.Current()
	assert.False(t, ok)

	require.NoError(t, s.Start())
	p, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "v1", p.vertex)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, Stats{}, s.Stats())
}

func TestStartFailsOnBadSource(t *testing.T) {
	b := &fakeBuilder{}
	s := newTestScheduler(b, sources("broken", "f1"))

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestStartFailsOnMissingSource(t *testing.T) {
	b := &fakeBuilder{}
	s := newTestScheduler(b, fstest.MapFS{
		vertPath: &fstest.MapFile{Data: []byte("v1")},
	})

	err := s.Start()
	var readErr *SourceReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, fragPath, readErr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, 0, b.builds)
}

func TestTickCadence(t *testing.T) {
	b := &fakeBuilder{}
	s := newTestScheduler(b, sources("v1", "f1"))
	require.NoError(t, s.Start())

	var attempted []uint64
	for frame := uint64(0); frame < 180; frame++ {
		if res := s.Tick(frame); res.Attempted {
			attempted = append(attempted, frame)
			assert.True(t, res.Reloaded)
			assert.NoError(t, res.Err)
		}
		assert.Equal(t, StateIdle, s.State())
	}

	assert.Equal(t, []uint64{0, 60, 120}, attempted)
	assert.Equal(t, Stats{Attempts: 3, Successes: 3}, s.Stats())
	assert.Equal(t, 4, b.builds)
}

func TestTickCustomInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		want     uint64
	}{
		{"ten", 10, 10},
		{"zero keeps default", 0, DefaultInterval},
		{"negative keeps default", -5, DefaultInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler(&fakeBuilder{}, sources("v", "f"), WithInterval(tt.interval))
			assert.Equal(t, tt.want, s.Interval())
		})
	}

	s := newTestScheduler(&fakeBuilder{}, sources("v", "f"), WithInterval(10))
	require.NoError(t, s.Start())
	attempts := 0
	for frame := uint64(1); frame <= 100; frame++ {
		if s.Tick(frame).Attempted {
			attempts++
		}
	}
	assert.Equal(t, 10, attempts)
}

func TestFailedReloadKeepsCurrentProgram(t *testing.T) {
	b := &fakeBuilder{}
	src := sources("v1", "f1")
	s := newTestScheduler(b, src)
	require.NoError(t, s.Start())
	before, _ := s.Current()

	src[vertPath].Data = []byte("broken")
	res := s.Tick(60)
	assert.True(t, res.Attempted)
	assert.False(t, res.Reloaded)
	require.Error(t, res.Err)

	after, ok := s.Current()
	require.True(t, ok)
	assert.Same(t, before, after)
	assert.Equal(t, 0, before.released)
	assert.Equal(t, Stats{Attempts: 1, Failures: 1}, s.Stats())
}

func TestReloadAfterFailureReplacesAndReleases(t *testing.T) {
	b := &fakeBuilder{}
	src := sources("v1", "f1")
	s := newTestScheduler(b, src)
	require.NoError(t, s.Start())
	first, _ := s.Current()

	src[fragPath].Data = []byte("broken")
	require.Error(t, s.Tick(60).Err)

	src[fragPath].Data = []byte("f2")
	src[vertPath].Data = []byte("v2")
	res := s.Tick(120)
	assert.True(t, res.Reloaded)

	second, ok := s.Current()
	require.True(t, ok)
	assert.NotSame(t, first, second)
	assert.Equal(t, "v2", second.vertex)
	assert.Equal(t, 1, first.released)
	assert.Equal(t, 0, second.released)
	assert.Equal(t, Stats{Attempts: 2, Successes: 1, Failures: 1}, s.Stats())
}

func TestReloadMissingFileKeepsProgram(t *testing.T) {
	b := &fakeBuilder{}
	src := sources("v1", "f1")
	s := newTestScheduler(b, src)
	require.NoError(t, s.Start())
	before, _ := s.Current()

	delete(src, vertPath)
	res := s.Tick(0)
	var readErr *SourceReadError
	require.ErrorAs(t, res.Err, &readErr)
	assert.Equal(t, vertPath, readErr.Path)

	after, _ := s.Current()
	assert.Same(t, before, after)
}

func TestNonBoundaryFramesDoNothing(t *testing.T) {
	b := &fakeBuilder{}
	s := newTestScheduler(b, sources("v1", "f1"))
	require.NoError(t, s.Start())

	for _, frame := range []uint64{1, 59, 61, 119} {
		assert.Equal(t, Result{}, s.Tick(frame))
	}
	assert.Equal(t, 1, b.builds)
}

func TestReleaseDropsProgram(t *testing.T) {
	b := &fakeBuilder{}
	s := newTestScheduler(b, sources("v1", "f1"))
	require.NoError(t, s.Start())
	p, _ := s.Current()

	s.Release()
	assert.Equal(t, 1, p.released)
	_, ok := s.Current()
	assert.False(t, ok)

	s.Release()
	assert.Equal(t, 1, p.released)
}

func TestBuilderFunc(t *testing.T) {
	calls := 0
	builder := BuilderFunc[*fakeProgram](func(vs, fs string) (*fakeProgram, error) {
		calls++
		return &fakeProgram{vertex: vs}, nil
	})
	s := NewScheduler[*fakeProgram](builder, sources("v", "f"), vertPath, fragPath, WithLogger(quietLogger()))
	require.NoError(t, s.Start())
	assert.Equal(t, 1, calls)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "reload-due", StateReloadDue.String())
	assert.Equal(t, "reloading", StateReloading.String())
	assert.Equal(t, "state(7)", State(7).String())
}
