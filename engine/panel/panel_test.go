package panel

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/pendulum/engine/parameter"
)

// MockScreen is a minimal tcell.Screen that records drawn cells.
type MockScreen struct {
	tcell.Screen

	mu     sync.Mutex
	cells  map[[2]int]rune
	shows  int
	inited bool
	fini   bool
	evts   chan tcell.Event
}

func newMockScreen() *MockScreen {
	return &MockScreen{cells: make(map[[2]int]rune), evts: make(chan tcell.Event)}
}

func (m *MockScreen) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inited = true
	return nil
}

func (m *MockScreen) Fini() {
	m.mu.Lock()
	m.fini = true
	m.mu.Unlock()
	close(m.evts)
}

func (m *MockScreen) Size() (int, int) { return 80, 24 }
func (m *MockScreen) Sync()            {}

func (m *MockScreen) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.cells)
}

func (m *MockScreen) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shows++
}

func (m *MockScreen) SetContent(x, y int, mainc rune, _ []rune, _ tcell.Style) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells[[2]int{x, y}] = mainc
}

func (m *MockScreen) PollEvent() tcell.Event {
	ev, ok := <-m.evts
	if !ok {
		return nil
	}
	return ev
}

// row returns the text drawn on line y, trailing blanks trimmed.
func (m *MockScreen) row(y int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for x := 0; x < 120; x++ {
		r, ok := m.cells[[2]int{x, y}]
		if !ok {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func testSnapshot(t *testing.T) parameter.Snapshot {
	t.Helper()
	r, err := parameter.NewRegistry(parameter.DefaultSchema())
	require.NoError(t, err)
	return r.Snapshot()
}

func newTestPanel(t *testing.T) (*panel, *MockScreen) {
	t.Helper()
	screen := newMockScreen()
	p := NewPanel(screen, WithTitle("Curves")).(*panel)
	p.setSnapshot(testSnapshot(t))
	return p, screen
}

func drain(p *panel) []Command {
	var out []Command
	for {
		select {
		case c := <-p.commands:
			out = append(out, c)
		default:
			return out
		}
	}
}

func TestHandleKeyNavigationAndEdits(t *testing.T) {
	p, _ := newTestPanel(t)

	// aspect_ratio is hidden, so the first visible row is point_count at registry index 1.
	assert.True(t, p.handleKey(tcell.KeyRight, 0))
	assert.True(t, p.handleKey(tcell.KeyDown, 0))
	assert.True(t, p.handleKey(tcell.KeyRune, 'h'))
	assert.True(t, p.handleKey(tcell.KeyRune, '+'))
	assert.True(t, p.handleKey(tcell.KeyRune, 'r'))

	assert.Equal(t, []Command{
		{Kind: CommandNudge, Index: 1, Value: 1},
		{Kind: CommandNudge, Index: 2, Value: -1},
		{Kind: CommandNudge, Index: 2, Value: coarseSteps},
		{Kind: CommandReset, Index: 2},
	}, drain(p))
}

func TestHandleKeyToggleOnlyAnimated(t *testing.T) {
	p, _ := newTestPanel(t)

	p.handleKey(tcell.KeyRune, ' ')
	assert.Empty(t, drain(p), "point_count has no animation")

	// zoom, line_thickness, radius0
	for range 3 {
		p.handleKey(tcell.KeyRune, 'j')
	}
	p.handleKey(tcell.KeyEnter, 0)
	i, _ := mustIndex(t, "radius0")
	assert.Equal(t, []Command{{Kind: CommandToggleAnimation, Index: i}}, drain(p))
}

func mustIndex(t *testing.T, name string) (int, bool) {
	t.Helper()
	r, err := parameter.NewRegistry(parameter.DefaultSchema())
	require.NoError(t, err)
	i, ok := r.Index(name)
	require.True(t, ok)
	return i, ok
}

func TestHandleKeySelectionClamps(t *testing.T) {
	p, _ := newTestPanel(t)
	n := len(p.snapshot.Visible())

	p.handleKey(tcell.KeyUp, 0)
	assert.Zero(t, p.selected)
	for range n + 5 {
		p.handleKey(tcell.KeyDown, 0)
	}
	assert.Equal(t, n-1, p.selected)

	p.setSnapshot(parameter.Snapshot{})
	assert.Zero(t, p.selected)
	p.handleKey(tcell.KeyRight, 0)
	assert.Empty(t, drain(p))
}

func TestHandleKeyQuit(t *testing.T) {
	for _, tc := range []struct {
		name string
		key  tcell.Key
		r    rune
	}{
		{"escape", tcell.KeyEscape, 0},
		{"ctrl-c", tcell.KeyCtrlC, 0},
		{"q", tcell.KeyRune, 'q'},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestPanel(t)
			assert.False(t, p.handleKey(tc.key, tc.r))
			assert.Equal(t, []Command{{Kind: CommandQuit}}, drain(p))
		})
	}
}

func TestSendWakesAndDropsWhenFull(t *testing.T) {
	wakes := 0
	p := NewPanel(newMockScreen(), WithCommandBuffer(1), WithWake(func() { wakes++ })).(*panel)
	p.setSnapshot(testSnapshot(t))

	p.handleKey(tcell.KeyRight, 0)
	p.handleKey(tcell.KeyRight, 0)
	assert.Equal(t, 1, wakes)
	assert.Len(t, drain(p), 1)
}

func TestPublishKeepsLatest(t *testing.T) {
	p := NewPanel(newMockScreen()).(*panel)
	p.Publish(parameter.Snapshot{Params: []parameter.View{{Name: "old"}}})
	p.Publish(parameter.Snapshot{Params: []parameter.View{{Name: "new"}}})

	s := <-p.snapshots
	assert.Equal(t, "new", s.Params[0].Name)
	select {
	case <-p.snapshots:
		t.Fatal("stale snapshot kept")
	default:
	}
}

func TestRender(t *testing.T) {
	p, screen := newTestPanel(t)
	p.render()

	assert.Equal(t, "Curves", screen.row(0))
	assert.Equal(t, 1, screen.shows)
	assert.True(t, strings.HasPrefix(screen.row(3), "> point_count"))
	assert.Contains(t, screen.row(3), "200000")
	assert.Contains(t, screen.row(3), "[1000, 1e+06]")
	assert.True(t, strings.HasPrefix(screen.row(4), "  zoom"))
	// line_thickness carries a separator, so radius0 sits one row lower.
	assert.True(t, strings.HasPrefix(screen.row(5), "  line_thickness"))
	assert.Empty(t, screen.row(6))
	assert.Contains(t, screen.row(7), "radius0")
	assert.Contains(t, screen.row(7), "anim off")
}

func TestFormatLine(t *testing.T) {
	v := parameter.View{Name: "zoom", Value: 1.5, Min: 0.1, Max: 4}
	assert.Equal(t, "> zoom                          1.5  [0.1, 4]", formatLine(v, true))

	v.HasAnimation, v.Animated = true, true
	assert.True(t, strings.HasSuffix(formatLine(v, false), "anim on"))
}

func TestStartAndClose(t *testing.T) {
	screen := newMockScreen()
	p := NewPanel(screen)
	require.NoError(t, p.Start(context.Background()))
	assert.Error(t, p.Start(context.Background()))

	p.Publish(testSnapshot(t))
	p.Close()
	p.Close()

	screen.mu.Lock()
	defer screen.mu.Unlock()
	assert.True(t, screen.inited)
	assert.True(t, screen.fini)
}

func TestCloseWithoutStart(t *testing.T) {
	p := NewPanel(newMockScreen())
	p.Close()
}

func TestCommandApply(t *testing.T) {
	r, err := parameter.NewRegistry(parameter.DefaultSchema())
	require.NoError(t, err)
	zoom, _ := r.Index("zoom")
	radius, _ := r.Index("radius0")

	assert.True(t, Command{Kind: CommandSetValue, Index: zoom, Value: 2}.Apply(r))
	assert.Equal(t, float32(2), r.At(zoom).Value())
	assert.True(t, Command{Kind: CommandReset, Index: zoom}.Apply(r))
	assert.Equal(t, float32(1), r.At(zoom).Value())
	assert.True(t, Command{Kind: CommandToggleAnimation, Index: radius}.Apply(r))
	assert.True(t, r.At(radius).Animated())
	assert.False(t, Command{Kind: CommandQuit}.Apply(r))
	assert.False(t, Command{Kind: CommandNudge, Index: 99}.Apply(r))
	assert.Equal(t, "toggle-animation", CommandToggleAnimation.String())
}
