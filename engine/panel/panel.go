package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/Carmen-Shannon/pendulum/engine/parameter"
)

// coarseSteps is the nudge size for the +/- keys.
const coarseSteps = 10

// panel is the implementation of the Panel interface.
type panel struct {
	screen tcell.Screen
	title  string
	logger *slog.Logger
	wake   func()

	commands  chan Command
	snapshots chan parameter.Snapshot
	events    chan tcell.Event
	quit      chan struct{}
	done      chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	started   bool

	// Owned by the loop goroutine once started.
	snapshot parameter.Snapshot
	selected int
}

// Panel is a terminal control panel listing every visible parameter. It never touches the
// registry: edits leave through Commands and state arrives through Publish.
type Panel interface {
	// Start initializes the terminal and launches the input and draw goroutines.
	//
	// Parameters:
	//   - ctx: cancelling it stops the panel
	//
	// Returns:
	//   - error: an error if the terminal could not be initialized
	Start(ctx context.Context) error

	// Commands returns the channel of user edits. The render thread drains it without blocking.
	//
	// Returns:
	//   - <-chan Command: the edit channel
	Commands() <-chan Command

	// Publish hands the panel a new snapshot. Only the latest unconsumed snapshot is kept.
	// Never blocks.
	//
	// Parameters:
	//   - s: the snapshot to display
	Publish(s parameter.Snapshot)

	// Close stops the goroutines and restores the terminal. Safe to call more than once.
	Close()
}

var _ Panel = &panel{}

// NewPanel creates a panel drawing on the given screen.
//
// Parameters:
//   - screen: an uninitialized tcell screen, usually from tcell.NewScreen
//   - options: functional options
//
// Returns:
//   - Panel: the panel, not yet started
func NewPanel(screen tcell.Screen, options ...PanelBuilderOption) Panel {
	p := &panel{
		screen:    screen,
		title:     "Pendulum",
		logger:    slog.Default(),
		wake:      func() {},
		commands:  make(chan Command, 64),
		snapshots: make(chan parameter.Snapshot, 1),
		events:    make(chan tcell.Event, 16),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *panel) Start(ctx context.Context) error {
	err := errors.New("panel already started")
	p.startOnce.Do(func() {
		if err = p.screen.Init(); err != nil {
			err = fmt.Errorf("panel terminal init: %w", err)
			return
		}
		p.started = true
		p.screen.Clear()
		go p.poll()
		go p.loop(ctx)
	})
	return err
}

func (p *panel) Commands() <-chan Command {
	return p.commands
}

func (p *panel) Publish(s parameter.Snapshot) {
	for {
		select {
		case p.snapshots <- s:
			return
		default:
		}
		// Drop the stale snapshot and retry.
		select {
		case <-p.snapshots:
		default:
		}
	}
}

func (p *panel) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
		if !p.started {
			return
		}
		<-p.done
		p.screen.Fini()
	})
}

// poll pumps terminal events until the screen is finalized.
func (p *panel) poll() {
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case p.events <- ev:
		case <-p.quit:
			return
		}
	}
}

func (p *panel) loop(ctx context.Context) {
	defer close(p.done)
	p.render()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.quit:
			return
		case s := <-p.snapshots:
			p.setSnapshot(s)
		case ev := <-p.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !p.handleKey(ev.Key(), ev.Rune()) {
					return
				}
			case *tcell.EventResize:
				p.screen.Sync()
			}
		}
		p.render()
	}
}

func (p *panel) setSnapshot(s parameter.Snapshot) {
	p.snapshot = s
	if n := len(s.Visible()); p.selected >= n {
		p.selected = max(n-1, 0)
	}
}

// handleKey maps a key press to a selection change or a Command.
//
// Returns:
//   - bool: false when the key asked the panel to quit
func (p *panel) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		p.send(Command{Kind: CommandQuit})
		return false
	case tcell.KeyUp:
		p.moveSelection(-1)
		return true
	case tcell.KeyDown:
		p.moveSelection(1)
		return true
	case tcell.KeyLeft:
		p.edit(CommandNudge, -1)
		return true
	case tcell.KeyRight:
		p.edit(CommandNudge, 1)
		return true
	case tcell.KeyEnter:
		p.edit(CommandToggleAnimation, 0)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch r {
	case 'q':
		p.send(Command{Kind: CommandQuit})
		return false
	case 'k':
		p.moveSelection(-1)
	case 'j':
		p.moveSelection(1)
	case 'h':
		p.edit(CommandNudge, -1)
	case 'l':
		p.edit(CommandNudge, 1)
	case '-':
		p.edit(CommandNudge, -coarseSteps)
	case '+', '=':
		p.edit(CommandNudge, coarseSteps)
	case ' ':
		p.edit(CommandToggleAnimation, 0)
	case 'r':
		p.edit(CommandReset, 0)
	}
	return true
}

func (p *panel) moveSelection(delta int) {
	n := len(p.snapshot.Visible())
	if n == 0 {
		return
	}
	p.selected = min(max(p.selected+delta, 0), n-1)
}

// edit sends a command for the selected parameter.
func (p *panel) edit(kind CommandKind, value float32) {
	visible := p.snapshot.Visible()
	if p.selected >= len(visible) {
		return
	}
	v := visible[p.selected]
	if kind == CommandToggleAnimation && !v.HasAnimation {
		return
	}
	p.send(Command{Kind: kind, Index: v.Index, Value: value})
}

func (p *panel) send(c Command) {
	select {
	case p.commands <- c:
		p.wake()
	default:
		p.logger.Warn("panel command dropped", "command", c.Kind.String(), "index", c.Index)
	}
}

func (p *panel) render() {
	p.screen.Clear()
	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	p.drawText(0, 0, p.title, bold)
	p.drawText(0, 1, "up/down select  left/right adjust  -/+ coarse  space animate  r reset  q quit", dim)

	y := 3
	for i, v := range p.snapshot.Visible() {
		style := tcell.StyleDefault
		if i == p.selected {
			style = style.Reverse(true)
		}
		p.drawText(0, y, formatLine(v, i == p.selected), style)
		y++
		if v.Separator {
			y++
		}
	}
	p.screen.Show()
}

func (p *panel) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// formatLine renders one parameter row: marker, name, value, range and animation state.
func formatLine(v parameter.View, selected bool) string {
	marker := " "
	if selected {
		marker = ">"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-20s %12s  [%s, %s]", marker, v.Name, formatValue(v.Value), formatValue(v.Min), formatValue(v.Max))
	if v.HasAnimation {
		if v.Animated {
			b.WriteString("  anim on")
		} else {
			b.WriteString("  anim off")
		}
	}
	return b.String()
}

func formatValue(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', 6, 32)
}
