package panel

import (
	"fmt"

	"github.com/Carmen-Shannon/pendulum/engine/parameter"
)

// CommandKind identifies the edit a Command carries.
type CommandKind int

const (
	// CommandSetValue sets the parameter to Value, clamped to its range.
	CommandSetValue CommandKind = iota

	// CommandNudge moves the parameter by Value steps.
	CommandNudge

	// CommandReset restores the parameter's default.
	CommandReset

	// CommandToggleAnimation flips the parameter's animated flag.
	CommandToggleAnimation

	// CommandQuit asks the render loop to shut down.
	CommandQuit
)

func (k CommandKind) String() string {
	switch k {
	case CommandSetValue:
		return "set"
	case CommandNudge:
		return "nudge"
	case CommandReset:
		return "reset"
	case CommandToggleAnimation:
		return "toggle-animation"
	case CommandQuit:
		return "quit"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// Command is a user edit produced off the render thread and applied on it.
type Command struct {
	Kind  CommandKind
	Index int
	Value float32
}

// Apply performs the edit against the registry. It must run on the thread that owns r.
//
// Parameters:
//   - r: the registry to edit
//
// Returns:
//   - bool: true when the registry accepted the edit; CommandQuit always returns false
func (c Command) Apply(r parameter.Registry) bool {
	switch c.Kind {
	case CommandSetValue:
		return r.SetValue(c.Index, c.Value)
	case CommandNudge:
		return r.Nudge(c.Index, c.Value)
	case CommandReset:
		return r.Reset(c.Index)
	case CommandToggleAnimation:
		return r.ToggleAnimation(c.Index)
	default:
		return false
	}
}
