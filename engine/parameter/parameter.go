package parameter

import (
	"github.com/Carmen-Shannon/pendulum/common"
	"github.com/Carmen-Shannon/pendulum/engine/animation"
)

// Parameter is a named bounded scalar with an optional animation.
// Only the value and the animated flag change after construction, and only through the Registry.
type Parameter struct {
	name      string
	value     float32
	def       float32
	min       float32
	max       float32
	visible   bool
	separator bool
	animated  bool
	anim      *animation.Animation
}

func newParameter(f Field) *Parameter {
	p := &Parameter{
		name:      f.Name,
		value:     f.Default,
		def:       f.Default,
		min:       f.Min,
		max:       f.Max,
		visible:   !f.Hidden,
		separator: f.Separator,
	}
	if f.Animation != nil {
		a := *f.Animation
		p.anim = &a
		p.animated = f.Animated
	}
	return p
}

// Name returns the display name.
func (p *Parameter) Name() string { return p.name }

// Value returns the current value. Animated values may lie outside [Min, Max].
func (p *Parameter) Value() float32 { return p.value }

// Default returns the value the parameter started with.
func (p *Parameter) Default() float32 { return p.def }

// Min returns the lower bound of the editable range.
func (p *Parameter) Min() float32 { return p.min }

// Max returns the upper bound of the editable range.
func (p *Parameter) Max() float32 { return p.max }

// Visible reports whether the parameter is shown in a control panel.
func (p *Parameter) Visible() bool { return p.visible }

// Separator reports whether a divider follows this parameter in a control panel.
func (p *Parameter) Separator() bool { return p.separator }

// Animated reports whether the animation currently drives the value.
func (p *Parameter) Animated() bool { return p.animated && p.anim != nil }

// HasAnimation reports whether an animation is attached, running or paused.
func (p *Parameter) HasAnimation() bool { return p.anim != nil }

// Animation returns the attached animation, if any.
//
// Returns:
//   - animation.Animation: a copy of the attached animation
//   - bool: false when the parameter is purely manual
func (p *Parameter) Animation() (animation.Animation, bool) {
	if p.anim == nil {
		return animation.Animation{}, false
	}
	return *p.anim, true
}

// Step returns the increment used by keyboard nudges, one hundredth of the range.
func (p *Parameter) Step() float32 {
	return (p.max - p.min) / 100
}

func (p *Parameter) clamp(v float32) float32 {
	return common.Clamp(v, p.min, p.max)
}
