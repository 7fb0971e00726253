package animation

import (
	"fmt"
	"math"
)

// Tau is one full turn in radians.
const Tau = 2 * math.Pi

// Kind identifies which time function an Animation evaluates.
type Kind int

const (
	// KindPhase advances linearly with time and wraps into [0, Tau).
	KindPhase Kind = iota

	// KindOscillate swings sinusoidally around a baseline.
	KindOscillate
)

// String returns the lower-case name of the kind, as used in config files and logs.
func (k Kind) String() string {
	switch k {
	case KindPhase:
		return "phase"
	case KindOscillate:
		return "oscillate"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Animation is a pure mapping from time to a parameter value.
// Each Kind reads only the fields it needs:
//   - KindPhase: mod(t*Rate, Tau)
//   - KindOscillate: Baseline + Spread*sin(t*Rate + Phase)
type Animation struct {
	Kind     Kind
	Rate     float64
	Baseline float64
	Spread   float64
	Phase    float64
}

// Phase builds a wrapping phase animation advancing at rate radians per second.
//
// Parameters:
//   - rate: angular speed in radians per second
//
// Returns:
//   - Animation: the phase animation
func Phase(rate float64) Animation {
	return Animation{Kind: KindPhase, Rate: rate}
}

// Oscillate builds a sinusoidal animation.
//
// Parameters:
//   - baseline: the center value
//   - spread: the amplitude of the swing around baseline
//   - rate: angular speed in radians per second
//   - phase: phase offset in radians
//
// Returns:
//   - Animation: the oscillating animation
func Oscillate(baseline, spread, rate, phase float64) Animation {
	return Animation{
		Kind:     KindOscillate,
		Rate:     rate,
		Baseline: baseline,
		Spread:   spread,
		Phase:    phase,
	}
}

// Eval returns the animation value at time t. The result is not clamped to any range.
//
// Parameters:
//   - t: time in seconds, usually Clock.Time(frame)
//
// Returns:
//   - float32: the animated value
func (a Animation) Eval(t float64) float32 {
	switch a.Kind {
	case KindPhase:
		v := math.Mod(t*a.Rate, Tau)
		if v < 0 {
			v += Tau
		}
		// mod of a tiny negative can round up to exactly Tau
		if v >= Tau {
			v = 0
		}
		return float32(v)
	case KindOscillate:
		return float32(a.Baseline + a.Spread*math.Sin(t*a.Rate+a.Phase))
	default:
		return 0
	}
}
