package parameter

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/pendulum/engine/animation"
)

// AspectRatioName is the schema name of the parameter the render loop overwrites with the
// viewport aspect ratio every frame.
const AspectRatioName = "aspect_ratio"

// PointCountName is the schema name of the parameter that sets the vertex count of the draw.
const PointCountName = "point_count"

// Field describes one parameter in the manifest. The position of a Field in its Schema is
// the position of the matching scalar in the shader's uniform block.
type Field struct {
	Name    string
	Default float32
	Min     float32
	Max     float32

	// Hidden fields are packed but never shown in a control panel.
	Hidden bool

	// Separator asks the panel to draw a divider after this field.
	Separator bool

	// Animation is optional; Animated only has an effect when it is set.
	Animation *animation.Animation
	Animated  bool
}

// Schema is the ordered parameter manifest shared by the registry and the shader layout check.
type Schema []Field

// Names returns the field names in manifest order.
//
// Returns:
//   - []string: one name per field, in order
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Validate checks that every field has a unique non-empty name and that Min <= Max.
//
// Returns:
//   - error: a joined error describing every invalid field, or nil
func (s Schema) Validate() error {
	var errs []error
	seen := make(map[string]int, len(s))
	for i, f := range s {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("field %d: empty name", i))
			continue
		}
		if j, dup := seen[f.Name]; dup {
			errs = append(errs, fmt.Errorf("field %d: name %q already used by field %d", i, f.Name, j))
		}
		seen[f.Name] = i
		if f.Min > f.Max {
			errs = append(errs, fmt.Errorf("field %q: min %v is greater than max %v", f.Name, f.Min, f.Max))
		}
	}
	return errors.Join(errs...)
}

// DefaultSchema returns the manifest for the two-pendulum curve. The order here must match
// struct Params in shaders/wgsl and the Params block in shaders/glsl.
//
// Returns:
//   - Schema: a freshly allocated manifest
func DefaultSchema() Schema {
	s := Schema{
		{Name: AspectRatioName, Default: 1, Min: 0, Max: 16, Hidden: true},
		{Name: PointCountName, Default: 200000, Min: 1000, Max: 1000000},
		{Name: "zoom", Default: 1, Min: 0.1, Max: 4},
		{Name: "line_thickness", Default: 0.0007, Min: 0.0005, Max: 0.01, Separator: true},
	}
	s = append(s, pendulumFields(0, 0.4, 1.5, 155, 2.5, 0.99,
		animation.Oscillate(0.4, 0.2, 0.5, 0), animation.Phase(0.4))...)
	s = append(s, pendulumFields(1, 0.5, 0.5, 85, 1.3, 0.99,
		animation.Oscillate(0.5, 0.15, 0.3, 1), animation.Phase(0.25))...)
	return s
}

func pendulumFields(k int, radius, phase, period, amplitude, decay float32, radiusAnim, phaseAnim animation.Animation) []Field {
	return []Field{
		{Name: fmt.Sprintf("radius%d", k), Default: radius, Min: 0, Max: 0.7, Animation: &radiusAnim},
		{Name: fmt.Sprintf("initial_phase%d", k), Default: phase, Min: 0, Max: animation.Tau, Animation: &phaseAnim},
		{Name: fmt.Sprintf("period%d", k), Default: period, Min: 0, Max: 200},
		{Name: fmt.Sprintf("initial_amplitude%d", k), Default: amplitude, Min: 0, Max: animation.Tau},
		{Name: fmt.Sprintf("amplitude_decay%d", k), Default: decay, Min: 0.9, Max: 1, Separator: true},
	}
}
