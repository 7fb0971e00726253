package parameter

import (
	"fmt"
	"math"
)

// registry is the implementation of the Registry interface.
type registry struct {
	schema Schema
	params []*Parameter
	index  map[string]int

	aspectName  string
	aspectIndex int

	pendingAnimated []string
}

// Registry is the fixed, ordered collection of parameters. Iteration order equals Schema order
// and is the order used for uniform packing. A Registry is owned by the render thread and is not
// safe for concurrent use.
type Registry interface {
	// Len returns the number of parameters. It never changes after construction.
	//
	// Returns:
	//   - int: the parameter count
	Len() int

	// At returns the parameter at position i.
	//
	// Parameters:
	//   - i: the zero-based position
	//
	// Returns:
	//   - *Parameter: the parameter, or nil when i is out of range
	At(i int) *Parameter

	// Index finds the position of the named parameter.
	//
	// Parameters:
	//   - name: the parameter name
	//
	// Returns:
	//   - int: the position, or -1 when not found
	//   - bool: true when found
	Index(name string) (int, bool)

	// Schema returns the manifest the registry was built from.
	//
	// Returns:
	//   - Schema: the manifest
	Schema() Schema

	// SetAspectRatio writes width/height into the aspect ratio slot.
	// A non-positive height leaves the slot unchanged.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	SetAspectRatio(width, height int)

	// SetValue sets a manual value clamped to the parameter's range.
	//
	// Parameters:
	//   - i: the parameter position
	//   - v: the requested value
	//
	// Returns:
	//   - bool: false when i is out of range
	SetValue(i int, v float32) bool

	// Nudge moves the value by steps * Step(), clamped to the range.
	//
	// Parameters:
	//   - i: the parameter position
	//   - steps: signed number of steps, fractions allowed
	//
	// Returns:
	//   - bool: false when i is out of range
	Nudge(i int, steps float32) bool

	// Reset restores the default value.
	//
	// Parameters:
	//   - i: the parameter position
	//
	// Returns:
	//   - bool: false when i is out of range
	Reset(i int) bool

	// SetAnimated enables or pauses the parameter's animation.
	//
	// Parameters:
	//   - i: the parameter position
	//   - on: true to let the animation drive the value
	//
	// Returns:
	//   - bool: false when i is out of range or no animation is attached
	SetAnimated(i int, on bool) bool

	// ToggleAnimation flips the animated flag.
	//
	// Parameters:
	//   - i: the parameter position
	//
	// Returns:
	//   - bool: false when i is out of range or no animation is attached
	ToggleAnimation(i int) bool

	// Animate evaluates every running animation at time t and stores the results unclamped.
	//
	// Parameters:
	//   - t: animation time in seconds
	//
	// Returns:
	//   - bool: true when at least one animation was applied
	Animate(t float64) bool

	// Snapshot copies the presentation state of every parameter.
	//
	// Returns:
	//   - Snapshot: an immutable copy safe to hand to another goroutine
	Snapshot() Snapshot
}

var _ Registry = &registry{}

// NewRegistry builds a registry from a validated schema.
//
// Parameters:
//   - schema: the ordered manifest; it is copied
//   - options: functional options applied before validation
//
// Returns:
//   - Registry: the registry with every value at its default
//   - error: an error if the schema or an option is invalid
func NewRegistry(schema Schema, options ...RegistryBuilderOption) (Registry, error) {
	r := &registry{
		schema:      append(Schema(nil), schema...),
		index:       make(map[string]int, len(schema)),
		aspectName:  AspectRatioName,
		aspectIndex: -1,
	}
	for _, opt := range options {
		opt(r)
	}

	if err := r.schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameter schema: %w", err)
	}

	r.params = make([]*Parameter, len(r.schema))
	for i, f := range r.schema {
		r.params[i] = newParameter(f)
		r.index[f.Name] = i
	}
	if i, ok := r.index[r.aspectName]; ok {
		r.aspectIndex = i
	}

	for _, name := range r.pendingAnimated {
		i, ok := r.index[name]
		if !ok {
			return nil, fmt.Errorf("cannot animate %q: no such parameter", name)
		}
		if !r.SetAnimated(i, true) {
			return nil, fmt.Errorf("cannot animate %q: parameter has no animation", name)
		}
	}
	r.pendingAnimated = nil

	return r, nil
}

func (r *registry) Len() int {
	return len(r.params)
}

func (r *registry) At(i int) *Parameter {
	if i < 0 || i >= len(r.params) {
		return nil
	}
	return r.params[i]
}

func (r *registry) Index(name string) (int, bool) {
	i, ok := r.index[name]
	if !ok {
		return -1, false
	}
	return i, true
}

func (r *registry) Schema() Schema {
	return r.schema
}

func (r *registry) SetAspectRatio(width, height int) {
	if r.aspectIndex < 0 || height <= 0 {
		return
	}
	r.params[r.aspectIndex].value = float32(width) / float32(height)
}

func (r *registry) SetValue(i int, v float32) bool {
	p := r.At(i)
	if p == nil {
		return false
	}
	if math.IsNaN(float64(v)) {
		return true
	}
	p.value = p.clamp(v)
	return true
}

func (r *registry) Nudge(i int, steps float32) bool {
	p := r.At(i)
	if p == nil {
		return false
	}
	p.value = p.clamp(p.value + steps*p.Step())
	return true
}

func (r *registry) Reset(i int) bool {
	p := r.At(i)
	if p == nil {
		return false
	}
	p.value = p.def
	return true
}

func (r *registry) SetAnimated(i int, on bool) bool {
	p := r.At(i)
	if p == nil || p.anim == nil {
		return false
	}
	p.animated = on
	return true
}

func (r *registry) ToggleAnimation(i int) bool {
	p := r.At(i)
	if p == nil || p.anim == nil {
		return false
	}
	p.animated = !p.animated
	return true
}

func (r *registry) Animate(t float64) bool {
	applied := false
	for _, p := range r.params {
		if !p.animated || p.anim == nil {
			continue
		}
		p.value = p.anim.Eval(t)
		applied = true
	}
	return applied
}

func (r *registry) Snapshot() Snapshot {
	views := make([]View, len(r.params))
	for i, p := range r.params {
		views[i] = View{
			Index:        i,
			Name:         p.name,
			Value:        p.value,
			Min:          p.min,
			Max:          p.max,
			Visible:      p.visible,
			Separator:    p.separator,
			HasAnimation: p.anim != nil,
			Animated:     p.Animated(),
		}
	}
	return Snapshot{Params: views}
}
