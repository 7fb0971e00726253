package parameter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/pendulum/engine/animation"
)

func scenarioSchema() Schema {
	radius := animation.Oscillate(0.5, 0.3, 1, 0)
	return Schema{
		{Name: AspectRatioName, Default: 1, Min: 0, Max: 16, Hidden: true},
		{Name: PointCountName, Default: 200000, Min: 1000, Max: 1000000},
		{Name: "zoom", Default: 1, Min: 0.1, Max: 4},
		{Name: "line_thickness", Default: 0.0007, Min: 0.0005, Max: 0.01},
		{Name: "radius0", Default: 0.4, Min: 0, Max: 0.7, Animation: &radius, Animated: true},
	}
}

func TestNewRegistryKeepsSchemaOrder(t *testing.T) {
	s := scenarioSchema()
	r, err := NewRegistry(s)
	require.NoError(t, err)
	require.Equal(t, len(s), r.Len())

	for i, f := range s {
		p := r.At(i)
		require.NotNil(t, p)
		assert.Equal(t, f.Name, p.Name())
		assert.Equal(t, f.Default, p.Value())
		assert.Equal(t, !f.Hidden, p.Visible())
	}
	assert.Nil(t, r.At(-1))
	assert.Nil(t, r.At(len(s)))
}

func TestNewRegistryCopiesSchema(t *testing.T) {
	s := scenarioSchema()
	r, err := NewRegistry(s)
	require.NoError(t, err)

	s[1].Name = "renamed"
	assert.Equal(t, PointCountName, r.At(1).Name())
	assert.Equal(t, PointCountName, r.Schema()[1].Name)
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		wantErr string
	}{
		{"default schema", DefaultSchema(), ""},
		{"min above max", Schema{{Name: "a", Min: 2, Max: 1}}, "min 2 is greater than max 1"},
		{"duplicate", Schema{{Name: "a"}, {Name: "a"}}, `name "a" already used by field 0`},
		{"empty name", Schema{{Name: ""}}, "empty name"},
		{"min equals max", Schema{{Name: "a", Min: 1, Max: 1}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err := NewRegistry(Schema{{Name: "a", Min: 2, Max: 1}})
	assert.ErrorContains(t, err, "invalid parameter schema")
}

func TestDefaultSchemaLayout(t *testing.T) {
	s := DefaultSchema()
	assert.Equal(t, []string{
		"aspect_ratio", "point_count", "zoom", "line_thickness",
		"radius0", "initial_phase0", "period0", "initial_amplitude0", "amplitude_decay0",
		"radius1", "initial_phase1", "period1", "initial_amplitude1", "amplitude_decay1",
	}, s.Names())
	assert.True(t, s[0].Hidden)
	for _, f := range s[1:] {
		assert.False(t, f.Hidden, f.Name)
		assert.GreaterOrEqual(t, f.Default, f.Min, f.Name)
		assert.LessOrEqual(t, f.Default, f.Max, f.Name)
	}
}

func TestSetAspectRatio(t *testing.T) {
	r, err := NewRegistry(scenarioSchema())
	require.NoError(t, err)

	r.SetAspectRatio(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, float64(r.At(0).Value()), 1e-6)

	r.SetAspectRatio(800, 0)
	assert.InDelta(t, 1920.0/1080.0, float64(r.At(0).Value()), 1e-6)

	noAspect, err := NewRegistry(scenarioSchema(), WithAspectRatioParameter("missing"))
	require.NoError(t, err)
	noAspect.SetAspectRatio(100, 50)
	assert.Equal(t, float32(1), noAspect.At(0).Value())
}

func TestManualEditsAreClamped(t *testing.T) {
	r, err := NewRegistry(scenarioSchema())
	require.NoError(t, err)
	zoom, ok := r.Index("zoom")
	require.True(t, ok)

	assert.True(t, r.SetValue(zoom, 10))
	assert.Equal(t, float32(4), r.At(zoom).Value())

	assert.True(t, r.SetValue(zoom, -3))
	assert.Equal(t, float32(0.1), r.At(zoom).Value())

	assert.True(t, r.SetValue(zoom, 2))
	assert.True(t, r.Nudge(zoom, 1))
	assert.InDelta(t, 2.039, float64(r.At(zoom).Value()), 1e-5)

	assert.True(t, r.Nudge(zoom, 1000))
	assert.Equal(t, float32(4), r.At(zoom).Value())

	assert.True(t, r.Reset(zoom))
	assert.Equal(t, float32(1), r.At(zoom).Value())

	assert.False(t, r.SetValue(99, 1))
	assert.False(t, r.Nudge(-1, 1))
	assert.False(t, r.Reset(99))
}

func TestAnimationToggle(t *testing.T) {
	r, err := NewRegistry(scenarioSchema())
	require.NoError(t, err)
	radius, _ := r.Index("radius0")
	zoom, _ := r.Index("zoom")

	assert.True(t, r.At(radius).Animated())
	assert.True(t, r.ToggleAnimation(radius))
	assert.False(t, r.At(radius).Animated())
	assert.True(t, r.At(radius).HasAnimation())

	assert.False(t, r.ToggleAnimation(zoom))
	assert.False(t, r.SetAnimated(zoom, true))
	assert.False(t, r.At(zoom).Animated())
	assert.False(t, r.At(zoom).HasAnimation())
}

func TestAnimateOnlyRunningAnimations(t *testing.T) {
	r, err := NewRegistry(scenarioSchema())
	require.NoError(t, err)
	radius, _ := r.Index("radius0")

	assert.True(t, r.Animate(0))
	assert.Equal(t, float32(0.5), r.At(radius).Value())

	r.SetAnimated(radius, false)
	r.SetValue(radius, 0.1)
	assert.False(t, r.Animate(1))
	assert.Equal(t, float32(0.1), r.At(radius).Value())
}

func TestAnimatedValuesAreNotClamped(t *testing.T) {
	escape := animation.Oscillate(5, 0, 1, 0)
	r, err := NewRegistry(Schema{{Name: "x", Min: 0, Max: 1, Animation: &escape, Animated: true}})
	require.NoError(t, err)

	assert.True(t, r.Animate(3))
	assert.Equal(t, float32(5), r.At(0).Value())
}

func TestWithAnimated(t *testing.T) {
	r, err := NewRegistry(DefaultSchema(), WithAnimated("initial_phase0", "radius1"))
	require.NoError(t, err)
	for i := 0; i < r.Len(); i++ {
		p := r.At(i)
		want := p.Name() == "initial_phase0" || p.Name() == "radius1"
		assert.Equal(t, want, p.Animated(), p.Name())
	}

	_, err = NewRegistry(DefaultSchema(), WithAnimated("nope"))
	assert.ErrorContains(t, err, `cannot animate "nope": no such parameter`)

	_, err = NewRegistry(DefaultSchema(), WithAnimated("zoom"))
	assert.ErrorContains(t, err, "has no animation")
}

func TestSnapshotIsACopy(t *testing.T) {
	r, err := NewRegistry(scenarioSchema())
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Len(t, snap.Params, r.Len())
	assert.Len(t, snap.Visible(), r.Len()-1)
	assert.Equal(t, PointCountName, snap.Visible()[0].Name)

	r.SetValue(2, 3)
	assert.Equal(t, float32(1), snap.Params[2].Value)
	assert.True(t, snap.Params[4].HasAnimation)
	assert.True(t, snap.Params[4].Animated)
}
