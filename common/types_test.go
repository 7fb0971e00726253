package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorFromSlice(t *testing.T) {
	c, err := ColorFromSlice([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	assert.Equal(t, DefaultClearColor, c)

	c, err = ColorFromSlice([]float64{1, 0, 0, 0.5})
	require.NoError(t, err)
	assert.Equal(t, Color{R: 1, A: 0.5}, c)

	_, err = ColorFromSlice([]float64{1, 0})
	assert.Error(t, err)
	_, err = ColorFromSlice([]float64{1, 0, 2})
	assert.Error(t, err)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(float32(3), 0, 1))
	assert.Equal(t, float32(0), Clamp(float32(-2), 0, 1))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}
