package shaders

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/pendulum/engine/parameter"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/shader"
)

func TestUniformBlocksMatchSchema(t *testing.T) {
	want := parameter.DefaultSchema().Names()
	for _, tc := range []struct {
		language shader.Language
		stage    shader.Stage
		// GLSL fragments never read the block.
		declares bool
	}{
		{shader.LanguageWGSL, shader.StageVertex, true},
		{shader.LanguageWGSL, shader.StageFragment, true},
		{shader.LanguageGLSL, shader.StageVertex, true},
		{shader.LanguageGLSL, shader.StageFragment, false},
	} {
		t.Run(tc.language.String()+"/"+tc.stage.String(), func(t *testing.T) {
			vertex, fragment := Paths(tc.language)
			path := vertex
			if tc.stage == shader.StageFragment {
				path = fragment
			}
			src, err := fs.ReadFile(Embedded, path)
			require.NoError(t, err)

			s, err := shader.NewShader(path, tc.stage, tc.language, string(src), shader.WithValidation(false))
			require.NoError(t, err)

			if !tc.declares {
				_, ok := s.UniformFields("Params")
				assert.False(t, ok)
				return
			}
			assert.NoError(t, shader.CheckUniformLayout(s, "Params", want))
		})
	}
}

func TestWGSLBindsParamsAtZero(t *testing.T) {
	vertex, _ := Paths(shader.LanguageWGSL)
	src, err := fs.ReadFile(Embedded, vertex)
	require.NoError(t, err)

	s, err := shader.NewShader(vertex, shader.StageVertex, shader.LanguageWGSL, string(src), shader.WithValidation(false))
	require.NoError(t, err)
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, "params", s.BindGroupVarName(0, 0))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	root, embedded := Open(dir, shader.LanguageGLSL)
	assert.True(t, embedded)
	assert.Equal(t, Embedded, root)

	vertex, fragment := Paths(shader.LanguageGLSL)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "glsl"), 0o755))
	for _, p := range []string{vertex, fragment} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, p), []byte("void main() {}"), 0o644))
	}

	root, embedded = Open(dir, shader.LanguageGLSL)
	assert.False(t, embedded)
	src, err := fs.ReadFile(root, vertex)
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", string(src))

	_, embedded = Open(dir, shader.LanguageWGSL)
	assert.True(t, embedded)
}
