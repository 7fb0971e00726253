// Package shaders ships the curve program sources. The same tree layout is expected on disk
// when shaders are hot-reloaded from a directory.
package shaders

import (
	"embed"
	"io/fs"
	"os"

	"github.com/Carmen-Shannon/pendulum/engine/renderer/shader"
)

// Embedded holds the sources compiled into the binary.
//
//go:embed wgsl glsl
var Embedded embed.FS

const (
	wgslVertexPath   = "wgsl/pendulum.vert.wgsl"
	wgslFragmentPath = "wgsl/pendulum.frag.wgsl"
	glslVertexPath   = "glsl/pendulum.vert"
	glslFragmentPath = "glsl/pendulum.frag"
)

// Paths returns the vertex and fragment source paths for a language, relative to the shader root.
//
// Parameters:
//   - language: the shading language of the active backend
//
// Returns:
//   - string: the vertex stage path
//   - string: the fragment stage path
func Paths(language shader.Language) (string, string) {
	if language == shader.LanguageGLSL {
		return glslVertexPath, glslFragmentPath
	}
	return wgslVertexPath, wgslFragmentPath
}

// Open picks the shader root. A directory holding both sources for the language is used as is
// so edits on disk are picked up by reloads; otherwise the embedded copies are returned.
//
// Parameters:
//   - dir: the directory to reload from
//   - language: the shading language of the active backend
//
// Returns:
//   - fs.FS: the shader root
//   - bool: true when the embedded copies were chosen
func Open(dir string, language shader.Language) (fs.FS, bool) {
	root := os.DirFS(dir)
	vertex, fragment := Paths(language)
	for _, p := range []string{vertex, fragment} {
		if _, err := fs.Stat(root, p); err != nil {
			return Embedded, true
		}
	}
	return root, false
}
