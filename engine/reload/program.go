package reload

import "fmt"

// Program is a compiled shader program the scheduler can own and drop.
type Program interface {
	// Release frees the GPU objects behind the program. It is called once, when the program
	// is superseded by a newer build or when the scheduler is released.
	Release()
}

// ProgramBuilder compiles vertex and fragment source into a Program.
// Implementations report bad source as an error and must not return a usable program with it.
type ProgramBuilder[P Program] interface {
	// BuildProgram compiles and links a program from the two stage sources.
	//
	// Parameters:
	//   - vertexSource: the vertex stage source text
	//   - fragmentSource: the fragment stage source text
	//
	// Returns:
	//   - P: the built program
	//   - error: an error if the program could not be built
	BuildProgram(vertexSource, fragmentSource string) (P, error)
}

// BuilderFunc adapts a plain function to a ProgramBuilder.
type BuilderFunc[P Program] func(vertexSource, fragmentSource string) (P, error)

// BuildProgram calls f(vertexSource, fragmentSource).
func (f BuilderFunc[P]) BuildProgram(vertexSource, fragmentSource string) (P, error) {
	return f(vertexSource, fragmentSource)
}

// SourceReadError reports a shader source that could not be read.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read shader source %q: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}
