package shader

import (
	"errors"
	"fmt"
	"slices"
)

var errEmptySource = errors.New("empty source")

// CompileError reports a shader stage that failed to parse, validate or compile.
type CompileError struct {
	Key   string
	Stage Stage
	Err   error
}

func (e *CompileError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("compile %s shader: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("compile %s shader %q: %v", e.Stage, e.Key, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// LayoutError reports a uniform block whose fields do not match the expected order, or a
// field that is not a 32-bit float. Got is nil when the block is missing entirely.
type LayoutError struct {
	Block string
	Want  []string
	Got   []string

	// Field and Type name the first field with an unsupported type.
	Field string
	Type  string
}

func (e *LayoutError) Error() string {
	switch {
	case e.Got == nil:
		return fmt.Sprintf("uniform block %q not declared; want fields %v", e.Block, e.Want)
	case e.Field != "":
		return fmt.Sprintf("uniform block %q field %q has type %s; want a 32-bit float", e.Block, e.Field, e.Type)
	default:
		return fmt.Sprintf("uniform block %q has fields %v; want %v", e.Block, e.Got, e.Want)
	}
}

// scalarFloatTypes are the declarations matching one packed float32 at a 4-byte stride.
var scalarFloatTypes = map[Language]string{
	LanguageWGSL: "f32",
	LanguageGLSL: "float",
}

// CheckUniformLayout verifies that the shader declares the named uniform block with
// exactly the wanted fields in the wanted order, each a scalar 32-bit float.
//
// Parameters:
//   - s: the shader to inspect
//   - block: the uniform struct or block name
//   - want: the expected field names in order
//
// Returns:
//   - error: a *LayoutError on mismatch, nil otherwise
func CheckUniformLayout(s Shader, block string, want []string) error {
	fields, ok := s.UniformLayout(block)
	if !ok {
		return &LayoutError{Block: block, Want: want}
	}
	got := make([]string, len(fields))
	for i, f := range fields {
		got[i] = f.Name
	}
	if !slices.Equal(got, want) {
		return &LayoutError{Block: block, Want: want, Got: got}
	}
	for _, f := range fields {
		if f.Type != scalarFloatTypes[s.Language()] {
			return &LayoutError{Block: block, Want: want, Got: got, Field: f.Name, Type: f.Type}
		}
	}
	return nil
}
