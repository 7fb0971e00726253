package shader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Stage identifies the pipeline stage a shader is compiled for.
type Stage int

const (
	// StageVertex is the vertex stage, which generates the curve geometry.
	StageVertex Stage = iota

	// StageFragment is the fragment stage, which colors the rasterized strip.
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Language identifies the shading language of a shader source.
type Language int

const (
	// LanguageWGSL is consumed by the WGPU backend.
	LanguageWGSL Language = iota

	// LanguageGLSL is GLSL 4.10 core, consumed by the OpenGL backend.
	LanguageGLSL
)

func (l Language) String() string {
	switch l {
	case LanguageWGSL:
		return "wgsl"
	case LanguageGLSL:
		return "glsl"
	default:
		return fmt.Sprintf("language(%d)", int(l))
	}
}

// glslEntryPoint is the fixed entry point of every GLSL stage.
const glslEntryPoint = "main"

// UniformField is one member of a uniform block as declared in the source.
type UniformField struct {
	Name string

	// Type is the declared type text, e.g. "f32", "vec4<f32>", "float" or "float[4]".
	Type string
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	stage      Stage
	language   Language
	entryPoint string
	validate   bool

	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	uniformBlocks              map[string][]UniformField
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed shader stage. It exposes the metadata a backend needs to build a
// pipeline around the source: entry point, resource layout and the field order of
// every uniform block it declares.
type Shader interface {
	// Key retrieves the identifier used as the module label and in error messages.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// Source retrieves the shader source text.
	//
	// Returns:
	//   - string: the source text
	Source() string

	// Stage returns the stage the shader was parsed for.
	//
	// Returns:
	//   - Stage: StageVertex or StageFragment
	Stage() Stage

	// Language returns the shading language of the source.
	//
	// Returns:
	//   - Language: LanguageWGSL or LanguageGLSL
	Language() Language

	// EntryPoint returns the entry point function name. GLSL stages always use "main".
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// BindGroupLayoutDescriptors retrieves the bind group layouts declared by a WGSL source.
	// GLSL shaders return an empty map.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name bound at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if nothing is bound there
	BindGroupVarName(group, binding int) string

	// UniformFields returns the field names of a uniform block in declaration order.
	// For WGSL the block is the struct bound with var<uniform>; for GLSL it is the
	// interface block name.
	//
	// Parameters:
	//   - block: the struct or block name, e.g. "Params"
	//
	// Returns:
	//   - []string: the field names in order
	//   - bool: false if the shader does not declare the block
	UniformFields(block string) ([]string, bool)

	// UniformLayout returns the fields of a uniform block with their declared types.
	//
	// Parameters:
	//   - block: the struct or block name
	//
	// Returns:
	//   - []UniformField: the fields in order
	//   - bool: false if the shader does not declare the block
	UniformLayout(block string) ([]UniformField, bool)

	// Module returns the shader module descriptor for WGSL sources, nil for GLSL.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor holding the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader parses source for the given stage and language. Unlike a driver compile this
// only checks structure: the source must be non-empty and declare an entry point for
// the stage. With validation enabled, WGSL sources are additionally compiled by naga.
//
// Parameters:
//   - key: an identifier used as the module label
//   - stage: the stage the source is written for
//   - language: the shading language of source
//   - source: the source text
//   - options: functional options
//
// Returns:
//   - Shader: the parsed shader
//   - error: a *CompileError describing why the source was rejected
func NewShader(key string, stage Stage, language Language, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:                        key,
		source:                     source,
		stage:                      stage,
		language:                   language,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
		bindingVarNames:            make(map[int]map[int]string),
		uniformBlocks:              make(map[string][]UniformField),
	}
	for _, opt := range options {
		opt(s)
	}

	if strings.TrimSpace(source) == "" {
		return nil, &CompileError{Key: key, Stage: stage, Err: errEmptySource}
	}

	var err error
	switch language {
	case LanguageWGSL:
		err = s.parseWGSL()
	case LanguageGLSL:
		err = s.parseGLSL()
	default:
		err = fmt.Errorf("unsupported language %v", language)
	}
	if err != nil {
		return nil, &CompileError{Key: key, Stage: stage, Err: err}
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Stage() Stage {
	return s.stage
}

func (s *shader) Language() Language {
	return s.language
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) UniformFields(block string) ([]string, bool) {
	fields, ok := s.uniformBlocks[block]
	if !ok {
		return nil, false
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out, true
}

func (s *shader) UniformLayout(block string) ([]UniformField, bool) {
	fields, ok := s.uniformBlocks[block]
	if !ok {
		return nil, false
	}
	return slices.Clone(fields), true
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// parseWGSL extracts the entry point, bind group layouts and uniform struct fields, then
// optionally runs the source through naga.
func (s *shader) parseWGSL() error {
	s.entryPoint = parseEntryPoint(s.source, s.stage)
	if s.entryPoint == "" {
		return fmt.Errorf("no @%s entry point found", s.stage)
	}

	var visibility wgpu.ShaderStage
	switch s.stage {
	case StageVertex:
		visibility = wgpu.ShaderStageVertex
	case StageFragment:
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(s.source, visibility)
	s.uniformBlocks = parseWGSLUniformBlocks(s.source)

	if s.validate {
		if err := validateWGSL(s.source); err != nil {
			return err
		}
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return nil
}

// parseGLSL checks for a main function and extracts uniform interface blocks. The driver
// performs the real compile when the program is linked.
func (s *shader) parseGLSL() error {
	cleaned := stripComments(s.source)
	if !glslMainRegex.MatchString(cleaned) {
		return fmt.Errorf("no %s function found", glslEntryPoint)
	}
	s.entryPoint = glslEntryPoint
	s.uniformBlocks = parseGLSLUniformBlocks(cleaned)
	return nil
}
