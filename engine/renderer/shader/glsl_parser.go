package shader

import (
	"regexp"
	"strings"
)

var (
	// glslMainRegex matches the main function definition
	glslMainRegex = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(?:void\s*)?\)`)

	// glslUniformBlockRegex captures the block name and body of a uniform interface block,
	// with or without a layout qualifier: layout(std140) uniform Params { ... };
	glslUniformBlockRegex = regexp.MustCompile(`(?:layout\s*\([^)]*\)\s*)?\buniform\s+(\w+)\s*\{([^}]*)\}`)

	// glslMemberRegex captures the type, name and optional array suffix of the first
	// declarator of a block member: [qualifiers] type name [array]
	glslMemberRegex = regexp.MustCompile(`(\w+)\s+(\w+)\s*(\[\s*\w*\s*\])?\s*$`)

	// glslDeclaratorRegex captures the name and optional array suffix of a further declarator
	// in a comma list: name [array]
	glslDeclaratorRegex = regexp.MustCompile(`^(\w+)\s*(\[\s*\w*\s*\])?$`)
)

// parseGLSLUniformBlocks maps every uniform interface block to its members. Array members
// carry their suffix in the type, e.g. "float[4]".
//
// Parameters:
//   - source: GLSL source with comments already stripped
//
// Returns:
//   - map[string][]UniformField: members keyed by block name
func parseGLSLUniformBlocks(source string) map[string][]UniformField {
	blocks := make(map[string][]UniformField)
	for _, match := range glslUniformBlockRegex.FindAllStringSubmatch(source, -1) {
		fields := []UniformField{}
		for member := range strings.SplitSeq(match[2], ";") {
			member = strings.TrimSpace(member)
			if member == "" {
				continue
			}
			// "float a, b" declares two members of the same type.
			decl := strings.Split(member, ",")
			m := glslMemberRegex.FindStringSubmatch(strings.TrimSpace(decl[0]))
			if m == nil {
				continue
			}
			typeName := m[1]
			fields = append(fields, UniformField{Name: m[2], Type: typeName + compactArray(m[3])})
			for _, extra := range decl[1:] {
				if d := glslDeclaratorRegex.FindStringSubmatch(strings.TrimSpace(extra)); d != nil {
					fields = append(fields, UniformField{Name: d[1], Type: typeName + compactArray(d[2])})
				}
			}
		}
		blocks[match[1]] = fields
	}
	return blocks
}

// compactArray drops the blanks inside an array suffix.
func compactArray(suffix string) string {
	return strings.Join(strings.Fields(suffix), "")
}
