package shader

import (
	"github.com/gogpu/naga"
)

// validateWGSL runs the source through the naga front end and SPIR-V back end. The output
// is discarded; only the diagnostics matter.
func validateWGSL(source string) error {
	if _, err := naga.Compile(source); err != nil {
		return err
	}
	return nil
}
