package verify

import (
	"fmt"
	"strings"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/actcheck/pkg/support/xslices"
)

// Case is one trial of the verifier: a function, its inputs and parameters, and how to call it.
// It is not modified by the verifier.
type Case struct {
	Fn backends.FnName

	// Inputs of the function, one per array parameter. Their dtypes are the input dtypes of the trial.
	Inputs []*tensors.Tensor

	// Params are the function specific parameters (e.g.: "alpha", "axis", "approximate"), passed by name.
	// Parameters not given take their default values.
	Params map[string]any

	Flags Flags

	// Tolerance, if not nil, overrides the tolerances configured in the Verifier for this case.
	// For Float16 and BFloat16 inputs it can only loosen them: each of Atol and Rtol is raised to
	// at least the value configured for the dtype.
	Tolerance *Tolerance
}

// summaryPrecision is the number of significant digits used in input summaries.
const summaryPrecision = 4

// Summary returns a one-line description of the call, e.g.: "leaky_relu(x=(Float32)[2]: [-2, 3], alpha=0.1)".
func (c Case) Summary() string {
	var parts []string
	for ii, input := range c.Inputs {
		name := "x"
		if ii > 0 {
			name = fmt.Sprintf("x%d", ii)
		}
		if input == nil {
			parts = append(parts, name+"=nil")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", name, input.Summary(summaryPrecision)))
	}
	for _, key := range xslices.SortedKeys(c.Params) {
		parts = append(parts, fmt.Sprintf("%s=%v", key, c.Params[key]))
	}
	return fmt.Sprintf("%s(%s)", c.Fn, strings.Join(parts, ", "))
}
