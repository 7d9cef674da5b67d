package simplego

import (
	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/gopjrt/dtypes"
)

// Capabilities of the SimpleGo backends: the set of supported functions and data types.
var Capabilities = backends.Capabilities{
	Functions: map[backends.FnName]bool{
		backends.FnRelu:      true,
		backends.FnLeakyRelu: true,
		backends.FnGelu:      true,
		backends.FnTanh:      true,
		backends.FnSigmoid:   true,
		backends.FnSoftmax:   true,
		backends.FnSoftplus:  true,
	},

	DTypes: map[dtypes.DType]bool{
		dtypes.Float16:  true,
		dtypes.BFloat16: true,
		dtypes.Float32:  true,
		dtypes.Float64:  true,
	},
}
