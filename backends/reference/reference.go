// Package reference implements the canonical numeric backend used as the source of truth when verifying
// other backends.
//
// Every kernel converts its input to float64, computes the closed-form formula of the function with the
// Go math package (and gonum for reductions), and rounds the result back to the dtype of the input.
// It is slow, and it is meant to be simple enough to be obviously correct.
package reference

import (
	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
)

// BackendName to be used in ACTCHECK_BACKEND to specify this backend.
const BackendName = "ref"

// Registers New() as the constructor for the "ref" backend.
func init() {
	backends.Register(BackendName, New)
}

// New constructs a new reference Backend.
// There are no configurations, the string is simply ignored.
func New(_ string) backends.Backend {
	return &Backend{}
}

// Backend implements the backends.Backend interface.
type Backend struct{}

// Compile-time check that reference.Backend implements backends.Backend.
var _ backends.Backend = &Backend{}

// Capabilities of the reference backend: all functions, all dtypes supported by tensors.
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

// Name returns the short name of the backend.
func (b *Backend) Name() string { return BackendName }

// String implements fmt.Stringer.
func (b *Backend) String() string { return BackendName }

// Description is a longer description of the Backend that can be used to pretty-print.
func (b *Backend) Description() string {
	return "Reference CPU backend (float64 math)"
}

// Capabilities returns a copy of what is supported by this backend.
func (b *Backend) Capabilities() backends.Capabilities {
	return Capabilities.Clone()
}

// Kernel returns the kernel for fn, or nil if fn is unknown.
func (b *Backend) Kernel(fn backends.FnName) backends.Kernel {
	return kernels[fn]
}

// Finalize is a no-op, the reference backend holds no resources.
func (b *Backend) Finalize() {}

var kernels = map[backends.FnName]backends.Kernel{
	backends.FnRelu:      elementwise(relu),
	backends.FnLeakyRelu: elementwise(leakyRelu),
	backends.FnGelu:      elementwise(gelu),
	backends.FnTanh:      elementwise(tanh),
	backends.FnSigmoid:   elementwise(sigmoid),
	backends.FnSoftmax:   execSoftmax,
	backends.FnSoftplus:  elementwise(softplus),
}

// elementwise builds a Kernel that applies fn to each element, computed in float64.
func elementwise(fn func(x float64, params backends.Params) float64) backends.Kernel {
	return func(x *tensors.Tensor, params backends.Params) (*tensors.Tensor, error) {
		values := x.Float64s()
		for ii, v := range values {
			values[ii] = fn(v, params)
		}
		return tensors.FromFloat64s(x.DType(), values, x.Shape().Dimensions...), nil
	}
}
