package functional

import (
	"github.com/gomlx/actcheck/backends"
	"github.com/pkg/errors"
)

// Relu returns max(x, 0), computed on the backend of x.
func Relu(x *Array) (*Array, error) {
	return callArray(x, backends.FnRelu, nil)
}

// LeakyRelu returns x for positive values, alpha*x otherwise.
func LeakyRelu(x *Array, alpha float64) (*Array, error) {
	return callArray(x, backends.FnLeakyRelu, map[string]any{"alpha": alpha})
}

// Gelu returns x*Φ(x), where Φ is the standard normal CDF.
// If approximate is true, Φ is approximated with tanh.
func Gelu(x *Array, approximate bool) (*Array, error) {
	return callArray(x, backends.FnGelu, map[string]any{"approximate": approximate})
}

// Tanh returns the hyperbolic tangent of x.
func Tanh(x *Array) (*Array, error) {
	return callArray(x, backends.FnTanh, nil)
}

// Sigmoid returns 1/(1+exp(-x)).
func Sigmoid(x *Array) (*Array, error) {
	return callArray(x, backends.FnSigmoid, nil)
}

// Softmax returns exp(x)/sum(exp(x)), normalized over the given axis.
// Negative axes count from the end.
func Softmax(x *Array, axis int) (*Array, error) {
	return callArray(x, backends.FnSoftmax, map[string]any{"axis": axis})
}

// Softplus returns log(1+exp(x)).
func Softplus(x *Array) (*Array, error) {
	return callArray(x, backends.FnSoftplus, nil)
}

func callArray(x *Array, fn backends.FnName, keywords map[string]any) (*Array, error) {
	if x == nil {
		return nil, errors.Wrapf(ErrConfiguration, "%s of nil array", fn)
	}
	result, err := New(x.backend).Call(fn, []any{x}, keywords)
	if err != nil {
		return nil, err
	}
	return result.(*Array), nil
}
