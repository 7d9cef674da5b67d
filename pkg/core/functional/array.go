package functional

import (
	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/shapes"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
)

// Array is a tensor associated with the backend used to compute functions on it.
type Array struct {
	backend backends.Backend
	value   *tensors.Tensor
}

// NewArray wraps value as an Array on the given backend. The value is not copied.
func NewArray(backend backends.Backend, value *tensors.Tensor) *Array {
	if backend == nil || value == nil {
		exceptions.Panicf("functional.NewArray: backend and value must be non-nil")
	}
	return &Array{backend: backend, value: value}
}

// Backend of the array.
func (a *Array) Backend() backends.Backend { return a.backend }

// Tensor returns the native tensor holding the values of the array. It is not a copy.
func (a *Array) Tensor() *tensors.Tensor { return a.value }

// Shape of the array.
func (a *Array) Shape() shapes.Shape { return a.value.Shape() }

// DType of the array.
func (a *Array) DType() dtypes.DType { return a.value.DType() }

// String implements fmt.Stringer.
func (a *Array) String() string {
	if a == nil {
		return "<nil array>"
	}
	return "Array" + a.value.String()
}

// Relu returns max(a, 0).
func (a *Array) Relu() (*Array, error) { return Relu(a) }

// LeakyRelu returns a for positive values, alpha*a otherwise.
func (a *Array) LeakyRelu(alpha float64) (*Array, error) { return LeakyRelu(a, alpha) }

// Gelu returns the Gaussian error linear unit of a.
func (a *Array) Gelu(approximate bool) (*Array, error) { return Gelu(a, approximate) }

// Tanh returns the hyperbolic tangent of a.
func (a *Array) Tanh() (*Array, error) { return Tanh(a) }

// Sigmoid returns 1/(1+exp(-a)).
func (a *Array) Sigmoid() (*Array, error) { return Sigmoid(a) }

// Softmax normalizes exp(a) along axis.
func (a *Array) Softmax(axis int) (*Array, error) { return Softmax(a, axis) }

// Softplus returns log(1+exp(a)).
func (a *Array) Softplus() (*Array, error) { return Softplus(a) }
