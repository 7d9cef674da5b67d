// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

var (
	// ErrNotImplemented is returned by Resolve when a backend doesn't implement a function.
	//
	// It doesn't contain a stack, attach a stack to with errors.Wrapf(ErrNotImplemented, "...") when using it.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedDType is returned when a backend doesn't support the dtype of an input.
	ErrUnsupportedDType = errors.New("dtype not supported")
)

// Params holds the function-specific parameters passed to a Kernel.
// Each function only reads the fields relevant to it.
type Params struct {
	// Alpha is the slope for negative values of leaky_relu.
	Alpha float64

	// Approximate selects the tanh approximation of gelu, instead of the exact erf formulation.
	Approximate bool

	// Axis over which softmax normalizes. Negative values count from the end.
	Axis int
}

// Kernel is the implementation of one function in a backend.
// It must not modify x, and it returns a newly allocated tensor.
type Kernel func(x *tensors.Tensor, params Params) (*tensors.Tensor, error)

// Resolve returns the kernel implementing fn in the backend.
//
// It returns an error wrapping ErrNotImplemented if the backend doesn't implement the function.
func Resolve(backend Backend, fn FnName) (Kernel, error) {
	if !fn.IsValid() {
		return nil, errors.Errorf("invalid function %s", fn)
	}
	if !backend.Capabilities().Functions[fn] {
		return nil, errors.Wrapf(ErrNotImplemented, "backend %q doesn't support %s", backend.Name(), fn)
	}
	kernel := backend.Kernel(fn)
	if kernel == nil {
		return nil, errors.Wrapf(ErrNotImplemented, "backend %q has no kernel for %s", backend.Name(), fn)
	}
	return kernel, nil
}

// CheckDType returns an error wrapping ErrUnsupportedDType if the backend doesn't support dtype.
func CheckDType(backend Backend, dtype dtypes.DType) error {
	if !backend.Capabilities().DTypes[dtype] {
		return errors.Wrapf(ErrUnsupportedDType, "backend %q doesn't support %s", backend.Name(), dtype)
	}
	return nil
}

// Call resolves fn in the backend, checks the input dtype is supported, and calls the kernel.
func Call(backend Backend, fn FnName, x *tensors.Tensor, params Params) (*tensors.Tensor, error) {
	kernel, err := Resolve(backend, fn)
	if err != nil {
		return nil, err
	}
	if err = CheckDType(backend, x.DType()); err != nil {
		return nil, errors.WithMessagef(err, "calling %s", fn)
	}
	result, err := kernel(x, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "backend %q failed %s(%s)", backend.Name(), fn, x.Shape())
	}
	return result, nil
}
