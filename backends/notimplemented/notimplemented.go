// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package notimplemented implements a backends.Backend interface that returns a "Not implemented"
// error for all functions.
//
// This can help bootstrap any backend implementation: embed Backend and override Capabilities and Kernel
// for the functions implemented so far.
package notimplemented

import (
	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// NotImplementedError is returned by every kernel.
//
// It doesn't contain a stack, attach a stack to with with errors.Wrapf(NotImplementedError, "...") when using it.
var NotImplementedError = backends.ErrNotImplemented

// Backend is a dummy backend that can be embedded to create mock or partial backends.
type Backend struct {
	// ErrFn is called to generate the error returned by kernels, if not nil.
	// Otherwise NotImplementedError is returned.
	ErrFn func(fn backends.FnName) error
}

var _ backends.Backend = &Backend{}

// baseErrFn returns the error corresponding to the function.
// It falls back to Backend.ErrFn if it is defined.
func (b *Backend) baseErrFn(fn backends.FnName) error {
	if b.ErrFn == nil {
		return errors.Wrapf(NotImplementedError, "function %s", fn)
	}
	return b.ErrFn(fn)
}

// Name returns the short name of the backend.
func (b *Backend) Name() string {
	return "notimplemented"
}

// String returns the same as Name.
func (b *Backend) String() string {
	return b.Name()
}

// Description is a longer description of the Backend.
func (b *Backend) Description() string {
	return "Not Implemented Backend (mock backend for testing)"
}

// Capabilities returns empty capabilities.
func (b *Backend) Capabilities() backends.Capabilities {
	return backends.Capabilities{
		Functions: make(map[backends.FnName]bool),
		DTypes:    make(map[dtypes.DType]bool),
	}
}

// Kernel returns a kernel that always fails with NotImplementedError (or the error returned by ErrFn).
func (b *Backend) Kernel(fn backends.FnName) backends.Kernel {
	return func(_ *tensors.Tensor, _ backends.Params) (*tensors.Tensor, error) {
		return nil, b.baseErrFn(fn)
	}
}

// Finalize is a no-op.
func (b *Backend) Finalize() {}
