// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package functional is the user-facing frontend of the activation functions.
//
// Functions can be called in several ways, all computing the same result on the frontend's backend:
//
//   - With the typed API: Relu(x), LeakyRelu(x, alpha), ... or the methods x.Relu(), x.LeakyRelu(alpha), ...
//     on *Array.
//   - Dynamically with Frontend.Call, given positional and keyword arguments, like a free function.
//   - Dynamically with Frontend.Invoke, as a method of a receiver.
//
// The dynamic API accepts as input *Array, native *tensors.Tensor or Go slices, *variables.Variable (the result
// is then a variable as well) or *containers.Container (the function is mapped over its leaves). An "out" keyword
// argument receives the result in place, and is returned itself.
//
// Invalid calls (wrong arguments, unknown functions or methods) return errors wrapping ErrConfiguration.
package functional

import (
	"maps"

	"github.com/gomlx/actcheck/backends"
	"github.com/pkg/errors"
)

var (
	// ErrConfiguration is wrapped by errors caused by invalid calls: unknown parameters, too many positional
	// arguments, wrong argument types or unsupported calling conventions.
	ErrConfiguration = errors.New("invalid call configuration")

	// ErrOutMismatch is wrapped by errors when the result doesn't fit the given "out" buffer.
	ErrOutMismatch = errors.New("result doesn't match the out buffer")
)

// Frontend dispatches calls to the functions of one backend.
type Frontend struct {
	backend    backends.Backend
	signatures map[backends.FnName]*Signature
}

// New creates a Frontend for the given backend, with the default function signatures.
func New(backend backends.Backend) *Frontend {
	if backend == nil {
		panic(errors.New("functional.New: nil backend"))
	}
	return &Frontend{backend: backend, signatures: defaultSignatures}
}

// Backend used by the frontend.
func (f *Frontend) Backend() backends.Backend { return f.backend }

// WithSignature returns a copy of the frontend, where the signature of sig.Fn is replaced by sig.
func (f *Frontend) WithSignature(sig *Signature) *Frontend {
	signatures := maps.Clone(f.signatures)
	signatures[sig.Fn] = sig
	return &Frontend{backend: f.backend, signatures: signatures}
}

// Signature returns the signature of fn. It returns an error wrapping ErrConfiguration if fn is unknown.
func (f *Frontend) Signature(fn backends.FnName) (*Signature, error) {
	sig, found := f.signatures[fn]
	if !found {
		return nil, errors.Wrapf(ErrConfiguration, "unknown function %s", fn)
	}
	return sig, nil
}
