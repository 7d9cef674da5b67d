// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package functional

import (
	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/support/xslices"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

const (
	// InputParam is the name of the input parameter of every function.
	InputParam = "x"

	// OutParam is the name of the keyword-only parameter that receives the result in place.
	OutParam = "out"
)

// Param describes one parameter of a function.
type Param struct {
	Name string

	// Default value used when the parameter is not given. Ignored if Required.
	Default any

	// Required parameters have no default.
	Required bool

	// KeywordOnly parameters can't be given positionally.
	KeywordOnly bool
}

// Signature of a function of the frontend.
type Signature struct {
	Fn backends.FnName

	// Params in positional order. Parameters that can be given positionally come first.
	Params []Param

	// Method indicates the function is also available as a method of arrays.
	Method bool

	// PromoteDType returns the dtype of the result for the given input dtype.
	// If nil, the result has the same dtype as the input.
	PromoteDType func(dtype dtypes.DType) dtypes.DType
}

// NumPositional returns the maximum number of arguments that can be given positionally.
func (s *Signature) NumPositional() int {
	count := 0
	for _, p := range s.Params {
		if p.KeywordOnly {
			break
		}
		count++
	}
	return count
}

// Param returns the parameter with the given name.
func (s *Signature) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// ResultDType returns the dtype of the result of the function for the given input dtype.
func (s *Signature) ResultDType(dtype dtypes.DType) dtypes.DType {
	if s.PromoteDType == nil {
		return dtype
	}
	return s.PromoteDType(dtype)
}

// Bind matches positional and keyword arguments to the parameters of the signature, filling in the defaults.
// It returns an error wrapping ErrConfiguration for too many positional arguments, unknown or repeated
// keywords, or missing required parameters.
func (s *Signature) Bind(positional []any, keywords map[string]any) (map[string]any, error) {
	if maxPositional := s.NumPositional(); len(positional) > maxPositional {
		return nil, errors.Wrapf(ErrConfiguration, "%s takes at most %d positional arguments, %d given",
			s.Fn, maxPositional, len(positional))
	}
	bound := make(map[string]any, len(s.Params))
	for ii, value := range positional {
		bound[s.Params[ii].Name] = value
	}
	for _, name := range xslices.SortedKeys(keywords) {
		if _, found := s.Param(name); !found {
			return nil, errors.Wrapf(ErrConfiguration, "%s got an unexpected keyword argument %q", s.Fn, name)
		}
		if _, found := bound[name]; found {
			return nil, errors.Wrapf(ErrConfiguration, "%s got multiple values for argument %q", s.Fn, name)
		}
		bound[name] = keywords[name]
	}
	for _, p := range s.Params {
		if _, found := bound[p.Name]; found {
			continue
		}
		if p.Required {
			return nil, errors.Wrapf(ErrConfiguration, "%s missing required argument %q", s.Fn, p.Name)
		}
		bound[p.Name] = p.Default
	}
	return bound, nil
}

// Default values of the function parameters.
const (
	DefaultAlpha       = 0.2
	DefaultApproximate = true
	DefaultAxis        = -1
)

func makeSignature(fn backends.FnName, params ...Param) *Signature {
	sig := &Signature{Fn: fn, Method: true}
	sig.Params = append(sig.Params, Param{Name: InputParam, Required: true})
	sig.Params = append(sig.Params, params...)
	sig.Params = append(sig.Params, Param{Name: OutParam, KeywordOnly: true})
	return sig
}

var defaultSignatures = map[backends.FnName]*Signature{
	backends.FnRelu:      makeSignature(backends.FnRelu),
	backends.FnLeakyRelu: makeSignature(backends.FnLeakyRelu, Param{Name: "alpha", Default: DefaultAlpha}),
	backends.FnGelu:      makeSignature(backends.FnGelu, Param{Name: "approximate", Default: DefaultApproximate}),
	backends.FnTanh:      makeSignature(backends.FnTanh),
	backends.FnSigmoid:   makeSignature(backends.FnSigmoid),
	backends.FnSoftmax:   makeSignature(backends.FnSoftmax, Param{Name: "axis", Default: DefaultAxis}),
	backends.FnSoftplus:  makeSignature(backends.FnSoftplus),
}

// DefaultSignature returns the default signature of fn, or nil if fn is not known.
func DefaultSignature(fn backends.FnName) *Signature {
	return defaultSignatures[fn]
}

// KernelParams converts the arguments bound by Signature.Bind to the parameters passed to the backend kernel.
// Invalid argument types return errors wrapping ErrConfiguration.
func KernelParams(sig *Signature, bound map[string]any) (params backends.Params, err error) {
	if v, found := bound["alpha"]; found {
		if params.Alpha, err = toFloat64(v); err != nil {
			return params, errors.WithMessagef(err, "%s argument \"alpha\"", sig.Fn)
		}
	}
	if v, found := bound["approximate"]; found {
		approximate, ok := v.(bool)
		if !ok {
			return params, errors.Wrapf(ErrConfiguration, "%s argument \"approximate\" must be a bool, got %T", sig.Fn, v)
		}
		params.Approximate = approximate
	}
	if v, found := bound["axis"]; found {
		if params.Axis, err = toInt(v); err != nil {
			return params, errors.WithMessagef(err, "%s argument \"axis\"", sig.Fn)
		}
	}
	return params, nil
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	}
	return 0, errors.Wrapf(ErrConfiguration, "expected a number, got %T", v)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	}
	return 0, errors.Wrapf(ErrConfiguration, "expected an int, got %T", v)
}
