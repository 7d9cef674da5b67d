package strategies

import (
	"iter"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/functional"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/actcheck/pkg/core/verify"
	"github.com/gomlx/actcheck/pkg/support/xslices"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"pgregory.net/rapid"
)

// FunctionStrategy declares how to generate the trials of one function.
type FunctionStrategy struct {
	Fn backends.FnName

	// Input constraints.
	Input DTypeAndValues

	// Params generates the function parameters, by name.
	Params map[string]*rapid.Generator[any]

	// Flags generates the calling convention of each trial.
	Flags *rapid.Generator[verify.Flags]

	// Tolerance, if not nil, is set in every case.
	Tolerance *verify.Tolerance
}

// FlagsFor generates random flags valid for fn: each boolean flag independently, and the number of
// positional arguments with NumPositionalArgs.
func FlagsFor(fn backends.FnName) *rapid.Generator[verify.Flags] {
	boolGen := rapid.Bool()
	numPositionalGen := NumPositionalArgs(fn)
	return rapid.Custom(func(t *rapid.T) verify.Flags {
		return verify.Flags{
			AsVariable:     boolGen.Draw(t, "as_variable"),
			WithOut:        boolGen.Draw(t, "with_out"),
			Container:      boolGen.Draw(t, "container"),
			InstanceMethod: boolGen.Draw(t, "instance_method"),
			NativeArray:    boolGen.Draw(t, "native_array"),
			NumPositional:  numPositionalGen.Draw(t, "num_positional"),
		}
	})
}

// ForFunction returns the strategy of trials for fn, with inputs of the given dtypes (all supported dtypes
// if empty).
//
// Softmax and softplus get inputs of rank >= 1, softmax an axis in [-1, 0], leaky_relu an alpha from
// Floats16 and gelu a random approximate flag.
func ForFunction(fn backends.FnName, inputDTypes ...dtypes.DType) (*FunctionStrategy, error) {
	if functional.DefaultSignature(fn) == nil {
		return nil, errors.Errorf("no strategy for unknown function %s", fn)
	}
	s := &FunctionStrategy{
		Fn:     fn,
		Input:  DefaultDTypeAndValues(),
		Params: make(map[string]*rapid.Generator[any]),
		Flags:  FlagsFor(fn),
	}
	if len(inputDTypes) > 0 {
		s.Input.DTypes = inputDTypes
	}
	switch fn {
	case backends.FnLeakyRelu:
		s.Params["alpha"] = Floats16().AsAny()
	case backends.FnGelu:
		s.Params["approximate"] = rapid.Bool().AsAny()
	case backends.FnSoftmax:
		s.Input.MinNumDims = max(s.Input.MinNumDims, 1)
		s.Params["axis"] = rapid.IntRange(-1, 0).AsAny()
	case backends.FnSoftplus:
		s.Input.MinNumDims = max(s.Input.MinNumDims, 1)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate returns an error if the strategy can't generate valid cases.
func (s *FunctionStrategy) Validate() error {
	if functional.DefaultSignature(s.Fn) == nil {
		return errors.Errorf("strategy for unknown function %s", s.Fn)
	}
	if s.Flags == nil {
		return errors.Errorf("strategy for %s has no flags generator", s.Fn)
	}
	return errors.WithMessagef(s.Input.Validate(), "strategy for %s", s.Fn)
}

// Gen returns the generator of cases. It panics if the strategy is invalid.
func (s *FunctionStrategy) Gen() *rapid.Generator[verify.Case] {
	if err := s.Validate(); err != nil {
		panic(err)
	}
	inputGen := s.Input.Gen()
	// Sorted to draw the parameters always in the same order.
	paramNames := xslices.SortedKeys(s.Params)
	return rapid.Custom(func(t *rapid.T) verify.Case {
		c := verify.Case{
			Fn:        s.Fn,
			Inputs:    []*tensors.Tensor{inputGen.Draw(t, "x")},
			Params:    make(map[string]any, len(paramNames)),
			Flags:     s.Flags.Draw(t, "flags"),
			Tolerance: s.Tolerance,
		}
		for _, name := range paramNames {
			c.Params[name] = s.Params[name].Draw(t, name)
		}
		return c
	})
}

// Cases returns the lazy sequence of cases generated from the seed. The sequence is infinite, and
// iterating it again restarts it: the same seed always yields the same cases.
//
// Each function draws from its own stream of seeds, so functions verified with the same seed get
// unrelated cases. It panics if the strategy is invalid.
func (s *FunctionStrategy) Cases(seed uint64) iter.Seq[verify.Case] {
	gen := s.Gen()
	base := seed ^ uint64(s.Fn)<<48
	return func(yield func(verify.Case) bool) {
		for ii := uint64(0); ; ii++ {
			if !yield(gen.Example(int(base + ii))) {
				return
			}
		}
	}
}
