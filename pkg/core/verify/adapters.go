// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package verify

import (
	"fmt"

	"github.com/gomlx/actcheck/pkg/core/containers"
	"github.com/gomlx/actcheck/pkg/core/functional"
	"github.com/gomlx/actcheck/pkg/core/shapes"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/actcheck/pkg/core/variables"
)

// call is one invocation of the candidate, transformed by the adapters on its way to the frontend.
type call struct {
	frontend *functional.Frontend
	sig      *functional.Signature

	// inputs are the inputs of the function, wrapped by the adapters applied so far.
	inputs []any

	// params are passed by name unless they fall within the first numPositional arguments.
	params map[string]any

	// out is the output buffer, wrapped like the inputs, or nil.
	out any

	// outShape is the shape of the reference result, used to allocate out.
	outShape shapes.Shape

	method        bool
	numPositional int

	// containerTemplate is the container wrapping the first input, if any.
	containerTemplate *containers.Container
}

// leaf is one value of the result, with its path if the result is a container.
type leaf struct {
	path  string
	value any
}

// invoker calls the candidate and returns the leaves of the result.
type invoker func(c *call) ([]leaf, error)

// adapter transforms the call before passing it to next, and unwraps the result returned by next.
type adapter func(next invoker) invoker

// chain composes the adapters around base. The first adapter is the outermost.
func chain(base invoker, adapters ...adapter) invoker {
	inv := base
	for ii := len(adapters) - 1; ii >= 0; ii-- {
		inv = adapters[ii](inv)
	}
	return inv
}

// adaptersFor returns the adapters implementing the flags, outermost first.
func adaptersFor(flags Flags) []adapter {
	var adapters []adapter
	if flags.WithOut {
		adapters = append(adapters, withOut)
	}
	adapters = append(adapters, arrays(flags.NativeArray))
	if flags.AsVariable {
		adapters = append(adapters, asVariable)
	}
	if flags.Container {
		adapters = append(adapters, inContainer)
	}
	if flags.InstanceMethod {
		adapters = append(adapters, asMethod)
	}
	adapters = append(adapters, positionalSplit(flags.NumPositional))
	return adapters
}

func structureFailure(format string, args ...any) *Failure {
	return &Failure{Kind: FailureShape, Detail: fmt.Sprintf(format, args...)}
}

// withOut allocates a zero output buffer with the shape of the reference result.
func withOut(next invoker) invoker {
	return func(c *call) ([]leaf, error) {
		c.out = tensors.FromShape(c.outShape)
		return next(c)
	}
}

// arrays wraps native tensors as frontend arrays, unless native is set. Results are unwrapped to tensors.
func arrays(native bool) adapter {
	return func(next invoker) invoker {
		return func(c *call) ([]leaf, error) {
			if !native {
				backend := c.frontend.Backend()
				for ii, input := range c.inputs {
					c.inputs[ii] = functional.NewArray(backend, input.(*tensors.Tensor))
				}
				if c.out != nil {
					c.out = functional.NewArray(backend, c.out.(*tensors.Tensor))
				}
			}
			leaves, err := next(c)
			if err != nil {
				return nil, err
			}
			for ii, l := range leaves {
				switch v := l.value.(type) {
				case *functional.Array:
					leaves[ii].value = v.Tensor()
				case *tensors.Tensor:
				default:
					return nil, structureFailure("expected an array result at %q, got %T", l.path, l.value)
				}
			}
			return leaves, nil
		}
	}
}

func unwrapTensor(v any) *tensors.Tensor {
	if array, ok := v.(*functional.Array); ok {
		return array.Tensor()
	}
	return v.(*tensors.Tensor)
}

// asVariable wraps inputs (and out) as variables. The results must be variables.
func asVariable(next invoker) invoker {
	return func(c *call) ([]leaf, error) {
		for ii, input := range c.inputs {
			c.inputs[ii] = variables.New(unwrapTensor(input))
		}
		if c.out != nil {
			c.out = variables.New(unwrapTensor(c.out))
		}
		leaves, err := next(c)
		if err != nil {
			return nil, err
		}
		for ii, l := range leaves {
			v, ok := l.value.(*variables.Variable)
			if !ok {
				return nil, structureFailure("expected a variable result at %q, got %T", l.path, l.value)
			}
			leaves[ii].value = v.Value()
		}
		return leaves, nil
	}
}

// wrapInContainer returns {"a": v, "b": {"c": v}}.
func wrapInContainer(v any) *containers.Container {
	return containers.New().Set("a", v).Set("b", containers.New().Set("c", v))
}

// inContainer wraps each input (and out) in a nested container. The result must be a container with
// the same structure, and each of its leaves is a result.
func inContainer(next invoker) invoker {
	return func(c *call) ([]leaf, error) {
		for ii, input := range c.inputs {
			c.inputs[ii] = wrapInContainer(input)
		}
		c.containerTemplate = c.inputs[0].(*containers.Container)
		if c.out != nil {
			c.out = wrapInContainer(c.out)
		}
		leaves, err := next(c)
		if err != nil {
			return nil, err
		}
		if len(leaves) != 1 {
			return nil, structureFailure("expected a single container result, got %d values", len(leaves))
		}
		result, ok := leaves[0].value.(*containers.Container)
		if !ok {
			return nil, structureFailure("expected a container result, got %T", leaves[0].value)
		}
		if !result.SameStructure(c.containerTemplate) {
			return nil, structureFailure("result container %s doesn't have the structure of the input %s", result, c.containerTemplate)
		}
		leaves = leaves[:0]
		for path, value := range result.Leaves() {
			leaves = append(leaves, leaf{path: path, value: value})
		}
		return leaves, nil
	}
}

// asMethod invokes the function as a method of the first input.
func asMethod(next invoker) invoker {
	return func(c *call) ([]leaf, error) {
		c.method = true
		return next(c)
	}
}

// positionalSplit sets how many arguments are passed positionally.
func positionalSplit(numPositional int) adapter {
	return func(next invoker) invoker {
		return func(c *call) ([]leaf, error) {
			c.numPositional = numPositional
			return next(c)
		}
	}
}

// arguments splits the inputs and parameters of the call in positional and keyword arguments,
// following the order of the signature. For methods, the receiver is not included.
func (c *call) arguments() (positional []any, keywords map[string]any) {
	keywords = make(map[string]any)
	numPositional := min(c.numPositional, c.sig.NumPositional())
	start := 0
	if c.method {
		start = 1
	}
	used := make(map[string]bool, len(c.params))
	inputIdx := 0
	for ii, p := range c.sig.Params {
		if p.Name == functional.OutParam {
			continue
		}
		var value any
		given := true
		if p.Name == functional.InputParam {
			value = c.inputs[inputIdx]
			inputIdx++
		} else {
			value, given = c.params[p.Name]
			if !given {
				value = p.Default
			}
			used[p.Name] = true
		}
		switch {
		case ii < start:
			// Receiver.
		case ii < numPositional:
			positional = append(positional, value)
		case given:
			keywords[p.Name] = value
		}
	}
	for name, value := range c.params {
		if !used[name] {
			keywords[name] = value
		}
	}
	if c.out != nil {
		keywords[functional.OutParam] = c.out
	}
	return
}

// invokeFrontend is the base invoker: it calls the frontend as a free function or as a method.
func invokeFrontend(c *call) ([]leaf, error) {
	positional, keywords := c.arguments()
	var result any
	var err error
	if c.method {
		result, err = c.frontend.Invoke(c.inputs[0], c.sig.Fn, positional, keywords)
	} else {
		result, err = c.frontend.Call(c.sig.Fn, positional, keywords)
	}
	if err != nil {
		return nil, err
	}
	if err = c.checkOut(result); err != nil {
		return nil, err
	}
	return []leaf{{value: result}}, nil
}

// checkOut returns a FailureOutBuffer if the call has an output buffer and result is not that buffer.
func (c *call) checkOut(result any) error {
	if c.out != nil && result != c.out {
		return &Failure{Kind: FailureOutBuffer, Detail: fmt.Sprintf("returned %T is not the out buffer %T", result, c.out)}
	}
	return nil
}
