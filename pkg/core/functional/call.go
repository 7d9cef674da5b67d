package functional

import (
	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/containers"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/actcheck/pkg/core/variables"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Call fn as a free function, with the given positional and keyword arguments.
//
// The result type follows the input: a *variables.Variable for a variable input, a *containers.Container
// for a container input, and an *Array otherwise (including native tensors and Go slices).
// If the "out" argument is given, the result is written into it and out itself is returned.
func (f *Frontend) Call(fn backends.FnName, positional []any, keywords map[string]any) (any, error) {
	sig, err := f.Signature(fn)
	if err != nil {
		return nil, err
	}
	bound, err := sig.Bind(positional, keywords)
	if err != nil {
		return nil, err
	}
	params, err := KernelParams(sig, bound)
	if err != nil {
		return nil, err
	}
	if klog.V(2).Enabled() {
		klog.Infof("functional.Call(%s): x=%v, params=%+v, out=%T", fn, bound[InputParam], params, bound[OutParam])
	}
	return f.apply(sig, bound[InputParam], bound[OutParam], params)
}

// Invoke fn as a method of receiver, with the remaining positional and keyword arguments.
//
// Native tensors are promoted to *Array receivers. Receivers that have no methods, or functions not
// available as methods, return an error wrapping ErrConfiguration.
func (f *Frontend) Invoke(receiver any, fn backends.FnName, positional []any, keywords map[string]any) (any, error) {
	sig, err := f.Signature(fn)
	if err != nil {
		return nil, err
	}
	if !sig.Method {
		return nil, errors.Wrapf(ErrConfiguration, "%s is not available as a method", fn)
	}
	switch r := receiver.(type) {
	case *Array, *variables.Variable, *containers.Container:
	case *tensors.Tensor:
		receiver = NewArray(f.backend, r)
	default:
		return nil, errors.Wrapf(ErrConfiguration, "%T has no method %s", receiver, fn)
	}
	args := make([]any, 0, len(positional)+1)
	args = append(args, receiver)
	args = append(args, positional...)
	return f.Call(fn, args, keywords)
}

// apply the function to x, mapping over containers.
func (f *Frontend) apply(sig *Signature, x, out any, params backends.Params) (any, error) {
	if xc, ok := x.(*containers.Container); ok {
		return f.applyContainer(sig, xc, out, params)
	}
	xt, err := toTensor(x)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s input", sig.Fn)
	}
	result, err := backends.Call(f.backend, sig.Fn, xt, params)
	if err != nil {
		return nil, err
	}
	if out != nil {
		return assignOut(sig, out, result)
	}
	if _, isVar := x.(*variables.Variable); isVar {
		return variables.New(result), nil
	}
	return NewArray(f.backend, result), nil
}

func (f *Frontend) applyContainer(sig *Signature, x *containers.Container, out any, params backends.Params) (any, error) {
	var outContainer *containers.Container
	if out != nil {
		var ok bool
		outContainer, ok = out.(*containers.Container)
		if !ok || !x.SameStructure(outContainer) {
			return nil, errors.Wrapf(ErrConfiguration, "%s: out must be a container with the same structure as the input, got %T", sig.Fn, out)
		}
	}
	results, err := x.Map(func(path string, leaf any) (any, error) {
		var leafOut any
		if outContainer != nil {
			leafOut, _ = outContainer.GetPath(path)
		}
		return f.apply(sig, leaf, leafOut, params)
	})
	if err != nil {
		return nil, err
	}
	if outContainer != nil {
		return outContainer, nil
	}
	return results, nil
}

// toTensor returns the tensor holding the values of x, converting Go values if needed.
func toTensor(x any) (*tensors.Tensor, error) {
	switch v := x.(type) {
	case nil:
		return nil, errors.Wrapf(ErrConfiguration, "missing input")
	case *Array:
		return v.value, nil
	case *tensors.Tensor:
		return v, nil
	case *variables.Variable:
		return v.Value(), nil
	}
	t, err := tensors.TryFromValue(x)
	if err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "can't convert %T to an array: %v", x, err)
	}
	return t, nil
}

// assignOut writes result into out, and returns out.
func assignOut(sig *Signature, out any, result *tensors.Tensor) (any, error) {
	var target *tensors.Tensor
	switch v := out.(type) {
	case *Array:
		target = v.value
	case *tensors.Tensor:
		target = v
	case *variables.Variable:
		target = v.Value()
	default:
		return nil, errors.Wrapf(ErrConfiguration, "%s: out must be an array, tensor or variable, got %T", sig.Fn, out)
	}
	if err := target.AssignFrom(result); err != nil {
		return nil, errors.Wrapf(ErrOutMismatch, "%s: %v", sig.Fn, err)
	}
	return out, nil
}
