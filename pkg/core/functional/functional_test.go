package functional

import (
	"math"
	"testing"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/backends/reference"
	"github.com/gomlx/actcheck/pkg/core/containers"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/actcheck/pkg/core/variables"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrontend() *Frontend {
	return New(reference.New(""))
}

func valuesOf(t *testing.T, v any) []float64 {
	t.Helper()
	switch r := v.(type) {
	case *Array:
		return r.Tensor().Float64s()
	case *tensors.Tensor:
		return r.Float64s()
	case *variables.Variable:
		return r.Value().Float64s()
	}
	require.Failf(t, "unexpected result type", "%T", v)
	return nil
}

func TestBind(t *testing.T) {
	sig := DefaultSignature(backends.FnLeakyRelu)
	require.NotNil(t, sig)
	assert.Equal(t, 2, sig.NumPositional())

	bound, err := sig.Bind([]any{1.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1.0, "alpha": DefaultAlpha, "out": nil}, bound)

	bound, err = sig.Bind(nil, map[string]any{"x": 1.0, "alpha": 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.5, bound["alpha"])

	for name, call := range map[string]func() error{
		"too many positional": func() error { _, err := sig.Bind([]any{1.0, 0.1, "out"}, nil); return err },
		"unknown keyword":     func() error { _, err := sig.Bind([]any{1.0}, map[string]any{"beta": 1}); return err },
		"repeated":            func() error { _, err := sig.Bind([]any{1.0}, map[string]any{"x": 1.0}); return err },
		"missing x":           func() error { _, err := sig.Bind(nil, map[string]any{"alpha": 1.0}); return err },
	} {
		require.ErrorIs(t, call(), ErrConfiguration, name)
	}
}

func TestTypedAPI(t *testing.T) {
	x := NewArray(reference.New(""), tensors.FromValue([]float32{-1, 0, 2.5}))
	y := must.M1(Relu(x))
	assert.Equal(t, []float32{0, 0, 2.5}, tensors.Flat[float32](y.Tensor()))
	y = must.M1(x.LeakyRelu(0.1))
	assert.InDeltaSlice(t, []float64{-0.1, 0, 2.5}, y.Tensor().Float64s(), 1e-6)
	y = must.M1(x.Softplus())
	assert.InDelta(t, math.Ln2, y.Tensor().Float64s()[1], 1e-6)
	y = must.M1(x.Softmax(0))
	assert.Equal(t, x.Shape(), y.Shape())
	for _, fn := range []func() (*Array, error){x.Relu, x.Tanh, x.Sigmoid, func() (*Array, error) { return x.Gelu(false) }} {
		y = must.M1(fn())
		assert.Equal(t, x.DType(), y.DType())
	}
	_, err := Relu(nil)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestCallInputKinds(t *testing.T) {
	f := newFrontend()
	native := tensors.FromValue([]float64{-2, 3})
	want := []float64{-0.2, 3}
	kw := map[string]any{"alpha": 0.1}

	// Native tensors, Go slices and arrays return arrays.
	for _, x := range []any{native, []float64{-2, 3}, NewArray(f.Backend(), native)} {
		result := must.M1(f.Call(backends.FnLeakyRelu, []any{x}, kw))
		require.IsType(t, &Array{}, result)
		assert.InDeltaSlice(t, want, valuesOf(t, result), 1e-12)
	}

	// Positional alpha.
	result := must.M1(f.Call(backends.FnLeakyRelu, []any{native, 0.1}, nil))
	assert.InDeltaSlice(t, want, valuesOf(t, result), 1e-12)

	// Variables return variables.
	result = must.M1(f.Call(backends.FnLeakyRelu, []any{variables.New(native)}, kw))
	require.IsType(t, &variables.Variable{}, result)
	assert.InDeltaSlice(t, want, valuesOf(t, result), 1e-12)

	// Containers return containers of the same structure.
	c := containers.New().Set("a", native).Set("b", containers.New().Set("c", NewArray(f.Backend(), native)))
	result = must.M1(f.Call(backends.FnLeakyRelu, []any{c}, kw))
	require.IsType(t, &containers.Container{}, result)
	rc := result.(*containers.Container)
	assert.True(t, c.SameStructure(rc))
	for path, leaf := range rc.Leaves() {
		assert.InDeltaSlice(t, want, valuesOf(t, leaf), 1e-12, "leaf %s", path)
	}

	// Input is not modified.
	assert.Equal(t, []float64{-2, 3}, native.Float64s())
}

func TestCallWithOut(t *testing.T) {
	f := newFrontend()
	x := tensors.FromValue([]float32{-1, 0, 2.5})

	outArray := NewArray(f.Backend(), tensors.FromShape(x.Shape()))
	result := must.M1(f.Call(backends.FnRelu, []any{x}, map[string]any{OutParam: outArray}))
	assert.Same(t, outArray, result)
	assert.Equal(t, []float32{0, 0, 2.5}, tensors.Flat[float32](outArray.Tensor()))

	outVar := variables.New(tensors.FromShape(x.Shape()))
	result = must.M1(f.Call(backends.FnRelu, []any{variables.New(x)}, map[string]any{OutParam: outVar}))
	assert.Same(t, outVar, result)
	assert.Equal(t, []float32{0, 0, 2.5}, tensors.Flat[float32](outVar.Value()))

	outC := containers.New().Set("a", tensors.FromShape(x.Shape()))
	result = must.M1(f.Call(backends.FnRelu, []any{containers.New().Set("a", x)}, map[string]any{OutParam: outC}))
	assert.Same(t, outC, result)
	leaf, _ := outC.Get("a")
	assert.Equal(t, []float32{0, 0, 2.5}, tensors.Flat[float32](leaf.(*tensors.Tensor)))

	// Out can't be passed positionally.
	_, err := f.Call(backends.FnRelu, []any{x, outArray}, nil)
	require.ErrorIs(t, err, ErrConfiguration)

	// Out with a different shape or dtype.
	_, err = f.Call(backends.FnRelu, []any{x}, map[string]any{OutParam: tensors.FromValue([]float64{0, 0, 0})})
	require.ErrorIs(t, err, ErrOutMismatch)

	// Out container with a different structure.
	_, err = f.Call(backends.FnRelu, []any{containers.New().Set("a", x)}, map[string]any{OutParam: containers.New().Set("b", x)})
	require.ErrorIs(t, err, ErrConfiguration)
	_, err = f.Call(backends.FnRelu, []any{x}, map[string]any{OutParam: "buffer"})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestInvoke(t *testing.T) {
	f := newFrontend()
	x := tensors.FromValue([][]float64{{1, 2}})

	// Native receivers are promoted to arrays.
	result := must.M1(f.Invoke(x, backends.FnSoftmax, nil, map[string]any{"axis": -1}))
	require.IsType(t, &Array{}, result)
	got := valuesOf(t, result)
	assert.InDelta(t, 1.0, got[0]+got[1], 1e-12)
	assert.InDelta(t, math.Exp(1)/(math.Exp(1)+math.Exp(2)), got[0], 1e-12)

	result = must.M1(f.Invoke(variables.New(x), backends.FnSoftmax, []any{0}, nil))
	require.IsType(t, &variables.Variable{}, result)
	assert.Equal(t, []float64{1, 1}, valuesOf(t, result))

	_, err := f.Invoke([]float64{1}, backends.FnRelu, nil, nil)
	require.ErrorIs(t, err, ErrConfiguration)

	// The receiver is the input: it can't be given again.
	_, err = f.Invoke(x, backends.FnRelu, nil, map[string]any{"x": x})
	require.ErrorIs(t, err, ErrConfiguration)

	// A function not available as a method.
	noMethod := *DefaultSignature(backends.FnTanh)
	noMethod.Method = false
	_, err = f.WithSignature(&noMethod).Invoke(x, backends.FnTanh, nil, nil)
	require.ErrorIs(t, err, ErrConfiguration)
	// The original frontend is not affected.
	_, err = f.Invoke(x, backends.FnTanh, nil, nil)
	require.NoError(t, err)
}

func TestConfigurationErrors(t *testing.T) {
	f := newFrontend()
	x := tensors.FromValue([]float32{1})
	testCases := []struct {
		name   string
		fn     backends.FnName
		args   []any
		params map[string]any
	}{
		{"unknown function", backends.FnInvalid, []any{x}, nil},
		{"bad alpha", backends.FnLeakyRelu, []any{x}, map[string]any{"alpha": "big"}},
		{"bad approximate", backends.FnGelu, []any{x, 1}, nil},
		{"bad axis", backends.FnSoftmax, []any{x, 0.5}, nil},
		{"bad input", backends.FnTanh, []any{[]int{1, 2}}, nil},
		{"irregular input", backends.FnTanh, []any{[][]float32{{1}, {1, 2}}}, nil},
		{"missing input", backends.FnTanh, nil, nil},
	}
	for _, tc := range testCases {
		_, err := f.Call(tc.fn, tc.args, tc.params)
		require.ErrorIs(t, err, ErrConfiguration, tc.name)
	}

	// Kernel errors are not configuration errors.
	_, err := f.Call(backends.FnSoftmax, []any{x, 3}, nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrConfiguration)
}
