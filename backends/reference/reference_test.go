package reference

import (
	"math"
	"testing"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, fn backends.FnName, x *tensors.Tensor, params backends.Params) []float64 {
	t.Helper()
	y, err := backends.Call(New(""), fn, x, params)
	require.NoError(t, err)
	require.True(t, x.Shape().Equal(y.Shape()), "%s changed shape from %s to %s", fn, x.Shape(), y.Shape())
	return y.Float64s()
}

func TestRegistered(t *testing.T) {
	backend, err := backends.TryNewWithConfig(BackendName)
	require.NoError(t, err)
	assert.Equal(t, BackendName, backend.Name())
	for _, fn := range backends.FnValues() {
		_, err := backends.Resolve(backend, fn)
		require.NoError(t, err, "function %s", fn)
	}
	assert.ElementsMatch(t, tensors.SupportedDTypes, backend.Capabilities().SupportedDTypes())

	// Changing the returned capabilities doesn't affect the backend.
	caps := backend.Capabilities()
	caps.DTypes[dtypes.Float32] = false
	delete(caps.Functions, backends.FnRelu)
	assert.True(t, backend.Capabilities().DTypes[dtypes.Float32])
	assert.True(t, backend.Capabilities().Functions[backends.FnRelu])
}

func TestRelu(t *testing.T) {
	got := call(t, backends.FnRelu, tensors.FromValue([]float32{-1, 0, 2.5}), backends.Params{})
	assert.Equal(t, []float64{0, 0, 2.5}, got)
	got = call(t, backends.FnRelu, tensors.FromValue([]float64{math.NaN()}), backends.Params{})
	assert.True(t, math.IsNaN(got[0]))
}

func TestLeakyRelu(t *testing.T) {
	got := call(t, backends.FnLeakyRelu, tensors.FromValue([]float64{-2, 3}), backends.Params{Alpha: 0.1})
	assert.InDeltaSlice(t, []float64{-0.2, 3}, got, 1e-12)
}

func TestGelu(t *testing.T) {
	x := tensors.FromValue([]float64{-1, 0, 1, 3})
	exact := call(t, backends.FnGelu, x, backends.Params{})
	assert.InDeltaSlice(t, []float64{-0.15865525393145707, 0, 0.8413447460685429, 2.99595030590511}, exact, 1e-9)
	approx := call(t, backends.FnGelu, x, backends.Params{Approximate: true})
	assert.InDeltaSlice(t, []float64{-0.15880800939172324, 0, 0.8411919906082768, 2.996362607918227}, approx, 1e-9)
}

func TestTanhAndSigmoid(t *testing.T) {
	x := tensors.FromValue([]float64{-1000, 0, 1000})
	assert.Equal(t, []float64{-1, 0, 1}, call(t, backends.FnTanh, x, backends.Params{}))
	assert.Equal(t, []float64{0, 0.5, 1}, call(t, backends.FnSigmoid, x, backends.Params{}))
}

func TestSoftplus(t *testing.T) {
	got := call(t, backends.FnSoftplus, tensors.FromValue([]float32{0}), backends.Params{})
	assert.InDelta(t, math.Ln2, got[0], 1e-7)

	// Large values must not overflow.
	got = call(t, backends.FnSoftplus, tensors.FromValue([]float64{-1000, 1000}), backends.Params{})
	assert.Equal(t, []float64{0, 1000}, got)
}

func TestSoftmax(t *testing.T) {
	got := call(t, backends.FnSoftmax, tensors.FromValue([][]float64{{1, 2}}), backends.Params{Axis: -1})
	assert.InDelta(t, 1.0, got[0]+got[1], 1e-12)
	assert.InDelta(t, 1/(1+math.E), got[0], 1e-12)

	// Normalizing over the first axis of a [2, 3] tensor.
	x := tensors.FromValue([][]float32{{0, 1, 1000}, {0, 2, 1000}})
	got = call(t, backends.FnSoftmax, x, backends.Params{Axis: 0})
	for col := range 3 {
		assert.InDelta(t, 1.0, got[col]+got[3+col], 1e-6, "column %d", col)
	}
	assert.InDelta(t, 0.5, got[2], 1e-6)

	// Scalars have no axis to normalize over.
	_, err := backends.Call(New(""), backends.FnSoftmax, tensors.FromValue(float64(1)), backends.Params{Axis: -1})
	require.Error(t, err)
}

func TestRoundsToInputDType(t *testing.T) {
	for _, dtype := range tensors.SupportedDTypes {
		x := tensors.FromFloat64s(dtype, []float64{0.1, -0.3}, 2)
		y, err := backends.Call(New(""), backends.FnTanh, x, backends.Params{})
		require.NoError(t, err)
		assert.Equal(t, dtype, y.DType())
	}
	y, err := backends.Call(New(""), backends.FnSigmoid, tensors.FromFloat64s(dtypes.BFloat16, []float64{1}), backends.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 0.7310585786300049, y.Float64s()[0], 1e-2)
}
