package strategies

import (
	"math"
	"testing"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/actcheck/pkg/core/verify"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
	"pgregory.net/rapid"
)

func TestFiniteFloats(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(-10, 10).Draw(t, "lo")
		hi := rapid.Float64Range(lo, 20).Draw(t, "hi")
		v := FiniteFloats(lo, hi).Draw(t, "v")
		require.GreaterOrEqual(t, v, lo)
		require.LessOrEqual(t, v, hi)
	})

	// Boundaries show up.
	gen := FiniteFloats(0.5, 3)
	seen := make(map[float64]bool)
	for seed := range 200 {
		seen[gen.Example(seed)] = true
	}
	assert.True(t, seen[0.5] && seen[3] && seen[1], "boundaries not generated")
	assert.False(t, seen[0], "0 is out of range")
}

func TestFloats16(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := Floats16().Draw(t, "v")
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "got %g", v)
		// Exactly representable in float16.
		require.Equal(t, v, float64(float16.Fromfloat32(float32(v)).Float32()))
	})
}

func TestNumPositionalArgs(t *testing.T) {
	gen := NumPositionalArgs(backends.FnLeakyRelu)
	maxSeen := 0
	for seed := range 200 {
		maxSeen = max(maxSeen, gen.Example(seed))
	}
	// x and alpha.
	assert.Equal(t, 2, maxSeen)
	assert.Equal(t, 0, NumPositionalArgs(backends.FnInvalid).Example(1))
}

func TestDTypeAndValues(t *testing.T) {
	d := DefaultDTypeAndValues()
	require.NoError(t, d.Validate())

	d.DTypes = []dtypes.DType{dtypes.Float64}
	d.MinNumDims, d.MaxNumDims = 1, 2
	d.MinDimSize, d.MaxDimSize = 2, 3
	d.MinValue, d.MaxValue = -1, 1
	gen := d.Gen()
	rapid.Check(t, func(t *rapid.T) {
		x := gen.Draw(t, "x")
		require.Equal(t, dtypes.Float64, x.DType())
		require.True(t, x.Rank() >= 1 && x.Rank() <= 2, "rank %d", x.Rank())
		for _, dim := range x.Shape().Dimensions {
			require.True(t, dim >= 2 && dim <= 3, "shape %s", x.Shape())
		}
		for _, v := range x.Float64s() {
			require.True(t, v >= -1 && v <= 1, "value %g", v)
		}
	})

	invalid := []func(d *DTypeAndValues){
		func(d *DTypeAndValues) { d.DTypes = nil },
		func(d *DTypeAndValues) { d.DTypes = []dtypes.DType{dtypes.Int32} },
		func(d *DTypeAndValues) { d.MinNumDims = -1 },
		func(d *DTypeAndValues) { d.MaxNumDims = 0; d.MinNumDims = 2 },
		func(d *DTypeAndValues) { d.MinDimSize = 0 },
		func(d *DTypeAndValues) { d.MaxValue = math.Inf(1) },
		func(d *DTypeAndValues) { d.MinValue = 10; d.MaxValue = 0 },
	}
	for ii, modify := range invalid {
		d := DefaultDTypeAndValues()
		modify(&d)
		require.Error(t, d.Validate(), "invalid constraint #%d", ii)
		require.Panics(t, func() { d.Gen() }, "invalid constraint #%d", ii)
	}
}

func TestForFunction(t *testing.T) {
	_, err := ForFunction(backends.FnInvalid)
	require.Error(t, err)

	for _, fn := range backends.FnValues() {
		s, err := ForFunction(fn, dtypes.Float32)
		require.NoError(t, err, "function %s", fn)
		gen := s.Gen()
		rapid.Check(t, func(t *rapid.T) {
			c := gen.Draw(t, "case")
			require.Equal(t, fn, c.Fn)
			require.Len(t, c.Inputs, 1)
			require.Equal(t, dtypes.Float32, c.Inputs[0].DType())
			switch fn {
			case backends.FnSoftmax:
				require.GreaterOrEqual(t, c.Inputs[0].Rank(), 1)
				axis := c.Params["axis"].(int)
				require.True(t, axis == -1 || axis == 0)
			case backends.FnSoftplus:
				require.GreaterOrEqual(t, c.Inputs[0].Rank(), 1)
			case backends.FnLeakyRelu:
				alpha := c.Params["alpha"].(float64)
				require.False(t, math.IsNaN(alpha) || math.IsInf(alpha, 0))
			case backends.FnGelu:
				require.IsType(t, true, c.Params["approximate"])
			default:
				require.Empty(t, c.Params)
			}
			require.LessOrEqual(t, c.Flags.NumPositional, 3)
		})
	}
}

func TestCasesRestartable(t *testing.T) {
	s, err := ForFunction(backends.FnLeakyRelu)
	require.NoError(t, err)
	take := func(seed uint64) (cases []verify.Case) {
		for c := range s.Cases(seed) {
			cases = append(cases, c)
			if len(cases) == 20 {
				break
			}
		}
		return
	}
	first, second := take(3), take(3)
	require.Len(t, first, 20)
	for ii := range first {
		require.Equal(t, first[ii].Flags, second[ii].Flags, "case #%d", ii)
		require.Empty(t, cmp.Diff(first[ii].Params, second[ii].Params), "case #%d", ii)
		require.True(t, first[ii].Inputs[0].Equal(second[ii].Inputs[0]), "case #%d", ii)
	}

	// A different seed yields different cases.
	other := take(4)
	sameInputs := 0
	for ii := range first {
		if first[ii].Inputs[0].Equal(other[ii].Inputs[0]) {
			sameInputs++
		}
	}
	assert.Less(t, sameInputs, len(first))
}

func TestInputsRoundedToDType(t *testing.T) {
	s, err := ForFunction(backends.FnRelu, dtypes.Float16)
	require.NoError(t, err)
	gen := s.Gen()
	rapid.Check(t, func(t *rapid.T) {
		x := gen.Draw(t, "case").Inputs[0]
		for _, v := range x.Float64s() {
			require.Equal(t, v, float64(float16.Fromfloat32(float32(v)).Float32()))
		}
		require.True(t, tensors.IsSupported(x.DType()))
	})
}
