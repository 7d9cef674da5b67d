package strategies

import (
	"math"
	"slices"

	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"pgregory.net/rapid"
)

// DTypeAndValues declares the constraints of a generated input tensor.
type DTypeAndValues struct {
	// DTypes the input can take, chosen uniformly.
	DTypes []dtypes.DType

	// MinNumDims and MaxNumDims bound the rank of the input.
	MinNumDims, MaxNumDims int

	// MinDimSize and MaxDimSize bound each dimension.
	MinDimSize, MaxDimSize int

	// MinValue and MaxValue bound the values, before rounding to the dtype.
	MinValue, MaxValue float64
}

// DefaultDTypeAndValues returns the default constraints: any supported float dtype, rank 0 to 4,
// dimensions of size 1 to 6 and values in [-100, 100].
func DefaultDTypeAndValues() DTypeAndValues {
	return DTypeAndValues{
		DTypes:     slices.Clone(tensors.SupportedDTypes),
		MinNumDims: 0,
		MaxNumDims: 4,
		MinDimSize: 1,
		MaxDimSize: 6,
		MinValue:   -100,
		MaxValue:   100,
	}
}

// Validate returns an error if the constraints can't be satisfied.
func (d DTypeAndValues) Validate() error {
	if len(d.DTypes) == 0 {
		return errors.New("DTypeAndValues: no dtypes given")
	}
	for _, dtype := range d.DTypes {
		if !tensors.IsSupported(dtype) {
			return errors.Errorf("DTypeAndValues: dtype %s not supported, valid values are %v", dtype, tensors.SupportedDTypes)
		}
	}
	if d.MinNumDims < 0 || d.MaxNumDims < d.MinNumDims {
		return errors.Errorf("DTypeAndValues: invalid rank range [%d, %d]", d.MinNumDims, d.MaxNumDims)
	}
	if d.MinDimSize < 1 || d.MaxDimSize < d.MinDimSize {
		return errors.Errorf("DTypeAndValues: invalid dimension size range [%d, %d]", d.MinDimSize, d.MaxDimSize)
	}
	if math.IsNaN(d.MinValue) || math.IsNaN(d.MaxValue) || math.IsInf(d.MinValue, 0) || math.IsInf(d.MaxValue, 0) ||
		d.MaxValue < d.MinValue {
		return errors.Errorf("DTypeAndValues: invalid value range [%g, %g]", d.MinValue, d.MaxValue)
	}
	return nil
}

// Gen returns a generator of tensors satisfying the constraints. It panics if they are invalid.
func (d DTypeAndValues) Gen() *rapid.Generator[*tensors.Tensor] {
	if err := d.Validate(); err != nil {
		panic(err)
	}
	dtypeGen := rapid.SampledFrom(d.DTypes)
	rankGen := rapid.IntRange(d.MinNumDims, d.MaxNumDims)
	dimGen := rapid.IntRange(d.MinDimSize, d.MaxDimSize)
	valueGen := FiniteFloats(d.MinValue, d.MaxValue)
	return rapid.Custom(func(t *rapid.T) *tensors.Tensor {
		dtype := dtypeGen.Draw(t, "dtype")
		dims := make([]int, rankGen.Draw(t, "rank"))
		size := 1
		for ii := range dims {
			dims[ii] = dimGen.Draw(t, "dim")
			size *= dims[ii]
		}
		values := rapid.SliceOfN(valueGen, size, size).Draw(t, "values")
		return tensors.FromFloat64s(dtype, values, dims...)
	})
}
