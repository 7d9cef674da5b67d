// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"math"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/shapes"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// computeAxisStrides returns the outer size, axis size, and inner size for iterating
// over an axis of the given shape.
func computeAxisStrides(shape shapes.Shape, axis int) (outerSize, axisSize, innerSize int) {
	dims := shape.Dimensions
	outerSize = 1
	for i := range axis {
		outerSize *= dims[i]
	}
	axisSize = dims[axis]
	innerSize = 1
	for i := axis + 1; i < len(dims); i++ {
		innerSize *= dims[i]
	}
	return
}

// execSoftmax normalizes exp(x) along params.Axis.
func execSoftmax(x *tensors.Tensor, params backends.Params) (*tensors.Tensor, error) {
	shape := x.Shape()
	axis, err := shapes.AdjustAxisToRank(params.Axis, shape.Rank())
	if err != nil {
		return nil, errors.WithMessagef(err, "softmax of %s", shape)
	}
	output := tensors.FromShape(shape)
	switch x.DType() {
	case dtypes.Float32:
		softmax(tensors.Flat[float32](x), tensors.Flat[float32](output), axis, shape)
	case dtypes.Float64:
		softmax(tensors.Flat[float64](x), tensors.Flat[float64](output), axis, shape)
	case dtypes.Float16:
		result := make([]float32, shape.Size())
		softmax(widenF16(tensors.Flat[float16.Float16](x)), result, axis, shape)
		narrowF16(result, tensors.Flat[float16.Float16](output))
	case dtypes.BFloat16:
		result := make([]float32, shape.Size())
		softmax(widenBF16(tensors.Flat[bfloat16.BFloat16](x)), result, axis, shape)
		narrowBF16(result, tensors.Flat[bfloat16.BFloat16](output))
	default:
		return nil, errors.Wrapf(backends.ErrUnsupportedDType, "backend %q: softmax of dtype %s", BackendName, x.DType())
	}
	return output, nil
}

// softmax makes three passes over the axis: find max, compute exp(x-max) and sum, then normalize.
func softmax[T constraints.Float](input, output []T, axis int, shape shapes.Shape) {
	outerSize, axisSize, innerSize := computeAxisStrides(shape, axis)
	for outer := range outerSize {
		for inner := range innerSize {
			baseIdx := outer*axisSize*innerSize + inner

			maxVal := T(math.Inf(-1))
			for i := range axisSize {
				idx := baseIdx + i*innerSize
				if input[idx] > maxVal {
					maxVal = input[idx]
				}
			}

			var sum T
			for i := range axisSize {
				idx := baseIdx + i*innerSize
				output[idx] = T(math.Exp(float64(input[idx] - maxVal)))
				sum += output[idx]
			}

			invSum := 1 / sum
			for i := range axisSize {
				idx := baseIdx + i*innerSize
				output[idx] *= invSum
			}
		}
	}
}
