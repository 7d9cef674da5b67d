/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package tensors

import (
	"math"
	"testing"

	"github.com/gomlx/actcheck/pkg/core/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestFromShape(t *testing.T) {
	for _, dtype := range SupportedDTypes {
		tensor := FromShape(shapes.Make(dtype, 2, 3))
		require.Equal(t, dtype, tensor.DType())
		require.Equal(t, 6, tensor.Size())
		require.Equal(t, []float64{0, 0, 0, 0, 0, 0}, tensor.Float64s())
	}
	require.Panics(t, func() { _ = FromShape(shapes.Make(dtypes.Int32, 2)) })
}

func TestFromValue(t *testing.T) {
	tensor := FromValue([][]float32{{1, 2, 3}, {4, 5, 6}})
	require.True(t, tensor.Shape().Equal(shapes.Make(dtypes.Float32, 2, 3)))
	require.Equal(t, []float32{1, 2, 3, 4, 5, 6}, Flat[float32](tensor))
	require.Equal(t, [][]float32{{1, 2, 3}, {4, 5, 6}}, tensor.Value())

	scalar := FromValue(2.5)
	require.True(t, scalar.Shape().IsScalar())
	require.Equal(t, 2.5, scalar.Value())

	require.Same(t, tensor, FromValue(tensor))
	require.Panics(t, func() { _ = FromValue([][]float32{{1, 2, 3}, {4, 5}}) }, "irregular shape")
	require.Panics(t, func() { _ = FromValue([]int{1, 2}) }, "unsupported dtype")
	require.Panics(t, func() { _ = FromValue([]float64{}) }, "empty slice")
}

func TestFloat64Conversions(t *testing.T) {
	values := []float64{-1, 0.5, 2.25, math.Inf(1)}
	for _, dtype := range SupportedDTypes {
		tensor := FromFloat64s(dtype, values, 2, 2)
		require.Equal(t, values, tensor.Float64s(), "dtype %s", dtype)
	}

	f16 := FromFloat64s(dtypes.Float16, []float64{1.0 / 3.0}, 1)
	require.Equal(t, float16.Fromfloat32(float32(1.0/3.0)), Flat[float16.Float16](f16)[0])
	bf16 := FromFloat64s(dtypes.BFloat16, []float64{1.0 / 3.0}, 1)
	require.Equal(t, bfloat16.FromFloat32(float32(1.0/3.0)), Flat[bfloat16.BFloat16](bf16)[0])
	require.Panics(t, func() { _ = Flat[float32](f16) })
}

func TestCloneAndAssign(t *testing.T) {
	tensor := FromFlatDataAndDimensions([]float64{1, 2, 3}, 3)
	clone := tensor.Clone()
	Flat[float64](clone)[0] = 7
	require.Equal(t, []float64{1, 2, 3}, tensor.Float64s())

	require.NoError(t, tensor.AssignFrom(clone))
	require.Equal(t, []float64{7, 2, 3}, tensor.Float64s())
	require.Error(t, tensor.AssignFrom(FromFlatDataAndDimensions([]float32{1, 2, 3}, 3)))
	require.Error(t, tensor.AssignFrom(FromFlatDataAndDimensions([]float64{1, 2}, 2)))
}

func TestIsClose(t *testing.T) {
	assert.True(t, IsClose(1.0, 1.0, 0, 0))
	assert.True(t, IsClose(1.001, 1.0, 0, 1e-2))
	assert.False(t, IsClose(1.1, 1.0, 1e-3, 1e-3))
	assert.True(t, IsClose(math.NaN(), math.NaN(), 0, 0))
	assert.False(t, IsClose(math.NaN(), 1, 1, 1))
	assert.True(t, IsClose(math.Inf(-1), math.Inf(-1), 0, 0))
	assert.False(t, IsClose(math.Inf(1), math.Inf(-1), 1, 1))
	assert.False(t, IsClose(math.Inf(1), 1e300, 1, 1))
}

func TestFirstMismatch(t *testing.T) {
	want := FromFlatDataAndDimensions([]float64{0, 1, 2}, 3)
	got := FromFlatDataAndDimensions([]float32{0, 1, 2.5}, 3)
	mismatch, found := FirstMismatch(got, want, 1e-6, 1e-5)
	require.True(t, found)
	require.Equal(t, 2, mismatch.Index)
	require.InDelta(t, 0.5, mismatch.Diff, 1e-9)
	require.Contains(t, mismatch.String(), "element #2")

	_, found = FirstMismatch(got, want, 0.5, 0)
	require.False(t, found)

	require.True(t, want.InDelta(FromFlatDataAndDimensions([]float64{0, 1, 2.1}, 3), 0.2))
	require.False(t, want.InDelta(got, 1), "different dtypes are never InDelta")
	require.True(t, want.Equal(want.Clone()))
}

func TestSummary(t *testing.T) {
	tensor := FromValue([][]float32{{1, 2}, {3, 4}})
	require.Equal(t, "(Float32)[2 2]: [[1, 2], [3, 4]]", tensor.String())
	require.Equal(t, "(Float64)(0.5)", FromValue(0.5).String())

	long := FromFlatDataAndDimensions([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	require.Equal(t, "(Float64)[8]: [0, 1, 2, ..., 5, 6, 7]", long.String())
}

func TestTryFromValue(t *testing.T) {
	tensor, err := TryFromValue([]float64{1, 2})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, tensor.Float64s())

	_, err = TryFromValue("not a tensor")
	require.Error(t, err)
}
