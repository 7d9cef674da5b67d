// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(dtypes.Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Len(t, shape0.Dimensions, 0)
	require.Equal(t, 1, shape0.Size())

	shape1 := Make(dtypes.Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())
	require.Equal(t, []int{6, 2, 1}, shape1.Strides())

	require.Panics(t, func() { _ = Make(dtypes.Float32, 2, 0) })
}

func TestDim(t *testing.T) {
	shape := Make(dtypes.Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 3, shape.Dim(1))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 3, shape.Dim(-2))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestEqual(t *testing.T) {
	s0 := Make(dtypes.Float32, 2, 3)
	require.True(t, s0.Equal(s0.Clone()))
	require.False(t, s0.Equal(Make(dtypes.Float64, 2, 3)))
	require.True(t, s0.EqualDimensions(Make(dtypes.Float64, 2, 3)))
	require.False(t, s0.Equal(Make(dtypes.Float32, 3, 2)))
	require.True(t, s0.WithDType(dtypes.Float16).Equal(Make(dtypes.Float16, 2, 3)))
	require.Equal(t, dtypes.Float32, s0.DType, "WithDType must not change the original")
}

func TestAdjustAxisToRank(t *testing.T) {
	axis, err := AdjustAxisToRank(-1, 2)
	require.NoError(t, err)
	require.Equal(t, 1, axis)
	axis, err = AdjustAxisToRank(0, 1)
	require.NoError(t, err)
	require.Equal(t, 0, axis)
	_, err = AdjustAxisToRank(-1, 0)
	require.Error(t, err)
	_, err = AdjustAxisToRank(2, 2)
	require.Error(t, err)
}
