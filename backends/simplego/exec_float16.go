// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

// Float16 and BFloat16 support: values are widened to float32, computed and rounded back.

import (
	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

func execUnaryF16(op unaryOp[float32], inputs, outputs []float16.Float16, params backends.Params) {
	for ii, input := range inputs {
		outputs[ii] = float16.Fromfloat32(op(input.Float32(), params))
	}
}

func execUnaryBF16(op unaryOp[float32], inputs, outputs []bfloat16.BFloat16, params backends.Params) {
	for ii, input := range inputs {
		outputs[ii] = bfloat16.FromFloat32(op(input.Float32(), params))
	}
}

func widenF16(values []float16.Float16) []float32 {
	widened := make([]float32, len(values))
	for ii, v := range values {
		widened[ii] = v.Float32()
	}
	return widened
}

func narrowF16(values []float32, outputs []float16.Float16) {
	for ii, v := range values {
		outputs[ii] = float16.Fromfloat32(v)
	}
}

func widenBF16(values []bfloat16.BFloat16) []float32 {
	widened := make([]float32, len(values))
	for ii, v := range values {
		widened[ii] = v.Float32()
	}
	return widened
}

func narrowBF16(values []float32, outputs []bfloat16.BFloat16) {
	for ii, v := range values {
		outputs[ii] = bfloat16.FromFloat32(v)
	}
}
