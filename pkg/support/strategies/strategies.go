// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package strategies generates random inputs for the verifier, from declarative constraints.
//
// Generators are rapid generators: drawn inside rapid.Check they shrink failing cases to a minimal
// one, and drawn with Generator.Example they are deterministic on their seed. FunctionStrategy combines
// them into a lazy sequence of verify.Case, one per trial, which can be restarted from its seed.
package strategies

import (
	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/functional"
	"github.com/x448/float16"
	"pgregory.net/rapid"
)

// float16ExponentMask selects the exponent bits of a float16. All ones is an infinity or a NaN.
const float16ExponentMask = 0x7c00

// Floats16 generates finite values exactly representable in float16, drawn from their bit patterns:
// zeros, subnormals and the largest values included.
func Floats16() *rapid.Generator[float64] {
	finite := rapid.Uint16().Filter(func(bits uint16) bool {
		return bits&float16ExponentMask != float16ExponentMask
	})
	return rapid.Map(finite, func(bits uint16) float64 {
		return float64(float16.Float16(bits).Float32())
	})
}

// FiniteFloats generates finite values in the closed range [lo, hi]. One in eight values is a boundary
// value (lo, hi, or 0 and ±1 if in range).
func FiniteFloats(lo, hi float64) *rapid.Generator[float64] {
	var special []float64
	for _, v := range []float64{lo, hi, 0, 1, -1} {
		if v >= lo && v <= hi {
			special = append(special, v)
		}
	}
	specialGen := rapid.SampledFrom(special)
	rangeGen := rapid.Float64Range(lo, hi)
	pickGen := rapid.IntRange(0, 7)
	return rapid.Custom(func(t *rapid.T) float64 {
		if pickGen.Draw(t, "pick") == 0 {
			return specialGen.Draw(t, "boundary")
		}
		return rangeGen.Draw(t, "value")
	})
}

// NumPositionalArgs generates how many arguments of fn are passed positionally: from 0 to the number of
// parameters that can be passed positionally.
func NumPositionalArgs(fn backends.FnName) *rapid.Generator[int] {
	sig := functional.DefaultSignature(fn)
	if sig == nil {
		return rapid.Just(0)
	}
	return rapid.IntRange(0, sig.NumPositional())
}
