package simplego

import (
	"math"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// unaryOp computes an elementwise function on one value.
type unaryOp[T constraints.Float] func(x T, params backends.Params) T

// unaryKernel returns a Kernel that applies the elementwise op in the native precision of the input.
// Float16 and BFloat16 use the float32 version.
func (b *Backend) unaryKernel(op32 unaryOp[float32], op64 unaryOp[float64]) backends.Kernel {
	return func(x *tensors.Tensor, params backends.Params) (*tensors.Tensor, error) {
		output := tensors.FromShape(x.Shape())
		var err error
		switch x.DType() {
		case dtypes.Float32:
			err = execUnaryGeneric(b, op32, tensors.Flat[float32](x), tensors.Flat[float32](output), params)
		case dtypes.Float64:
			err = execUnaryGeneric(b, op64, tensors.Flat[float64](x), tensors.Flat[float64](output), params)
		case dtypes.Float16:
			err = b.workers.forEachChunk(x.Size(), func(start, end int) {
				execUnaryF16(op32, tensors.Flat[float16.Float16](x)[start:end], tensors.Flat[float16.Float16](output)[start:end], params)
			})
		case dtypes.BFloat16:
			err = b.workers.forEachChunk(x.Size(), func(start, end int) {
				execUnaryBF16(op32, tensors.Flat[bfloat16.BFloat16](x)[start:end], tensors.Flat[bfloat16.BFloat16](output)[start:end], params)
			})
		default:
			return nil, errors.Wrapf(backends.ErrUnsupportedDType, "backend %q: dtype %s", BackendName, x.DType())
		}
		if err != nil {
			return nil, errors.WithMessagef(err, "backend %q: %s", BackendName, x.Shape())
		}
		return output, nil
	}
}

func execUnaryGeneric[T constraints.Float](b *Backend, op unaryOp[T], inputs, outputs []T, params backends.Params) error {
	return b.workers.forEachChunk(len(inputs), func(start, end int) {
		for ii, x := range inputs[start:end] {
			outputs[start+ii] = op(x, params)
		}
	})
}

func relu[T constraints.Float](x T, _ backends.Params) T {
	if x < 0 {
		return 0
	}
	return x
}

func leakyRelu[T constraints.Float](x T, params backends.Params) T {
	if x > 0 {
		return x
	}
	return x * T(params.Alpha)
}

const geluTanhCoefficient = 0.044715

func gelu[T constraints.Float](x T, params backends.Params) T {
	if params.Approximate {
		inner := T(math.Sqrt(2/math.Pi)) * (x + geluTanhCoefficient*x*x*x)
		return 0.5 * x * (1 + T(math.Tanh(float64(inner))))
	}
	return 0.5 * x * (1 + T(math.Erf(float64(x)/math.Sqrt2)))
}

func tanh[T constraints.Float](x T, _ backends.Params) T {
	return T(math.Tanh(float64(x)))
}

// sigmoid avoids overflowing exp for large negative values.
func sigmoid[T constraints.Float](x T, _ backends.Params) T {
	if x >= 0 {
		return 1 / (1 + T(math.Exp(float64(-x))))
	}
	ex := T(math.Exp(float64(x)))
	return ex / (1 + ex)
}

// softplus is log(1+e^x) = log1p(e^-|x|) + max(x, 0).
func softplus[T constraints.Float](x T, _ backends.Params) T {
	abs := T(math.Abs(float64(x)))
	return T(math.Log1p(math.Exp(float64(-abs)))) + max(x, 0)
}
