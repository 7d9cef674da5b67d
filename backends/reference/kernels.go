package reference

import (
	"math"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/shapes"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// GeluTanhCoefficient is the cubic coefficient of the tanh approximation of gelu.
const GeluTanhCoefficient = 0.044715

func relu(x float64, _ backends.Params) float64 {
	if math.IsNaN(x) {
		return x
	}
	return math.Max(x, 0)
}

func leakyRelu(x float64, params backends.Params) float64 {
	if x > 0 {
		return x
	}
	return x * params.Alpha
}

// gelu is x*Φ(x), where Φ is the standard normal CDF. The approximate version replaces Φ with
// 0.5*(1+tanh(sqrt(2/π)*(x+0.044715*x³))).
func gelu(x float64, params backends.Params) float64 {
	if params.Approximate {
		return 0.5 * x * (1 + math.Tanh(math.Sqrt(2/math.Pi)*(x+GeluTanhCoefficient*x*x*x)))
	}
	return 0.5 * x * (1 + math.Erf(x/math.Sqrt2))
}

func tanh(x float64, _ backends.Params) float64 {
	return math.Tanh(x)
}

func sigmoid(x float64, _ backends.Params) float64 {
	return 1 / (1 + math.Exp(-x))
}

// softplus is log(1+e^x), computed in a numerically stable way.
func softplus(x float64, _ backends.Params) float64 {
	return math.Log1p(math.Exp(-math.Abs(x))) + math.Max(x, 0)
}

// execSoftmax computes exp(x - logsumexp(x)) along params.Axis.
func execSoftmax(x *tensors.Tensor, params backends.Params) (*tensors.Tensor, error) {
	shape := x.Shape()
	axis, err := shapes.AdjustAxisToRank(params.Axis, shape.Rank())
	if err != nil {
		return nil, errors.WithMessagef(err, "softmax of %s", shape)
	}
	values := x.Float64s()
	axisDim := shape.Dimensions[axis]
	axisStride := shape.Strides()[axis]
	outerSize := shape.Size() / (axisDim * axisStride)
	row := make([]float64, axisDim)
	for outer := range outerSize {
		for inner := range axisStride {
			base := outer*axisDim*axisStride + inner
			for ii := range axisDim {
				row[ii] = values[base+ii*axisStride]
			}
			logSum := floats.LogSumExp(row)
			for ii := range axisDim {
				values[base+ii*axisStride] = math.Exp(row[ii] - logSum)
			}
		}
	}
	return tensors.FromFloat64s(x.DType(), values, shape.Dimensions...), nil
}
