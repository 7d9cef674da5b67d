// Package variables implements Variable, a named holder of a tensor value that marks it as differentiable.
//
// Functions called with variables as inputs return variables as outputs.
package variables

import (
	"fmt"
	"sync/atomic"

	"github.com/gomlx/actcheck/pkg/core/shapes"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/exceptions"
)

// Variable holds a differentiable tensor value.
type Variable struct {
	name  string
	value *tensors.Tensor
}

var variableCounter atomic.Int64

// New creates a new variable holding value, with an automatically generated name.
// The value is not copied.
func New(value *tensors.Tensor) *Variable {
	name := fmt.Sprintf("var_%d", variableCounter.Add(1))
	if value == nil {
		exceptions.Panicf("variables.New(): nil value for %q", name)
	}
	return &Variable{name: name, value: value}
}

// AssertValid panics if the variable is nil or holds no value.
func (v *Variable) AssertValid() {
	if v == nil {
		exceptions.Panicf("variables.Variable is nil")
	}
	if v.value == nil {
		exceptions.Panicf("variables.Variable %q has no value", v.name)
	}
}

// Name of the variable.
func (v *Variable) Name() string {
	v.AssertValid()
	return v.name
}

// String implements fmt.Stringer.
func (v *Variable) String() string {
	if v == nil || v.value == nil {
		return "INVALID (NIL) VARIABLE"
	}
	return fmt.Sprintf("Variable(%s)%s", v.name, v.value.Shape())
}

// Shape returns the variable shape.
func (v *Variable) Shape() shapes.Shape {
	if v == nil || v.value == nil {
		return shapes.Invalid()
	}
	return v.value.Shape()
}

// Value returns the tensor holding the variable value. It is not a copy.
func (v *Variable) Value() *tensors.Tensor {
	v.AssertValid()
	return v.value
}
