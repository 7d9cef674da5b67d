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

// Package tensors implements a `Tensor`, a representation of a multi-dimensional array stored in host memory.
//
// Tensors are the native arrays exchanged with the backends: they are defined by their shape (a data type and its
// axes dimensions) and their actual content, stored as a flat (1D) Go slice of the underlying dtype.
//
// Only floating point dtypes are supported: Float16 (github.com/x448/float16), BFloat16
// (github.com/gomlx/gopjrt/dtypes/bfloat16), Float32 and Float64.
//
// There are various ways to construct a Tensor:
//
//   - FromShape(shape shapes.Shape): creates a tensor with the given shape, and zero values.
//
//   - FromFlatDataAndDimensions[T Supported](data []T, dimensions ...int): creates a Tensor with the
//     given dimensions, and set the flattened values with the given data. Example:
//
//     t := FromFlatDataAndDimensions([]float32{1, 2, 3, 4}, 2, 2}) // Tensor with [[1,2], [3,4]]
//
//   - FromValue(value any): works with the scalar supported types as well as with any arbitrary
//     multidimensional slice of them. Slices of rank > 1 must be regular. Example:
//
//     t := FromValue([][]float64{{1,2}, {3, 5}, {7, 11}})
//
//   - FromFloat64s(dtype, values, dimensions...): creates a Tensor of the given dtype, rounding the
//     float64 values to it.
package tensors

import (
	"reflect"

	"github.com/gomlx/actcheck/pkg/core/shapes"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Supported lists the Go types a Tensor can hold. Used as a Generics constraint.
type Supported interface {
	float16.Float16 | bfloat16.BFloat16 | float32 | float64
}

// Tensor is a multidimensional array stored as a flat Go slice in row-major order.
//
// It is not safe for concurrent mutation.
type Tensor struct {
	shape shapes.Shape
	flat  any
}

var (
	float16Type  = reflect.TypeOf(float16.Float16(0))
	bfloat16Type = reflect.TypeOf(bfloat16.BFloat16(0))
	float32Type  = reflect.TypeOf(float32(0))
	float64Type  = reflect.TypeOf(float64(0))
)

// SupportedDTypes lists the dtypes a Tensor can hold, from the least to the most precise.
var SupportedDTypes = []dtypes.DType{dtypes.Float16, dtypes.BFloat16, dtypes.Float32, dtypes.Float64}

// IsSupported returns whether dtype can be held by a Tensor.
func IsSupported(dtype dtypes.DType) bool {
	return goTypeForDType(dtype) != nil
}

// DTypeFor returns the DType for the generic type T.
func DTypeFor[T Supported]() dtypes.DType {
	var t T
	switch any(t).(type) {
	case float16.Float16:
		return dtypes.Float16
	case bfloat16.BFloat16:
		return dtypes.BFloat16
	case float32:
		return dtypes.Float32
	case float64:
		return dtypes.Float64
	}
	return dtypes.InvalidDType
}

func goTypeForDType(dtype dtypes.DType) reflect.Type {
	switch dtype {
	case dtypes.Float16:
		return float16Type
	case dtypes.BFloat16:
		return bfloat16Type
	case dtypes.Float32:
		return float32Type
	case dtypes.Float64:
		return float64Type
	}
	return nil
}

func dtypeForGoType(t reflect.Type) dtypes.DType {
	switch t {
	case float16Type:
		return dtypes.Float16
	case bfloat16Type:
		return dtypes.BFloat16
	case float32Type:
		return dtypes.Float32
	case float64Type:
		return dtypes.Float64
	}
	return dtypes.InvalidDType
}

// FromShape returns a Tensor with the given shape, with the data initialized with zeros.
func FromShape(shape shapes.Shape) *Tensor {
	goType := goTypeForDType(shape.DType)
	if goType == nil {
		exceptions.Panicf("tensors.FromShape(%s): dtype %s not supported", shape, shape.DType)
	}
	size := shape.Size()
	return &Tensor{
		shape: shape.Clone(),
		flat:  reflect.MakeSlice(reflect.SliceOf(goType), size, size).Interface(),
	}
}

// FromFlatDataAndDimensions creates a tensor with the given dimensions, filled with the flattened values given in `data`.
// The data is copied to the Tensor.
// The `DType` is inferred from the `data` type.
func FromFlatDataAndDimensions[T Supported](data []T, dimensions ...int) *Tensor {
	shape := shapes.Make(DTypeFor[T](), dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("FromFlatDataAndDimensions(%s): data size is %d, but dimensions size is %d", shape, len(data), shape.Size())
	}
	t := FromShape(shape)
	copy(t.flat.([]T), data)
	return t
}

// FromFloat64s creates a tensor of the given dtype and dimensions, rounding each of the values to the dtype.
func FromFloat64s(dtype dtypes.DType, values []float64, dimensions ...int) *Tensor {
	shape := shapes.Make(dtype, dimensions...)
	if len(values) != shape.Size() {
		exceptions.Panicf("FromFloat64s(%s): got %d values, but dimensions size is %d", shape, len(values), shape.Size())
	}
	t := FromShape(shape)
	t.SetFloat64s(values)
	return t
}

// FromValue returns a Tensor constructed from the given multi-dimension slice (or scalar).
// If the rank of the `value` is larger than 1, the shape of all sub-slices must be the same.
// If value is already a *Tensor it is returned as is.
//
// It panics if the type is unsupported or the shape is not regular.
func FromValue(value any) *Tensor {
	if t, ok := value.(*Tensor); ok {
		return t
	}
	shape, err := shapeForValue(value)
	if err != nil {
		panic(errors.Wrapf(err, "cannot create shape from %T", value))
	}
	t := FromShape(shape)
	flatV := reflect.ValueOf(t.flat)
	if shape.IsScalar() {
		flatV.Index(0).Set(reflect.ValueOf(value))
		return t
	}
	copySlicesRecursively(flatV, reflect.ValueOf(value), shape.Strides())
	return t
}

// TryFromValue is like FromValue, but returns an error instead of panicking.
func TryFromValue(value any) (t *Tensor, err error) {
	err = exceptions.TryCatch[error](func() { t = FromValue(value) })
	return
}

// copySlicesRecursively copy values on a multi-dimension slice to a flat data slice
// assuming the strides for each dimension.
func copySlicesRecursively(data reflect.Value, mdSlice reflect.Value, strides []int) {
	if len(strides) == 1 {
		reflect.Copy(data, mdSlice)
		return
	}
	subStrides := strides[1:]
	for ii := range mdSlice.Len() {
		subData := data.Slice(ii*strides[0], (ii+1)*strides[0])
		copySlicesRecursively(subData, mdSlice.Index(ii), subStrides)
	}
}

func shapeForValue(v any) (shape shapes.Shape, err error) {
	if v == nil {
		return shape, errors.New("nil value")
	}
	err = shapeForValueRecursive(&shape, reflect.ValueOf(v), reflect.TypeOf(v))
	return
}

func shapeForValueRecursive(shape *shapes.Shape, v reflect.Value, t reflect.Type) error {
	if t.Kind() == reflect.Slice {
		t = t.Elem()
		shape.Dimensions = append(shape.Dimensions, v.Len())
		shapePrefix := shape.Clone()
		if v.Len() == 0 {
			return errors.Errorf("value with empty slice not valid for Tensor conversion: %T", v.Interface())
		}
		if err := shapeForValueRecursive(shape, v.Index(0), t); err != nil {
			return err
		}
		for ii := 1; ii < v.Len(); ii++ {
			shapeTest := shapePrefix.Clone()
			if err := shapeForValueRecursive(&shapeTest, v.Index(ii), t); err != nil {
				return err
			}
			if !shape.Equal(shapeTest) {
				return errors.Errorf("sub-slices have irregular shapes, found shapes %q, and %q", shape, shapeTest)
			}
		}
		return nil
	}
	shape.DType = dtypeForGoType(t)
	if shape.DType == dtypes.InvalidDType {
		return errors.Errorf("cannot convert type %s to a tensor value, only %v are supported", t, SupportedDTypes)
	}
	return nil
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType of the tensor's elements.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Rank of the tensor.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// Size is the number of elements of the tensor.
func (t *Tensor) Size() int { return t.shape.Size() }

// Flat returns the underlying flat slice, one of []float16.Float16, []bfloat16.BFloat16, []float32 or []float64.
// It is not a copy: changes are reflected in the tensor.
func (t *Tensor) Flat() any { return t.flat }

// Flat returns the underlying flat slice of the tensor with the Go type T.
// It panics if T doesn't match the tensor dtype.
func Flat[T Supported](t *Tensor) []T {
	flat, ok := t.flat.([]T)
	if !ok {
		exceptions.Panicf("tensors.Flat[%s]: tensor has dtype %s", DTypeFor[T](), t.DType())
	}
	return flat
}

// Float64s returns a copy of the values of the tensor converted to float64.
func (t *Tensor) Float64s() []float64 {
	values := make([]float64, t.Size())
	switch flat := t.flat.(type) {
	case []float16.Float16:
		for ii, v := range flat {
			values[ii] = float64(v.Float32())
		}
	case []bfloat16.BFloat16:
		for ii, v := range flat {
			values[ii] = float64(v.Float32())
		}
	case []float32:
		for ii, v := range flat {
			values[ii] = float64(v)
		}
	case []float64:
		copy(values, flat)
	}
	return values
}

// SetFloat64s sets the values of the tensor from float64 values, rounding them to the tensor dtype.
func (t *Tensor) SetFloat64s(values []float64) {
	if len(values) != t.Size() {
		exceptions.Panicf("SetFloat64s: got %d values for tensor shaped %s", len(values), t.shape)
	}
	switch flat := t.flat.(type) {
	case []float16.Float16:
		for ii, v := range values {
			flat[ii] = float16.Fromfloat32(float32(v))
		}
	case []bfloat16.BFloat16:
		for ii, v := range values {
			flat[ii] = bfloat16.FromFloat32(float32(v))
		}
	case []float32:
		for ii, v := range values {
			flat[ii] = float32(v)
		}
	case []float64:
		copy(flat, values)
	}
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	clone := FromShape(t.shape)
	reflect.Copy(reflect.ValueOf(clone.flat), reflect.ValueOf(t.flat))
	return clone
}

// AssignFrom copies the contents of src into t, in place.
// Both tensors must have the same shape (dtype and dimensions).
func (t *Tensor) AssignFrom(src *Tensor) error {
	if !t.shape.Equal(src.shape) {
		return errors.Errorf("cannot assign tensor shaped %s to tensor shaped %s", src.shape, t.shape)
	}
	if t == src {
		return nil
	}
	reflect.Copy(reflect.ValueOf(t.flat), reflect.ValueOf(src.flat))
	return nil
}

// Value returns a multidimensional slice (or a scalar) with a copy of the values of the tensor.
func (t *Tensor) Value() any {
	flatV := reflect.ValueOf(t.flat)
	if t.shape.IsScalar() {
		return flatV.Index(0).Interface()
	}
	return convertDataToSlices(reflect.ValueOf(t.Clone().flat), t.shape.Dimensions...).Interface()
}

// convertDataToSlices takes data as a flat slice, and creates a multidimensional slices with the given dimensions that
// points to the given data.
func convertDataToSlices(dataV reflect.Value, dimensions ...int) reflect.Value {
	if len(dimensions) <= 1 {
		return dataV
	}
	resultT := dataV.Type().Elem()
	for range dimensions {
		resultT = reflect.SliceOf(resultT)
	}
	return createSlicesRecursively(resultT, dataV, dimensions, shapes.Shape{Dimensions: dimensions}.Strides())
}

func createSlicesRecursively(resultT reflect.Type, data reflect.Value, dimensions []int, strides []int) reflect.Value {
	if len(strides) == 1 {
		return data
	}
	numElements := dimensions[0]
	slice := reflect.MakeSlice(resultT, numElements, numElements)
	for ii := range numElements {
		subData := data.Slice(ii*strides[0], (ii+1)*strides[0])
		slice.Index(ii).Set(createSlicesRecursively(resultT.Elem(), subData, dimensions[1:], strides[1:]))
	}
	return slice
}
