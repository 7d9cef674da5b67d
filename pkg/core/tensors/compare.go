package tensors

import (
	"fmt"
	"math"
)

// Mismatch describes the first element where two tensors differ beyond a tolerance.
type Mismatch struct {
	// Index is the flat index of the element.
	Index int

	// Got and Want are the values compared, converted to float64.
	Got, Want float64

	// Diff is |Got - Want| and Allowed the maximum difference accepted at this element.
	Diff, Allowed float64
}

// String implements fmt.Stringer.
func (m Mismatch) String() string {
	return fmt.Sprintf("element #%d: got %g, want %g (|diff|=%g > allowed %g)", m.Index, m.Got, m.Want, m.Diff, m.Allowed)
}

// IsClose reports whether got is within atol + rtol*|want| of want.
//
// NaN matches NaN, and infinities only match an infinity of the same sign.
func IsClose(got, want, atol, rtol float64) bool {
	if math.IsNaN(got) || math.IsNaN(want) {
		return math.IsNaN(got) && math.IsNaN(want)
	}
	if math.IsInf(got, 0) || math.IsInf(want, 0) {
		return got == want
	}
	return math.Abs(got-want) <= atol+rtol*math.Abs(want)
}

// FirstMismatch compares got and want elementwise with IsClose, and returns the first element that is
// not close, if any.
//
// Both tensors must have the same number of elements, their dtypes may differ: values are compared as float64.
func FirstMismatch(got, want *Tensor, atol, rtol float64) (mismatch Mismatch, found bool) {
	gotValues, wantValues := got.Float64s(), want.Float64s()
	if len(gotValues) != len(wantValues) {
		return Mismatch{Index: min(len(gotValues), len(wantValues))}, true
	}
	for ii, g := range gotValues {
		w := wantValues[ii]
		if IsClose(g, w, atol, rtol) {
			continue
		}
		return Mismatch{
			Index:   ii,
			Got:     g,
			Want:    w,
			Diff:    math.Abs(g - w),
			Allowed: atol + rtol*math.Abs(w),
		}, true
	}
	return
}

// InDelta checks weather Abs(t - otherTensor) <= delta for every element.
// If they are the same pointer they are considered equal.
// If the shapes are different it returns false.
func (t *Tensor) InDelta(otherTensor *Tensor, delta float64) bool {
	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	_, found := FirstMismatch(t, otherTensor, delta, 0)
	return !found
}

// Equal checks weather t == otherTensor, elementwise and with the same shape.
// NaN values are considered equal to each other.
func (t *Tensor) Equal(otherTensor *Tensor) bool {
	return t.InDelta(otherTensor, 0)
}
