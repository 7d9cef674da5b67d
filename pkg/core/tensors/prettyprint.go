package tensors

import (
	"bytes"
	"fmt"
)

// MaxElementsPerRow is the number of elements of the last axis printed by Summary before using an ellipsis.
var MaxElementsPerRow = 6

// String converts to string, using t.Summary(precision=4).
func (t *Tensor) String() string {
	return t.Summary(4)
}

// Summary returns a one-line summary of the Tensor's content, prefixed by its shape.
// Inspired by numpy output.
func (t *Tensor) Summary(precision int) string {
	var buf bytes.Buffer
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(&buf, format, args...) }
	values := t.Float64s()
	w("%s", t.shape)
	if t.shape.IsScalar() {
		w("(%.*g)", precision, values[0])
		return buf.String()
	}

	w(": ")
	dims := t.shape.Dimensions
	var printElements func(index int, currentDims []int)
	printElements = func(index int, currentDims []int) {
		w("[")
		if len(currentDims) == 1 {
			n := currentDims[0]
			half := MaxElementsPerRow / 2
			for ii := range n {
				elided := n > MaxElementsPerRow && ii >= half && ii < n-half
				if elided {
					if ii == half {
						w(", ...")
					}
					continue
				}
				if ii > 0 {
					w(", ")
				}
				w("%.*g", precision, values[index+ii])
			}
			w("]")
			return
		}
		stride := 1
		for _, dim := range currentDims[1:] {
			stride *= dim
		}
		for ii := range currentDims[0] {
			if ii > 0 {
				w(", ")
			}
			printElements(index+ii*stride, currentDims[1:])
		}
		w("]")
	}
	printElements(0, dims)
	return buf.String()
}
