package verify

import (
	"fmt"
	"iter"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/functional"
)

// Flags selects the calling convention used to invoke the candidate implementation.
// Each flag is independent of the others.
type Flags struct {
	// AsVariable wraps the inputs as variables. The result must be a variable.
	AsVariable bool

	// WithOut passes a pre-allocated output buffer as the "out" argument. The result must be that same buffer.
	WithOut bool

	// Container wraps each input in a nested container. The result must be a container with the same structure.
	Container bool

	// InstanceMethod invokes the function as a method of the first input, instead of as a free function.
	InstanceMethod bool

	// NativeArray passes inputs as native tensors, instead of wrapping them as arrays of the frontend.
	NativeArray bool

	// NumPositional is the number of arguments passed positionally, the others are passed by keyword.
	// When invoking as a method, the receiver counts as the first positional argument.
	NumPositional int
}

// String implements fmt.Stringer.
func (f Flags) String() string {
	return fmt.Sprintf("{as_variable=%t, with_out=%t, container=%t, instance_method=%t, native_array=%t, num_positional=%d}",
		f.AsVariable, f.WithOut, f.Container, f.InstanceMethod, f.NativeArray, f.NumPositional)
}

// AllFlags enumerates every combination of flags valid for the function fn: all boolean flags and
// NumPositional from 0 to the number of parameters that can be passed positionally.
//
// It yields nothing for unknown functions.
func AllFlags(fn backends.FnName) iter.Seq[Flags] {
	return func(yield func(Flags) bool) {
		sig := functional.DefaultSignature(fn)
		if sig == nil {
			return
		}
		for bits := range 1 << 5 {
			for numPositional := range sig.NumPositional() + 1 {
				flags := Flags{
					AsVariable:     bits&1 != 0,
					WithOut:        bits&2 != 0,
					Container:      bits&4 != 0,
					InstanceMethod: bits&8 != 0,
					NativeArray:    bits&16 != 0,
					NumPositional:  numPositional,
				}
				if !yield(flags) {
					return
				}
			}
		}
	}
}
