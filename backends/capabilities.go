package backends

import (
	"maps"
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
)

// Capabilities holds mappings of what is supported by a backend.
type Capabilities struct {
	// Functions supported by a backend.
	// If not listed, it's assumed to be false, hence not supported.
	Functions map[FnName]bool

	// DTypes list the data types supported by a backend.
	// If not listed, it's assumed to be false, hence not supported.
	DTypes map[dtypes.DType]bool
}

// Clone makes a deep copy of the Capabilities.
func (c Capabilities) Clone() Capabilities {
	var c2 Capabilities
	c2.Functions = make(map[FnName]bool, len(c.Functions))
	maps.Copy(c2.Functions, c.Functions)
	c2.DTypes = make(map[dtypes.DType]bool, len(c.DTypes))
	maps.Copy(c2.DTypes, c.DTypes)
	return c2
}

// SupportedDTypes returns the dtypes marked as supported, sorted by their enum value.
func (c Capabilities) SupportedDTypes() []dtypes.DType {
	var supported []dtypes.DType
	for dtype, ok := range c.DTypes {
		if ok {
			supported = append(supported, dtype)
		}
	}
	slices.Sort(supported)
	return supported
}

// Intersect returns the capabilities supported by both c and other.
// It is used to find what can be verified between a reference and a candidate backend.
func (c Capabilities) Intersect(other Capabilities) Capabilities {
	var result Capabilities
	result.Functions = make(map[FnName]bool)
	for fn, ok := range c.Functions {
		if ok && other.Functions[fn] {
			result.Functions[fn] = true
		}
	}
	result.DTypes = make(map[dtypes.DType]bool)
	for dtype, ok := range c.DTypes {
		if ok && other.DTypes[dtype] {
			result.DTypes[dtype] = true
		}
	}
	return result
}
