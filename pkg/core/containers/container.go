// Package containers implements Container, a nested dictionary-like structure holding arrays (or any
// other values) as leaves.
//
// Functions called with a container map over its leaves and return a container with the same structure.
// Keys are always iterated in sorted order, so traversal is deterministic.
package containers

import (
	"fmt"
	"iter"
	"strings"

	"github.com/gomlx/actcheck/pkg/support/xslices"
	"github.com/pkg/errors"
)

// PathSeparator joins the keys of nested containers when forming the path of a leaf.
const PathSeparator = "/"

// Container maps string keys to leaves or to nested *Container values.
//
// The zero value is not usable, create it with New.
type Container struct {
	entries map[string]any
}

// New returns an empty Container.
func New() *Container {
	return &Container{entries: make(map[string]any)}
}

// Set the value for key. If value is a *Container it becomes a nested container.
// It returns the container itself, so calls can be cascaded.
func (c *Container) Set(key string, value any) *Container {
	if key == "" || strings.Contains(key, PathSeparator) {
		panic(errors.Errorf("containers: invalid key %q, it must be non-empty and not contain %q", key, PathSeparator))
	}
	c.entries[key] = value
	return c
}

// Get returns the value for key, and whether it was found.
func (c *Container) Get(key string) (value any, found bool) {
	value, found = c.entries[key]
	return
}

// GetPath returns the leaf (or nested container) at the given path, with keys separated by PathSeparator.
func (c *Container) GetPath(path string) (value any, found bool) {
	current := c
	keys := strings.Split(path, PathSeparator)
	for ii, key := range keys {
		value, found = current.entries[key]
		if !found || ii == len(keys)-1 {
			return
		}
		current, found = value.(*Container)
		if !found {
			return nil, false
		}
	}
	return
}

// Len returns the number of direct entries (leaves or nested containers) of the container.
func (c *Container) Len() int {
	return len(c.entries)
}

// Keys returns the sorted keys of the container.
func (c *Container) Keys() []string {
	return xslices.SortedKeys(c.entries)
}

// Leaves iterates over all leaves of the container, recursively, in sorted key order.
// The path of a leaf is its keys joined by PathSeparator.
func (c *Container) Leaves() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		c.walk("", yield)
	}
}

func (c *Container) walk(prefix string, yield func(string, any) bool) bool {
	for _, key := range c.Keys() {
		path := prefix + key
		if sub, ok := c.entries[key].(*Container); ok {
			if !sub.walk(path+PathSeparator, yield) {
				return false
			}
			continue
		}
		if !yield(path, c.entries[key]) {
			return false
		}
	}
	return true
}

// Map returns a new container with the same structure, where each leaf is replaced by fn(path, leaf).
// It stops at the first error, returned annotated with the path of the leaf.
func (c *Container) Map(fn func(path string, leaf any) (any, error)) (*Container, error) {
	return c.mapWithPrefix("", fn)
}

func (c *Container) mapWithPrefix(prefix string, fn func(path string, leaf any) (any, error)) (*Container, error) {
	result := New()
	for _, key := range c.Keys() {
		path := prefix + key
		if sub, ok := c.entries[key].(*Container); ok {
			mapped, err := sub.mapWithPrefix(path+PathSeparator, fn)
			if err != nil {
				return nil, err
			}
			result.entries[key] = mapped
			continue
		}
		mapped, err := fn(path, c.entries[key])
		if err != nil {
			return nil, errors.WithMessagef(err, "container leaf %q", path)
		}
		result.entries[key] = mapped
	}
	return result, nil
}

// SameStructure returns whether c and other have the same keys, with nested containers in the same places.
// The leaves themselves are not compared.
func (c *Container) SameStructure(other *Container) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.entries) != len(other.entries) {
		return false
	}
	for key, value := range c.entries {
		otherValue, found := other.entries[key]
		if !found {
			return false
		}
		sub, isSub := value.(*Container)
		otherSub, otherIsSub := otherValue.(*Container)
		if isSub != otherIsSub {
			return false
		}
		if isSub && !sub.SameStructure(otherSub) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (c *Container) String() string {
	if c == nil {
		return "<nil container>"
	}
	var sb strings.Builder
	sb.WriteString("{")
	for ii, key := range c.Keys() {
		if ii > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %v", key, c.entries[key])
	}
	sb.WriteString("}")
	return sb.String()
}
