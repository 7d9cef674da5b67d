package xslices

import (
	"flag"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	assert.Empty(t, SortedKeys(map[int]bool{}))
}

func TestMapParallel(t *testing.T) {
	in := make([]int, 100)
	for ii := range in {
		in[ii] = ii
	}
	square := func(x int) int { return x * x }
	want := Map(in, square)
	for _, parallelism := range []int{-1, 0, 1, 3} {
		assert.Equal(t, want, MapParallel(in, parallelism, square), "parallelism=%d", parallelism)
	}
}

func TestFlag(t *testing.T) {
	flagSet := flag.NewFlagSet("test", flag.ContinueOnError)
	values := Flag(flagSet, "ints", []int{1}, "list of ints", strconv.Atoi)
	require.NoError(t, flagSet.Parse([]string{"-ints=3, 4,5"}))
	assert.Equal(t, []int{3, 4, 5}, *values)
	assert.Equal(t, "3,4,5", flagSet.Lookup("ints").Value.String())
	require.Error(t, flagSet.Parse([]string{"-ints=x"}))
}
