package backends

import (
	"testing"

	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend implements only relu for Float32, and records its configuration.
type fakeBackend struct {
	name, config string
}

func (f *fakeBackend) Name() string        { return f.name }
func (f *fakeBackend) Description() string { return "fake backend " + f.config }
func (f *fakeBackend) Capabilities() Capabilities {
	return Capabilities{
		Functions: map[FnName]bool{FnRelu: true, FnTanh: true},
		DTypes:    map[dtypes.DType]bool{dtypes.Float32: true},
	}
}
func (f *fakeBackend) Kernel(fn FnName) Kernel {
	if fn != FnRelu {
		return nil
	}
	return func(x *tensors.Tensor, _ Params) (*tensors.Tensor, error) {
		return x.Clone(), nil
	}
}
func (f *fakeBackend) Finalize() {}

func init() {
	for _, name := range []string{"fake1", "fake2"} {
		Register(name, func(config string) Backend { return &fakeBackend{name: name, config: config} })
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"fake1", "fake2"}, List())

	b, err := TryNewWithConfig("")
	require.NoError(t, err)
	assert.Equal(t, "fake1", b.Name())

	b, err = TryNewWithConfig("fake2:some=config")
	require.NoError(t, err)
	assert.Equal(t, "fake2", b.Name())
	assert.Equal(t, "some=config", b.(*fakeBackend).config)

	b, err = TryNewWithConfig("fake2")
	require.NoError(t, err)
	assert.Equal(t, "fake2", b.Name())

	_, err = TryNewWithConfig("unknown")
	require.Error(t, err)
	require.Panics(t, func() { NewWithConfig("unknown:") })
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(ConfigEnvVar, "fake2:from_env")
	b := New()
	assert.Equal(t, "fake2", b.Name())
	assert.Equal(t, "from_env", b.(*fakeBackend).config)
}

func TestFnName(t *testing.T) {
	assert.Len(t, FnValues(), 7)
	for _, fn := range FnValues() {
		parsed, err := FnFromName(fn.String())
		require.NoError(t, err)
		assert.Equal(t, fn, parsed)
	}
	fn, err := FnFromName(" Leaky_ReLU ")
	require.NoError(t, err)
	assert.Equal(t, FnLeakyRelu, fn)
	_, err = FnFromName("swish")
	require.Error(t, err)
	_, err = FnFromName("invalid")
	require.Error(t, err)
	assert.NotContains(t, FnNameStrings()[1:], "invalid")
	assert.False(t, FnInvalid.IsValid())
	assert.Equal(t, "FnName(99)", FnName(99).String())

	text, err := FnSoftmax.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "softmax", string(text))
	require.NoError(t, fn.UnmarshalText([]byte("gelu")))
	assert.Equal(t, FnGelu, fn)
}

func TestCapabilities(t *testing.T) {
	c := (&fakeBackend{}).Capabilities()
	other := Capabilities{
		Functions: map[FnName]bool{FnTanh: true, FnGelu: true},
		DTypes:    map[dtypes.DType]bool{dtypes.Float32: true, dtypes.Float64: true},
	}
	both := c.Intersect(other)
	assert.Equal(t, map[FnName]bool{FnTanh: true}, both.Functions)
	assert.Equal(t, []dtypes.DType{dtypes.Float32}, both.SupportedDTypes())

	clone := other.Clone()
	clone.Functions[FnRelu] = true
	assert.False(t, other.Functions[FnRelu])
}

func TestCall(t *testing.T) {
	b := &fakeBackend{name: "fake"}
	x := tensors.FromValue([]float32{-1, 1})
	y, err := Call(b, FnRelu, x, Params{})
	require.NoError(t, err)
	assert.True(t, y.Equal(x))

	// tanh is listed in the capabilities, but has no kernel.
	_, err = Call(b, FnTanh, x, Params{})
	require.ErrorIs(t, err, ErrNotImplemented)
	_, err = Call(b, FnGelu, x, Params{})
	require.ErrorIs(t, err, ErrNotImplemented)
	_, err = Call(b, FnRelu, tensors.FromValue([]float64{1}), Params{})
	require.ErrorIs(t, err, ErrUnsupportedDType)
	_, err = Call(b, FnInvalid, x, Params{})
	require.Error(t, err)
}
