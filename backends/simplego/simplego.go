// Package simplego implements a simple and portable backend in pure Go, that computes each function
// in the native precision of its input.
//
// Float32 and Float64 are computed natively. Float16 and BFloat16 are widened to float32, computed,
// and rounded back.
//
// Large inputs are split in chunks processed in parallel. Configure it with "go:parallelism=N", where N=0
// disables parallelism and N<0 makes it unlimited. The default is runtime.NumCPU().
package simplego

import (
	"strconv"
	"strings"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// BackendName to be used in ACTCHECK_BACKEND to specify this backend.
const BackendName = "go"

// Registers New() as the constructor for the "go" backend.
func init() {
	backends.Register(BackendName, New)
}

// New constructs a new SimpleGo Backend.
//
// It panics if the configuration is invalid.
func New(config string) backends.Backend {
	b, err := NewWithConfig(config)
	if err != nil {
		exceptions.Panicf("%+v", err)
	}
	return b
}

// NewWithConfig constructs a new SimpleGo Backend, parsing the comma-separated configuration options.
func NewWithConfig(config string) (*Backend, error) {
	b := &Backend{}
	b.workers.Initialize()
	for _, option := range strings.Split(config, ",") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		key, value, _ := strings.Cut(option, "=")
		switch key {
		case "parallelism":
			parallelism, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Wrapf(err, "backend %q: invalid value for parallelism in %q", BackendName, config)
			}
			b.workers.SetMaxParallelism(parallelism)
		default:
			return nil, errors.Errorf("backend %q: unknown configuration option %q", BackendName, key)
		}
	}
	return b, nil
}

// Backend implements the backends.Backend interface.
type Backend struct {
	workers workersPool
}

// Compile-time check that simplego.Backend implements backends.Backend.
var _ backends.Backend = &Backend{}

// Name returns the short name of the backend.
func (b *Backend) Name() string { return BackendName }

// String implement fmt.Stringer.
func (b *Backend) String() string { return BackendName }

// Description is a longer description of the Backend that can be used to pretty-print.
func (b *Backend) Description() string {
	return "Simple Go Portable Backend"
}

// Capabilities returns a copy of what is supported by this backend.
func (b *Backend) Capabilities() backends.Capabilities {
	return Capabilities.Clone()
}

// Kernel returns the kernel for fn, or nil if it is not implemented.
func (b *Backend) Kernel(fn backends.FnName) backends.Kernel {
	switch fn {
	case backends.FnRelu:
		return b.unaryKernel(relu[float32], relu[float64])
	case backends.FnLeakyRelu:
		return b.unaryKernel(leakyRelu[float32], leakyRelu[float64])
	case backends.FnGelu:
		return b.unaryKernel(gelu[float32], gelu[float64])
	case backends.FnTanh:
		return b.unaryKernel(tanh[float32], tanh[float64])
	case backends.FnSigmoid:
		return b.unaryKernel(sigmoid[float32], sigmoid[float64])
	case backends.FnSoftplus:
		return b.unaryKernel(softplus[float32], softplus[float64])
	case backends.FnSoftmax:
		return execSoftmax
	}
	return nil
}

// Finalize is a no-op: the backend holds no resources beyond its workers configuration.
func (b *Backend) Finalize() {}
