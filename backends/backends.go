// Package backends defines the interface a numeric backend needs to implement to have its activation
// functions verified, and the registry of backends by name.
//
// A backend that doesn't implement some function simply returns a nil Kernel for it (or leaves it out of its
// Capabilities), and Resolve will report ErrNotImplemented for that function.
//
// Kernels signal invalid inputs by returning errors. Bugs in the code (e.g. inconsistent internal state) are
// thrown (panic) with a stack trace, see package github.com/gomlx/exceptions.
package backends

import (
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Backend is the API that needs to be implemented by an actcheck backend.
type Backend interface {
	// Name returns the short name of the backend. E.g.: "ref" for the reference backend.
	Name() string

	// Description is a longer description of the Backend that can be used to pretty-print.
	Description() string

	// Capabilities returns what functions and dtypes are supported by this backend.
	Capabilities() Capabilities

	// Kernel returns the implementation of the given function, or nil if it is not implemented.
	Kernel(fn FnName) Kernel

	// Finalize releases all the associated resources immediately, and makes the backend invalid.
	Finalize()
}

// Constructor takes a config string (optionally empty) and returns a Backend.
type Constructor func(config string) Backend

var (
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register backend with the given name, and a default constructor that takes as input a configuration string that is
// passed along to the backend constructor.
//
// To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
}

// List returns the sorted names of the registered backends.
func List() []string {
	return slices.Sorted(maps.Keys(registeredConstructors))
}

// DefaultConfig is the name of the default backend configuration to use if specified.
//
// See NewWithConfig for the format of the configuration string.
var DefaultConfig string

// ConfigEnvVar is the environment variable with the default backend configuration to use.
//
// The format of config is "<backend_name>:<backend_configuration>".
// The "<backend_name>" is the name of a registered backend (e.g.: "go") and
// "<backend_configuration>" is backend specific.
const ConfigEnvVar = "ACTCHECK_BACKEND"

// New returns a new default Backend.
//
// The default is:
//
// 1. The environment ACTCHECK_BACKEND is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. The first registered backend is used with an empty configuration.
//
// It panics if no backend was registered.
func New() Backend {
	config, found := os.LookupEnv(ConfigEnvVar)
	if found {
		return NewWithConfig(config)
	}
	if DefaultConfig != "" {
		return NewWithConfig(DefaultConfig)
	}
	return NewWithConfig("")
}

// NewWithConfig takes a configurations string formated as "<backend_name>:<backend_configuration>".
// The "<backend_name>" is the name of a registered backend (e.g.: "ref") and
// "<backend_configuration>" is backend specific.
//
// It panics if the backend is not registered. See TryNewWithConfig for a version that returns an error.
func NewWithConfig(config string) Backend {
	backend, err := TryNewWithConfig(config)
	if err != nil {
		exceptions.Panicf("%+v", err)
	}
	return backend
}

// TryNewWithConfig is like NewWithConfig, but returns an error if the backend can't be found.
func TryNewWithConfig(config string) (Backend, error) {
	if len(registeredConstructors) == 0 {
		return nil, errors.New(`no registered backends for actcheck -- maybe import the reference one with import _ "github.com/gomlx/actcheck/backends/reference"?`)
	}
	backendName := firstRegistered
	backendConfig := config
	if idx := strings.Index(config, ":"); idx != -1 {
		backendName = config[:idx]
		backendConfig = config[idx+1:]
	} else if config != "" {
		backendName = config
		backendConfig = ""
	}
	constructor, found := registeredConstructors[backendName]
	if !found {
		return nil, errors.Errorf("can't find backend %q for configuration %q given, registered backends are %v",
			backendName, config, List())
	}
	return constructor(backendConfig), nil
}
