package backends

import (
	"strings"

	"github.com/pkg/errors"
)

// FnName is an enum of the functions a Backend can implement.
//
// It is converted to snake-format strings (e.g.: FnLeakyRelu -> "leaky_relu"), and can be converted
// from string by using FnFromName.
type FnName int

//go:generate go tool enumer -type=FnName -trimprefix=Fn -transform=snake -values -text -yaml -output=gen_fnname_enumer.go functions.go

const (
	FnInvalid FnName = iota
	FnRelu
	FnLeakyRelu
	FnGelu
	FnTanh
	FnSigmoid
	FnSoftmax
	FnSoftplus
)

// IsValid returns whether fn is one of the known functions.
func (fn FnName) IsValid() bool {
	return fn != FnInvalid && fn.IsAFnName()
}

// FnValues returns all valid functions.
func FnValues() []FnName {
	all := FnNameValues()
	values := make([]FnName, 0, len(all)-1)
	for _, fn := range all {
		if fn != FnInvalid {
			values = append(values, fn)
		}
	}
	return values
}

// FnFromName converts the name of a function to its FnName. It is case-insensitive and ignores surrounding spaces.
func FnFromName(name string) (FnName, error) {
	fn, err := FnNameString(strings.TrimSpace(name))
	if err != nil || fn == FnInvalid {
		return FnInvalid, errors.Errorf("unknown function %q: options are %v", name, FnValues())
	}
	return fn, nil
}
