package verify

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/actcheck/pkg/support/fsutil"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tolerance is the maximum deviation allowed between a candidate value and the reference value want:
// |got - want| <= Atol + Rtol*|want|.
type Tolerance struct {
	Atol float64 `yaml:"atol"`
	Rtol float64 `yaml:"rtol"`
}

// String implements fmt.Stringer.
func (t Tolerance) String() string {
	return fmt.Sprintf("{atol=%g, rtol=%g}", t.Atol, t.Rtol)
}

// Max returns the element-wise maximum of both tolerances.
func (t Tolerance) Max(other Tolerance) Tolerance {
	return Tolerance{Atol: max(t.Atol, other.Atol), Rtol: max(t.Rtol, other.Rtol)}
}

// Tolerances configures the tolerance used for each trial.
//
// The tolerance of a trial is, by priority: the tolerance of the Case, the one configured for the function,
// the one configured for the dtype of the input. For low precision dtypes (Float16 and BFloat16) the dtype
// tolerance is also a floor: overrides can't go below it.
type Tolerances struct {
	DTypes    map[dtypes.DType]Tolerance
	Functions map[backends.FnName]Tolerance
}

// DefaultTolerance is used for dtypes not configured in Tolerances.DTypes.
var DefaultTolerance = Tolerance{Atol: 1e-6, Rtol: 1e-5}

// DefaultTolerances returns a new copy of the default tolerances.
func DefaultTolerances() Tolerances {
	return Tolerances{
		DTypes: map[dtypes.DType]Tolerance{
			dtypes.Float64:  DefaultTolerance,
			dtypes.Float32:  DefaultTolerance,
			dtypes.Float16:  {Atol: 1e-3, Rtol: 1e-3},
			dtypes.BFloat16: {Atol: 1e-2, Rtol: 1e-2},
		},
		Functions: map[backends.FnName]Tolerance{
			backends.FnLeakyRelu: {Atol: 1e-6, Rtol: 1e-4},
			backends.FnGelu:      {Atol: 1e-4, Rtol: 1e-4},
		},
	}
}

func isLowPrecision(dtype dtypes.DType) bool {
	return dtype == dtypes.Float16 || dtype == dtypes.BFloat16
}

// Resolve returns the tolerance to use for fn with inputs of the given dtype. The override, if not nil,
// takes precedence over the configured values, except that Float16 and BFloat16 never resolve to
// less than the dtype tolerance.
func (t Tolerances) Resolve(fn backends.FnName, dtype dtypes.DType, override *Tolerance) Tolerance {
	base, found := t.DTypes[dtype]
	if !found {
		base = DefaultTolerance
	}
	tol := base
	if fnTol, found := t.Functions[fn]; found {
		tol = fnTol
	}
	if override != nil {
		tol = *override
	}
	if isLowPrecision(dtype) {
		tol = tol.Max(base)
	}
	return tol
}

// Merge returns a copy of t with the entries of other added, replacing existing ones.
func (t Tolerances) Merge(other Tolerances) Tolerances {
	merged := Tolerances{
		DTypes:    maps.Clone(t.DTypes),
		Functions: maps.Clone(t.Functions),
	}
	if merged.DTypes == nil {
		merged.DTypes = make(map[dtypes.DType]Tolerance)
	}
	if merged.Functions == nil {
		merged.Functions = make(map[backends.FnName]Tolerance)
	}
	maps.Copy(merged.DTypes, other.DTypes)
	maps.Copy(merged.Functions, other.Functions)
	return merged
}

// tolerancesFile is the YAML representation of Tolerances. Example:
//
//	dtypes:
//	  float16: {atol: 1e-3, rtol: 1e-3}
//	functions:
//	  gelu: {atol: 1e-4, rtol: 1e-4}
type tolerancesFile struct {
	DTypes    map[string]Tolerance `yaml:"dtypes"`
	Functions map[string]Tolerance `yaml:"functions"`
}

// ReadTolerances parses tolerances in YAML format. Unknown fields, dtypes or functions are errors.
func ReadTolerances(r io.Reader) (Tolerances, error) {
	var file tolerancesFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Tolerances{}, errors.Wrap(err, "failed to parse tolerances")
	}
	tolerances := Tolerances{
		DTypes:    make(map[dtypes.DType]Tolerance, len(file.DTypes)),
		Functions: make(map[backends.FnName]Tolerance, len(file.Functions)),
	}
	for name, tol := range file.DTypes {
		dtype, err := parseDType(name)
		if err != nil {
			return Tolerances{}, err
		}
		if err = validateTolerance(tol); err != nil {
			return Tolerances{}, errors.WithMessagef(err, "dtype %s", name)
		}
		tolerances.DTypes[dtype] = tol
	}
	for name, tol := range file.Functions {
		fn, err := backends.FnFromName(name)
		if err != nil {
			return Tolerances{}, errors.WithMessage(err, "failed to parse tolerances")
		}
		if err = validateTolerance(tol); err != nil {
			return Tolerances{}, errors.WithMessagef(err, "function %s", name)
		}
		tolerances.Functions[fn] = tol
	}
	return tolerances, nil
}

// ParseTolerances parses tolerances from YAML content.
func ParseTolerances(content []byte) (Tolerances, error) {
	return ReadTolerances(bytes.NewReader(content))
}

// LoadTolerancesFile reads tolerances from a YAML file. A "~" prefix in the path is expanded to the home
// directory.
func LoadTolerancesFile(path string) (Tolerances, error) {
	path, err := fsutil.ReplaceTildeInDir(path)
	if err != nil {
		return Tolerances{}, err
	}
	exists, err := fsutil.FileExists(path)
	if err != nil {
		return Tolerances{}, err
	}
	if !exists {
		return Tolerances{}, errors.Errorf("tolerances file %q not found", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return Tolerances{}, errors.Wrapf(err, "failed to open tolerances file")
	}
	defer func() { _ = f.Close() }()
	tolerances, err := ReadTolerances(f)
	if err != nil {
		return Tolerances{}, errors.WithMessagef(err, "file %q", path)
	}
	return tolerances, nil
}

func parseDType(name string) (dtypes.DType, error) {
	for _, dtype := range tensors.SupportedDTypes {
		if strings.EqualFold(dtype.String(), name) {
			return dtype, nil
		}
	}
	return dtypes.InvalidDType, errors.Errorf("unknown dtype %q in tolerances, valid values are %v", name, tensors.SupportedDTypes)
}

func validateTolerance(tol Tolerance) error {
	if tol.Atol < 0 || tol.Rtol < 0 {
		return errors.Errorf("tolerances must be non-negative, got %s", tol)
	}
	return nil
}
