package verify

import (
	"fmt"
	"strings"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/google/uuid"
)

// FailureKind classifies why a trial failed. Its string form is also the outcome label of the trial metrics.
type FailureKind int

//go:generate go tool enumer -type=FailureKind -linecomment -values -text -yaml -output=gen_failurekind_enumer.go failure.go

const (
	// FailureShape is a mismatch of the shape or structure of the result: dimensions, or the kind of
	// value returned (variable, container, array).
	FailureShape FailureKind = iota + 1 // shape

	// FailureDType is a result with an unexpected dtype.
	FailureDType // dtype

	// FailureNumeric is a result value outside the tolerance.
	FailureNumeric // numeric

	// FailureOutBuffer is a call with an "out" buffer that didn't return that buffer.
	FailureOutBuffer // out_buffer

	// FailureConfiguration is an invalid case or calling convention, e.g.: a function that is not available
	// as a method, or unknown parameters.
	FailureConfiguration // configuration

	// FailureExecution is an error (or panic) while computing the result.
	FailureExecution // execution
)

// Failure is the error returned by the Verifier when a trial fails.
type Failure struct {
	Kind FailureKind

	// TrialID identifies the trial in logs.
	TrialID uuid.UUID

	Fn    backends.FnName
	Flags Flags

	// Inputs is the summary of the call, see Case.Summary.
	Inputs string

	// Path of the container leaf where the failure happened, if the result is a container.
	Path string

	// Mismatch holds the first differing element, for FailureNumeric.
	Mismatch  tensors.Mismatch
	Tolerance Tolerance

	// Detail describes the failure.
	Detail string

	// Err is the underlying error, if any.
	Err error
}

// Error implements error. The message is one line.
func (f *Failure) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s failure", f.Kind)
	if f.TrialID != uuid.Nil {
		fmt.Fprintf(&sb, " (trial %s)", f.TrialID)
	}
	fmt.Fprintf(&sb, " for %s with flags %s on %s", f.Fn, f.Flags, f.Inputs)
	if f.Path != "" {
		fmt.Fprintf(&sb, " at leaf %q", f.Path)
	}
	if f.Kind == FailureNumeric {
		fmt.Fprintf(&sb, ": %s, tolerance %s", f.Mismatch, f.Tolerance)
	}
	if f.Detail != "" {
		fmt.Fprintf(&sb, ": %s", f.Detail)
	}
	if f.Err != nil {
		fmt.Fprintf(&sb, ": %v", f.Err)
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Failures collects the failures of several trials. It implements error.
type Failures []*Failure

// Error implements error, with one failure per line.
func (fs Failures) Error() string {
	parts := make([]string, len(fs))
	for ii, f := range fs {
		parts[ii] = f.Error()
	}
	return strings.Join(parts, "\n")
}

// Unwrap returns the individual failures, so errors.Is and errors.As inspect each of them.
func (fs Failures) Unwrap() []error {
	errs := make([]error, len(fs))
	for ii, f := range fs {
		errs[ii] = f
	}
	return errs
}
