// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package verify implements the cross-backend function verifier: it calls an activation function on a
// candidate backend, through one of the many calling conventions of the functional frontend, and checks
// the result against the same function computed by a reference backend.
//
// Each calling convention flag (see Flags) is implemented as an adapter composed around a base call of
// the frontend. The verifier holds no state that affects the outcome of a trial: verifying the same Case
// twice yields the same result.
//
// A failed trial returns a *Failure, classified by its FailureKind.
package verify

import (
	"fmt"
	"iter"
	"time"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/functional"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Verifier compares the functions of a candidate backend with a reference backend.
type Verifier struct {
	reference  backends.Backend
	frontend   *functional.Frontend
	tolerances Tolerances
	stats      *Stats
}

// Option configures a Verifier.
type Option func(v *Verifier)

// WithTolerances replaces the tolerances used by the Verifier. See DefaultTolerances.
func WithTolerances(tolerances Tolerances) Option {
	return func(v *Verifier) {
		v.tolerances = tolerances
	}
}

// WithStats records each trial in stats.
func WithStats(stats *Stats) Option {
	return func(v *Verifier) {
		v.stats = stats
	}
}

// WithFrontend sets the frontend used to call the candidate. It must use the candidate backend.
func WithFrontend(frontend *functional.Frontend) Option {
	return func(v *Verifier) {
		v.frontend = frontend
	}
}

// New creates a Verifier of candidate against reference.
func New(reference, candidate backends.Backend, options ...Option) *Verifier {
	v := &Verifier{
		reference:  reference,
		frontend:   functional.New(candidate),
		tolerances: DefaultTolerances(),
	}
	for _, option := range options {
		option(v)
	}
	return v
}

// Reference returns the reference backend.
func (v *Verifier) Reference() backends.Backend { return v.reference }

// Candidate returns the backend under verification.
func (v *Verifier) Candidate() backends.Backend { return v.frontend.Backend() }

// Tolerances used by the verifier.
func (v *Verifier) Tolerances() Tolerances { return v.tolerances }

// Verify runs one trial. It returns nil if the candidate matches the reference, or a *Failure otherwise.
//
// Panics while computing the results are reported as FailureExecution.
func (v *Verifier) Verify(c Case) (err error) {
	trialID := uuid.New()
	start := time.Now()
	var failure *Failure
	if exception := exceptions.Try(func() { failure = v.verify(c) }); exception != nil {
		failure = &Failure{Kind: FailureExecution, Detail: "panic", Err: panicToError(exception)}
	}
	outcome := OutcomePass
	if failure != nil {
		failure.TrialID = trialID
		failure.Fn = c.Fn
		failure.Flags = c.Flags
		failure.Inputs = c.Summary()
		outcome = failure.Kind.String()
		err = failure
	}
	elapsed := time.Since(start)
	v.stats.Observe(c.Fn, outcome, elapsed)
	if klog.V(1).Enabled() {
		klog.Infof("trial %s: %s %s -> %s (%s)", trialID, c.Fn, c.Flags, outcome, elapsed)
	}
	if klog.V(2).Enabled() {
		klog.Infof("trial %s: inputs %s", trialID, c.Summary())
	}
	return
}

// panicToError keeps panics that are errors (with their stack), and converts any other value to an error.
// The Failure already carries "panic" as its Detail.
func panicToError(exception any) error {
	if err, ok := exception.(error); ok {
		return err
	}
	return errors.Errorf("%v", exception)
}

// VerifyAll runs the case with every combination of flags valid for its function (see AllFlags),
// ignoring c.Flags. It returns nil if all pass, or Failures otherwise.
func (v *Verifier) VerifyAll(c Case) error {
	var failures Failures
	for flags := range AllFlags(c.Fn) {
		trial := c
		trial.Flags = flags
		if err := v.Verify(trial); err != nil {
			failures = append(failures, err.(*Failure))
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return failures
}

// VerifySeq runs every case of the sequence, and yields the failures.
// It stops when the consumer stops iterating.
func (v *Verifier) VerifySeq(cases iter.Seq[Case]) iter.Seq[*Failure] {
	return func(yield func(*Failure) bool) {
		for c := range cases {
			if err := v.Verify(c); err != nil {
				if !yield(err.(*Failure)) {
					return
				}
			}
		}
	}
}

// classify converts an error returned by the frontend to a Failure.
func classify(err error) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	switch {
	case errors.Is(err, functional.ErrConfiguration):
		return &Failure{Kind: FailureConfiguration, Err: err}
	case errors.Is(err, functional.ErrOutMismatch):
		return &Failure{Kind: FailureShape, Detail: "result doesn't fit the out buffer", Err: err}
	}
	return &Failure{Kind: FailureExecution, Err: err}
}

// referenceResult calls the kernel of the reference backend directly.
func (v *Verifier) referenceResult(sig *functional.Signature, x *tensors.Tensor, params map[string]any) (*tensors.Tensor, *Failure) {
	bound, err := sig.Bind([]any{x}, params)
	if err != nil {
		return nil, classify(err)
	}
	kernelParams, err := functional.KernelParams(sig, bound)
	if err != nil {
		return nil, classify(err)
	}
	want, err := backends.Call(v.reference, sig.Fn, x, kernelParams)
	if err != nil {
		return nil, &Failure{Kind: FailureExecution, Detail: "reference backend " + v.reference.Name(), Err: err}
	}
	return want, nil
}

func (v *Verifier) verify(c Case) *Failure {
	sig, err := v.frontend.Signature(c.Fn)
	if err != nil {
		return classify(err)
	}
	if len(c.Inputs) != 1 || c.Inputs[0] == nil {
		return &Failure{Kind: FailureConfiguration, Detail: fmt.Sprintf("%s takes exactly one input, got %d", c.Fn, len(c.Inputs))}
	}
	x := c.Inputs[0]
	want, failure := v.referenceResult(sig, x, c.Params)
	if failure != nil {
		return failure
	}
	wantDType := sig.ResultDType(x.DType())
	tol := v.tolerances.Resolve(c.Fn, x.DType(), c.Tolerance)

	// The candidate gets its own copy, so the case is never modified.
	inv := chain(invokeFrontend, adaptersFor(c.Flags)...)
	leaves, err := inv(&call{
		frontend: v.frontend,
		sig:      sig,
		inputs:   []any{x.Clone()},
		params:   c.Params,
		outShape: want.Shape().WithDType(wantDType),
	})
	if err != nil {
		return classify(err)
	}
	for _, l := range leaves {
		if failure := compare(l.value.(*tensors.Tensor), want, wantDType, tol); failure != nil {
			failure.Path = l.path
			return failure
		}
	}
	return nil
}

// compare a candidate result with the reference result.
func compare(got, want *tensors.Tensor, wantDType dtypes.DType, tol Tolerance) *Failure {
	if !got.Shape().EqualDimensions(want.Shape()) {
		return &Failure{Kind: FailureShape, Detail: fmt.Sprintf("result shaped %s, want dimensions %v", got.Shape(), want.Shape().Dimensions)}
	}
	if got.DType() != wantDType {
		return &Failure{Kind: FailureDType, Detail: fmt.Sprintf("result dtype %s, want %s", got.DType(), wantDType)}
	}
	if mismatch, found := tensors.FirstMismatch(got, want, tol.Atol, tol.Rtol); found {
		return &Failure{Kind: FailureNumeric, Mismatch: mismatch, Tolerance: tol}
	}
	return nil
}
