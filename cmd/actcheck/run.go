package main

import (
	"iter"
	"time"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/pkg/core/verify"
	"github.com/gomlx/actcheck/pkg/support/sets"
	"github.com/gomlx/actcheck/pkg/support/strategies"
	"github.com/gomlx/actcheck/pkg/support/xslices"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

type runConfig struct {
	functions   []backends.FnName
	dtypes      []dtypes.DType
	numTrials   int
	seed        uint64
	parallelism int
	maxFailures int
	showBar     bool
}

// fnResult holds the outcome of the trials of one function.
type fnResult struct {
	fn        backends.FnName
	skipped   string
	numTrials int
	numFailed int
	failures  []*verify.Failure
	kinds     sets.Set[verify.FailureKind]
	elapsed   time.Duration
}

// run verifies the functions in cfg, in parallel, and returns one result per function, in the order given.
// Functions or dtypes not supported by both backends are skipped.
func run(v *verify.Verifier, cfg runConfig) ([]*fnResult, error) {
	if cfg.numTrials <= 0 {
		return nil, errors.Errorf("number of trials must be > 0, got %d", cfg.numTrials)
	}
	caps := v.Candidate().Capabilities().Intersect(v.Reference().Capabilities())
	supportedDTypes := sets.MakeWith(caps.SupportedDTypes()...)
	if unsupported := sets.MakeWith(cfg.dtypes...).Sub(supportedDTypes); len(unsupported) > 0 {
		klog.Warningf("Skipping dtypes %v: not supported by both backends", sets.Sorted(unsupported))
	}
	var inputDTypes []dtypes.DType
	for _, dtype := range cfg.dtypes {
		if supportedDTypes.Has(dtype) {
			inputDTypes = append(inputDTypes, dtype)
		}
	}
	if len(inputDTypes) == 0 {
		return nil, errors.Errorf("none of the dtypes %v are supported by both backends (%v)", cfg.dtypes, caps.SupportedDTypes())
	}

	// Functions given more than once are verified once.
	seen := sets.Make[backends.FnName]()
	var functions []backends.FnName
	for _, fn := range cfg.functions {
		if !seen.Has(fn) {
			seen.Insert(fn)
			functions = append(functions, fn)
		}
	}

	var bar *progressbar.ProgressBar
	if cfg.showBar {
		bar = progressbar.NewOptions(len(functions)*cfg.numTrials,
			progressbar.OptionSetDescription("trials"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("trials"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
	}

	results := xslices.MapParallel(functions, cfg.parallelism, func(fn backends.FnName) *fnResult {
		if !caps.Functions[fn] {
			if bar != nil {
				_ = bar.Add(cfg.numTrials)
			}
			return &fnResult{fn: fn, skipped: "not supported by both backends"}
		}
		s, fnErr := strategies.ForFunction(fn, inputDTypes...)
		if fnErr != nil {
			// Can only happen for invalid functions, which the flag parser rejects.
			klog.Errorf("No strategy for %s: %+v", fn, fnErr)
			return &fnResult{fn: fn, skipped: fnErr.Error()}
		}
		return runFunction(v, fn, take(s.Cases(cfg.seed), cfg.numTrials, bar), cfg.maxFailures)
	})
	return results, nil
}

// take yields the first n cases of seq, and advances bar for each of them.
func take(seq iter.Seq[verify.Case], n int, bar *progressbar.ProgressBar) iter.Seq[verify.Case] {
	return func(yield func(verify.Case) bool) {
		if n <= 0 {
			return
		}
		count := 0
		for c := range seq {
			if bar != nil {
				_ = bar.Add(1)
			}
			if !yield(c) {
				return
			}
			count++
			if count == n {
				return
			}
		}
	}
}

// runFunction verifies the cases of one function, keeping up to maxFailures failures.
func runFunction(v *verify.Verifier, fn backends.FnName, cases iter.Seq[verify.Case], maxFailures int) *fnResult {
	result := &fnResult{fn: fn, kinds: sets.Make[verify.FailureKind]()}
	start := time.Now()
	counted := func(yield func(verify.Case) bool) {
		for c := range cases {
			result.numTrials++
			if !yield(c) {
				return
			}
		}
	}
	for failure := range v.VerifySeq(counted) {
		result.numFailed++
		result.kinds.Insert(failure.Kind)
		if len(result.failures) < maxFailures {
			result.failures = append(result.failures, failure)
		}
	}
	result.elapsed = time.Since(start)
	return result
}

func countFailed(results []*fnResult) (count int) {
	for _, r := range results {
		count += r.numFailed
	}
	return
}
