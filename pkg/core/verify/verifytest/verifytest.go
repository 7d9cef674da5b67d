// Package verifytest holds test utilities for packages that verify backends.
package verifytest

import (
	"os"
	"sync"

	"github.com/gomlx/actcheck/backends"
	"github.com/gomlx/actcheck/backends/reference"
	_ "github.com/gomlx/actcheck/backends/simplego"
	"github.com/gomlx/actcheck/pkg/core/verify"
	"k8s.io/klog/v2"
	"pgregory.net/rapid"
)

// DefaultCandidate is the backend verified by the tests, unless ACTCHECK_BACKEND is set.
const DefaultCandidate = "go"

var (
	verifierOnce   sync.Once
	cachedVerifier *verify.Verifier
)

// BuildTestVerifier returns a Verifier of the test candidate backend against the reference backend.
// The candidate is the one configured in ACTCHECK_BACKEND, or "go" if not set.
//
// It is created once and cached: Verifiers hold no state that affects trials.
func BuildTestVerifier() *verify.Verifier {
	verifierOnce.Do(func() {
		config := DefaultCandidate
		if envConfig := os.Getenv(backends.ConfigEnvVar); envConfig != "" {
			config = envConfig
		}
		candidate, err := backends.TryNewWithConfig(config)
		if err != nil {
			klog.Fatalf("Failed to create candidate backend %q: %+v", config, err)
		}
		cachedVerifier = verify.New(reference.New(""), candidate)
	})
	return cachedVerifier
}

// CheckCases verifies the cases drawn from gen with rapid.Check. A failing case is shrunk to a minimal one
// before the test fails with its *verify.Failure.
//
// The number of trials and their seed are set with the -rapid.checks and -rapid.seed flags.
// It returns the number of trials run.
func CheckCases(t rapid.TB, v *verify.Verifier, gen *rapid.Generator[verify.Case]) int {
	t.Helper()
	count := 0
	rapid.Check(t, func(t *rapid.T) {
		count++
		c := gen.Draw(t, "case")
		if err := v.Verify(c); err != nil {
			t.Fatalf("%v", err)
		}
	})
	return count
}
