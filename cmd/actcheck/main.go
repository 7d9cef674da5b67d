// actcheck verifies the activation functions of a candidate backend against a reference backend, with
// randomly generated trials.
//
// Example:
//
//	actcheck -backend=go:parallelism=4 -fn=gelu,softmax -trials=1000 -tolerances=~/tolerances.yaml
//
// It exits with status 1 if any trial fails.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/actcheck/backends"
	_ "github.com/gomlx/actcheck/backends/reference"
	_ "github.com/gomlx/actcheck/backends/simplego"
	"github.com/gomlx/actcheck/pkg/core/tensors"
	"github.com/gomlx/actcheck/pkg/core/verify"
	"github.com/gomlx/actcheck/pkg/support/xslices"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/klog/v2"
)

var (
	flagReference = flag.String("ref", "ref", "Configuration of the reference backend.")
	flagBackend   = flag.String("backend", "",
		fmt.Sprintf("Configuration of the candidate backend, formatted as \"<name>:<config>\". "+
			"If empty, it uses $%s, and then the first registered backend that is not the reference.", backends.ConfigEnvVar))
	flagFunctions = xslices.Flag(nil, "fn", backends.FnValues(),
		"Comma-separated list of functions to verify. Defaults to all.", backends.FnFromName)
	flagDTypes = xslices.Flag(nil, "dtypes", tensors.SupportedDTypes,
		"Comma-separated list of input dtypes. Defaults to all supported by both backends.", parseDType)
	flagTrials      = flag.Int("trials", 100, "Number of random trials per function.")
	flagSeed        = flag.Uint64("seed", 0, "Seed of the random trials. The same seed always generates the same trials.")
	flagTolerances  = flag.String("tolerances", "", "YAML file with tolerances, by dtype and function, overriding the defaults.")
	flagParallelism = flag.Int("parallelism", 0, "Number of functions verified in parallel. If 0, use the number of cores.")
	flagMetrics     = flag.String("metrics", "", "If set, write the trial metrics to this file, in Prometheus text format.")
	flagMaxFailures = flag.Int("max_failures", 3, "Maximum number of failures reported per function.")
	flagColor       = flag.Bool("color", true, "Colorize the output. Set to false when the output is not a terminal.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if !*flagColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	reference := must.M1(backends.TryNewWithConfig(*flagReference))
	defer reference.Finalize()
	candidate := must.M1(newCandidate(reference.Name()))
	defer candidate.Finalize()
	klog.V(1).Infof("Verifying %q (%s) against %q (%s)", candidate.Name(), candidate.Description(),
		reference.Name(), reference.Description())

	tolerances := verify.DefaultTolerances()
	if *flagTolerances != "" {
		tolerances = tolerances.Merge(must.M1(verify.LoadTolerancesFile(*flagTolerances)))
	}
	registry := prometheus.NewRegistry()
	stats := verify.NewStats(registry)
	v := verify.New(reference, candidate, verify.WithTolerances(tolerances), verify.WithStats(stats))

	cfg := runConfig{
		functions:   *flagFunctions,
		dtypes:      *flagDTypes,
		numTrials:   *flagTrials,
		seed:        *flagSeed,
		parallelism: *flagParallelism,
		maxFailures: *flagMaxFailures,
		showBar:     true,
	}
	results, err := run(v, cfg)
	if err != nil {
		klog.Fatalf("Failed to verify %q: %+v", candidate.Name(), err)
	}
	fmt.Println(report(candidate.Name(), reference.Name(), results))

	if *flagMetrics != "" {
		if err := prometheus.WriteToTextfile(*flagMetrics, registry); err != nil {
			klog.Errorf("Failed to write metrics to %q: %+v", *flagMetrics, err)
		}
	}
	if countFailed(results) > 0 {
		os.Exit(1)
	}
}

// newCandidate creates the candidate backend from -backend, $ACTCHECK_BACKEND or, if neither is set, the first
// registered backend other than the reference.
func newCandidate(referenceName string) (backends.Backend, error) {
	config := *flagBackend
	if config == "" {
		config = os.Getenv(backends.ConfigEnvVar)
	}
	if config == "" {
		for _, name := range backends.List() {
			if name != referenceName {
				config = name
				break
			}
		}
	}
	if config == "" {
		return nil, errors.Errorf("no candidate backend registered other than %q, registered backends: %v",
			referenceName, backends.List())
	}
	return backends.TryNewWithConfig(config)
}

func parseDType(name string) (dtypes.DType, error) {
	for _, dtype := range tensors.SupportedDTypes {
		if strings.EqualFold(dtype.String(), name) {
			return dtype, nil
		}
	}
	return dtypes.InvalidDType, errors.Errorf("unknown dtype %q, valid values are %v", name, tensors.SupportedDTypes)
}
