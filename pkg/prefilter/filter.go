// Package prefilter reduces an exponential pattern space to a bounded,
// target-inclusive candidate set using cheap bit-level feature heuristics,
// and estimates the success-rate impact of that reduction on an
// amplitude-amplification style search.
package prefilter

import (
	"context"

	"github.com/quantalab/qevo-go/pkg/core"
	"github.com/quantalab/qevo-go/pkg/errors"
	"github.com/quantalab/qevo-go/pkg/logging"
)

// popcountSlack widens the admissibility band around the target popcounts.
const popcountSlack = 2

// Options controls a filter run.
type Options struct {
	// SpaceSize is the total number of patterns to scan, typically 2^W.
	SpaceSize int
	// MaxCandidates bounds the output size. Must be at least the number
	// of targets.
	MaxCandidates int
	// HammingThreshold admits a pattern when its minimum Hamming distance
	// to any target does not exceed it.
	HammingThreshold int
}

// Report summarizes a filter run for callers that want more than the raw
// candidate list.
type Report struct {
	SpaceSize       int
	Candidates      int
	ReductionFactor float64
	PopcountMin     int
	PopcountMax     int
	// StrictThreshold is set when no non-target pattern passed the
	// threshold; the result is valid but the threshold is likely too
	// tight for the intended search.
	StrictThreshold bool
}

// Filter scans the pattern space in ascending numeric order and keeps
// patterns that fall inside the target popcount band and within the
// Hamming threshold of at least one target. The targets themselves are
// always seeded first, so the result is guaranteed to contain them as a
// prefix regardless of how the scan goes.
//
// The scan stops as soon as MaxCandidates patterns are collected; when the
// cap truncates the scan, low-valued patterns are systematically favored
// over high-valued ones. The scan order is deterministic, so fixed inputs
// always reproduce the same candidate set.
func Filter(ctx context.Context, targets core.TargetSet, opts Options) (core.CandidateSet, *Report, error) {
	logger := logging.GetLogger()

	if err := validateOptions(targets, opts); err != nil {
		return nil, nil, err
	}

	// Coarse admissibility band from the target popcounts.
	minPop, maxPop := popcountBand(targets)

	logger.Info(ctx, "Filtering %d states: popcount band [%d,%d], hamming threshold %d, cap %d",
		opts.SpaceSize, minPop, maxPop, opts.HammingThreshold, opts.MaxCandidates)

	// Seed with the targets so correctness never depends on the scan.
	candidates := make(core.CandidateSet, 0, opts.MaxCandidates)
	candidates = append(candidates, targets...)

	for state := 0; state < opts.SpaceSize && len(candidates) < opts.MaxCandidates; state++ {
		p := core.Pattern(state)
		if targets.Contains(p) {
			continue
		}

		pc := p.Popcount()
		if pc < minPop || pc > maxPop {
			continue
		}

		if targets.MinHammingDistance(p) <= opts.HammingThreshold {
			candidates = append(candidates, p)
		}
	}

	report := &Report{
		SpaceSize:       opts.SpaceSize,
		Candidates:      len(candidates),
		ReductionFactor: float64(opts.SpaceSize) / float64(len(candidates)),
		PopcountMin:     minPop,
		PopcountMax:     maxPop,
		StrictThreshold: len(candidates) == len(targets),
	}

	if report.StrictThreshold {
		logger.Warn(ctx, "Filter admitted no patterns beyond the %d targets: threshold may be too strict", len(targets))
	} else {
		logger.Info(ctx, "Filtered to %d candidates (%.1fx reduction)",
			len(candidates), report.ReductionFactor)
	}

	return candidates, report, nil
}

func validateOptions(targets core.TargetSet, opts Options) error {
	if len(targets) == 0 {
		return errors.New(errors.InvalidInput, "target set must not be empty")
	}
	if opts.SpaceSize <= 0 {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "space size must be positive"),
			errors.Fields{"space_size": opts.SpaceSize},
		)
	}
	if opts.MaxCandidates < len(targets) {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "max candidates below target count"),
			errors.Fields{"max_candidates": opts.MaxCandidates, "targets": len(targets)},
		)
	}
	if opts.HammingThreshold < 0 {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "hamming threshold must not be negative"),
			errors.Fields{"hamming_threshold": opts.HammingThreshold},
		)
	}
	for _, target := range targets {
		if int(target) >= opts.SpaceSize {
			return errors.WithFields(
				errors.New(errors.InvalidInput, "target outside search space"),
				errors.Fields{"target": int(target), "space_size": opts.SpaceSize},
			)
		}
	}
	return nil
}

func popcountBand(targets core.TargetSet) (int, int) {
	minPop := targets[0].Popcount()
	maxPop := minPop
	for _, target := range targets[1:] {
		pc := target.Popcount()
		if pc < minPop {
			minPop = pc
		}
		if pc > maxPop {
			maxPop = pc
		}
	}
	return minPop - popcountSlack, maxPop + popcountSlack
}
