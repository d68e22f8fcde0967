package prefilter

import (
	"math"

	"github.com/quantalab/qevo-go/pkg/errors"
)

// empiricalScale is the fixed constant applied to the raw iteration/marked
// ratio. The resulting rates are for comparative reporting only, not
// certified probabilities.
const empiricalScale = 10.0

// Estimate reports the expected success-rate impact of shrinking the
// search space before running an amplitude-amplification style search.
type Estimate struct {
	OriginalRate              float64 // success rate over the unfiltered space
	FilteredRate              float64 // success rate over the filtered space
	ImprovementFactor         float64 // FilteredRate / OriginalRate
	OptimalIterationsOriginal float64 // (π/4)·√(N/M) over the original space
	OptimalIterationsFiltered float64 // (π/4)·√(N/M) over the filtered space
	Iterations                int     // iteration budget the rates assume
}

// EstimateSuccess approximates the success rates of an iteration-budgeted
// search over the original and filtered spaces with numTargets marked
// items. The optimal iteration count over a space of size N with M marked
// items is (π/4)·√(N/M); the rate approximation scales the budgeted
// fraction of that optimum by the marked-item density and clamps to [0,1].
func EstimateSuccess(originalSpace, filteredSpace, numTargets, iterations int) (Estimate, error) {
	if originalSpace <= 0 || filteredSpace <= 0 {
		return Estimate{}, errors.WithFields(
			errors.New(errors.InvalidInput, "space sizes must be positive"),
			errors.Fields{"original": originalSpace, "filtered": filteredSpace},
		)
	}
	if numTargets <= 0 {
		return Estimate{}, errors.New(errors.InvalidInput, "target count must be positive")
	}
	if iterations <= 0 {
		return Estimate{}, errors.New(errors.InvalidInput, "iteration budget must be positive")
	}

	optimalOriginal := OptimalIterations(originalSpace, numTargets)
	optimalFiltered := OptimalIterations(filteredSpace, numTargets)

	originalRate := successRate(iterations, optimalOriginal, numTargets, originalSpace)
	filteredRate := successRate(iterations, optimalFiltered, numTargets, filteredSpace)

	improvement := math.Inf(1)
	if originalRate > 0 {
		improvement = filteredRate / originalRate
	}

	return Estimate{
		OriginalRate:              originalRate,
		FilteredRate:              filteredRate,
		ImprovementFactor:         improvement,
		OptimalIterationsOriginal: optimalOriginal,
		OptimalIterationsFiltered: optimalFiltered,
		Iterations:                iterations,
	}, nil
}

// OptimalIterations returns (π/4)·√(N/M) for a space of size n with m
// marked items.
func OptimalIterations(n, m int) float64 {
	return math.Pi / 4 * math.Sqrt(float64(n)/float64(m))
}

func successRate(iterations int, optimal float64, marked, space int) float64 {
	rate := float64(iterations) / optimal * float64(marked) / float64(space) * empiricalScale
	return math.Min(1.0, math.Max(0.0, rate))
}
