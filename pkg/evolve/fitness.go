// Package evolve implements the generation-based evolutionary optimizer
// that steers an oracle's output toward a target bit pattern. Candidate
// parameter vectors are scored by sampling the oracle's per-position
// probabilities into a discrete pattern and counting matching positions.
package evolve

import (
	"context"
	"math/rand"
	"sync"

	"github.com/quantalab/qevo-go/pkg/core"
	"github.com/quantalab/qevo-go/pkg/logging"
)

// Evaluator converts one oracle call into a scalar fitness against a
// target pattern. It is safe for concurrent use; the shared random source
// is serialized internally.
type Evaluator struct {
	oracle core.Oracle
	target core.Pattern
	shots  int

	mu  sync.Mutex
	rng *rand.Rand
}

// EvalResult carries the outcome of a single fitness evaluation.
type EvalResult struct {
	Fitness       float64
	Probabilities core.ProbabilityVector
	Sampled       core.Pattern
	// OracleFailed is set when the backend failed and the neutral vector
	// was substituted; the fitness is then uninformative but still valid.
	OracleFailed bool
}

// NewEvaluator builds an evaluator for the given oracle and target. The
// random source drives the per-position bit sampling and must be seeded by
// the caller for reproducible runs.
func NewEvaluator(oracle core.Oracle, target core.Pattern, shots int, rng *rand.Rand) *Evaluator {
	return &Evaluator{
		oracle: oracle,
		target: target,
		shots:  shots,
		rng:    rng,
	}
}

// Evaluate runs the oracle with the given parameters and scores the
// sampled pattern against the target. A backend failure is not fatal: the
// neutral all-0.5 vector is substituted and the resulting (generally low)
// fitness returned, so a single bad oracle call costs one noisy data
// point instead of the whole run. Only context cancellation aborts.
func (e *Evaluator) Evaluate(ctx context.Context, params core.ParameterVector) (EvalResult, error) {
	logger := logging.GetLogger()

	probs, err := e.oracle.Evaluate(ctx, params, e.shots)
	failed := false
	if err != nil {
		if ctx.Err() != nil {
			return EvalResult{}, err
		}
		logger.Warn(ctx, "Oracle call failed, substituting neutral probabilities: %v", err)
		probs = core.Neutral(e.oracle.Positions())
		failed = true
	} else if verr := probs.Validate(e.oracle.Positions()); verr != nil {
		logger.Warn(ctx, "Oracle returned malformed probabilities, substituting neutral: %v", verr)
		probs = core.Neutral(e.oracle.Positions())
		failed = true
	}

	sampled := e.sample(probs)

	return EvalResult{
		Fitness:       Fitness(sampled, e.target, e.oracle.Positions()),
		Probabilities: probs,
		Sampled:       sampled,
		OracleFailed:  failed,
	}, nil
}

// sample collapses the probability vector into a discrete pattern with one
// independent coin flip per position.
func (e *Evaluator) sample(probs core.ProbabilityVector) core.Pattern {
	e.mu.Lock()
	defer e.mu.Unlock()

	var p core.Pattern
	for i, prob := range probs {
		if e.rng.Float64() < prob {
			p |= 1 << i
		}
	}
	return p
}

// Fitness returns the fraction of the first `positions` bit positions on
// which the two patterns agree: 1.0 is an exact match, 0.0 an exact
// mismatch everywhere.
func Fitness(sampled, target core.Pattern, positions int) float64 {
	matches := 0
	for i := 0; i < positions; i++ {
		if sampled.Bit(i) == target.Bit(i) {
			matches++
		}
	}
	return float64(matches) / float64(positions)
}
