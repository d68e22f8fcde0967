// Package qevo provides classical support tooling for quantum pattern search:
// candidate pre-filtering, success-rate estimation, and evolutionary parameter
// optimization against expensive probabilistic oracles.
//
// Quantum search over a 2^n pattern space is dominated by two costs: the
// number of amplification iterations, and the number of shots billed by the
// backend executing each circuit. qevo-go attacks both on the classical side:
//   - Shrink the search space before the quantum run (prefilter)
//   - Predict whether the shrunk run is worth submitting (estimator)
//   - Tune circuit parameters generation by generation with a genetic
//     optimizer that treats the backend as a black box (evolve)
//
// Key Packages:
//
//   - core: Fundamental types shared across the module. Pattern (a bit
//     pattern on a fixed grid), Geometry and its structural masks,
//     FeatureVector extraction, ParameterVector, the Oracle interface,
//     and the target/candidate set containers.
//
//   - prefilter: Classical candidate reduction. Filter scans the pattern
//     space and keeps only candidates structurally close to the search
//     targets; EstimateSuccess quantifies the resulting speedup in terms
//     of per-run success probability and optimal iteration counts.
//
//   - evolve: Genetic parameter optimization. An Evaluator scores one
//     parameter vector through the oracle and a sampled fitness measure;
//     Genetic runs elite selection, crossover and Gaussian mutation over
//     a population of parameter vectors, evaluating each generation
//     concurrently.
//
//   - oracles: Oracle implementations. Simulator is a deterministic local
//     backend with shot noise for tests and dry runs; Metered wraps any
//     oracle with task and shot budget enforcement plus usage accounting.
//
//   - runstore: SQLite persistence for completed optimization runs, so
//     the best parameters found against a billed backend are never lost.
//
//   - config: YAML configuration with validation for all of the above.
//
// Simple Example:
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//	    "math/rand"
//
//	    "github.com/quantalab/qevo-go/pkg/core"
//	    "github.com/quantalab/qevo-go/pkg/evolve"
//	    "github.com/quantalab/qevo-go/pkg/oracles"
//	    "github.com/quantalab/qevo-go/pkg/prefilter"
//	)
//
//	func main() {
//	    ctx := context.Background()
//
//	    targets, err := core.NewTargetSet(23533, 27566, 21650)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Reduce the 32768-pattern space to a few thousand candidates.
//	    candidates, report, err := prefilter.Filter(ctx, targets, prefilter.Options{
//	        SpaceSize:        core.DefaultGeometry.SpaceSize(),
//	        MaxCandidates:    2000,
//	        HammingThreshold: 9,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("kept %d candidates (%.1fx reduction)\n",
//	        len(candidates), report.ReductionFactor)
//
//	    // Tune circuit parameters for the first target.
//	    oracle := oracles.NewSimulator(core.DefaultGeometry.Bits(), 42)
//	    evaluator := evolve.NewEvaluator(oracle, targets[0], 100, rand.New(rand.NewSource(1)))
//	    ga, err := evolve.NewGenetic(evolve.DefaultGeneticConfig(), evaluator)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    result, err := ga.Optimize(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("best fitness %.3f after %d generations\n",
//	        result.Best.Fitness, result.Generations)
//	}
//
// Additional Features:
//
//   - Structured logging with backend and shot annotations for tracing
//     exactly where an optimization run spends its budget.
//
//   - Typed errors with error codes and structured fields, so callers can
//     distinguish a budget rejection from an oracle failure programmatically.
//
//   - Budget enforcement: wrap any backend in oracles.Metered to cap the
//     tasks and shots a run may consume before submission, not after.
package qevo
