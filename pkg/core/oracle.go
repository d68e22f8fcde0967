package core

import (
	"context"

	"github.com/quantalab/qevo-go/pkg/errors"
)

// ProbabilityVector holds a per-position probability in [0,1], one entry
// per grid position, as reported by an oracle backend.
type ProbabilityVector []float64

// Validate checks length and range of the vector.
func (pv ProbabilityVector) Validate(positions int) error {
	if len(pv) != positions {
		return errors.WithFields(
			errors.New(errors.InvalidResponse, "probability vector has wrong length"),
			errors.Fields{"got": len(pv), "want": positions},
		)
	}
	for i, p := range pv {
		if p < 0 || p > 1 {
			return errors.WithFields(
				errors.New(errors.InvalidResponse, "probability out of range"),
				errors.Fields{"position": i, "value": p},
			)
		}
	}
	return nil
}

// Neutral returns an uninformative vector with every entry at 0.5. It is
// substituted when a backend fails, so a single bad oracle call degrades
// one fitness sample instead of aborting a whole run.
func Neutral(positions int) ProbabilityVector {
	pv := make(ProbabilityVector, positions)
	for i := range pv {
		pv[i] = 0.5
	}
	return pv
}

// Oracle is the single seam between the search core and backend-specific
// code. A backend may be a local simulator, remote hardware, or any other
// probabilistic pattern generator. Evaluate blocks until the backend
// completes; calls may have substantial latency and real monetary cost.
//
// Implementations must be safe for concurrent use: the optimizer may
// evaluate a whole generation in parallel.
type Oracle interface {
	// Evaluate runs the backend with the given control parameters and shot
	// count and returns the measured per-position probabilities. It fails
	// with an OracleExecutionFailed error when the backend cannot complete
	// (timeout, authentication failure, queue rejection, malformed program).
	Evaluate(ctx context.Context, params ParameterVector, shots int) (ProbabilityVector, error)

	// Positions returns the length of the probability vectors produced.
	Positions() int

	// Name identifies the backend in logs and persisted run records.
	Name() string
}
