// Package oracles provides backend implementations of the core.Oracle
// seam: a local simulator for development and tests, and a metering
// decorator that tracks the shot budget of cost-bearing backends.
package oracles

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/quantalab/qevo-go/pkg/core"
	"github.com/quantalab/qevo-go/pkg/errors"
)

// couplingStrength mixes a fraction of each neighbor's angle into a
// position's effective rotation, mimicking the nearest-neighbor
// entangling layer of the hardware circuit.
const couplingStrength = 0.25

// Simulator is a local stand-in for a hardware-backed pattern generator.
// Each control parameter acts as a rotation angle for one position; the
// on-probability of a position follows sin²(φ/2) of its effective angle,
// with the measured frequencies subject to shot noise.
//
// The simulator is free and never fails, which makes it the default
// backend for development, tests, and pre-hardware calibration runs.
type Simulator struct {
	positions int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a simulator for the given number of positions,
// seeded for reproducible shot noise. A seed <= 0 falls back to the
// current time.
func NewSimulator(positions int, seed int64) *Simulator {
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		positions: positions,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Evaluate computes the analytic per-position probabilities for the given
// parameters and samples them with the requested number of shots.
func (s *Simulator) Evaluate(ctx context.Context, params core.ParameterVector, shots int) (core.ProbabilityVector, error) {
	if err := errors.CheckContext(ctx, "simulator evaluate"); err != nil {
		return nil, err
	}
	if len(params) != s.positions {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "parameter vector has wrong length"),
			errors.Fields{"got": len(params), "want": s.positions},
		)
	}
	if shots < 1 {
		return nil, errors.New(errors.InvalidInput, "shots must be at least 1")
	}

	exact := s.exactProbabilities(params)

	// Empirical frequencies over the requested shots.
	s.mu.Lock()
	defer s.mu.Unlock()

	measured := make(core.ProbabilityVector, s.positions)
	for i, p := range exact {
		hits := 0
		for shot := 0; shot < shots; shot++ {
			if s.rng.Float64() < p {
				hits++
			}
		}
		measured[i] = float64(hits) / float64(shots)
	}
	return measured, nil
}

// exactProbabilities maps parameters to on-probabilities: each position's
// effective angle is its own parameter plus a coupled fraction of its
// neighbors', and the probability follows sin²(φ/2).
func (s *Simulator) exactProbabilities(params core.ParameterVector) core.ProbabilityVector {
	probs := make(core.ProbabilityVector, s.positions)
	for i := range probs {
		phi := params[i]
		if i > 0 {
			phi += couplingStrength * params[i-1]
		}
		if i < s.positions-1 {
			phi += couplingStrength * params[i+1]
		}
		sin := math.Sin(phi / 2)
		probs[i] = sin * sin
	}
	return probs
}

func (s *Simulator) Positions() int {
	return s.positions
}

func (s *Simulator) Name() string {
	return "local.sim"
}
