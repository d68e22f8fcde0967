package testutil

import (
	"context"
	"sync"

	"github.com/quantalab/qevo-go/pkg/core"
	"github.com/quantalab/qevo-go/pkg/errors"
)

// MockOracle is a scriptable implementation of core.Oracle for tests. It
// can replay fixed probability vectors, derive them from the parameters,
// and inject failures on selected calls. Safe for concurrent use.
type MockOracle struct {
	mu sync.Mutex

	// Probabilities is replayed verbatim on every call when set.
	Probabilities core.ProbabilityVector

	// EvaluateFn overrides the response per call when set. It receives
	// the 1-based call number.
	EvaluateFn func(call int, params core.ParameterVector, shots int) (core.ProbabilityVector, error)

	// FailOn holds 1-based call numbers that return an execution error.
	FailOn map[int]bool

	positions  int
	calls      int
	totalShots int
}

// NewMockOracle creates a mock producing vectors of the given length.
func NewMockOracle(positions int) *MockOracle {
	return &MockOracle{positions: positions}
}

func (m *MockOracle) Evaluate(ctx context.Context, params core.ParameterVector, shots int) (core.ProbabilityVector, error) {
	if err := errors.CheckContext(ctx, "mock oracle evaluate"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls++
	m.totalShots += shots
	call := m.calls
	m.mu.Unlock()

	if m.FailOn[call] {
		return nil, errors.New(errors.OracleExecutionFailed, "injected backend failure")
	}

	if m.EvaluateFn != nil {
		return m.EvaluateFn(call, params, shots)
	}

	if m.Probabilities != nil {
		out := make(core.ProbabilityVector, len(m.Probabilities))
		copy(out, m.Probabilities)
		return out, nil
	}

	return core.Neutral(m.positions), nil
}

func (m *MockOracle) Positions() int {
	return m.positions
}

func (m *MockOracle) Name() string {
	return "mock"
}

// Calls returns how many times Evaluate has been invoked.
func (m *MockOracle) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// TotalShots returns the cumulative shot count across all calls.
func (m *MockOracle) TotalShots() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalShots
}

// PatternOracle returns a mock whose probabilities push every position
// toward the given target pattern: 0.9 where the target bit is set, 0.1
// where it is not. Useful for convergence tests with a known optimum.
func PatternOracle(target core.Pattern, positions int) *MockOracle {
	probs := make(core.ProbabilityVector, positions)
	for i := range probs {
		if target.Bit(i) == 1 {
			probs[i] = 0.9
		} else {
			probs[i] = 0.1
		}
	}
	m := NewMockOracle(positions)
	m.Probabilities = probs
	return m
}
