package oracles

import (
	"context"
	"sync"
	"time"

	"github.com/quantalab/qevo-go/pkg/core"
	"github.com/quantalab/qevo-go/pkg/errors"
	"github.com/quantalab/qevo-go/pkg/logging"
)

// Budget caps the total resources a metered oracle may consume. A zero
// field means unlimited. Shots are the billed unit on hardware backends,
// so population size × generations × shots per evaluation should fit the
// shot budget before a run starts.
type Budget struct {
	MaxTasks int // maximum number of oracle tasks
	MaxShots int // maximum cumulative shots
}

// Usage is a snapshot of the resources consumed so far.
type Usage struct {
	Tasks   int
	Shots   int
	Latency time.Duration // cumulative time spent in backend calls
}

// Metered decorates an Oracle with task and shot accounting and optional
// budget enforcement. Exceeding the budget fails the call before it
// reaches the backend, so no billable work is submitted past the cap.
// Safe for concurrent use.
type Metered struct {
	inner  core.Oracle
	budget Budget

	mu    sync.Mutex
	usage Usage
}

// NewMetered wraps an oracle with accounting against the given budget.
func NewMetered(inner core.Oracle, budget Budget) *Metered {
	return &Metered{inner: inner, budget: budget}
}

func (m *Metered) Evaluate(ctx context.Context, params core.ParameterVector, shots int) (core.ProbabilityVector, error) {
	if err := m.reserve(shots); err != nil {
		return nil, err
	}

	ctx = logging.WithBackendID(ctx, m.inner.Name())

	start := time.Now()
	probs, err := m.inner.Evaluate(ctx, params, shots)
	elapsed := time.Since(start)

	m.mu.Lock()
	m.usage.Latency += elapsed
	usage := m.usage
	m.mu.Unlock()

	logging.GetLogger().OracleTask(
		logging.WithShotInfo(ctx, &logging.ShotInfo{Shots: shots, Tasks: usage.Tasks, TotalShots: usage.Shots}),
		m.inner.Name(), shots, elapsed)

	return probs, err
}

// reserve accounts for a task before submission, failing when it would
// overrun the budget.
func (m *Metered) reserve(shots int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.budget.MaxTasks > 0 && m.usage.Tasks+1 > m.budget.MaxTasks {
		return errors.WithFields(
			errors.New(errors.BudgetExceeded, "task budget exhausted"),
			errors.Fields{"max_tasks": m.budget.MaxTasks},
		)
	}
	if m.budget.MaxShots > 0 && m.usage.Shots+shots > m.budget.MaxShots {
		return errors.WithFields(
			errors.New(errors.BudgetExceeded, "shot budget exhausted"),
			errors.Fields{"max_shots": m.budget.MaxShots, "used": m.usage.Shots, "requested": shots},
		)
	}

	m.usage.Tasks++
	m.usage.Shots += shots
	return nil
}

// Usage returns a snapshot of consumed resources.
func (m *Metered) Usage() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage
}

func (m *Metered) Positions() int {
	return m.inner.Positions()
}

func (m *Metered) Name() string {
	return m.inner.Name()
}
