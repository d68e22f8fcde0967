package oracles

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantalab/qevo-go/internal/testutil"
	"github.com/quantalab/qevo-go/pkg/core"
	"github.com/quantalab/qevo-go/pkg/errors"
)

func TestSimulatorEvaluate(t *testing.T) {
	sim := NewSimulator(15, 42)
	ctx := context.Background()

	t.Run("zero angles give a dark grid", func(t *testing.T) {
		probs, err := sim.Evaluate(ctx, make(core.ParameterVector, 15), 256)
		require.NoError(t, err)
		require.NoError(t, probs.Validate(15))

		for _, p := range probs {
			assert.Equal(t, 0.0, p, "sin²(0) positions can never fire")
		}
	})

	t.Run("pi angles drive isolated positions on", func(t *testing.T) {
		// A single π angle with zero neighbors still couples outward, but
		// the driven position itself sits near sin²(π/2) = 1.
		params := make(core.ParameterVector, 15)
		params[7] = math.Pi

		probs, err := sim.Evaluate(ctx, params, 512)
		require.NoError(t, err)
		assert.Greater(t, probs[7], 0.9)
	})

	t.Run("shot noise shrinks with more shots", func(t *testing.T) {
		params := make(core.ParameterVector, 15)
		for i := range params {
			params[i] = math.Pi / 2
		}
		exact := sim.exactProbabilities(params)

		probs, err := sim.Evaluate(ctx, params, 4096)
		require.NoError(t, err)
		for i := range probs {
			assert.InDelta(t, exact[i], probs[i], 0.05)
		}
	})

	t.Run("seeded runs reproduce", func(t *testing.T) {
		params := core.NewRandomParameters(rand.New(rand.NewSource(9)), 15)

		a, err := NewSimulator(15, 7).Evaluate(ctx, params, 128)
		require.NoError(t, err)
		b, err := NewSimulator(15, 7).Evaluate(ctx, params, 128)
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})
}

func TestSimulatorValidation(t *testing.T) {
	sim := NewSimulator(15, 1)
	ctx := context.Background()

	t.Run("wrong parameter length", func(t *testing.T) {
		_, err := sim.Evaluate(ctx, make(core.ParameterVector, 3), 100)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.InvalidInput))
	})

	t.Run("zero shots", func(t *testing.T) {
		_, err := sim.Evaluate(ctx, make(core.ParameterVector, 15), 0)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.InvalidInput))
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := sim.Evaluate(canceled, make(core.ParameterVector, 15), 100)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.Canceled))
	})
}

func TestMeteredAccounting(t *testing.T) {
	inner := testutil.NewMockOracle(15)
	metered := NewMetered(inner, Budget{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := metered.Evaluate(ctx, make(core.ParameterVector, 15), 256)
		require.NoError(t, err)
	}

	usage := metered.Usage()
	assert.Equal(t, 3, usage.Tasks)
	assert.Equal(t, 768, usage.Shots)
	assert.Equal(t, 3, inner.Calls())
}

func TestMeteredShotBudget(t *testing.T) {
	metered := NewMetered(testutil.NewMockOracle(15), Budget{MaxShots: 500})
	ctx := context.Background()

	_, err := metered.Evaluate(ctx, make(core.ParameterVector, 15), 256)
	require.NoError(t, err)

	// Second call would overrun: rejected before reaching the backend.
	_, err = metered.Evaluate(ctx, make(core.ParameterVector, 15), 256)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.BudgetExceeded))

	usage := metered.Usage()
	assert.Equal(t, 1, usage.Tasks)
	assert.Equal(t, 256, usage.Shots)
}

func TestMeteredTaskBudget(t *testing.T) {
	metered := NewMetered(testutil.NewMockOracle(15), Budget{MaxTasks: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := metered.Evaluate(ctx, make(core.ParameterVector, 15), 10)
		require.NoError(t, err)
	}

	_, err := metered.Evaluate(ctx, make(core.ParameterVector, 15), 10)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.BudgetExceeded))
}

func TestMeteredDelegates(t *testing.T) {
	inner := testutil.NewMockOracle(15)
	metered := NewMetered(inner, Budget{})

	assert.Equal(t, 15, metered.Positions())
	assert.Equal(t, "mock", metered.Name())
}
