package evolve

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantalab/qevo-go/internal/testutil"
	"github.com/quantalab/qevo-go/pkg/core"
)

const targetH = core.Pattern(0b101101111101101)

func TestFitnessScore(t *testing.T) {
	positions := 15

	t.Run("exact match scores one", func(t *testing.T) {
		assert.Equal(t, 1.0, Fitness(targetH, targetH, positions))
	})

	t.Run("complement inverts the score", func(t *testing.T) {
		full := core.Pattern(1<<positions - 1)
		for _, sampled := range []core.Pattern{0, targetH, 0b101, full} {
			complement := sampled ^ full
			direct := Fitness(sampled, targetH, positions)
			inverted := Fitness(complement, targetH, positions)
			assert.InDelta(t, 1.0, direct+inverted, 1e-12)
		}
	})

	t.Run("exact mismatch scores zero", func(t *testing.T) {
		full := core.Pattern(1<<positions - 1)
		assert.Equal(t, 0.0, Fitness(targetH^full, targetH, positions))
	})
}

func TestEvaluatorSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("saturated probabilities reproduce the pattern", func(t *testing.T) {
		oracle := testutil.NewMockOracle(15)
		probs := make(core.ProbabilityVector, 15)
		for i := range probs {
			probs[i] = float64(targetH.Bit(i))
		}
		oracle.Probabilities = probs

		evaluator := NewEvaluator(oracle, targetH, 100, rng)
		res, err := evaluator.Evaluate(context.Background(), core.NewRandomParameters(rng, 15))
		require.NoError(t, err)

		assert.Equal(t, targetH, res.Sampled)
		assert.Equal(t, 1.0, res.Fitness)
		assert.False(t, res.OracleFailed)
	})

	t.Run("sampling is reproducible under a fixed seed", func(t *testing.T) {
		run := func(seed int64) core.Pattern {
			oracle := testutil.NewMockOracle(15)
			evaluator := NewEvaluator(oracle, targetH, 100, rand.New(rand.NewSource(seed)))
			res, err := evaluator.Evaluate(context.Background(), make(core.ParameterVector, 15))
			require.NoError(t, err)
			return res.Sampled
		}

		assert.Equal(t, run(99), run(99))
	})
}

func TestEvaluatorAbsorbsOracleFailure(t *testing.T) {
	oracle := testutil.NewMockOracle(15)
	oracle.FailOn = map[int]bool{1: true}

	rng := rand.New(rand.NewSource(3))
	evaluator := NewEvaluator(oracle, targetH, 100, rng)

	res, err := evaluator.Evaluate(context.Background(), make(core.ParameterVector, 15))
	require.NoError(t, err, "backend failures must not escalate")

	assert.True(t, res.OracleFailed)
	assert.Equal(t, core.Neutral(15), res.Probabilities)
	assert.GreaterOrEqual(t, res.Fitness, 0.0)
	assert.LessOrEqual(t, res.Fitness, 1.0)
}

func TestEvaluatorRejectsMalformedProbabilities(t *testing.T) {
	oracle := testutil.NewMockOracle(15)
	oracle.EvaluateFn = func(call int, params core.ParameterVector, shots int) (core.ProbabilityVector, error) {
		return core.ProbabilityVector{0.5, 0.5}, nil // wrong length
	}

	evaluator := NewEvaluator(oracle, targetH, 100, rand.New(rand.NewSource(1)))
	res, err := evaluator.Evaluate(context.Background(), make(core.ParameterVector, 15))
	require.NoError(t, err)

	assert.True(t, res.OracleFailed)
	assert.Equal(t, core.Neutral(15), res.Probabilities)
}

func TestEvaluatorPropagatesCancellation(t *testing.T) {
	oracle := testutil.NewMockOracle(15)
	evaluator := NewEvaluator(oracle, targetH, 100, rand.New(rand.NewSource(1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := evaluator.Evaluate(ctx, make(core.ParameterVector, 15))
	assert.Error(t, err)
}
