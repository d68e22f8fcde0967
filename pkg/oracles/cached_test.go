package oracles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantalab/qevo-go/internal/testutil"
	"github.com/quantalab/qevo-go/pkg/core"
)

func TestCachedHitsAndMisses(t *testing.T) {
	mock := testutil.PatternOracle(core.Pattern(23533), 15)
	cached := NewCached(mock, 16)
	ctx := context.Background()

	params := make(core.ParameterVector, 15)
	first, err := cached.Evaluate(ctx, params, 256)
	require.NoError(t, err)

	second, err := cached.Evaluate(ctx, params, 256)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, mock.Calls())

	stats := cached.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(256), stats.ShotsSaved)
}

func TestCachedKeyCoversShots(t *testing.T) {
	mock := testutil.PatternOracle(core.Pattern(21650), 15)
	cached := NewCached(mock, 16)
	ctx := context.Background()

	params := make(core.ParameterVector, 15)
	_, err := cached.Evaluate(ctx, params, 100)
	require.NoError(t, err)
	_, err = cached.Evaluate(ctx, params, 200)
	require.NoError(t, err)

	assert.Equal(t, 2, mock.Calls())
}

func TestCachedEviction(t *testing.T) {
	mock := testutil.PatternOracle(core.Pattern(27566), 15)
	cached := NewCached(mock, 2)
	ctx := context.Background()

	paramsFor := func(v float64) core.ParameterVector {
		params := make(core.ParameterVector, 15)
		params[0] = v
		return params
	}

	for _, v := range []float64{0.1, 0.2, 0.3} {
		_, err := cached.Evaluate(ctx, paramsFor(v), 100)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cached.Stats().Size)

	// 0.1 was least recently used and should have been evicted.
	_, err := cached.Evaluate(ctx, paramsFor(0.1), 100)
	require.NoError(t, err)
	assert.Equal(t, 4, mock.Calls())
}

func TestCachedErrorNotCached(t *testing.T) {
	mock := testutil.PatternOracle(core.Pattern(23533), 15)
	mock.FailOn = map[int]bool{1: true}
	cached := NewCached(mock, 16)
	ctx := context.Background()

	params := make(core.ParameterVector, 15)
	_, err := cached.Evaluate(ctx, params, 100)
	require.Error(t, err)

	_, err = cached.Evaluate(ctx, params, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cached.Stats().Hits)
}

func TestCachedDelegation(t *testing.T) {
	mock := testutil.PatternOracle(core.Pattern(23533), 15)
	cached := NewCached(mock, 0)

	assert.Equal(t, 15, cached.Positions())
	assert.Equal(t, "mock (cached)", cached.Name())
}
