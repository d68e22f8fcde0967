package runstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantalab/qevo-go/pkg/core"
	"github.com/quantalab/qevo-go/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(target core.Pattern, fitness float64) *RunRecord {
	return &RunRecord{
		Backend:     "local.sim",
		Target:      target,
		BestFitness: fitness,
		BestParams:  core.ParameterVector{0.1, -0.5, 1.2},
		History:     []float64{0.4, 0.6, fitness},
		Generations: 3,
		Evaluations: 60,
		TotalShots:  6000,
	}
}

func TestStoreSaveGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := sampleRun(core.Pattern(23533), 0.93)
	require.NoError(t, store.Save(ctx, record))
	assert.NotEmpty(t, record.ID)

	got, err := store.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Backend, got.Backend)
	assert.Equal(t, record.Target, got.Target)
	assert.Equal(t, record.BestFitness, got.BestFitness)
	assert.Equal(t, record.BestParams, got.BestParams)
	assert.Equal(t, record.History, got.History)
	assert.Equal(t, record.Generations, got.Generations)
	assert.Equal(t, record.Evaluations, got.Evaluations)
	assert.Equal(t, record.TotalShots, got.TotalShots)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ResourceNotFound))
}

func TestStoreList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(ctx, sampleRun(core.Pattern(21650), 0.5+float64(i)*0.1)))
	}

	records, err := store.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStoreBest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	targetH := core.Pattern(23533)
	targetY := core.Pattern(21650)

	require.NoError(t, store.Save(ctx, sampleRun(targetH, 0.73)))
	require.NoError(t, store.Save(ctx, sampleRun(targetH, 0.96)))
	require.NoError(t, store.Save(ctx, sampleRun(targetH, 0.88)))
	require.NoError(t, store.Save(ctx, sampleRun(targetY, 0.99)))

	best, err := store.Best(ctx, targetH)
	require.NoError(t, err)
	assert.Equal(t, 0.96, best.BestFitness)
	assert.Equal(t, targetH, best.Target)

	_, err = store.Best(ctx, core.Pattern(27566))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ResourceNotFound))
}

func TestStoreCanceledContext(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, sampleRun(core.Pattern(23533), 0.5))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.Canceled))
}
