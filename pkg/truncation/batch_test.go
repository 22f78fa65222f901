package truncation

import (
	"context"
	"testing"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTruncateBatch(t *testing.T) {
	cfg := testConfig()
	cfg.AddEndpoints = true
	tr := newTestTruncator(t, unanimousCatalog(), cfg)

	trajectories := []*datastructure.Trajectory{
		lineTrajectory("a", orb.Point{12, 5}, orb.Point{14, 5}, orb.Point{16, 5}),
		lineTrajectory("b", orb.Point{1, 1}),
		lineTrajectory("c", orb.Point{0, 5}, orb.Point{2, 5}, orb.Point{4, 5}),
	}

	results := tr.TruncateBatch(context.Background(), trajectories)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, trajectories[i].ID(), res.ID)
	}

	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Result.Trajectory.IsEmpty())

	assert.ErrorIs(t, results[1].Err, util.ErrInsufficientData)

	require.NoError(t, results[2].Err)
	assert.Equal(t, 3, results[2].Result.Trajectory.Len())
}

func TestTruncateBatchCanceled(t *testing.T) {
	tr, err := NewTruncator(unanimousCatalog(), testConfig(), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := tr.TruncateBatch(ctx, []*datastructure.Trajectory{
		lineTrajectory("a", orb.Point{0, 5}, orb.Point{2, 5}),
		lineTrajectory("b", orb.Point{0, 5}, orb.Point{2, 5}),
	})
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}

	assert.Empty(t, tr.TruncateBatch(context.Background(), nil))
}
