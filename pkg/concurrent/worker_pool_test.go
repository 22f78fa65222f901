package concurrent

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool(t *testing.T) {
	ctx := context.Background()
	wp := NewWorkerPool[int, int](4, 100)
	wp.Start(ctx, func(ctx context.Context, job int) int {
		return job * job
	})

	for i := 0; i < 100; i++ {
		require.NoError(t, wp.AddJob(ctx, i))
	}
	wp.Close()
	wp.Wait()

	got := make([]int, 0, 100)
	for r := range wp.CollectResults() {
		got = append(got, r)
	}
	sort.Ints(got)

	require.Len(t, got, 100)
	for i, r := range got {
		assert.Equal(t, i*i, r)
	}
}

func TestWorkerPoolAddJobCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// unbuffered queue and no workers: only the canceled context can unblock AddJob
	wp := NewWorkerPool[int, int](1, 0)
	err := wp.AddJob(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	wp.Close()
	wp.Close()
}
