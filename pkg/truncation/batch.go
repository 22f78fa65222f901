package truncation

import (
	"context"

	"github.com/lintang-b-s/trajtrunc/pkg/concurrent"
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"go.uber.org/zap"
)

// BatchResult is the outcome for the trajectory at Index of a batch.
type BatchResult struct {
	Index  int
	ID     string
	Result Result
	Err    error
}

type batchJob struct {
	index int
	traj  *datastructure.Trajectory
}

/*
TruncateBatch truncates every trajectory on the configured number of workers. Results are
returned in input order. A failing trajectory only sets its own Err; trajectories not yet
started when ctx is done get ctx.Err().
*/
func (t *Truncator) TruncateBatch(ctx context.Context, trajectories []*datastructure.Trajectory) []BatchResult {
	results := make([]BatchResult, len(trajectories))
	for i, traj := range trajectories {
		results[i] = BatchResult{Index: i, ID: traj.ID()}
	}
	if len(trajectories) == 0 {
		return results
	}

	t.log.Info("Truncating trajectories...", zap.Int("trajectories", len(trajectories)),
		zap.Int("workers", t.workers), zap.Float64("alpha", t.alpha))

	wp := concurrent.NewWorkerPool[batchJob, BatchResult](t.workers, len(trajectories))
	wp.Start(ctx, func(ctx context.Context, job batchJob) BatchResult {
		res := BatchResult{Index: job.index, ID: job.traj.ID()}
		if util.StopConcurrentOperation(ctx) {
			res.Err = ctx.Err()
			return res
		}
		res.Result, res.Err = t.Truncate(job.traj)
		return res
	})

	dispatched := 0
	for i, traj := range trajectories {
		if err := wp.AddJob(ctx, batchJob{index: i, traj: traj}); err != nil {
			break
		}
		dispatched++
	}
	wp.Close()
	wp.Wait()

	for res := range wp.CollectResults() {
		results[res.Index] = res
		if res.Err != nil {
			t.log.Warn("trajectory not truncated", zap.String("trajectory", res.ID), zap.Error(res.Err))
		}
	}
	for i := dispatched; i < len(trajectories); i++ {
		results[i].Err = ctx.Err()
	}

	t.log.Info("Truncation done.", zap.Int("dispatched", dispatched))
	return results
}
