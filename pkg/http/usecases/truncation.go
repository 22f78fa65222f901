package usecases

import (
	"context"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/trajparser"
	"github.com/lintang-b-s/trajtrunc/pkg/truncation"
	"go.uber.org/zap"
)

type TruncationService struct {
	log         *zap.Logger
	engine      EngineFactory
	maxSpeedKmh float64
}

func NewTruncationService(log *zap.Logger, engine EngineFactory, maxSpeedKmh float64) *TruncationService {
	return &TruncationService{
		log:         log,
		engine:      engine,
		maxSpeedKmh: maxSpeedKmh,
	}
}

// NewTruncatorFactory adapts a Truncator to an EngineFactory.
func NewTruncatorFactory(t *truncation.Truncator) EngineFactory {
	return func(opts ...truncation.Option) TruncationEngine {
		if len(opts) == 0 {
			return t
		}
		return t.With(opts...)
	}
}

func (ts *TruncationService) Truncate(ctx context.Context, traj *datastructure.Trajectory,
	opts ...truncation.Option) (truncation.Result, error) {
	if err := ctx.Err(); err != nil {
		return truncation.Result{}, err
	}

	filtered := trajparser.FilterSpeed(traj, ts.maxSpeedKmh)
	res, err := ts.engine(opts...).Truncate(filtered)
	if err != nil {
		return truncation.Result{}, err
	}
	// points dropped by the speed filter count as removed
	res.Removed = traj.Len() - res.Trajectory.Len()

	ts.log.Debug("trajectory truncated", zap.String("trajectory", traj.ID()),
		zap.Int("points", traj.Len()), zap.Int("removed", res.Removed))
	return res, nil
}
