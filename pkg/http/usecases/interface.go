package usecases

import (
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/truncation"
)

type TruncationEngine interface {
	Truncate(traj *datastructure.Trajectory) (truncation.Result, error)
}

// EngineFactory derives an engine with per-request options applied.
type EngineFactory func(opts ...truncation.Option) TruncationEngine
