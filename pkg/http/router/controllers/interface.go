package controllers

import (
	"context"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/truncation"
)

type TruncationService interface {
	Truncate(ctx context.Context, traj *datastructure.Trajectory, opts ...truncation.Option) (truncation.Result, error)
}
