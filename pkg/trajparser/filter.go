package trajparser

import (
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/geo"
)

// FilterSpeed drops every point reached from the last kept point faster than maxKmh.
// maxKmh <= 0 disables the filter.
func FilterSpeed(traj *datastructure.Trajectory, maxKmh float64) *datastructure.Trajectory {
	if maxKmh <= 0 || traj.Len() < 2 {
		return traj
	}

	kept := make([]datastructure.TrajectoryPoint, 0, traj.Len())
	kept = append(kept, traj.First())
	for _, p := range traj.Points()[1:] {
		last := kept[len(kept)-1]
		hours := p.Time().Sub(last.Time()).Hours()
		if hours <= 0 {
			continue
		}
		dist := geo.GreatCircleDistance(last.Lat(), last.Lon(), p.Lat(), p.Lon())
		if dist/hours > maxKmh {
			continue
		}
		kept = append(kept, p)
	}
	return datastructure.NewTrajectory(traj.ID(), kept)
}
