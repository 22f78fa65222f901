package stopdetection

import (
	"time"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/geo"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultMinDuration = 15 * time.Minute
	DefaultRadiusKm    = 0.2
)

// Detector finds stay points: maximal runs of consecutive points that stay within
// RadiusKm of the run's first point for at least MinDuration.
type Detector struct {
	minDuration time.Duration
	radiusKm    float64
}

func NewDetector(minDuration time.Duration, radiusKm float64) *Detector {
	return &Detector{
		minDuration: minDuration,
		radiusKm:    radiusKm,
	}
}

/*
DetectStops. returns one stay-interval location per stop, positioned at the mean of the
stop's points, starting at the first and ending at the last point of the stop. Both
timestamps are rows of the trajectory.
*/
func (d *Detector) DetectStops(traj *datastructure.Trajectory) []datastructure.SensitiveLocation {
	stops := make([]datastructure.SensitiveLocation, 0)
	n := traj.Len()

	for i := 0; i < n; {
		anchor := traj.Point(i)
		j := i + 1
		for j < n {
			p := traj.Point(j)
			if geo.GreatCircleDistance(anchor.Lat(), anchor.Lon(), p.Lat(), p.Lon()) > d.radiusKm {
				break
			}
			j++
		}
		// rows [i, j) are within radius of the anchor
		last := traj.Point(j - 1)
		if j-1 > i && last.Time().Sub(anchor.Time()) >= d.minDuration {
			stops = append(stops, d.newStay(traj, i, j))
			i = j
			continue
		}
		i++
	}
	return stops
}

func (d *Detector) newStay(traj *datastructure.Trajectory, i, j int) datastructure.SensitiveLocation {
	lons := make([]float64, 0, j-i)
	lats := make([]float64, 0, j-i)
	for k := i; k < j; k++ {
		lons = append(lons, traj.Point(k).Lon())
		lats = append(lats, traj.Point(k).Lat())
	}
	return datastructure.NewStayLocation(stat.Mean(lons, nil), stat.Mean(lats, nil),
		traj.Point(i).Time(), traj.Point(j-1).Time())
}
