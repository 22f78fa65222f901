package datastructure

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

type TrajectoryPoint struct {
	time time.Time
	lon  float64
	lat  float64
	geom orb.Point // in the protection-cell reference system
}

func NewTrajectoryPoint(t time.Time, lon, lat float64) TrajectoryPoint {
	return TrajectoryPoint{
		time: t,
		lon:  lon,
		lat:  lat,
		geom: orb.Point{lon, lat},
	}
}

func (tp TrajectoryPoint) Time() time.Time {
	return tp.time
}

func (tp TrajectoryPoint) Lon() float64 {
	return tp.lon
}

func (tp TrajectoryPoint) Lat() float64 {
	return tp.lat
}

func (tp TrajectoryPoint) Geom() orb.Point {
	return tp.geom
}

// Key identifies the point within its trajectory; timestamps are unique per trajectory.
func (tp TrajectoryPoint) Key() int64 {
	return tp.time.UnixNano()
}

func (tp TrajectoryPoint) WithGeom(geom orb.Point) TrajectoryPoint {
	tp.geom = geom
	return tp
}

type Trajectory struct {
	id     string
	points []TrajectoryPoint
}

func NewTrajectory(id string, points []TrajectoryPoint) *Trajectory {
	return &Trajectory{
		id:     id,
		points: points,
	}
}

func (t *Trajectory) ID() string {
	return t.id
}

func (t *Trajectory) Len() int {
	return len(t.points)
}

func (t *Trajectory) IsEmpty() bool {
	return len(t.points) == 0
}

func (t *Trajectory) Points() []TrajectoryPoint {
	return t.points
}

func (t *Trajectory) Point(i int) TrajectoryPoint {
	return t.points[i]
}

func (t *Trajectory) First() TrajectoryPoint {
	return t.points[0]
}

func (t *Trajectory) Last() TrajectoryPoint {
	return t.points[len(t.points)-1]
}

// Slice returns the rows [i, j) sharing the underlying points.
func (t *Trajectory) Slice(i, j int) *Trajectory {
	return &Trajectory{
		id:     t.id,
		points: t.points[i:j:j],
	}
}

// IndexOf returns the row whose timestamp equals ts, or -1.
func (t *Trajectory) IndexOf(ts time.Time) int {
	for i, p := range t.points {
		if p.time.Equal(ts) {
			return i
		}
	}
	return -1
}

// Validate checks the timestamps are strictly increasing.
func (t *Trajectory) Validate() error {
	for i := 1; i < len(t.points); i++ {
		if !t.points[i].time.After(t.points[i-1].time) {
			return fmt.Errorf("trajectory %s: timestamp at row %d (%s) does not increase", t.id, i,
				t.points[i].time.Format(time.RFC3339))
		}
	}
	return nil
}
