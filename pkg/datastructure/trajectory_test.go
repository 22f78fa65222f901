package datastructure

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrajectory(n int) *Trajectory {
	start := time.Date(2008, 4, 28, 11, 27, 4, 0, time.UTC)
	points := make([]TrajectoryPoint, n)
	for i := 0; i < n; i++ {
		points[i] = NewTrajectoryPoint(start.Add(time.Duration(i)*time.Minute), float64(i), float64(i))
	}
	return NewTrajectory("t1", points)
}

func TestTrajectorySliceAndIndex(t *testing.T) {
	tr := newTestTrajectory(5)
	require.NoError(t, tr.Validate())

	sub := tr.Slice(1, 4)
	assert.Equal(t, 3, sub.Len())
	assert.Equal(t, tr.Point(1).Time(), sub.First().Time())
	assert.Equal(t, tr.Point(3).Time(), sub.Last().Time())
	assert.Equal(t, "t1", sub.ID())

	assert.Equal(t, 2, tr.IndexOf(tr.Point(2).Time()))
	assert.Equal(t, -1, tr.IndexOf(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, sub.IndexOf(tr.Point(2).Time()))
}

func TestTrajectoryValidate(t *testing.T) {
	ts := time.Date(2008, 4, 28, 11, 27, 4, 0, time.UTC)
	tr := NewTrajectory("dup", []TrajectoryPoint{
		NewTrajectoryPoint(ts, 0, 0),
		NewTrajectoryPoint(ts, 1, 1),
	})
	assert.Error(t, tr.Validate())
}

func TestTrajectoryPointWithGeom(t *testing.T) {
	p := NewTrajectoryPoint(time.Unix(10, 0), 116.3, 39.9)
	assert.Equal(t, orb.Point{116.3, 39.9}, p.Geom())

	q := p.WithGeom(orb.Point{100, 200})
	assert.Equal(t, orb.Point{100, 200}, q.Geom())
	assert.Equal(t, orb.Point{116.3, 39.9}, p.Geom())
	assert.Equal(t, int64(10e9), q.Key())
}

func TestCellSet(t *testing.T) {
	a := NewProtectionCell(3, orb.MultiPolygon{square(0, 0, 1, 1)})
	b := NewProtectionCell(1, orb.MultiPolygon{square(1, 0, 2, 1)})
	cs := NewCellSet(a, b)

	assert.True(t, cs.Has(1))
	assert.False(t, cs.Has(2))
	assert.Equal(t, []int{1, 3}, cs.IDs())
	assert.True(t, cs.ContainsAny(NewCellSet(b)))
	assert.False(t, cs.ContainsAny(NewCellSet()))
	assert.False(t, NewCellSet().ContainsAny(cs))
}
