package truncation

import (
	"math"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/geo"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"github.com/paulmach/orb"
)

// ReferenceSource gives the wedge reference points of a protection cell.
type ReferenceSource interface {
	ReferencePoints(cellID int) orb.MultiPoint
}

/*
EvaluateDirection. wedge test at curr, heading prev -> curr.

A reference point p is inside the wedge when the direction curr -> p is within alpha/2 of
the heading. Returns false (truncate) as soon as the reference points of cells are split
between inside and outside the wedge; true when all of them agree, including when there are
none.
*/
func EvaluateDirection(curr, prev orb.Point, cells datastructure.CellSet, refs ReferenceSource, alpha float64) bool {
	heading := geo.DirectionBetween(prev, curr)
	maxDiff := alpha / 2

	anyInside, anyOutside := false, false
	for _, id := range cells.IDs() {
		for _, p := range refs.ReferencePoints(id) {
			if geo.AngularDifference(geo.DirectionBetween(curr, p), heading) <= maxDiff {
				anyInside = true
			} else {
				anyOutside = true
			}
			if anyInside && anyOutside {
				return false
			}
		}
	}
	return true
}

// WedgeTriangle returns the wedge evaluated at curr as a triangle with legs of length r.
func WedgeTriangle(curr, prev orb.Point, alpha, r float64) orb.Polygon {
	heading := geo.DirectionBetween(prev, curr)
	leg := func(deg float64) orb.Point {
		rad := util.DegreeToRadians(deg)
		return orb.Point{curr.X() + r*math.Cos(rad), curr.Y() + r*math.Sin(rad)}
	}
	return orb.Polygon{orb.Ring{curr, leg(heading - alpha/2), leg(heading + alpha/2), curr}}
}

// Wedge returns the wedge evaluated at a cut in the trajectory reference system, false when
// the cut is the boundary point itself and no wedge was evaluated.
func (t *Truncator) Wedge(c Cut, r float64) (orb.Polygon, bool, error) {
	if c.Steps == 0 {
		return nil, false, nil
	}
	tri := WedgeTriangle(c.Point.Geom(), c.Prev.Geom(), t.alpha, r)
	out := make(orb.Ring, len(tri[0]))
	for i, p := range tri[0] {
		q, err := t.transformer.Inverse(p)
		if err != nil {
			return nil, false, err
		}
		out[i] = q
	}
	return orb.Polygon{out}, true, nil
}
