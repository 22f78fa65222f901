package geo

import (
	"math"

	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"github.com/paulmach/orb"
)

/*
DirectionBetween. planar direction of the vector from -> to, in degrees within [0, 360),
measured counterclockwise from the positive x axis of the projected reference system.
*/
func DirectionBetween(from, to orb.Point) float64 {
	arctangent := math.Atan2(to.Y()-from.Y(), to.X()-from.X())
	if arctangent < 0 {
		arctangent += 2 * math.Pi
	}
	return util.RadiansToDegree(arctangent)
}

// AngularDifference returns the smallest angle between two directions given in degrees.
func AngularDifference(a, b float64) float64 {
	diff := math.Abs(a - b)
	return math.Min(diff, 360-diff)
}
