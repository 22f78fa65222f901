package datastructure

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	EPS = 1e-9
)

func toGeomPolygon(p orb.Polygon) geom.Polygon {
	poly := make(geom.Polygon, 0, len(p))
	for _, ring := range p {
		if ring.Closed() {
			ring = ring[:len(ring)-1]
		}
		if len(ring) < 3 {
			continue
		}
		path := make(geom.Path, len(ring))
		for i, pt := range ring {
			path[i] = geom.Point{X: pt.X(), Y: pt.Y()}
		}
		poly = append(poly, path)
	}
	return poly
}

// polygonsIntersect. true when p1 and p2 overlap with a positive area. polygons only touching
// along an edge or at a vertex do not intersect.
func polygonsIntersect(p1, p2 orb.Polygon) bool {
	if len(p1) == 0 || len(p2) == 0 {
		return false
	}
	if !p1.Bound().Intersects(p2.Bound()) {
		return false
	}

	g1, g2 := toGeomPolygon(p1), toGeomPolygon(p2)
	if len(g1) == 0 || len(g2) == 0 {
		return false
	}
	return g1.Intersection(g2).Area() > 0
}

// Intersects reports whether shape intersects the polygonal region. A point intersects when it
// lies inside or on the boundary, polygonal shapes when they overlap the region with a positive area.
// Supported shapes are points, polygons, multipolygons and bounds (a buffered point is a polygon).
func Intersects(region orb.MultiPolygon, shape orb.Geometry) bool {
	switch s := shape.(type) {
	case orb.Point:
		return planar.MultiPolygonContains(region, s)
	case orb.Polygon:
		for _, poly := range region {
			if polygonsIntersect(poly, s) {
				return true
			}
		}
		return false
	case orb.MultiPolygon:
		for _, poly := range s {
			if Intersects(region, poly) {
				return true
			}
		}
		return false
	case orb.Bound:
		return Intersects(region, s.ToPolygon())
	}
	return false
}

// Buffer approximates the disc of the given radius around p with a closed ring of n segments.
func Buffer(p orb.Point, radius float64, n int) orb.Polygon {
	if n < 4 {
		n = 4
	}
	ring := make(orb.Ring, 0, n+1)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		ring = append(ring, orb.Point{p.X() + radius*math.Cos(theta), p.Y() + radius*math.Sin(theta)})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}
