package truncation

import (
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/paulmach/orb"
)

// BoundaryCells maps the timestamp (unix nano) of every sensitive boundary to the protection
// cells of the location at that boundary. A present but empty set marks an unprotected
// boundary.
type BoundaryCells map[int64]datastructure.CellSet

func (bc BoundaryCells) IsBoundary(p datastructure.TrajectoryPoint) bool {
	_, ok := bc[p.Key()]
	return ok
}

func (bc BoundaryCells) add(key int64, cells datastructure.CellSet) {
	bc[key] = cells
}

// cellsIntersecting resolves the protection cells of a sensitive location at p, buffered by
// the configured uncertainty radius.
func (t *Truncator) cellsIntersecting(p orb.Point) datastructure.CellSet {
	if t.buffer > 0 {
		return t.catalog.CellsIntersecting(datastructure.Buffer(p, t.buffer, bufferSegments))
	}
	return t.catalog.CellsIntersecting(p)
}

// inProximity reports whether p lies in any cell of sPcells.
func (t *Truncator) inProximity(p orb.Point, sPcells datastructure.CellSet) bool {
	return sPcells.ContainsAny(t.catalog.CellsIntersecting(p))
}
