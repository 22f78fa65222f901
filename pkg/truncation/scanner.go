package truncation

import (
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
)

// ScanDirection is the end of a fragment a scan starts from.
type ScanDirection uint8

const (
	// Reverse walks from the first row forward, towards the end of the fragment.
	Reverse ScanDirection = iota
	// Forward walks from the last row backward.
	Forward
)

func (d ScanDirection) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// row is the index of scan step i in a fragment of n rows.
func (d ScanDirection) row(n, i int) int {
	if d == Reverse {
		return i
	}
	return n - 1 - i
}

// inward is the index of the neighbour of step i one row further from the scanned end.
func (d ScanDirection) inward(n, i int) int {
	if d == Reverse {
		return i + 1
	}
	return n - 2 - i
}

// keep returns the rows disclosed when the scan stops at step i.
func (d ScanDirection) keep(traj *datastructure.Trajectory, i int) *datastructure.Trajectory {
	if d == Reverse {
		return traj.Slice(i, traj.Len())
	}
	return traj.Slice(0, traj.Len()-i)
}

const fullyTruncated = -1

// Cut is where a scan stopped: the first point walking inward from a sensitive boundary
// that may be disclosed.
type Cut struct {
	Direction ScanDirection
	Point     datastructure.TrajectoryPoint
	// inward neighbour the heading was taken from, unset when Steps is 0
	Prev  datastructure.TrajectoryPoint
	Steps int
	Cells datastructure.CellSet
}

/*
stopStep. walks traj inward from the end given by dir. a point is truncated when it lies in
one of sPcells (proximity) or, past the boundary point itself, when the wedge test against
sPcells is ambiguous. returns the step of the first point to keep or fullyTruncated when
the scan reaches the far end.
*/
func (t *Truncator) stopStep(traj *datastructure.Trajectory, sPcells datastructure.CellSet, dir ScanDirection) int {
	n := traj.Len()
	for i := 0; i < n-1; i++ {
		curr := traj.Point(dir.row(n, i))
		if t.inProximity(curr.Geom(), sPcells) {
			continue
		}
		// the boundary point itself is never wedge tested, in either direction. a forward scan
		// could take row n-2 as its heading source at step 0, but that would make the two scans
		// asymmetric.
		if i > 0 {
			prev := traj.Point(dir.inward(n, i))
			if !EvaluateDirection(curr.Geom(), prev.Geom(), sPcells, t.catalog, t.alpha) {
				continue
			}
		}
		return i
	}
	return fullyTruncated
}

// scan truncates traj from the end given by dir. The result is empty on complete truncation.
func (t *Truncator) scan(traj *datastructure.Trajectory, pcells BoundaryCells,
	dir ScanDirection) (*datastructure.Trajectory, *Cut, error) {
	n := traj.Len()
	if n == 0 {
		return nil, nil, util.WrapErrorf(nil, util.ErrInsufficientData, "trajectory %s: empty %s scan", traj.ID(), dir)
	}

	sPcells := pcells[traj.Point(dir.row(n, 0)).Key()]
	if len(sPcells) == 0 {
		return traj, nil, nil
	}

	i := t.stopStep(traj, sPcells, dir)
	if i == fullyTruncated {
		return traj.Slice(0, 0), nil, nil
	}

	cut := &Cut{
		Direction: dir,
		Point:     traj.Point(dir.row(n, i)),
		Steps:     i,
		Cells:     sPcells,
	}
	if i > 0 {
		cut.Prev = traj.Point(dir.inward(n, i))
	}
	return dir.keep(traj, i), cut, nil
}
