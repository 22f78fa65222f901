package truncation

import (
	"fmt"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
)

/*
splitTrajectory. cuts the projected trajectory at every stay location:

	rows up to and including the stay start  -> fragment
	rows strictly inside the stay            -> dropped
	rows from the stay end onward            -> processing continues

point locations only get their protection cells resolved. fragments with fewer than 2
rows are discarded.
*/
func (t *Truncator) splitTrajectory(locations []datastructure.SensitiveLocation,
	traj *datastructure.Trajectory) (BoundaryCells, []*datastructure.Trajectory, error) {
	pcells := make(BoundaryCells, len(locations)*2)
	fragments := make([]*datastructure.Trajectory, 0, len(locations)+1)

	remaining := traj
	for _, s := range locations {
		if !s.IsStay() {
			p, err := t.transformer.Forward(s.Point())
			if err != nil {
				return nil, nil, fmt.Errorf("trajectory %s: sensitive location: %w", traj.ID(), err)
			}
			pcells.add(s.Start().UnixNano(), t.cellsIntersecting(p))
			continue
		}

		start := remaining.IndexOf(s.Start())
		end := remaining.IndexOf(s.End())
		if start < 0 || end < 0 {
			return nil, nil, util.WrapErrorf(nil, util.ErrUnresolvedBoundary,
				"trajectory %s: stay %s - %s", traj.ID(), s.Start(), s.End())
		}

		startPoint, endPoint := remaining.Point(start), remaining.Point(end)
		pcells.add(startPoint.Key(), t.cellsIntersecting(startPoint.Geom()))
		pcells.add(endPoint.Key(), t.cellsIntersecting(endPoint.Geom()))

		fragments = append(fragments, remaining.Slice(0, start+1))
		remaining = remaining.Slice(end, remaining.Len())
	}
	fragments = append(fragments, remaining)

	kept := fragments[:0]
	for _, f := range fragments {
		if f.Len() > 1 {
			kept = append(kept, f)
		}
	}
	return pcells, kept, nil
}
