package truncation

import (
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
)

// truncateAndReassemble scans every fragment from its sensitive ends, reverse first and
// forward on the reverse result, and concatenates what survives in time order.
func (t *Truncator) truncateAndReassemble(fragments []*datastructure.Trajectory,
	pcells BoundaryCells) ([]datastructure.TrajectoryPoint, []Cut, error) {
	points := make([]datastructure.TrajectoryPoint, 0)
	cuts := make([]Cut, 0, 2*len(fragments))

	for _, f := range fragments {
		kept := f
		if pcells.IsBoundary(f.First()) {
			res, cut, err := t.scan(kept, pcells, Reverse)
			if err != nil {
				return nil, nil, err
			}
			kept = res
			if cut != nil {
				cuts = append(cuts, *cut)
			}
		}
		if kept.IsEmpty() {
			continue
		}

		if pcells.IsBoundary(kept.Last()) {
			res, cut, err := t.scan(kept, pcells, Forward)
			if err != nil {
				return nil, nil, err
			}
			kept = res
			if cut != nil {
				cuts = append(cuts, *cut)
			}
		}

		points = append(points, kept.Points()...)
	}
	return points, cuts, nil
}
