package truncation

import (
	"sort"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
)

// CollectSensitiveLocations merges the manual locations, the detected stays and the two
// endpoints of traj, keeps those inside the truncation region and sorts them by start time.
// Locations sharing a start time keep the order manual, stays, endpoints.
func (t *Truncator) CollectSensitiveLocations(traj *datastructure.Trajectory) ([]datastructure.SensitiveLocation, error) {
	candidates := make([]datastructure.SensitiveLocation, 0, len(t.manual)+2)
	candidates = append(candidates, t.manual...)

	if t.addStops {
		candidates = append(candidates, t.detector.DetectStops(traj)...)
	}
	if t.addEndpoints {
		if traj.Len() < 2 {
			return nil, util.WrapErrorf(nil, util.ErrInsufficientData,
				"trajectory %s has %d points, endpoints need at least 2", traj.ID(), traj.Len())
		}
		first, last := traj.First(), traj.Last()
		candidates = append(candidates,
			datastructure.NewPointLocation(first.Lon(), first.Lat(), first.Time()),
			datastructure.NewPointLocation(last.Lon(), last.Lat(), last.Time()),
		)
	}

	locations := candidates
	if len(t.region) > 0 {
		locations = make([]datastructure.SensitiveLocation, 0, len(candidates))
		for _, s := range candidates {
			if datastructure.Intersects(t.region, s.Point()) {
				locations = append(locations, s)
			}
		}
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].Start().Before(locations[j].Start())
	})
	return locations, nil
}
