package controllers

import (
	"time"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/geo"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
)

type pointDTO struct {
	Time string  `json:"time" validate:"required"`
	Lon  float64 `json:"lon" validate:"min=-180,max=180"`
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
}

type truncateRequest struct {
	ID           string     `json:"id"`
	Points       []pointDTO `json:"points" validate:"required,min=1,dive"`
	AddEndpoints *bool      `json:"add_endpoints"`
	AddStops     *bool      `json:"add_stops"`
	Alpha        *float64   `json:"alpha" validate:"omitempty,gt=0,lte=360"`
}

func (r truncateRequest) toTrajectory(id string) (*datastructure.Trajectory, error) {
	points := make([]datastructure.TrajectoryPoint, len(r.Points))
	for i, p := range r.Points {
		ts, err := util.ParseTimestamp(p.Time)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "points[%d].time", i)
		}
		points[i] = datastructure.NewTrajectoryPoint(ts, p.Lon, p.Lat)
	}

	traj := datastructure.NewTrajectory(id, points)
	if err := traj.Validate(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "points must be ordered by strictly increasing time")
	}
	return traj, nil
}

type truncateResponse struct {
	ID       string     `json:"id"`
	Points   []pointDTO `json:"points"`
	Polyline string     `json:"polyline"`
	Removed  int        `json:"removed"`
}

func NewTruncateResponse(traj *datastructure.Trajectory, removed int) truncateResponse {
	points := make([]pointDTO, traj.Len())
	coords := make([]geo.Coordinate, traj.Len())
	for i, p := range traj.Points() {
		points[i] = pointDTO{
			Time: p.Time().Format(time.RFC3339Nano),
			Lon:  p.Lon(),
			Lat:  p.Lat(),
		}
		coords[i] = geo.NewCoordinate(p.Lat(), p.Lon())
	}

	return truncateResponse{
		ID:       traj.ID(),
		Points:   points,
		Polyline: geo.PolylineFromCoords(coords),
		Removed:  removed,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
