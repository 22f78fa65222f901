package datastructure

import (
	"time"

	"github.com/paulmach/orb"
)

type LocationKind uint8

const (
	// a trajectory endpoint or an isolated point, (lon, lat, timestamp)
	PointLocation LocationKind = iota
	// a stay interval, (lon, lat, start, end)
	StayLocation
)

type SensitiveLocation struct {
	lon, lat   float64
	start, end time.Time
	kind       LocationKind
}

func NewPointLocation(lon, lat float64, t time.Time) SensitiveLocation {
	return SensitiveLocation{
		lon:   lon,
		lat:   lat,
		start: t,
		end:   t,
		kind:  PointLocation,
	}
}

func NewStayLocation(lon, lat float64, start, end time.Time) SensitiveLocation {
	return SensitiveLocation{
		lon:   lon,
		lat:   lat,
		start: start,
		end:   end,
		kind:  StayLocation,
	}
}

func (s SensitiveLocation) Lon() float64 {
	return s.lon
}

func (s SensitiveLocation) Lat() float64 {
	return s.lat
}

func (s SensitiveLocation) Start() time.Time {
	return s.start
}

func (s SensitiveLocation) End() time.Time {
	return s.end
}

func (s SensitiveLocation) Kind() LocationKind {
	return s.kind
}

func (s SensitiveLocation) IsStay() bool {
	return s.kind == StayLocation
}

// Point returns the location in the trajectory reference system.
func (s SensitiveLocation) Point() orb.Point {
	return orb.Point{s.lon, s.lat}
}
