package trajparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"github.com/paulmach/orb"
)

const pltHeaderLines = 6

// GeolifeWindow is the lon/lat extent accepted by default for Geolife trajectories
// (area covered by EPSG:2345).
var GeolifeWindow = orb.Bound{Min: orb.Point{114.0, 22.14}, Max: orb.Point{120.0, 51.52}}

type PLTParser struct {
	window *orb.Bound
}

// NewPLTParser. window, when not nil, drops points outside the lon/lat bound.
func NewPLTParser(window *orb.Bound) *PLTParser {
	return &PLTParser{window: window}
}

func (p *PLTParser) ParseFile(path string) (*datastructure.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %s, err: %w", path, err)
	}
	defer f.Close()

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p.Parse(id, f)
}

/*
Parse. geolife plt rows after the 6 header lines:

	lat,lon,0,altitude(feet),days since 1899-12-30,date,time
*/
func (p *PLTParser) Parse(id string, r io.Reader) (*datastructure.Trajectory, error) {
	br := bufio.NewReader(r)
	for i := 0; i < pltHeaderLines; i++ {
		if _, err := util.ReadLine(br); err != nil {
			return nil, fmt.Errorf("plt header: %w", err)
		}
	}

	points := make([]datastructure.TrajectoryPoint, 0, 256)
	for row := pltHeaderLines + 1; ; row++ {
		line, err := util.ReadLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		items := strings.Split(line, ",")
		if len(items) < 7 {
			return nil, fmt.Errorf("plt row %d: expected 7 fields, got %d", row, len(items))
		}
		lat, err := util.StringToFloat64(items[0])
		if err != nil {
			return nil, fmt.Errorf("plt row %d: %w", row, err)
		}
		lon, err := util.StringToFloat64(items[1])
		if err != nil {
			return nil, fmt.Errorf("plt row %d: %w", row, err)
		}
		ts, err := util.ParseTimestamp(items[5] + " " + items[6])
		if err != nil {
			return nil, fmt.Errorf("plt row %d: %w", row, err)
		}

		if p.window != nil && !strictlyInside(*p.window, lon, lat) {
			continue
		}
		points = append(points, datastructure.NewTrajectoryPoint(ts, lon, lat))
	}

	return datastructure.NewTrajectory(id, dedupeTimestamps(points)), nil
}

func strictlyInside(b orb.Bound, lon, lat float64) bool {
	return b.Min.X() < lon && lon < b.Max.X() && b.Min.Y() < lat && lat < b.Max.Y()
}

// dedupeTimestamps keeps the first row of every timestamp; geolife logs repeat seconds.
func dedupeTimestamps(points []datastructure.TrajectoryPoint) []datastructure.TrajectoryPoint {
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 && !p.Time().After(out[len(out)-1].Time()) {
			continue
		}
		out = append(out, p)
	}
	return out
}
