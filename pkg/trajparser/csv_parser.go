package trajparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
)

// ParseCSVFile reads "timestamp,lon,lat" rows. A non numeric first row is taken as a header.
func ParseCSVFile(path string) (*datastructure.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %s, err: %w", path, err)
	}
	defer f.Close()

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseCSV(id, f)
}

func ParseCSV(id string, r io.Reader) (*datastructure.Trajectory, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	points := make([]datastructure.TrajectoryPoint, 0, len(rows))
	for i, rec := range rows {
		if len(rec) < 3 {
			return nil, fmt.Errorf("csv row %d: expected timestamp,lon,lat", i+1)
		}
		ts, err := util.ParseTimestamp(rec[0])
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		lon, err := util.StringToFloat64(rec[1])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		lat, err := util.StringToFloat64(rec[2])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		points = append(points, datastructure.NewTrajectoryPoint(ts, lon, lat))
	}

	traj := datastructure.NewTrajectory(id, points)
	if err := traj.Validate(); err != nil {
		return nil, err
	}
	return traj, nil
}

/*
ParseSensitiveLocations. manual sensitive locations, one per row:

	lon,lat,time              point location
	lon,lat,start,end         stay interval
*/
func ParseSensitiveLocations(r io.Reader) ([]datastructure.SensitiveLocation, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	locs := make([]datastructure.SensitiveLocation, 0, len(rows))
	for i, rec := range rows {
		if len(rec) < 3 {
			return nil, fmt.Errorf("location row %d: expected at least lon,lat,time", i+1)
		}
		lon, err := util.StringToFloat64(rec[0])
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("location row %d: %w", i+1, err)
		}
		lat, err := util.StringToFloat64(rec[1])
		if err != nil {
			return nil, fmt.Errorf("location row %d: %w", i+1, err)
		}
		start, err := util.ParseTimestamp(rec[2])
		if err != nil {
			return nil, fmt.Errorf("location row %d: %w", i+1, err)
		}
		if len(rec) == 3 || strings.TrimSpace(rec[3]) == "" {
			locs = append(locs, datastructure.NewPointLocation(lon, lat, start))
			continue
		}
		end, err := util.ParseTimestamp(rec[3])
		if err != nil {
			return nil, fmt.Errorf("location row %d: %w", i+1, err)
		}
		if end.Before(start) {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "location row %d: stay ends before it starts", i+1)
		}
		locs = append(locs, datastructure.NewStayLocation(lon, lat, start, end))
	}
	return locs, nil
}

func ParseSensitiveLocationsFile(path string) ([]datastructure.SensitiveLocation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %s, err: %w", path, err)
	}
	defer f.Close()
	return ParseSensitiveLocations(f)
}

func readRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	rows := make([][]string, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
