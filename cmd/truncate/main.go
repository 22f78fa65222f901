package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/geo"
	"github.com/lintang-b-s/trajtrunc/pkg/logger"
	"github.com/lintang-b-s/trajtrunc/pkg/trajparser"
	"github.com/lintang-b-s/trajtrunc/pkg/truncation"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	input       = flag.String("input", "./data/trajectories", "a .plt/.csv trajectory file or a directory searched recursively")
	output      = flag.String("output", "./data/truncated.geojson", "output GeoJSON FeatureCollection")
	wedgesOut   = flag.String("wedges", "", "optional GeoJSON output of the wedges evaluated at every cut")
	wedgeRadius = flag.Float64("wedge_radius", 500, "wedge leg length in protection-cell reference system units")
	geolifeBBox = flag.Bool("geolife_window", true, "drop .plt points outside the Geolife lon/lat window")
	timeout     = flag.Duration("timeout", 0, "overall budget of the batch, 0 for none")

	alpha = flag.Float64("alpha", 60, "wedge opening angle in degrees")
	k     = flag.Int("k", 4, "protection-cell granularity level")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Warn("no config file, using defaults and environment", zap.Error(err))
	}
	// explicitly set flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "alpha":
			viper.Set("alpha", *alpha)
		case "k":
			viper.Set("k", *k)
		}
	})
	cfg, err := util.LoadTruncationConfig()
	if err != nil {
		panic(err)
	}

	truncator, err := truncation.LoadTruncator(cfg, logger)
	if err != nil {
		panic(err)
	}

	files, err := trajectoryFiles(*input)
	if err != nil {
		panic(err)
	}
	trajectories := make([]*datastructure.Trajectory, 0, len(files))
	for _, path := range files {
		traj, err := readTrajectory(path)
		if err != nil {
			logger.Warn("skipping trajectory", zap.String("path", path), zap.Error(err))
			continue
		}
		trajectories = append(trajectories, trajparser.FilterSpeed(traj, cfg.MaxSpeedKmh))
	}
	logger.Info("trajectories read", zap.Int("files", len(files)), zap.Int("trajectories", len(trajectories)))

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	results := truncator.TruncateBatch(ctx, trajectories)
	logger.Info("batch truncated", zap.Duration("took", time.Since(start)))

	if err := writeFeatureCollection(*output, trajectoriesCollection(results)); err != nil {
		panic(err)
	}
	if *wedgesOut != "" {
		if err := writeFeatureCollection(*wedgesOut, wedgesCollection(truncator, results, *wedgeRadius, logger)); err != nil {
			panic(err)
		}
	}

	failed, removed := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		removed += res.Result.Removed
	}
	logger.Info("truncation finished", zap.Int("trajectories", len(results)), zap.Int("failed", failed),
		zap.Int("removed_points", removed), zap.String("output", *output))
}

func trajectoryFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	files := make([]string, 0)
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".plt", ".csv":
			if !d.IsDir() {
				files = append(files, path)
			}
		}
		return nil
	})
	return files, err
}

func readTrajectory(path string) (*datastructure.Trajectory, error) {
	var (
		traj *datastructure.Trajectory
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".plt":
		var window *orb.Bound
		if *geolifeBBox {
			w := trajparser.GeolifeWindow
			window = &w
		}
		traj, err = trajparser.NewPLTParser(window).ParseFile(path)
	case ".csv":
		traj, err = trajparser.ParseCSVFile(path)
	default:
		return nil, fmt.Errorf("unknown trajectory format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if traj.ID() == "" {
		traj = datastructure.NewTrajectory(uuid.NewString(), traj.Points())
	}
	return traj, nil
}

// one MultiPoint feature per trajectory, timestamps in the "times" property
func trajectoriesCollection(results []truncation.BatchResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, res := range results {
		if res.Err != nil {
			f := geojson.NewFeature(orb.MultiPoint{})
			f.Properties["id"] = res.ID
			f.Properties["error"] = res.Err.Error()
			fc.Append(f)
			continue
		}

		traj := res.Result.Trajectory
		mp := make(orb.MultiPoint, traj.Len())
		times := make([]string, traj.Len())
		for i, p := range traj.Points() {
			mp[i] = orb.Point{p.Lon(), p.Lat()}
			times[i] = p.Time().Format(time.RFC3339)
		}

		f := geojson.NewFeature(mp)
		f.Properties["id"] = res.ID
		f.Properties["times"] = times
		f.Properties["removed"] = res.Result.Removed
		fc.Append(f)
	}
	return fc
}

func wedgesCollection(t *truncation.Truncator, results []truncation.BatchResult, r float64,
	log *zap.Logger) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		for _, cut := range res.Result.Cuts {
			wedge, ok, err := t.Wedge(cut, r)
			if err != nil {
				log.Warn("cannot reproject wedge", zap.String("id", res.ID), zap.Error(err))
				continue
			}
			if !ok {
				continue
			}
			f := geojson.NewFeature(wedge)
			f.Properties["id"] = res.ID
			f.Properties["direction"] = cut.Direction.String()
			f.Properties["time"] = cut.Point.Time().Format(time.RFC3339)
			f.Properties["cells"] = cut.Cells.IDs()
			f.Properties["alpha"] = t.Alpha()
			f.Properties["polyline"] = geo.PolylineFromCoords([]geo.Coordinate{
				geo.NewCoordinate(cut.Prev.Lat(), cut.Prev.Lon()),
				geo.NewCoordinate(cut.Point.Lat(), cut.Point.Lon()),
			})
			fc.Append(f)
		}
	}
	return fc
}

func writeFeatureCollection(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
