package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lintang-b-s/trajtrunc/pkg/catalog"
	"github.com/lintang-b-s/trajtrunc/pkg/geo"
	"github.com/lintang-b-s/trajtrunc/pkg/logger"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	numTrajectories = flag.Int("n", 100, "number of trajectories")
	numPoints       = flag.Int("points", 200, "points per trajectory")
	stepKm          = flag.Float64("step_km", 0.05, "distance between consecutive points in km")
	interval        = flag.Duration("interval", 10*time.Second, "sampling interval")
	outDir          = flag.String("out", "./data/synthetic", "output directory of the csv trajectories")
	seed            = flag.Uint64("seed", 0, "random seed, 0 uses the current time")
)

// generator writes random-walk trajectories ("timestamp,lon,lat" csv) starting inside the
// extent of the protection-cell catalog, for load tests of the batch truncation.
func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Warn("no config file, using defaults and environment", zap.Error(err))
	}
	cfg, err := util.LoadTruncationConfig()
	if err != nil {
		panic(err)
	}
	cat, err := catalog.Load(cfg.CatalogDir, cfg.K, logger)
	if err != nil {
		panic(err)
	}
	tr, err := geo.NewTransformer(cfg.TrajectoryCRS, cfg.PcellsCRS)
	if err != nil {
		panic(err)
	}

	b := cat.Bound()
	minPoint, err := tr.Inverse(b.Min)
	if err != nil {
		panic(err)
	}
	maxPoint, err := tr.Inverse(b.Max)
	if err != nil {
		panic(err)
	}
	bound := orb.Bound{Min: minPoint, Max: maxPoint}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rd := rand.New(rand.NewSource(s))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < *numTrajectories; i++ {
		path := filepath.Join(*outDir, uuid.NewString()+".csv")
		if err := writeRandomWalk(path, RandomPoint(bound, rd), start, rd); err != nil {
			panic(err)
		}
		if (i+1)%100 == 0 {
			logger.Info("generated trajectories", zap.Int("count", i+1))
		}
	}
	logger.Info("synthetic trajectories written", zap.Int("trajectories", *numTrajectories), zap.String("dir", *outDir))
}

func writeRandomWalk(path string, p orb.Point, start time.Time, rd *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "timestamp,lon,lat")

	bearing := rd.Float64() * 360
	ts := start
	for j := 0; j < *numPoints; j++ {
		fmt.Fprintf(w, "%s,%.7f,%.7f\n", ts.Format(time.RFC3339), p.Lon(), p.Lat())
		// heading drifts, occasionally turning sharply
		bearing = math.Mod(bearing+rd.NormFloat64()*15+360, 360)
		if rd.Float64() < 0.02 {
			bearing = rd.Float64() * 360
		}
		p = orbgeo.PointAtBearingAndDistance(p, bearing, *stepKm*1000)
		ts = ts.Add(*interval)
	}
	return w.Flush()
}

func RandomPoint(bb orb.Bound, rd *rand.Rand) orb.Point {
	lon := bb.Min.X() + rd.Float64()*(bb.Max.X()-bb.Min.X())
	lat := bb.Min.Y() + rd.Float64()*(bb.Max.Y()-bb.Min.Y())
	return orb.Point{lon, lat}
}
