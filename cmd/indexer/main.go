package main

import (
	"flag"
	"os"

	"github.com/lintang-b-s/trajtrunc/pkg/catalog"
	"github.com/lintang-b-s/trajtrunc/pkg/logger"
	"go.uber.org/zap"
)

var (
	catalogDir = flag.String("dir", "./data/catalog", "directory holding cells_<k>.geojson and multipoints_<k>.geojson")
	outDir     = flag.String("out", "", "output directory of catalog_<k>.bz2, defaults to -dir")
	minK       = flag.Int("min_k", 4, "first granularity level")
	maxK       = flag.Int("max_k", 4, "last granularity level")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	out := *outDir
	if out == "" {
		out = *catalogDir
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		panic(err)
	}

	for k := *minK; k <= *maxK; k++ {
		cat, err := catalog.LoadGeoJSON(catalog.CellsFile(*catalogDir, k), catalog.MultipointsFile(*catalogDir, k), k, logger)
		if err != nil {
			panic(err)
		}

		path := catalog.CompressedFile(out, k)
		if err := cat.WriteCompressed(path); err != nil {
			panic(err)
		}
		logger.Info("protection-cell catalog written", zap.Int("k", k), zap.Int("cells", cat.NumCells()),
			zap.String("path", path))
	}
}
