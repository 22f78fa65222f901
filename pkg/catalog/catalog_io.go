package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

func CellsFile(dir string, k int) string {
	return filepath.Join(dir, fmt.Sprintf("cells_%d.geojson", k))
}

func MultipointsFile(dir string, k int) string {
	return filepath.Join(dir, fmt.Sprintf("multipoints_%d.geojson", k))
}

func CompressedFile(dir string, k int) string {
	return filepath.Join(dir, fmt.Sprintf("catalog_%d.bz2", k))
}

// Load reads the catalog of granularity k from dir, preferring the compressed file written by
// WriteCompressed and falling back to the cells_<k> / multipoints_<k> GeoJSON pair.
func Load(dir string, k int, log *zap.Logger) (*Catalog, error) {
	compressed := CompressedFile(dir, k)
	if _, err := os.Stat(compressed); err == nil {
		log.Info("Reading compressed protection-cell catalog", zap.String("path", compressed))
		return ReadCompressed(compressed, log)
	}
	return LoadGeoJSON(CellsFile(dir, k), MultipointsFile(dir, k), k, log)
}

func LoadGeoJSON(cellsPath, multipointsPath string, k int, log *zap.Logger) (*Catalog, error) {
	log.Info("Reading protection cells", zap.String("path", cellsPath))
	cellsFc, err := readFeatureCollection(cellsPath)
	if err != nil {
		return nil, err
	}

	cells := make([]*datastructure.ProtectionCell, 0, len(cellsFc.Features))
	for i, f := range cellsFc.Features {
		id, err := featureID(f)
		if err != nil {
			return nil, fmt.Errorf("%s: feature %d: %w", cellsPath, i, err)
		}
		var mp orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			mp = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			mp = g
		default:
			return nil, fmt.Errorf("%s: feature %d: protection cell must be a polygon, got %T", cellsPath, i, f.Geometry)
		}
		cells = append(cells, datastructure.NewProtectionCell(id, mp))
	}

	log.Info("Reading wedge reference points", zap.String("path", multipointsPath))
	mpFc, err := readFeatureCollection(multipointsPath)
	if err != nil {
		return nil, err
	}
	multipoints := make(map[int]orb.MultiPoint, len(mpFc.Features))
	for i, f := range mpFc.Features {
		id, err := featureID(f)
		if err != nil {
			return nil, fmt.Errorf("%s: feature %d: %w", multipointsPath, i, err)
		}
		switch g := f.Geometry.(type) {
		case orb.MultiPoint:
			multipoints[id] = append(multipoints[id], g...)
		case orb.Point:
			multipoints[id] = append(multipoints[id], g)
		default:
			return nil, fmt.Errorf("%s: feature %d: reference points must be a multipoint, got %T", multipointsPath, i, f.Geometry)
		}
	}

	return NewCatalog(k, cells, multipoints, log), nil
}

func readFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %s, err: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse geojson: %s, err: %w", path, err)
	}
	return fc, nil
}

// featureID reads the integer "myid" property, stored either as a number or a string.
func featureID(f *geojson.Feature) (int, error) {
	switch v := f.Properties["myid"].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		return strconv.Atoi(v)
	}
	if id, ok := f.ID.(float64); ok {
		return int(id), nil
	}
	return 0, errors.New("missing myid property")
}

// LoadRegion reads the first polygon of a GeoJSON file (FeatureCollection, Feature or bare geometry).
func LoadRegion(path string) (orb.MultiPolygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %s, err: %w", path, err)
	}

	var geom orb.Geometry
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		geom = fc.Features[0].Geometry
	} else if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		geom = f.Geometry
	} else if g, err := geojson.UnmarshalGeometry(data); err == nil {
		geom = g.Geometry()
	}

	switch g := geom.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{g}, nil
	case orb.MultiPolygon:
		return g, nil
	case orb.Bound:
		return orb.MultiPolygon{g.ToPolygon()}, nil
	}
	return nil, fmt.Errorf("%s: truncation region must be a polygon", path)
}

/*
WriteCompressed. bzip2 text format:

	k numCells numMultipoints
	c id numPolygons
	numRings
	numPoints x1 y1 ... xn yn     (one line per ring)
	m id numPoints x1 y1 ... xn yn
*/
func (c *Catalog) WriteCompressed(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d %d\n", c.k, len(c.cells), len(c.multipoints))
	for _, cell := range c.Cells() {
		fmt.Fprintf(w, "c %d %d\n", cell.ID(), len(cell.Geometry()))
		for _, poly := range cell.Geometry() {
			fmt.Fprintf(w, "%d\n", len(poly))
			for _, ring := range poly {
				writePoints(w, []orb.Point(ring))
			}
		}
	}

	for _, id := range sortedKeys(c.multipoints) {
		fmt.Fprintf(w, "m %d ", id)
		writePoints(w, []orb.Point(c.multipoints[id]))
	}

	return w.Flush()
}

func writePoints(w *bufio.Writer, points []orb.Point) {
	fmt.Fprintf(w, "%d", len(points))
	for _, p := range points {
		w.WriteByte(' ')
		w.WriteString(strconv.FormatFloat(p.X(), 'g', -1, 64))
		w.WriteByte(' ')
		w.WriteString(strconv.FormatFloat(p.Y(), 'g', -1, 64))
	}
	w.WriteByte('\n')
}

func ReadCompressed(filename string, log *zap.Logger) (*Catalog, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	var k, numCells, numMultipoints int
	if _, err := fmt.Sscanf(line, "%d %d %d", &k, &numCells, &numMultipoints); err != nil {
		return nil, fmt.Errorf("invalid catalog header: %w", err)
	}

	cells := make([]*datastructure.ProtectionCell, 0, numCells)
	for i := 0; i < numCells; i++ {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		var id, numPolygons int
		if _, err := fmt.Sscanf(line, "c %d %d", &id, &numPolygons); err != nil {
			return nil, fmt.Errorf("invalid cell header %q: %w", line, err)
		}

		mp := make(orb.MultiPolygon, numPolygons)
		for j := 0; j < numPolygons; j++ {
			line, err = util.ReadLine(br)
			if err != nil {
				return nil, err
			}
			numRings, err := strconv.Atoi(line)
			if err != nil {
				return nil, fmt.Errorf("invalid ring count %q: %w", line, err)
			}
			poly := make(orb.Polygon, numRings)
			for r := 0; r < numRings; r++ {
				line, err = util.ReadLine(br)
				if err != nil {
					return nil, err
				}
				points, err := parsePoints(util.Fields(line))
				if err != nil {
					return nil, err
				}
				poly[r] = orb.Ring(points)
			}
			mp[j] = poly
		}
		cells = append(cells, datastructure.NewProtectionCell(id, mp))
	}

	multipoints := make(map[int]orb.MultiPoint, numMultipoints)
	for i := 0; i < numMultipoints; i++ {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		ff := util.Fields(line)
		if len(ff) < 3 || ff[0] != "m" {
			return nil, fmt.Errorf("invalid multipoint line %q", line)
		}
		id, err := strconv.Atoi(ff[1])
		if err != nil {
			return nil, err
		}
		points, err := parsePoints(ff[2:])
		if err != nil {
			return nil, err
		}
		multipoints[id] = orb.MultiPoint(points)
	}

	return NewCatalog(k, cells, multipoints, log), nil
}

// parsePoints parses "n x1 y1 ... xn yn".
func parsePoints(ff []string) ([]orb.Point, error) {
	if len(ff) == 0 {
		return nil, errors.New("empty point list")
	}
	n, err := strconv.Atoi(ff[0])
	if err != nil {
		return nil, err
	}
	if len(ff) != 1+2*n {
		return nil, fmt.Errorf("expected %d coordinates, got %d", 2*n, len(ff)-1)
	}
	points := make([]orb.Point, n)
	for i := 0; i < n; i++ {
		x, err := strconv.ParseFloat(ff[1+2*i], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(ff[2+2*i], 64)
		if err != nil {
			return nil, err
		}
		points[i] = orb.Point{x, y}
	}
	return points, nil
}

func sortedKeys(m map[int]orb.MultiPoint) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
