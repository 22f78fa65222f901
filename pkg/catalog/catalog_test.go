package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cellsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"myid": 1},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}},
    {"type": "Feature", "properties": {"myid": 2},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[10,0],[20,0],[20,10],[10,10],[10,0]]]]}}
  ]
}`

const multipointsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"myid": "1"},
     "geometry": {"type": "MultiPoint", "coordinates": [[2,2],[8,8]]}},
    {"type": "Feature", "properties": {"myid": 2},
     "geometry": {"type": "MultiPoint", "coordinates": [[15,5]]}}
  ]
}`

func writeTestCatalog(t *testing.T, k int) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(CellsFile(dir, k), []byte(cellsGeoJSON), 0o644))
	require.NoError(t, os.WriteFile(MultipointsFile(dir, k), []byte(multipointsGeoJSON), 0o644))
	return dir
}

func TestLoadGeoJSON(t *testing.T) {
	dir := writeTestCatalog(t, 4)

	c, err := Load(dir, 4, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 4, c.K())
	assert.Equal(t, 2, c.NumCells())
	assert.Equal(t, orb.MultiPoint{{2, 2}, {8, 8}}, c.ReferencePoints(1))
	assert.Equal(t, orb.MultiPoint{{15, 5}}, c.ReferencePoints(2))
	assert.Nil(t, c.ReferencePoints(3))

	b := c.Bound()
	assert.Equal(t, orb.Point{0, 0}, b.Min)
	assert.Equal(t, orb.Point{20, 10}, b.Max)
}

func TestCellsIntersecting(t *testing.T) {
	c, err := Load(writeTestCatalog(t, 4), 4, zap.NewNop())
	require.NoError(t, err)

	testCases := []struct {
		name  string
		shape orb.Geometry
		want  []int
	}{
		{name: "inside first cell", shape: orb.Point{5, 5}, want: []int{1}},
		{name: "on shared edge", shape: orb.Point{10, 5}, want: []int{1, 2}},
		{name: "outside", shape: orb.Point{30, 5}, want: []int{}},
		{name: "buffer reaching the neighbour", shape: datastructure.Buffer(orb.Point{9, 5}, 2, 32), want: []int{1, 2}},
		{name: "bbox overlaps but shape does not", shape: datastructure.Buffer(orb.Point{22, 12}, 2.5, 32), want: []int{}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CellsIntersecting(tt.shape).IDs())
		})
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	dir := writeTestCatalog(t, 5)
	c, err := LoadGeoJSON(CellsFile(dir, 5), MultipointsFile(dir, 5), 5, zap.NewNop())
	require.NoError(t, err)

	out := t.TempDir()
	require.NoError(t, c.WriteCompressed(CompressedFile(out, 5)))

	read, err := Load(out, 5, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, c.K(), read.K())
	for _, cell := range c.Cells() {
		got, ok := read.Cell(cell.ID())
		require.True(t, ok)
		if diff := cmp.Diff(cell.Geometry(), got.Geometry()); diff != "" {
			t.Errorf("cell %d geometry mismatch (-want +got):\n%s", cell.ID(), diff)
		}
		if diff := cmp.Diff(c.ReferencePoints(cell.ID()), read.ReferencePoints(cell.ID())); diff != "" {
			t.Errorf("cell %d reference points mismatch (-want +got):\n%s", cell.ID(), diff)
		}
	}
}

func TestLoadRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"Feature","properties":{},
		"geometry":{"type":"Polygon","coordinates":[[[116.08,39.68],[116.08,40.18],[116.77,40.18],[116.77,39.68],[116.08,39.68]]]}}`), 0o644))

	region, err := LoadRegion(path)
	require.NoError(t, err)
	assert.True(t, datastructure.Intersects(region, orb.Point{116.4, 39.9}))
	assert.False(t, datastructure.Intersects(region, orb.Point{121.5, 31.2}))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir(), 4, zap.NewNop())
	assert.Error(t, err)
}
