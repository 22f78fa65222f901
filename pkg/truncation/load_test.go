package truncation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/trajtrunc/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadTruncator(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, unanimousCatalog().WriteCompressed(catalog.CompressedFile(dir, 4)))

	region := filepath.Join(dir, "region.geojson")
	require.NoError(t, os.WriteFile(region, []byte(`{"type":"Polygon","coordinates":[[[0,0],[30,0],[30,10],[0,10],[0,0]]]}`), 0o644))
	locations := filepath.Join(dir, "locations.csv")
	require.NoError(t, os.WriteFile(locations, []byte("15,5,2024-03-01T08:00:00Z\n"), 0o644))

	cfg := testConfig()
	cfg.CatalogDir = dir
	cfg.TruncationRegion = region
	cfg.SensitiveLocations = locations

	tr, err := LoadTruncator(cfg, zap.NewNop(), WithAlpha(90))
	require.NoError(t, err)

	assert.Equal(t, 90.0, tr.Alpha())
	assert.Equal(t, 1, tr.Catalog().NumCells())
	assert.Len(t, tr.region, 1)
	require.Len(t, tr.manual, 1)
	assert.Equal(t, 15.0, tr.manual[0].Lon())

	cfg.SensitiveLocations = filepath.Join(dir, "missing.csv")
	_, err = LoadTruncator(cfg, zap.NewNop())
	assert.Error(t, err)
}
