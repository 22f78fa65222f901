package truncation

import (
	"testing"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refMap map[int]orb.MultiPoint

func (r refMap) ReferencePoints(id int) orb.MultiPoint {
	return r[id]
}

func TestEvaluateDirection(t *testing.T) {
	cell1 := squareCell(1, 5, -5, 15, 5)
	cell2 := squareCell(2, -5, 5, 5, 15)

	tests := []struct {
		name  string
		cells datastructure.CellSet
		refs  refMap
		alpha float64
		want  bool
	}{
		{
			name:  "all inside the wedge",
			cells: datastructure.NewCellSet(cell1),
			refs:  refMap{1: {{10, 0}, {10, 1}, {10, -1}}},
			alpha: 60,
			want:  true,
		},
		{
			name:  "all outside the wedge",
			cells: datastructure.NewCellSet(cell1),
			refs:  refMap{1: {{0, 10}, {0, -10}, {-10, 0}}},
			alpha: 60,
			want:  true,
		},
		{
			name:  "split vote",
			cells: datastructure.NewCellSet(cell1),
			refs:  refMap{1: {{10, 1}, {0, 10}}},
			alpha: 60,
			want:  false,
		},
		{
			name:  "split across cells",
			cells: datastructure.NewCellSet(cell1, cell2),
			refs:  refMap{1: {{10, 0}}, 2: {{0, 10}}},
			alpha: 60,
			want:  false,
		},
		{
			name:  "wider wedge agrees",
			cells: datastructure.NewCellSet(cell1),
			refs:  refMap{1: {{10, 1}, {0, 10}}},
			alpha: 180,
			want:  true,
		},
		{
			name:  "just inside the half angle",
			cells: datastructure.NewCellSet(cell1),
			refs:  refMap{1: {{10, 0}, {10, 9}}},
			alpha: 90,
			want:  true,
		},
		{
			name:  "wraps around 0 degrees",
			cells: datastructure.NewCellSet(cell1),
			refs:  refMap{1: {{10, -1}, {10, 1}}},
			alpha: 30,
			want:  true,
		},
		{
			name:  "no reference points",
			cells: datastructure.NewCellSet(cell1),
			refs:  refMap{},
			alpha: 60,
			want:  true,
		},
		{
			name:  "no cells",
			cells: datastructure.NewCellSet(),
			refs:  refMap{1: {{10, 1}, {0, 10}}},
			alpha: 60,
			want:  true,
		},
	}

	// heading east, from (-1, 0) to (0, 0)
	curr, prev := orb.Point{0, 0}, orb.Point{-1, 0}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateDirection(curr, prev, tt.cells, tt.refs, tt.alpha))
		})
	}
}

func TestWedgeTriangle(t *testing.T) {
	tri := WedgeTriangle(orb.Point{0, 0}, orb.Point{-1, 0}, 90, 2)
	require.Len(t, tri, 1)
	ring := tri[0]
	require.Len(t, ring, 4)
	assert.True(t, ring.Closed())

	assert.InDelta(t, 1.41421356, ring[1].X(), 1e-6)
	assert.InDelta(t, -1.41421356, ring[1].Y(), 1e-6)
	assert.InDelta(t, 1.41421356, ring[2].X(), 1e-6)
	assert.InDelta(t, 1.41421356, ring[2].Y(), 1e-6)
}

func TestWedgeAtCut(t *testing.T) {
	traj := stayTrajectory()
	tr := newTestTruncator(t, unanimousCatalog(), testConfig(),
		WithSensitiveLocations([]datastructure.SensitiveLocation{stayLocation(traj)}))

	res, err := tr.Truncate(traj)
	require.NoError(t, err)
	require.NotEmpty(t, res.Cuts)

	wedge, ok, err := tr.Wedge(res.Cuts[0], 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, orb.Point{8, 5}, wedge[0][0])

	_, ok, err = tr.Wedge(Cut{Steps: 0}, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
