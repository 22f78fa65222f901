package catalog

import (
	"sort"

	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/spatialindex"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// Catalog holds the protection cells of one granularity level k, the wedge reference
// points of every cell and the spatial index over the cells. It is built once and only
// read afterwards, so one Catalog can be shared by any number of goroutines.
type Catalog struct {
	k           int
	cells       map[int]*datastructure.ProtectionCell
	multipoints map[int]orb.MultiPoint
	index       *spatialindex.Rtree
}

func NewCatalog(k int, cells []*datastructure.ProtectionCell, multipoints map[int]orb.MultiPoint,
	log *zap.Logger) *Catalog {
	c := &Catalog{
		k:           k,
		cells:       make(map[int]*datastructure.ProtectionCell, len(cells)),
		multipoints: multipoints,
		index:       spatialindex.NewRtree(),
	}
	if c.multipoints == nil {
		c.multipoints = make(map[int]orb.MultiPoint)
	}

	for _, cell := range cells {
		c.cells[cell.ID()] = cell
		if _, ok := c.multipoints[cell.ID()]; !ok {
			log.Warn("protection cell has no wedge reference points", zap.Int("k", k), zap.Int("cell", cell.ID()))
		}
	}
	c.index.Build(cells, log)
	return c
}

func (c *Catalog) K() int {
	return c.k
}

func (c *Catalog) NumCells() int {
	return len(c.cells)
}

func (c *Catalog) Cell(id int) (*datastructure.ProtectionCell, bool) {
	cell, ok := c.cells[id]
	return cell, ok
}

// Cells returns all cells ordered by id.
func (c *Catalog) Cells() []*datastructure.ProtectionCell {
	cells := make([]*datastructure.ProtectionCell, 0, len(c.cells))
	for _, cell := range c.cells {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].ID() < cells[j].ID()
	})
	return cells
}

// ReferencePoints returns the wedge reference points of a cell, nil if the cell has none.
func (c *Catalog) ReferencePoints(id int) orb.MultiPoint {
	return c.multipoints[id]
}

// CellsIntersecting returns the cells truly intersecting shape: the r-tree bounding box
// query is only a pre-filter.
func (c *Catalog) CellsIntersecting(shape orb.Geometry) datastructure.CellSet {
	candidates := c.index.SearchBound(shape.Bound())
	cells := make(datastructure.CellSet, len(candidates))
	for _, cell := range candidates {
		if cell.Intersects(shape) {
			cells[cell.ID()] = cell
		}
	}
	return cells
}

// Bound returns the extent of all cells.
func (c *Catalog) Bound() orb.Bound {
	first := true
	var b orb.Bound
	for _, cell := range c.cells {
		if first {
			b = cell.Bound()
			first = false
			continue
		}
		b = b.Union(cell.Bound())
	}
	return b
}
