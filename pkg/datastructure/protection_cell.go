package datastructure

import (
	"sort"

	"github.com/paulmach/orb"
)

// ProtectionCell. a polygonal region standing in for the exact position of the sensitive
// locations clustered into it, at one granularity level k.
type ProtectionCell struct {
	id       int
	geometry orb.MultiPolygon
}

func NewProtectionCell(id int, geometry orb.MultiPolygon) *ProtectionCell {
	return &ProtectionCell{
		id:       id,
		geometry: geometry,
	}
}

func (pc *ProtectionCell) ID() int {
	return pc.id
}

func (pc *ProtectionCell) Geometry() orb.MultiPolygon {
	return pc.geometry
}

func (pc *ProtectionCell) Bound() orb.Bound {
	return pc.geometry.Bound()
}

func (pc *ProtectionCell) Intersects(shape orb.Geometry) bool {
	return Intersects(pc.geometry, shape)
}

// CellSet. protection cells keyed by id. an empty set is valid and means "not protected".
type CellSet map[int]*ProtectionCell

func NewCellSet(cells ...*ProtectionCell) CellSet {
	cs := make(CellSet, len(cells))
	for _, c := range cells {
		cs[c.id] = c
	}
	return cs
}

func (cs CellSet) Has(id int) bool {
	_, ok := cs[id]
	return ok
}

// IDs returns the cell ids in ascending order.
func (cs CellSet) IDs() []int {
	ids := make([]int, 0, len(cs))
	for id := range cs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ContainsAny reports whether any cell of other is a member of cs.
func (cs CellSet) ContainsAny(other CellSet) bool {
	for id := range other {
		if cs.Has(id) {
			return true
		}
	}
	return false
}
