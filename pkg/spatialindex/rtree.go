package spatialindex

import (
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr *rtree.RTreeG[*datastructure.ProtectionCell]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[*datastructure.ProtectionCell]
	return &Rtree{
		tr: &tr,
	}
}

// Build. build r-tree, one leaf per protection cell keyed by the cell bounding box
func (rt *Rtree) Build(cells []*datastructure.ProtectionCell, log *zap.Logger) {
	log.Info("Building R-tree spatial index of protection cells...", zap.Int("cells", len(cells)))
	step := len(cells) / 10
	for i, cell := range cells {
		if step > 0 && i%step == 0 {
			log.Debug("Building R-tree spatial index...", zap.Float64("progress", float64(i)/float64(len(cells))*100))
		}
		rt.Insert(cell)
	}

	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Insert(cell *datastructure.ProtectionCell) {
	b := cell.Bound()
	rt.tr.Insert([2]float64{b.Min.X(), b.Min.Y()}, [2]float64{b.Max.X(), b.Max.Y()}, cell)
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchBound returns every cell whose bounding box intersects b. The result is a candidate
// list only, callers decide on exact intersection.
func (rt *Rtree) SearchBound(b orb.Bound) []*datastructure.ProtectionCell {
	results := make([]*datastructure.ProtectionCell, 0, 4)
	rt.tr.Search([2]float64{b.Min.X(), b.Min.Y()}, [2]float64{b.Max.X(), b.Max.Y()},
		func(min, max [2]float64, data *datastructure.ProtectionCell) bool {
			results = append(results, data)
			return true
		})
	return results
}
