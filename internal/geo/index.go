// Package geo assigns incident points to neighborhoods. Queries go through
// an R-tree over polygon bounding boxes, then an exact point-in-polygon
// check against the candidates.
package geo

import (
	"fmt"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

const (
	dimensions     = 2
	minChildren    = 25
	maxChildren    = 50
	pointTolerance = 1e-9
)

// spatialHood adapts a neighborhood to rtreego's Spatial interface.
type spatialHood struct {
	hood *domain.Neighborhood
	rect *rtreego.Rect
}

func (s *spatialHood) Bounds() *rtreego.Rect { return s.rect }

// Index answers point-in-neighborhood queries. Safe for concurrent use.
type Index struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
	size int
}

// NewIndex bulk-loads an R-tree over the neighborhoods' bounding boxes.
func NewIndex(hoods []domain.Neighborhood) (*Index, error) {
	entries := make([]rtreego.Spatial, 0, len(hoods))
	for i := range hoods {
		rect, err := boundRect(&hoods[i])
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", hoods[i].Name, err)
		}
		entries = append(entries, &spatialHood{hood: &hoods[i], rect: rect})
	}
	return &Index{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren, entries...),
		size: len(hoods),
	}, nil
}

func boundRect(hood *domain.Neighborhood) (*rtreego.Rect, error) {
	min := hood.Bound.Min
	lengths := []float64{
		hood.Bound.Max[0] - min[0],
		hood.Bound.Max[1] - min[1],
	}
	// rtreego rejects zero-length sides, which degenerate polygons produce.
	for i := range lengths {
		if lengths[i] <= 0 {
			lengths[i] = pointTolerance
		}
	}
	return rtreego.NewRect(rtreego.Point{min[0], min[1]}, lengths)
}

// Locate returns the neighborhood containing the point, or nil when the
// point falls outside every polygon.
func (idx *Index) Locate(lon, lat float64) *domain.Neighborhood {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	point := rtreego.Point{lon, lat}
	for _, candidate := range idx.tree.SearchIntersect(point.ToRect(pointTolerance)) {
		hood := candidate.(*spatialHood).hood
		if hood.Contains(lon, lat) {
			return hood
		}
	}
	return nil
}

// AssignStats reports how geocoded points mapped onto the boundary set.
type AssignStats struct {
	Assigned   int
	Unassigned int
}

// Assign stamps each incident with the name of the neighborhood containing
// it, leaving the field empty for points outside every polygon.
func (idx *Index) Assign(incidents []domain.Incident) AssignStats {
	var stats AssignStats
	for i := range incidents {
		if hood := idx.Locate(incidents[i].Lon, incidents[i].Lat); hood != nil {
			incidents[i].Neighborhood = hood.Name
			stats.Assigned++
		} else {
			incidents[i].Neighborhood = ""
			stats.Unassigned++
		}
	}
	return stats
}

// Size returns the number of indexed neighborhoods.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.size
}
