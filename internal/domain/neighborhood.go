package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Neighborhood is one named boundary polygon from a region's shapefile or
// GeoJSON boundary set. Shape is WGS-84 lon/lat; Bound is precomputed by the
// loader so index construction never re-walks the rings.
type Neighborhood struct {
	Name   string
	Region Region
	Shape  orb.MultiPolygon
	Bound  orb.Bound
}

// Contains reports whether the point lies inside the neighborhood. The
// bounding box rejects cheaply; the full test is ring-aware, so holes in the
// polygon count as outside.
func (n *Neighborhood) Contains(lon, lat float64) bool {
	p := orb.Point{lon, lat}
	if !n.Bound.Contains(p) {
		return false
	}
	return planar.MultiPolygonContains(n.Shape, p)
}
