// Package boundary reads neighborhood polygons from ESRI shapefiles or
// GeoJSON feature collections.
package boundary

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

// Loader reads boundary files from disk.
// It implements report.BoundaryLoader.
type Loader struct {
	logger *slog.Logger
}

// New creates a boundary loader.
func New(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Attribute names the city portals use for the neighborhood name, in
// preference order. Seattle's shapefile uses S_HOOD, San Francisco's
// GeoJSON uses nhood.
var nameFields = []string{"S_HOOD", "NHOOD", "NAME", "NEIGHBORHOOD", "DISTRICT"}

// Load reads neighborhood polygons from path, chosen by extension.
func (l *Loader) Load(region domain.Region, path string) ([]domain.Neighborhood, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return l.loadShapefile(region, path)
	case ".geojson", ".json":
		return l.loadGeoJSON(region, path)
	default:
		return nil, fmt.Errorf("unsupported boundary format %q", filepath.Ext(path))
	}
}

func (l *Loader) loadShapefile(region domain.Region, path string) ([]domain.Neighborhood, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer r.Close()

	nameCol := -1
	for i, field := range r.Fields() {
		if isNameField(field.String()) {
			nameCol = i
			break
		}
	}

	var hoods []domain.Neighborhood
	for r.Next() {
		i, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			l.logger.Debug("skipping non-polygon shape", "path", path, "index", i)
			continue
		}
		mp := multiPolygonFromShape(poly)
		if len(mp) == 0 {
			continue
		}
		name := ""
		if nameCol >= 0 {
			name = strings.TrimSpace(r.ReadAttribute(i, nameCol))
		}
		if name == "" {
			name = fmt.Sprintf("area-%d", i)
		}
		hoods = append(hoods, domain.Neighborhood{Name: name, Region: region, Shape: mp, Bound: mp.Bound()})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}
	if len(hoods) == 0 {
		return nil, fmt.Errorf("%s: no usable polygons", path)
	}

	l.logger.Debug("loaded boundaries", "path", path, "neighborhoods", len(hoods))
	return hoods, nil
}

// multiPolygonFromShape regroups a shapefile's flat part list into polygons
// with holes. ESRI winds outer rings clockwise and holes the other way.
func multiPolygonFromShape(poly *shp.Polygon) orb.MultiPolygon {
	var mp orb.MultiPolygon
	points := poly.Points
	for i, start := range poly.Parts {
		end := int32(len(points))
		if i+1 < len(poly.Parts) {
			end = poly.Parts[i+1]
		}
		if end-start < 3 {
			continue
		}
		ring := make(orb.Ring, 0, end-start+1)
		for _, pt := range points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		if ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		if len(ring) < 4 {
			continue
		}
		if ring.Orientation() == orb.CW || len(mp) == 0 {
			mp = append(mp, orb.Polygon{ring})
		} else {
			mp[len(mp)-1] = append(mp[len(mp)-1], ring)
		}
	}
	return mp
}

func (l *Loader) loadGeoJSON(region domain.Region, path string) ([]domain.Neighborhood, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundary file: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	var hoods []domain.Neighborhood
	for i, feat := range fc.Features {
		if feat == nil || feat.Geometry == nil {
			continue
		}
		var mp orb.MultiPolygon
		switch g := feat.Geometry.(type) {
		case orb.Polygon:
			mp = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			mp = g
		default:
			l.logger.Debug("skipping non-polygon feature", "path", path, "index", i, "type", feat.Geometry.GeoJSONType())
			continue
		}
		mp = dropDegenerate(mp)
		if len(mp) == 0 {
			continue
		}
		name := featureName(feat)
		if name == "" {
			name = fmt.Sprintf("area-%d", i)
		}
		hoods = append(hoods, domain.Neighborhood{Name: name, Region: region, Shape: mp, Bound: mp.Bound()})
	}
	if len(hoods) == 0 {
		return nil, fmt.Errorf("%s: no usable polygons", path)
	}

	l.logger.Debug("loaded boundaries", "path", path, "neighborhoods", len(hoods))
	return hoods, nil
}

func featureName(feat *geojson.Feature) string {
	for _, want := range nameFields {
		for key, value := range feat.Properties {
			if !strings.EqualFold(key, want) {
				continue
			}
			if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func isNameField(name string) bool {
	for _, want := range nameFields {
		if strings.EqualFold(name, want) {
			return true
		}
	}
	return false
}

// dropDegenerate removes polygons whose outer ring cannot enclose area and
// holes too small to matter.
func dropDegenerate(mp orb.MultiPolygon) orb.MultiPolygon {
	var out orb.MultiPolygon
	for _, poly := range mp {
		if len(poly) == 0 || len(poly[0]) < 4 {
			continue
		}
		keep := orb.Polygon{poly[0]}
		for _, hole := range poly[1:] {
			if len(hole) >= 4 {
				keep = append(keep, hole)
			}
		}
		out = append(out, keep)
	}
	return out
}
