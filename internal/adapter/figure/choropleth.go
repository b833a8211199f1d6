package figure

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

// Choropleth color ramp, light to dark blue, with grey for empty areas.
var (
	rampLow  = colorful.Color{R: 0.93, G: 0.95, B: 0.99}
	rampHigh = colorful.Color{R: 0.05, G: 0.17, B: 0.42}
	noData   = colorful.Color{R: 0.88, G: 0.88, B: 0.88}
	outline  = colorful.Color{R: 0.55, G: 0.55, B: 0.55}
)

// NeighborhoodMap shades each neighborhood polygon by its incident count.
func (r *Renderer) NeighborhoodMap(hoods []domain.Neighborhood, counts map[string]int, title, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if len(hoods) == 0 {
		return r.renderEmpty(title, path)
	}

	union := hoods[0].Bound
	for i := 1; i < len(hoods); i++ {
		union = union.Union(hoods[i].Bound)
	}
	proj := newProjection(union, r.mapW, r.mapH)

	max := 0
	for _, count := range counts {
		if count > max {
			max = count
		}
	}

	ctx := gg.NewContext(r.mapW, r.mapH)
	ctx.SetRGB(1, 1, 1)
	ctx.Clear()
	ctx.SetFillRule(gg.FillRuleEvenOdd)

	for i := range hoods {
		fill := fillFor(counts[hoods[i].Name], max)
		drawMultiPolygon(ctx, proj, hoods[i].Shape)
		ctx.SetRGB(fill.R, fill.G, fill.B)
		ctx.FillPreserve()
		ctx.SetRGB(outline.R, outline.G, outline.B)
		ctx.SetLineWidth(1)
		ctx.Stroke()
	}

	ctx.SetRGB(0.1, 0.1, 0.1)
	ctx.DrawStringAnchored(title, float64(r.mapW)/2, 24, 0.5, 0.5)
	drawLegend(ctx, r.mapW, r.mapH, max)

	if err := ctx.SavePNG(path); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	r.logger.Debug("rendered map", "path", path, "neighborhoods", len(hoods), "max_count", max)
	return nil
}

// fillFor maps a count onto the color ramp. Zero-count areas stay grey so
// they read as "no data" rather than "low".
func fillFor(count, max int) colorful.Color {
	if count <= 0 || max <= 0 {
		return noData
	}
	t := float64(count) / float64(max)
	return rampLow.BlendLab(rampHigh, t).Clamped()
}

// projection maps lon/lat onto canvas pixels: equirectangular, scaled to
// fit the plot area and latitude-corrected so the city keeps its shape.
type projection struct {
	minLon, minLat float64
	cosLat         float64
	scale          float64
	offsetX        float64
	offsetY        float64
	height         float64
}

func newProjection(bound orb.Bound, width, height int) projection {
	const (
		marginSide   = 40.0
		marginTop    = 60.0
		marginBottom = 80.0
	)

	midLat := (bound.Min[1] + bound.Max[1]) / 2
	cosLat := math.Cos(midLat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}

	spanX := (bound.Max[0] - bound.Min[0]) * cosLat
	spanY := bound.Max[1] - bound.Min[1]
	if spanX <= 0 {
		spanX = 1e-6
	}
	if spanY <= 0 {
		spanY = 1e-6
	}

	plotW := float64(width) - 2*marginSide
	plotH := float64(height) - marginTop - marginBottom

	scale := plotW / spanX
	if s := plotH / spanY; s < scale {
		scale = s
	}

	return projection{
		minLon:  bound.Min[0],
		minLat:  bound.Min[1],
		cosLat:  cosLat,
		scale:   scale,
		offsetX: marginSide + (plotW-spanX*scale)/2,
		offsetY: marginBottom + (plotH-spanY*scale)/2,
		height:  float64(height),
	}
}

func (p projection) point(lon, lat float64) (x, y float64) {
	x = (lon-p.minLon)*p.cosLat*p.scale + p.offsetX
	y = p.height - ((lat-p.minLat)*p.scale + p.offsetY)
	return x, y
}

func drawMultiPolygon(ctx *gg.Context, proj projection, mp orb.MultiPolygon) {
	for _, poly := range mp {
		for _, ring := range poly {
			ctx.NewSubPath()
			for i, pt := range ring {
				x, y := proj.point(pt[0], pt[1])
				if i == 0 {
					ctx.MoveTo(x, y)
				} else {
					ctx.LineTo(x, y)
				}
			}
			ctx.ClosePath()
		}
	}
}

func drawLegend(ctx *gg.Context, width, height, max int) {
	const steps = 64
	barW := float64(width) * 0.4
	barH := 14.0
	x0 := (float64(width) - barW) / 2
	y0 := float64(height) - 46

	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		c := rampLow.BlendLab(rampHigh, t).Clamped()
		ctx.SetRGB(c.R, c.G, c.B)
		ctx.DrawRectangle(x0+float64(i)*barW/steps, y0, barW/steps+1, barH)
		ctx.Fill()
	}

	ctx.SetRGB(0.1, 0.1, 0.1)
	ctx.DrawStringAnchored("0", x0, y0+barH+14, 0.5, 0.5)
	ctx.DrawStringAnchored("incidents", x0+barW/2, y0+barH+14, 0.5, 0.5)
	ctx.DrawStringAnchored(fmt.Sprintf("%d", max), x0+barW, y0+barH+14, 0.5, 0.5)
}
