// Package figure renders the report's static PNG charts: category pies,
// hour-of-day and day-of-week lines, and neighborhood choropleth maps.
package figure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Series colors for the day and night populations.
var (
	dayColor   = drawing.Color{R: 235, G: 162, B: 55, A: 255}
	nightColor = drawing.Color{R: 46, G: 62, B: 126, A: 255}
)

// Renderer draws report figures to PNG files.
// It implements report.Renderer.
type Renderer struct {
	logger *slog.Logger
	topN   int
	mapW   int
	mapH   int
}

// New creates a renderer. topN bounds the number of pie slices; mapWidth
// and mapHeight size the choropleth canvas.
func New(logger *slog.Logger, topN, mapWidth, mapHeight int) *Renderer {
	return &Renderer{logger: logger, topN: topN, mapW: mapWidth, mapH: mapHeight}
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create figure directory: %w", err)
	}
	return nil
}

// renderToFile streams a chart render into path, removing the file again if
// the render fails partway.
func renderToFile(path string, render func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create figure: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// renderEmpty draws a placeholder panel for populations with no incidents,
// where the chart library would reject an all-zero series.
func (r *Renderer) renderEmpty(title, path string) error {
	const w, h = 800, 300
	ctx := gg.NewContext(w, h)
	ctx.SetRGB(1, 1, 1)
	ctx.Clear()
	ctx.SetRGB(0.45, 0.45, 0.45)
	ctx.DrawStringAnchored(title, w/2.0, h/2.0-12, 0.5, 0.5)
	ctx.DrawStringAnchored("no incidents", w/2.0, h/2.0+12, 0.5, 0.5)
	if err := ctx.SavePNG(path); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	r.logger.Debug("rendered empty placeholder", "path", path)
	return nil
}

func allZero(values []int) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func maxValue(series ...[]int) int {
	max := 0
	for _, s := range series {
		for _, v := range s {
			if v > max {
				max = v
			}
		}
	}
	return max
}
