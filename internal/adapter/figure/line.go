package figure

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/duskwatch/crime-report-gen/internal/aggregate"
)

// HourLines plots day and night incident counts by hour of day.
func (r *Renderer) HourLines(day, night [24]int, title, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if allZero(day[:]) && allZero(night[:]) {
		return r.renderEmpty(title, path)
	}

	ticks := make([]chart.Tick, 0, 12)
	for h := 0; h <= 23; h += 2 {
		ticks = append(ticks, chart.Tick{Value: float64(h), Label: fmt.Sprintf("%02d", h)})
	}

	return r.renderLines(day[:], night[:], lineChartSpec{
		title:  title,
		path:   path,
		xName:  "hour of day",
		xTicks: ticks,
	})
}

// WeekdayLines plots day and night incident counts by day of week,
// Monday first.
func (r *Renderer) WeekdayLines(day, night [7]int, title, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if allZero(day[:]) && allZero(night[:]) {
		return r.renderEmpty(title, path)
	}

	ticks := make([]chart.Tick, 0, 7)
	for i, name := range aggregate.WeekdayNames {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: name})
	}

	return r.renderLines(day[:], night[:], lineChartSpec{
		title:  title,
		path:   path,
		xName:  "day of week",
		xTicks: ticks,
	})
}

type lineChartSpec struct {
	title  string
	path   string
	xName  string
	xTicks []chart.Tick
}

func (r *Renderer) renderLines(day, night []int, spec lineChartSpec) error {
	xs := make([]float64, len(day))
	dayYs := make([]float64, len(day))
	nightYs := make([]float64, len(night))
	for i := range day {
		xs[i] = float64(i)
		dayYs[i] = float64(day[i])
		nightYs[i] = float64(night[i])
	}

	// An explicit range keeps the library from rejecting flat series.
	maxY := float64(maxValue(day, night))

	graph := chart.Chart{
		Title:  spec.title,
		Width:  1000,
		Height: 500,
		XAxis: chart.XAxis{
			Name:  spec.xName,
			Ticks: spec.xTicks,
		},
		YAxis: chart.YAxis{
			Name:  "incidents",
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "day",
				XValues: xs,
				YValues: dayYs,
				Style:   chart.Style{StrokeColor: dayColor, StrokeWidth: 2.5},
			},
			chart.ContinuousSeries{
				Name:    "night",
				XValues: xs,
				YValues: nightYs,
				Style:   chart.Style{StrokeColor: nightColor, StrokeWidth: 2.5},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := renderToFile(spec.path, func(w io.Writer) error {
		return graph.Render(chart.PNG, w)
	}); err != nil {
		return err
	}
	r.logger.Debug("rendered lines", "path", spec.path)
	return nil
}
