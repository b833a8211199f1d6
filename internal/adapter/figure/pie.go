package figure

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/duskwatch/crime-report-gen/internal/aggregate"
)

// CategoryPie draws the category share of one population as a pie chart,
// keeping the largest topN categories and folding the rest together.
func (r *Renderer) CategoryPie(counts []aggregate.CategoryCount, title, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	top := aggregate.TopN(counts, r.topN)
	values := make([]chart.Value, 0, len(top))
	for _, c := range top {
		if c.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s (%d)", c.Category, c.Count),
		})
	}
	if len(values) == 0 {
		return r.renderEmpty(title, path)
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  800,
		Height: 800,
		Values: values,
	}

	if err := renderToFile(path, func(w io.Writer) error {
		return pie.Render(chart.PNG, w)
	}); err != nil {
		return err
	}
	r.logger.Debug("rendered pie", "path", path, "slices", len(values))
	return nil
}
