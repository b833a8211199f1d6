// Package aggregate counts incidents along the axes the figures plot:
// category, hour of day, day of week, and neighborhood.
package aggregate

import (
	"sort"
	"time"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

// CategoryCount pairs a normalized category with its incident count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// WeekdayNames labels ByWeekday's slots, Monday first.
var WeekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Slice holds every aggregation for one population of incidents, typically
// the day or night half of a region.
type Slice struct {
	Total          int             `json:"total"`
	Categories     []CategoryCount `json:"categories"`
	ByHour         [24]int         `json:"by_hour"`
	ByWeekday      [7]int          `json:"by_weekday"`
	ByNeighborhood map[string]int  `json:"by_neighborhood,omitempty"`
}

// Summarize counts the incidents along every axis at once.
func Summarize(incidents []domain.Incident) Slice {
	s := Slice{
		Total:          len(incidents),
		Categories:     ByCategory(incidents),
		ByNeighborhood: ByNeighborhood(incidents),
	}
	for i := range incidents {
		local := incidents[i].Time
		s.ByHour[local.Hour()]++
		s.ByWeekday[mondayIndex(local.Weekday())]++
	}
	return s
}

// ByCategory counts incidents per normalized category, ordered by
// descending count with ties broken alphabetically.
func ByCategory(incidents []domain.Incident) []CategoryCount {
	counts := make(map[string]int)
	for i := range incidents {
		counts[incidents[i].Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		out = append(out, CategoryCount{Category: category, Count: count})
	}
	sortCounts(out)
	return out
}

// TopN keeps the n largest categories and folds the remainder into the
// catch-all category.
func TopN(counts []CategoryCount, n int) []CategoryCount {
	if n <= 0 || len(counts) <= n {
		return counts
	}

	out := make([]CategoryCount, n, n+1)
	copy(out, counts[:n])

	rest := 0
	for _, c := range counts[n:] {
		rest += c.Count
	}
	if rest == 0 {
		return out
	}

	folded := false
	for i := range out {
		if out[i].Category == domain.CategoryOther {
			out[i].Count += rest
			folded = true
			break
		}
	}
	if !folded {
		out = append(out, CategoryCount{Category: domain.CategoryOther, Count: rest})
	}
	sortCounts(out)
	return out
}

// ByNeighborhood counts incidents per assigned neighborhood. Incidents
// without an assignment are left out.
func ByNeighborhood(incidents []domain.Incident) map[string]int {
	counts := make(map[string]int)
	for i := range incidents {
		if incidents[i].Neighborhood == "" {
			continue
		}
		counts[incidents[i].Neighborhood]++
	}
	return counts
}

func sortCounts(counts []CategoryCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
}

// mondayIndex maps Go's Sunday-first weekday to a Monday-first slot.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
