package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

func incidentAt(category string, hood string, when time.Time) domain.Incident {
	return domain.Incident{Category: category, Neighborhood: hood, Time: when}
}

func TestSummarize(t *testing.T) {
	loc := domain.RegionSeattle.TimeZone()
	monday := time.Date(2014, time.June, 2, 8, 0, 0, 0, loc)    // Monday 08:00
	saturday := time.Date(2014, time.June, 7, 23, 30, 0, 0, loc) // Saturday 23:00 hour slot

	incidents := []domain.Incident{
		incidentAt(domain.CategoryTheft, "Ballard", monday),
		incidentAt(domain.CategoryTheft, "Ballard", monday.Add(time.Hour)),
		incidentAt(domain.CategoryAssault, "Fremont", saturday),
		incidentAt(domain.CategoryBurglary, "", saturday),
	}

	s := Summarize(incidents)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.ByHour[8])
	assert.Equal(t, 1, s.ByHour[9])
	assert.Equal(t, 2, s.ByHour[23])
	assert.Equal(t, 2, s.ByWeekday[0]) // Monday slot
	assert.Equal(t, 2, s.ByWeekday[5]) // Saturday slot
	assert.Equal(t, map[string]int{"Ballard": 2, "Fremont": 1}, s.ByNeighborhood)

	require.Len(t, s.Categories, 3)
	assert.Equal(t, CategoryCount{Category: domain.CategoryTheft, Count: 2}, s.Categories[0])
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.Total)
	assert.Empty(t, s.Categories)
	assert.Empty(t, s.ByNeighborhood)
	assert.Equal(t, [24]int{}, s.ByHour)
}

func TestByCategoryOrdering(t *testing.T) {
	incidents := []domain.Incident{
		{Category: domain.CategoryAssault},
		{Category: domain.CategoryTheft},
		{Category: domain.CategoryTheft},
		{Category: domain.CategoryBurglary},
	}

	counts := ByCategory(incidents)

	require.Len(t, counts, 3)
	assert.Equal(t, domain.CategoryTheft, counts[0].Category)
	// Tied counts fall back to alphabetical order.
	assert.Equal(t, domain.CategoryAssault, counts[1].Category)
	assert.Equal(t, domain.CategoryBurglary, counts[2].Category)
}

func TestTopN(t *testing.T) {
	counts := []CategoryCount{
		{Category: domain.CategoryTheft, Count: 50},
		{Category: domain.CategoryAssault, Count: 20},
		{Category: domain.CategoryBurglary, Count: 10},
		{Category: domain.CategoryVandalism, Count: 5},
		{Category: domain.CategoryNarcotics, Count: 3},
	}

	t.Run("folds the tail into other", func(t *testing.T) {
		top := TopN(counts, 3)

		require.Len(t, top, 4)
		assert.Equal(t, CategoryCount{Category: domain.CategoryOther, Count: 8}, top[3])
	})

	t.Run("merges with an existing other entry", func(t *testing.T) {
		withOther := []CategoryCount{
			{Category: domain.CategoryTheft, Count: 50},
			{Category: domain.CategoryOther, Count: 20},
			{Category: domain.CategoryBurglary, Count: 10},
			{Category: domain.CategoryVandalism, Count: 5},
		}

		top := TopN(withOther, 2)

		require.Len(t, top, 2)
		assert.Equal(t, CategoryCount{Category: domain.CategoryTheft, Count: 50}, top[0])
		assert.Equal(t, CategoryCount{Category: domain.CategoryOther, Count: 35}, top[1])
	})

	t.Run("short input passes through", func(t *testing.T) {
		assert.Len(t, TopN(counts, 10), 5)
	})

	t.Run("non-positive n passes through", func(t *testing.T) {
		assert.Len(t, TopN(counts, 0), 5)
	})
}

func TestByNeighborhoodSkipsUnassigned(t *testing.T) {
	incidents := []domain.Incident{
		{Neighborhood: "Ballard"},
		{Neighborhood: ""},
		{Neighborhood: "Ballard"},
	}

	assert.Equal(t, map[string]int{"Ballard": 2}, ByNeighborhood(incidents))
}

func TestMondayIndex(t *testing.T) {
	assert.Equal(t, 0, mondayIndex(time.Monday))
	assert.Equal(t, 4, mondayIndex(time.Friday))
	assert.Equal(t, 6, mondayIndex(time.Sunday))
}
