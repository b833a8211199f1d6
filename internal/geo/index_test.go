package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

func square(name string, minLon, minLat, size float64) domain.Neighborhood {
	ring := orb.Ring{
		{minLon, minLat},
		{minLon + size, minLat},
		{minLon + size, minLat + size},
		{minLon, minLat + size},
		{minLon, minLat},
	}
	mp := orb.MultiPolygon{{ring}}
	return domain.Neighborhood{Name: name, Region: domain.RegionSeattle, Shape: mp, Bound: mp.Bound()}
}

func triangle(name string) domain.Neighborhood {
	ring := orb.Ring{{4, 0}, {6, 0}, {4, 2}, {4, 0}}
	mp := orb.MultiPolygon{{ring}}
	return domain.Neighborhood{Name: name, Region: domain.RegionSeattle, Shape: mp, Bound: mp.Bound()}
}

func TestIndexLocate(t *testing.T) {
	hoods := []domain.Neighborhood{
		square("Northgate", 0, 0, 1),
		square("Ballard", 2, 0, 1),
		triangle("Delta"),
	}
	idx, err := NewIndex(hoods)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Size())

	t.Run("point inside a square", func(t *testing.T) {
		hood := idx.Locate(0.5, 0.5)
		require.NotNil(t, hood)
		assert.Equal(t, "Northgate", hood.Name)
	})

	t.Run("point in the second square", func(t *testing.T) {
		hood := idx.Locate(2.5, 0.5)
		require.NotNil(t, hood)
		assert.Equal(t, "Ballard", hood.Name)
	})

	t.Run("bounding box hit but polygon miss", func(t *testing.T) {
		// Inside the triangle's bounding box, outside the triangle itself.
		assert.Nil(t, idx.Locate(5.8, 1.8))
	})

	t.Run("point inside the triangle", func(t *testing.T) {
		hood := idx.Locate(4.5, 0.5)
		require.NotNil(t, hood)
		assert.Equal(t, "Delta", hood.Name)
	})

	t.Run("point outside everything", func(t *testing.T) {
		assert.Nil(t, idx.Locate(100, 100))
	})
}

func TestIndexAssign(t *testing.T) {
	hoods := []domain.Neighborhood{square("Northgate", 0, 0, 1)}
	idx, err := NewIndex(hoods)
	require.NoError(t, err)

	incidents := []domain.Incident{
		{ID: "in", Lon: 0.5, Lat: 0.5, Neighborhood: "stale"},
		{ID: "out", Lon: 5, Lat: 5, Neighborhood: "stale"},
	}

	stats := idx.Assign(incidents)

	assert.Equal(t, AssignStats{Assigned: 1, Unassigned: 1}, stats)
	assert.Equal(t, "Northgate", incidents[0].Neighborhood)
	assert.Empty(t, incidents[1].Neighborhood)
}

func TestIndexEmpty(t *testing.T) {
	idx, err := NewIndex(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, idx.Size())
	assert.Nil(t, idx.Locate(0, 0))

	stats := idx.Assign([]domain.Incident{{Lon: 1, Lat: 1}})
	assert.Equal(t, AssignStats{Unassigned: 1}, stats)
}
