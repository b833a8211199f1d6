package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Region
		wantErr  bool
	}{
		{"seattle", "seattle", RegionSeattle, false},
		{"san francisco", "sanfrancisco", RegionSanFrancisco, false},
		{"sf alias", "sf", RegionSanFrancisco, false},
		{"mixed case", "Seattle", RegionSeattle, false},
		{"unknown", "portland", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, err := ParseRegion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, region)
		})
	}
}

func TestRegionCenter(t *testing.T) {
	lat, lon := RegionSeattle.Center()
	assert.InDelta(t, 47.6062, lat, 0.001)
	assert.InDelta(t, -122.3321, lon, 0.001)

	lat, lon = RegionSanFrancisco.Center()
	assert.InDelta(t, 37.7749, lat, 0.001)
	assert.InDelta(t, -122.4194, lon, 0.001)
}

func TestRegionTimeZone(t *testing.T) {
	for _, region := range Regions() {
		assert.Equal(t, "America/Los_Angeles", region.TimeZone().String())
	}
}

func TestRegionDisplayName(t *testing.T) {
	assert.Equal(t, "Seattle", RegionSeattle.DisplayName())
	assert.Equal(t, "San Francisco", RegionSanFrancisco.DisplayName())
}
