package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chicago = LatLng{Lat: 41.8781, Lng: -87.6298}
	detroit = LatLng{Lat: 42.3314, Lng: -83.0458}
)

func TestHaversineMiles(t *testing.T) {
	assert.InDelta(t, 237.5, HaversineMiles(chicago, detroit), 1.5)
	assert.InDelta(t, HaversineMiles(chicago, detroit), HaversineMiles(detroit, chicago), 1e-9)
	assert.Zero(t, HaversineMiles(chicago, chicago))
}

func TestPathMiles(t *testing.T) {
	assert.Zero(t, PathMiles(nil))
	assert.Zero(t, PathMiles([]LatLng{chicago}))

	there := HaversineMiles(chicago, detroit)
	assert.InDelta(t, 2*there, PathMiles([]LatLng{chicago, detroit, chicago}), 1e-9)
}

func TestLatLngIsValid(t *testing.T) {
	assert.True(t, chicago.IsValid())
	assert.True(t, LatLng{Lat: -90, Lng: 180}.IsValid())
	assert.False(t, LatLng{Lat: 91, Lng: 0}.IsValid())
	assert.False(t, LatLng{Lat: 0, Lng: -180.5}.IsValid())
}

func TestLineStringGeoJSON(t *testing.T) {
	t.Run("too few points", func(t *testing.T) {
		raw, err := LineStringGeoJSON([]LatLng{chicago})
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("line string", func(t *testing.T) {
		raw, err := LineStringGeoJSON([]LatLng{chicago, detroit})
		require.NoError(t, err)

		var decoded struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "LineString", decoded.Type)
		assert.Equal(t, [][]float64{{-87.6298, 41.8781}, {-83.0458, 42.3314}}, decoded.Coordinates)
	})
}
