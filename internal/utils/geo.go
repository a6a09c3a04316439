package utils

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
)

const (
	earthRadiusMeters = 6371000.0
	metersPerMile     = 1609.34
)

// LatLng is a WGS84 coordinate in degrees
type LatLng struct {
	Lat float64
	Lng float64
}

// IsValid reports whether the coordinate lies within the WGS84 ranges
func (p LatLng) IsValid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// HaversineMiles is the great-circle distance between two points in miles
func HaversineMiles(a, b LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c / metersPerMile
}

// PathMiles sums the leg distances along points in order
func PathMiles(points []LatLng) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += HaversineMiles(points[i-1], points[i])
	}
	return total
}

// LineStringGeoJSON encodes points as a GeoJSON LineString geometry.
// Fewer than two points have no line and yield nil.
func LineStringGeoJSON(points []LatLng) (json.RawMessage, error) {
	if len(points) < 2 {
		return nil, nil
	}

	coords := make([]geom.Coord, 0, len(points))
	for _, p := range points {
		coords = append(coords, geom.Coord{p.Lng, p.Lat})
	}

	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, fmt.Errorf("failed to build line string: %w", err)
	}

	b, err := gjson.Marshal(line)
	if err != nil {
		return nil, fmt.Errorf("failed to encode geojson: %w", err)
	}
	return b, nil
}
