package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude at the equator is close to 111 km.
	d := HaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 200)

	assert.Equal(t, 0.0, HaversineDistance(48.2, 16.4, 48.2, 16.4))
}

func TestBoundingBox(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox([]Point{
		{Lat: 1, Lon: -3}, {Lat: -2, Lon: 5}, {Lat: 0, Lon: 0},
	})
	assert.Equal(t, -2.0, minLat)
	assert.Equal(t, -3.0, minLon)
	assert.Equal(t, 1.0, maxLat)
	assert.Equal(t, 5.0, maxLon)

	minLat, minLon, maxLat, maxLon = BoundingBox(nil)
	assert.Zero(t, minLat)
	assert.Zero(t, minLon)
	assert.Zero(t, maxLat)
	assert.Zero(t, maxLon)
}

func TestPathLength(t *testing.T) {
	assert.Equal(t, 0.0, PathLength([]Point{{Lat: 1, Lon: 1}}))

	straight := PathLength([]Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}})
	split := PathLength([]Point{{Lat: 0, Lon: 0}, {Lat: 0.5, Lon: 0}, {Lat: 1, Lon: 0}})
	assert.InDelta(t, straight, split, 1)
}

func TestPolygonArea(t *testing.T) {
	// Roughly 0.01 x 0.01 degrees at the equator, about 1.23 km^2.
	square := []Point{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.01}, {Lat: 0.01, Lon: 0.01}, {Lat: 0.01, Lon: 0},
	}
	area := PolygonArea(square)
	assert.InDelta(t, 1.234e6, area, 5e4)

	assert.Equal(t, 0.0, PolygonArea(square[:2]))
}
