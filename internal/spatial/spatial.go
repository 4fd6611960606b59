// Package spatial provides the small amount of geographic math shared by
// the render strategies, the entity exporter and the layer importer.
package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusMeters is Earth's mean radius in meters
	EarthRadiusMeters = 6371000.0

	// MetersPerDegreeLat approximates the meters spanned by one degree of
	// latitude. Longitude degrees shrink with cos(lat).
	MetersPerDegreeLat = 111111.0
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// HaversineDistance calculates the great-circle distance between two
// points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// BoundingBox calculates the bounding box of a set of points
// Returns (minLat, minLon, maxLat, maxLon)
func BoundingBox(points []Point) (float64, float64, float64, float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon

	for _, p := range points[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
	}

	return minLat, minLon, maxLat, maxLon
}

// PathLength calculates the total length of a path in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += HaversineDistance(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}

	return totalDist
}

// PolygonArea calculates the area of a polygon via the shoelace formula,
// scaled to square meters at the polygon's latitude. Good enough for the
// small entities drawn on a mission map.
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < len(points); i++ {
		j := (i + 1) % len(points)
		sum += (points[j].Lon - points[i].Lon) * (points[j].Lat + points[i].Lat)
	}

	latRad := points[0].Lat * math.Pi / 180
	metersPerDegreeLon := MetersPerDegreeLat * math.Cos(latRad)

	return math.Abs(sum) * MetersPerDegreeLat * metersPerDegreeLon / 2.0
}
