package geospatial

import (
	"math"

	"github.com/daytour/planner/internal/core/domain"
)

const earthRadiusKm = 6371.0

// kmPerDegreeLat is the length of one degree of latitude.
const kmPerDegreeLat = 111.32

// Haversine calculates the great-circle distance in kilometers between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Distance is Haversine over GeoPoints.
func Distance(a, b domain.GeoPoint) float64 {
	return Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
}

// BoundingBox returns the lat/lng envelope of a circle of radiusKm around a point.
func BoundingBox(lat, lon, radiusKm float64) domain.Bounds {
	latDelta := radiusKm / kmPerDegreeLat
	lonDelta := radiusKm / (kmPerDegreeLat * math.Cos(toRad(lat)))

	return domain.Bounds{
		North: lat + latDelta,
		South: lat - latDelta,
		East:  lon + lonDelta,
		West:  lon - lonDelta,
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
