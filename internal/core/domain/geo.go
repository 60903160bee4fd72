package domain

// GeoPoint represents a geographic coordinate (WGS 84) in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Pair returns the point as a [latitude, longitude] pair.
func (p GeoPoint) Pair() []float64 {
	return []float64{p.Lat, p.Lng}
}

// Bounds is an axis-aligned lat/lng rectangle. Antimeridian wraparound is not supported.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.South && p.Lat <= b.North && p.Lng >= b.West && p.Lng <= b.East
}
