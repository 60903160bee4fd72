package domain

import "strings"

// CityKey identifies a supported city.
type CityKey string

const (
	SanFrancisco CityKey = "san_francisco"
	Seoul        CityKey = "seoul"
)

// DisplayName is the key with underscores replaced by spaces ("san francisco").
func (k CityKey) DisplayName() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// City is the consolidated geographic configuration of one supported city.
type City struct {
	Key            CityKey         `json:"key"`
	Name           string          `json:"name"`
	Bounds         Bounds          `json:"bounds"`
	Center         GeoPoint        `json:"center"`
	MaxRadiusKm    float64         `json:"max_radius_km"`
	TransportModes []TransportMode `json:"transport_modes"`
}

// AllowsMode reports whether mode is offered for the city.
func (c City) AllowsMode(mode TransportMode) bool {
	for _, m := range c.TransportModes {
		if m == mode {
			return true
		}
	}
	return false
}

// DefaultMode is the first configured transport mode.
func (c City) DefaultMode() TransportMode {
	if len(c.TransportModes) == 0 {
		return ModeDriving
	}
	return c.TransportModes[0]
}
