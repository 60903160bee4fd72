// Package cities holds the static geographic configuration of every supported city.
package cities

import (
	"fmt"
	"sort"
	"strings"

	"github.com/daytour/planner/internal/core/domain"
)

// table is built once at init and never written afterwards.
var table = map[domain.CityKey]domain.City{
	domain.SanFrancisco: {
		Key:  domain.SanFrancisco,
		Name: "San Francisco",
		// State of California; the radius check does the real narrowing.
		Bounds: domain.Bounds{
			North: 42.009518,
			South: 32.534156,
			West:  -124.409591,
			East:  -114.131211,
		},
		Center:         domain.GeoPoint{Lat: 37.7749, Lng: -122.4194},
		MaxRadiusKm:    320,
		TransportModes: []domain.TransportMode{domain.ModeDriving, domain.ModeTransit, domain.ModeWalking},
	},
	domain.Seoul: {
		Key:  domain.Seoul,
		Name: "Seoul",
		// Capital area and the central provinces; excludes the south coast.
		Bounds: domain.Bounds{
			North: 38.60,
			South: 36.00,
			West:  124.60,
			East:  129.60,
		},
		Center:         domain.GeoPoint{Lat: 37.5665, Lng: 126.9780},
		MaxRadiusKm:    320,
		TransportModes: []domain.TransportMode{domain.ModeTransit},
	},
}

func init() {
	for key, c := range table {
		if err := check(key, c); err != nil {
			panic("cities: " + err.Error())
		}
	}
}

func check(key domain.CityKey, c domain.City) error {
	switch {
	case c.Key != key:
		return fmt.Errorf("%s: record key %q does not match", key, c.Key)
	case c.Bounds.North <= c.Bounds.South:
		return fmt.Errorf("%s: north must be greater than south", key)
	case c.Bounds.East <= c.Bounds.West:
		return fmt.Errorf("%s: east must be greater than west", key)
	case c.MaxRadiusKm <= 0:
		return fmt.Errorf("%s: max radius must be positive", key)
	case !c.Bounds.Contains(c.Center):
		return fmt.Errorf("%s: center outside bounds", key)
	case len(c.TransportModes) == 0:
		return fmt.Errorf("%s: no transport modes", key)
	}
	return nil
}

// Lookup resolves a raw, case-insensitive city key.
func Lookup(raw string) (domain.City, bool) {
	c, ok := table[domain.CityKey(strings.ToLower(raw))]
	if !ok {
		return domain.City{}, false
	}
	c.TransportModes = append([]domain.TransportMode(nil), c.TransportModes...)
	return c, true
}

// All returns every supported city ordered by key.
func All() []domain.City {
	keys := Keys()
	out := make([]domain.City, 0, len(keys))
	for _, k := range keys {
		c, _ := Lookup(string(k))
		out = append(out, c)
	}
	return out
}

// Keys returns the supported city keys in sorted order.
func Keys() []domain.CityKey {
	keys := make([]domain.CityKey, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
