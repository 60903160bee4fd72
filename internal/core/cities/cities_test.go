package cities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daytour/planner/internal/core/domain"
)

func TestLookup_CaseInsensitive(t *testing.T) {
	for _, raw := range []string{"seoul", "SEOUL", "Seoul"} {
		c, ok := Lookup(raw)
		require.True(t, ok, raw)
		assert.Equal(t, domain.Seoul, c.Key)
	}
}

func TestLookup_Unknown(t *testing.T) {
	for _, raw := range []string{"", "not_a_real_city", "san francisco", "busan"} {
		_, ok := Lookup(raw)
		assert.False(t, ok, raw)
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	c, ok := Lookup("san_francisco")
	require.True(t, ok)
	c.TransportModes[0] = domain.ModeWalking

	again, _ := Lookup("san_francisco")
	assert.Equal(t, domain.ModeDriving, again.TransportModes[0])
}

func TestReferenceConfiguration(t *testing.T) {
	sf, ok := Lookup("san_francisco")
	require.True(t, ok)
	assert.Equal(t, domain.GeoPoint{Lat: 37.7749, Lng: -122.4194}, sf.Center)
	assert.Equal(t, 320.0, sf.MaxRadiusKm)
	assert.Equal(t, 42.009518, sf.Bounds.North)
	assert.Equal(t, 32.534156, sf.Bounds.South)
	assert.Equal(t, -124.409591, sf.Bounds.West)
	assert.Equal(t, -114.131211, sf.Bounds.East)

	seoul, ok := Lookup("seoul")
	require.True(t, ok)
	assert.Equal(t, domain.GeoPoint{Lat: 37.5665, Lng: 126.9780}, seoul.Center)
	assert.Equal(t, []domain.TransportMode{domain.ModeTransit}, seoul.TransportModes)
}

func TestAll_SortedAndComplete(t *testing.T) {
	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, domain.SanFrancisco, all[0].Key)
	assert.Equal(t, domain.Seoul, all[1].Key)
	for _, c := range all {
		assert.NoError(t, check(c.Key, c))
	}
}

func TestCheck_RejectsMalformed(t *testing.T) {
	good, _ := Lookup("seoul")

	flipped := good
	flipped.Bounds.North, flipped.Bounds.South = good.Bounds.South, good.Bounds.North
	assert.Error(t, check(domain.Seoul, flipped))

	noRadius := good
	noRadius.MaxRadiusKm = 0
	assert.Error(t, check(domain.Seoul, noRadius))

	offCenter := good
	offCenter.Center = domain.GeoPoint{Lat: 0, Lng: 0}
	assert.Error(t, check(domain.Seoul, offCenter))

	assert.Error(t, check(domain.SanFrancisco, good))
}
