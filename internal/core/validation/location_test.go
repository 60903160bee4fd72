package validation

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daytour/planner/internal/core/cities"
	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/pkg/geospatial"
)

func TestIsLocationValid_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		coords   []float64
		city     string
		valid    bool
		contains []string
	}{
		{
			name:   "oakland from san francisco",
			coords: []float64{37.8044, -122.2711},
			city:   "san_francisco",
			valid:  true,
		},
		{
			name:     "los angeles is inside california but too far",
			coords:   []float64{34.0522, -118.2437},
			city:     "san_francisco",
			contains: []string{"too far from san francisco", "maximum 320"},
		},
		{
			name:   "seoul center",
			coords: []float64{37.5665, 126.9780},
			city:   "seoul",
			valid:  true,
		},
		{
			name:     "busan is outside the seoul box",
			coords:   []float64{35.1796, 129.0756},
			city:     "seoul",
			contains: []string{"boundaries of seoul"},
		},
		{
			name:     "north of the california box",
			coords:   []float64{45.5152, -122.6784},
			city:     "san_francisco",
			contains: []string{"boundaries of san francisco"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsLocationValid(tt.coords, tt.city)
			assert.Equal(t, tt.valid, got.IsValid())
			if tt.valid {
				assert.Equal(t, "Location is valid", got.Message())
			}
			for _, s := range tt.contains {
				assert.Contains(t, got.Message(), s)
			}
		})
	}
}

func TestIsLocationValid_Messages(t *testing.T) {
	assert.Equal(t,
		"Location must be within the boundaries of seoul",
		IsLocationValid([]float64{35.1796, 129.0756}, "seoul").Message())
	assert.Equal(t,
		"Location is too far from san francisco for a day tour (maximum 320 km)",
		IsLocationValid([]float64{34.0522, -118.2437}, "san_francisco").Message())
}

func TestIsLocationValid_BadShape(t *testing.T) {
	inputs := [][]float64{
		nil,
		{},
		{37.7749},
		{37.7749, -122.4194, 0},
		{math.NaN(), -122.4194},
		{37.7749, math.Inf(1)},
	}
	for _, in := range inputs {
		for _, city := range []string{"san_francisco", "seoul", "not_a_real_city"} {
			got := IsLocationValid(in, city)
			assert.False(t, got.IsValid())
			assert.Equal(t, "Invalid coordinates format", got.Message())
		}
	}
}

func TestIsLocationValid_UnknownCity(t *testing.T) {
	for _, city := range []string{"not_a_real_city", "", "san francisco"} {
		got := IsLocationValid([]float64{37.7749, -122.4194}, city)
		assert.False(t, got.IsValid())
		assert.Equal(t, "Invalid city specified for validation", got.Message())
	}
}

func TestIsLocationValid_CaseInsensitive(t *testing.T) {
	points := [][]float64{
		{37.5665, 126.9780},
		{35.1796, 129.0756},
		{38.0, 127.5},
	}
	for _, p := range points {
		assert.Equal(t, IsLocationValid(p, "seoul"), IsLocationValid(p, "SEOUL"))
	}
	assert.Equal(t,
		"Location must be within the boundaries of san francisco",
		IsLocationValid([]float64{45, -122}, "SAN_FRANCISCO").Message())
}

func TestIsLocationValid_BoundsEdgesInclusive(t *testing.T) {
	c, ok := cities.Lookup("seoul")
	require.True(t, ok)

	// Edge points far enough from the center still fail the radius check, so
	// pick edges that are within the radius.
	north := []float64{c.Bounds.North, c.Center.Lng}
	assert.True(t, IsLocationValid(north, "seoul").IsValid())

	justOver := []float64{math.Nextafter(c.Bounds.North, math.Inf(1)), c.Center.Lng}
	got := IsLocationValid(justOver, "seoul")
	assert.False(t, got.IsValid())
	assert.Contains(t, got.Message(), "boundaries of seoul")
}

// Every point in a city's box and inside its radius is accepted; every point
// in the box but outside the radius is rejected with the numeric limit.
func TestIsLocationValid_GridProperties(t *testing.T) {
	for _, c := range cities.All() {
		b := c.Bounds
		const steps = 25
		for i := 0; i <= steps; i++ {
			for j := 0; j <= steps; j++ {
				p := domain.GeoPoint{
					Lat: b.South + (b.North-b.South)*float64(i)/steps,
					Lng: b.West + (b.East-b.West)*float64(j)/steps,
				}
				got := IsPointValid(p, string(c.Key))
				if geospatial.Distance(p, c.Center) > c.MaxRadiusKm {
					require.False(t, got.IsValid(), "%s %+v", c.Key, p)
					require.Contains(t, got.Message(), "maximum 320")
				} else {
					require.True(t, got.IsValid(), "%s %+v", c.Key, p)
				}
			}
		}
	}
}

func TestIsLocationValid_OutsideBoxNamesCity(t *testing.T) {
	for _, c := range cities.All() {
		above := []float64{c.Bounds.North + 0.5, c.Center.Lng}
		below := []float64{c.Bounds.South - 0.5, c.Center.Lng}
		west := []float64{c.Center.Lat, c.Bounds.West - 0.5}
		east := []float64{c.Center.Lat, c.Bounds.East + 0.5}
		for _, p := range [][]float64{above, below, west, east} {
			got := IsLocationValid(p, string(c.Key))
			assert.False(t, got.IsValid())
			assert.Contains(t, got.Message(), c.Key.DisplayName())
		}
	}
}

func TestIsLocationValid_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.True(t, IsLocationValid([]float64{37.8044, -122.2711}, "san_francisco").IsValid())
				assert.False(t, IsLocationValid([]float64{35.1796, 129.0756}, "seoul").IsValid())
			}
		}()
	}
	wg.Wait()
}

func TestLocationRangeMessage(t *testing.T) {
	assert.Equal(t,
		"Please select a location within the boundaries of san francisco, no more than 320 km from the city center.",
		LocationRangeMessage("san_francisco"))
	assert.Equal(t, LocationRangeMessage("seoul"), LocationRangeMessage("Seoul"))
	assert.Contains(t, LocationRangeMessage("seoul"), "320")
	assert.Equal(t, "Invalid city specified for range message.", LocationRangeMessage("atlantis"))
}

func TestEvaluate_Outcomes(t *testing.T) {
	tests := []struct {
		coords []float64
		city   string
		want   Outcome
	}{
		{nil, "seoul", OutcomeBadFormat},
		{[]float64{1, 2, 3}, "atlantis", OutcomeBadFormat},
		{[]float64{37.5, 127}, "atlantis", OutcomeUnknownCity},
		{[]float64{35.1796, 129.0756}, "seoul", OutcomeOutOfBounds},
		{[]float64{34.0522, -118.2437}, "san_francisco", OutcomeTooFar},
		{[]float64{37.8044, -122.2711}, "san_francisco", OutcomeValid},
	}
	for _, tt := range tests {
		r, got := Evaluate(tt.coords, tt.city)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, got == OutcomeValid, r.IsValid())
	}
}
