package spherical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-9

func TestFromLatLonRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
	}{
		{"equator prime meridian", 0, 0},
		{"north pole", 90, 0},
		{"south pole", -90, 0},
		{"mid latitude", 37.5, -122.4},
		{"dateline", 10, 179.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromLatLon(tt.lat, tt.lon)
			gotLat, gotLon := v.ToLatLon()

			assert.InDelta(t, tt.lat, gotLat, 1e-6)
			// longitude is undefined at the poles; skip the check there.
			if math.Abs(tt.lat) < 89.999 {
				assert.InDelta(t, tt.lon, gotLon, 1e-6)
			}
		})
	}
}

func TestGreatCircleDistanceKnownPoints(t *testing.T) {
	equator0 := FromLatLon(0, 0)
	equator90 := FromLatLon(0, 90)
	northPole := FromLatLon(90, 0)

	assert.InDelta(t, math.Pi/2, GreatCircleDistance(equator0, equator90), epsilon)
	assert.InDelta(t, math.Pi/2, GreatCircleDistance(equator0, northPole), epsilon)
	assert.InDelta(t, 0, GreatCircleDistance(equator0, equator0), epsilon)
}

func TestGreatCircleDistanceClampsNumericalOverflow(t *testing.T) {
	// A point dotted with itself after normalization can drift slightly
	// above 1.0 from floating point error; the clamped acos must not NaN.
	p := Vector3{X: 1 + 1e-16, Y: 0, Z: 0}
	assert.NotPanics(t, func() {
		d := GreatCircleDistance(p, p)
		assert.False(t, math.IsNaN(d))
	})
}

func TestSlerpEndpoints(t *testing.T) {
	a := FromLatLon(0, 0)
	b := FromLatLon(0, 90)

	start := Slerp(a, b, 0)
	end := Slerp(a, b, 1)
	mid := Slerp(a, b, 0.5)

	assert.InDelta(t, a.X, start.X, epsilon)
	assert.InDelta(t, b.X, end.X, epsilon)

	// midpoint of a 90-degree arc along the equator is at 45 degrees.
	midLat, midLon := mid.ToLatLon()
	assert.InDelta(t, 0, midLat, 1e-6)
	assert.InDelta(t, 45, midLon, 1e-6)
}

func TestNormalizeZeroVector(t *testing.T) {
	z := Vector3{}
	assert.NotPanics(t, func() {
		n := z.Normalize()
		assert.Equal(t, Vector3{}, n)
	})
}
