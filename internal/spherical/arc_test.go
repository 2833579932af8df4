package spherical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointToArcDistanceOnArc(t *testing.T) {
	a := FromLatLon(0, -10)
	b := FromLatLon(0, 10)
	arc := NewArc(a, b)

	onArcPoint := FromLatLon(0, 0)
	assert.InDelta(t, 0, arc.PointToArcDistance(onArcPoint), 1e-6)
}

func TestPointToArcDistanceOffArcUsesEndpoint(t *testing.T) {
	a := FromLatLon(0, -10)
	b := FromLatLon(0, 10)
	arc := NewArc(a, b)

	// Far beyond endpoint b along the same great circle: nearest point on
	// the arc is b itself, not the foot of perpendicular (which would lie
	// outside the [a,b] span).
	beyondB := FromLatLon(0, 50)
	want := GreatCircleDistance(beyondB, b)
	assert.InDelta(t, want, arc.PointToArcDistance(beyondB), 1e-6)
}

func TestWithinInfluenceGuardIsConservativeLowerBound(t *testing.T) {
	a := FromLatLon(0, -10)
	b := FromLatLon(0, 10)
	arc := NewArc(a, b)

	near := FromLatLon(1, 0)
	far := FromLatLon(80, 0)

	assert.True(t, arc.WithinInfluence(near, degToRadHelper(5)))
	assert.False(t, arc.WithinInfluence(far, degToRadHelper(5)))

	// The guard must never reject a point that the full distance test
	// would accept (it is a lower bound, not an approximation).
	radius := degToRadHelper(5)
	for _, p := range []Vector3{near, far} {
		full := arc.PointToArcDistance(p)
		if full <= radius {
			assert.True(t, arc.WithinInfluence(p, radius))
		}
	}
}

func TestIntersectCrossingArcs(t *testing.T) {
	arc1 := NewArc(FromLatLon(-10, 0), FromLatLon(10, 0))
	arc2 := NewArc(FromLatLon(0, -10), FromLatLon(0, 10))

	point, ok := Intersect(arc1, arc2)
	assert.True(t, ok)
	lat, lon := point.ToLatLon()
	assert.InDelta(t, 0, lat, 1e-6)
	assert.InDelta(t, 0, lon, 1e-6)
}

func TestIntersectParallelArcsNoCrossing(t *testing.T) {
	arc1 := NewArc(FromLatLon(10, -10), FromLatLon(10, 10))
	arc2 := NewArc(FromLatLon(-10, -10), FromLatLon(-10, 10))

	_, ok := Intersect(arc1, arc2)
	assert.False(t, ok)
}

func TestPerpendicularOffsetStaysOnUnitSphere(t *testing.T) {
	p := FromLatLon(20, 30)
	ref := FromLatLon(25, 35)
	offset := PerpendicularOffset(p, ref, degToRadHelper(2))

	assert.InDelta(t, 1.0, offset.Length(), 1e-9)
	assert.Greater(t, GreatCircleDistance(p, offset), 0.0)
}

func degToRadHelper(deg float64) float64 { return deg * math.Pi / 180 }
