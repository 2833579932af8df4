package spherical

import "math"

// Arc is a great-circle segment between two unit-sphere endpoints, plus its
// precomputed plane normal so bulk per-cell evaluation against many arcs
// (the dominant cost of plate-field construction) can use the early-exit
// guard in WithinInfluence before paying for the full point-to-arc test.
type Arc struct {
	A, B   Vector3
	Normal Vector3 // A.Cross(B), normalized; plane normal of the great circle through A and B.
	Length float64 // great-circle angular length of the arc, radians
}

// NewArc builds an Arc from two unit-sphere endpoints, precomputing the
// plane normal and angular length.
func NewArc(a, b Vector3) Arc {
	n := a.Cross(b)
	if n.Length() == 0 {
		n = arbitraryTangent(a)
	} else {
		n = n.Normalize()
	}
	return Arc{A: a, B: b, Normal: n, Length: GreatCircleDistance(a, b)}
}

// WithinInfluence is the great-circle early-exit guard: true if p could
// possibly be within radius (radians) of the arc. It tests only the
// angular distance from p to the arc's plane, |normal . p|.asin(), which is
// a lower bound on the true point-to-arc distance and is cheap to compute.
// Callers that evaluate a point against many arcs should skip the full
// PointToArcDistance computation whenever this returns false.
func (arc Arc) WithinInfluence(p Vector3, radius float64) bool {
	sinDist := math.Abs(arc.Normal.Dot(p.Normalize()))
	sinDist = clamp(sinDist, -1, 1)
	planeDist := math.Asin(sinDist)
	return planeDist <= radius
}

// PointToArcDistance computes the angular distance in radians from p to the
// arc. It projects p onto the arc's great-circle plane and renormalizes to
// find the foot of the perpendicular, then tests whether that foot lies
// within the arc span via the length-preservation test
// d(a,q)+d(q,b) ~= d(a,b). If the foot falls outside the arc, it returns
// the distance to the nearer endpoint.
func (arc Arc) PointToArcDistance(p Vector3) float64 {
	p = p.Normalize()

	// Project p onto the arc's plane: remove the component along Normal.
	proj := p.Sub(arc.Normal.Scale(arc.Normal.Dot(p)))
	if proj.Length() < 1e-12 {
		// p is exactly at one of the plane's poles; any point on the
		// circle is equidistant, fall back to endpoint distance.
		return math.Min(GreatCircleDistance(p, arc.A), GreatCircleDistance(p, arc.B))
	}
	foot := proj.Normalize()

	dAF := GreatCircleDistance(arc.A, foot)
	dFB := GreatCircleDistance(foot, arc.B)

	const eps = 1e-9
	if math.Abs((dAF+dFB)-arc.Length) <= eps+1e-6*arc.Length {
		return GreatCircleDistance(p, foot)
	}

	return math.Min(GreatCircleDistance(p, arc.A), GreatCircleDistance(p, arc.B))
}

// Intersect reports whether two great-circle arcs cross, and the crossing
// point if so. Two great circles intersect at two antipodal points; the
// candidate lying within both arc spans (by the same length-preservation
// test as PointToArcDistance) is the answer.
func Intersect(a, b Arc) (point Vector3, ok bool) {
	cross := a.Normal.Cross(b.Normal)
	if cross.Length() < 1e-12 {
		return Vector3{}, false
	}
	cross = cross.Normalize()

	for _, candidate := range []Vector3{cross, cross.Scale(-1)} {
		if onArc(a, candidate) && onArc(b, candidate) {
			return candidate, true
		}
	}
	return Vector3{}, false
}

func onArc(arc Arc, p Vector3) bool {
	dAF := GreatCircleDistance(arc.A, p)
	dFB := GreatCircleDistance(p, arc.B)
	const eps = 1e-6
	return math.Abs((dAF+dFB)-arc.Length) <= eps+1e-6*arc.Length
}
