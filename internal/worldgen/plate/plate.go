// Package plate simulates tectonic plate boundaries on the unit sphere and
// derives the per-cell regime, crust, structural grain, and erodibility
// fields consumed by climate and noise synthesis (spec.md §4.2), grounded in
// the teacher's ecosystem/geography.TectonicSystem (rand.New(rand.NewSource)
// determinism, uuid-tagged plate records) but replacing plate-polygon
// simulation with the spherical arc/age-field model the spec calls for.
package plate

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"planetforge/internal/spherical"
	"planetforge/internal/worldgen/field"
	"planetforge/internal/worldgen/noisegen"
)

// Stage tags mix into the seed so each random draw within plate simulation
// is reproducible independent of draw order across stages (spec.md §5).
const (
	ridgeTag       uint64 = 0x5A3C_9F12_6B7E_4D01
	hotspotTag     uint64 = 0x1234_5678_9ABC_DEF0
	subductionTag  uint64 = 0x9E37_79B9_7F4A_7C15
	erodibilityTag uint64 = 0xC2B2_AE3D_27D4_EB4F
)

const hotspotCount = 4

// Ridge is a mid-ocean spreading ridge: an ideal great-circle main arc plus
// the transform-fault staircase of short offset sub-arcs actually used for
// visual/physical detail. The lithospheric age field only ever tests
// against the main arc (spec.md §4.2).
type Ridge struct {
	ID      uuid.UUID
	Main    spherical.Arc
	SubArcs []spherical.Arc
}

// SubductionArc is a convergent-margin arc placed tangent to an accepted
// subduction initiation site.
type SubductionArc struct {
	ID       uuid.UUID
	Center   spherical.Vector3
	RadiusKm float64
	Arc      spherical.Arc
}

// recordNamespace scopes the deterministic record IDs derived below so
// they never collide with UUIDs minted elsewhere in the process (matching
// the teacher's use of a fixed namespace for generated-record bookkeeping
// IDs). Ridge and subduction-arc IDs are name-based (SHA1) rather than
// random so a given seed always reproduces the same record identity.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("planetforge.plate"))

// Result bundles every field and record plate simulation produces.
type Result struct {
	Regime      *field.RegimeField
	Crust       *field.CrustField
	Grain       *field.GrainField
	Erodibility *field.ErodibilityField

	Ridges      []Ridge
	Subductions []SubductionArc
	Hotspots    []spherical.Vector3
	AgeField    []float64 // normalised [0,1], row-major, len W*H
}

// Simulate runs the full plate stage for a W×H grid (spec.md §4.2). A zero
// dimension returns correctly-sized empty fields rather than aborting
// (spec.md §7).
func Simulate(seed uint64, fragmentation float64, width, height int) Result {
	res := Result{
		Regime:      field.NewRegimeField(width, height),
		Crust:       field.NewCrustField(width, height),
		Grain:       field.NewGrainField(width, height),
		Erodibility: field.NewErodibilityField(width, height),
	}
	if width <= 0 || height <= 0 {
		return res
	}

	ridges := buildRidges(seed, fragmentation)
	hotspots := buildHotspots(seed)
	ageField, maxAge := buildAgeField(ridges, width, height)
	subductions := buildSubductionArcs(seed, ageField, maxAge, width, height)

	res.Ridges = ridges
	res.Hotspots = hotspots
	res.Subductions = subductions
	res.AgeField = normalizeAge(ageField, maxAge)

	classifyCrust(res.Crust, res.AgeField, subductions, width, height)
	classifyRegime(res.Regime, res.Crust, ridges, subductions, hotspots, width, height)
	buildGrainField(res.Grain, res.Regime, ridges, subductions, hotspots, width, height)
	buildErodibilityField(res.Erodibility, res.Regime, seed, width, height)

	return res
}

// ridgeCount applies the clamp-to-[2,10] rule of spec.md §4.2.
func ridgeCount(fragmentation float64) int {
	n := int(math.Round(2 + 8*fragmentation))
	if n < 2 {
		n = 2
	}
	if n > 10 {
		n = 10
	}
	return n
}

func buildRidges(seed uint64, fragmentation float64) []Ridge {
	rng := rand.New(rand.NewSource(int64(seed ^ ridgeTag)))
	n := ridgeCount(fragmentation)
	ridges := make([]Ridge, 0, n)
	for i := 0; i < n; i++ {
		a := randomUnitVector(rng)
		lengthDeg := 30 + rng.Float64()*90 // 30..120
		b := randomArcEndpoint(rng, a, lengthDeg)
		main := spherical.NewArc(a, b)

		breaks := int(lengthDeg / 4)
		sub := staircaseSubArcs(rng, main, breaks)
		id := uuid.NewSHA1(recordNamespace, []byte(fmt.Sprintf("ridge-%d-%d", seed, i)))
		ridges = append(ridges, Ridge{ID: id, Main: main, SubArcs: sub})
	}
	return ridges
}

// staircaseSubArcs divides a main arc into `breaks` segments, each offset
// perpendicular to its local tangent by a random 0.5°-2.5° rotation
// (spec.md §4.2). The returned sub-arcs chain the offset endpoints together
// and never span more than 5° of great-circle distance (invariant 8).
func staircaseSubArcs(rng *rand.Rand, main spherical.Arc, breaks int) []spherical.Arc {
	if breaks < 1 {
		return []spherical.Arc{main}
	}
	points := make([]spherical.Vector3, breaks+1)
	for i := 0; i <= breaks; i++ {
		t := float64(i) / float64(breaks)
		p := spherical.Slerp(main.A, main.B, t)
		offsetDeg := 0.5 + rng.Float64()*2.0
		offsetRad := offsetDeg * math.Pi / 180
		p = spherical.PerpendicularOffset(p, main.Normal, offsetRad)
		points[i] = p
	}
	subArcs := make([]spherical.Arc, 0, breaks)
	for i := 0; i < breaks; i++ {
		subArcs = append(subArcs, spherical.NewArc(points[i], points[i+1]))
	}
	return subArcs
}

func buildHotspots(seed uint64) []spherical.Vector3 {
	rng := rand.New(rand.NewSource(int64(seed ^ hotspotTag)))
	hotspots := make([]spherical.Vector3, hotspotCount)
	for i := range hotspots {
		hotspots[i] = randomUnitVector(rng)
	}
	return hotspots
}

// buildAgeField computes, per cell, the minimum point-to-arc distance over
// every ridge's main arc (spec.md §4.2), using the great-circle early-exit
// guard for performance. Returns the raw (unnormalised) distances in
// radians and their observed maximum.
func buildAgeField(ridges []Ridge, width, height int) ([]float64, float64) {
	raw := make([]float64, width*height)
	maxDist := 0.0

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			lat, lon := cellLatLon(row, col, width, height)
			p := spherical.FromLatLon(lat, lon)
			minDist := math.Inf(1)
			for _, r := range ridges {
				// A ridge whose great circle is already farther than the
				// best distance so far cannot lower the minimum.
				if !r.Main.WithinInfluence(p, minDist) {
					continue
				}
				d := r.Main.PointToArcDistance(p)
				if d < minDist {
					minDist = d
				}
			}
			if math.IsInf(minDist, 1) {
				minDist = math.Pi
			}
			idx := row*width + col
			raw[idx] = minDist
			if minDist > maxDist {
				maxDist = minDist
			}
		}
	}
	return raw, maxDist
}

func normalizeAge(raw []float64, maxDist float64) []float64 {
	out := make([]float64, len(raw))
	if maxDist <= 0 {
		return out
	}
	for i, d := range raw {
		out[i] = d / maxDist
	}
	return out
}

// buildSubductionArcs finds aged (>=0.65) sites, subsamples, and enforces
// the 10° minimum separation between accepted centres (spec.md §4.2).
func buildSubductionArcs(seed uint64, age []float64, maxAge float64, width, height int) []SubductionArc {
	rng := rand.New(rand.NewSource(int64(seed ^ subductionTag)))

	type site struct {
		row, col int
		p        spherical.Vector3
	}
	var candidates []site
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if age[row*width+col] >= 0.65 {
				lat, lon := cellLatLon(row, col, width, height)
				candidates = append(candidates, site{row, col, spherical.FromLatLon(lat, lon)})
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	const maxArcs = 24
	stride := len(candidates) / maxArcs
	if stride < 1 {
		stride = 1
	}

	const minSeparationRad = 10 * math.Pi / 180
	var accepted []SubductionArc
	for i := 0; i < len(candidates); i += stride {
		c := candidates[i]
		tooClose := false
		for _, a := range accepted {
			if spherical.GreatCircleDistance(c.p, a.Center) < minSeparationRad {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		radiusKm := 200 + rng.Float64()*400 // [200,600]
		spanDeg := 60 + rng.Float64()*100   // [60,160]
		angularRadius := radiusKm / 6371.0

		pole := spherical.PerpendicularOffset(c.p, arbitraryNormalTo(c.p), math.Pi/2)
		start := spherical.PerpendicularOffset(c.p, pole, angularRadius)
		end := spherical.PerpendicularOffset(start, c.p, spanDeg*math.Pi/180)

		id := uuid.NewSHA1(recordNamespace, []byte(fmt.Sprintf("subduction-%d-%d", seed, len(accepted))))
		accepted = append(accepted, SubductionArc{
			ID:       id,
			Center:   c.p,
			RadiusKm: radiusKm,
			Arc:      spherical.NewArc(start, end),
		})
	}
	return accepted
}

func classifyCrust(crust *field.CrustField, age []float64, subductions []SubductionArc, width, height int) {
	const activeMarginGuardRad = math.Pi
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			a := age[idx]
			lat, lon := cellLatLon(row, col, width, height)
			p := spherical.FromLatLon(lat, lon)

			switch {
			case a < 0.5:
				crust.Set(row, col, field.CrustOceanic)
			case nearAnySubduction(p, subductions, 5*math.Pi/180, activeMarginGuardRad):
				crust.Set(row, col, field.CrustActiveMargin)
			case a > 0.8:
				crust.Set(row, col, field.CrustContinental)
			default:
				crust.Set(row, col, field.CrustPassiveMargin)
			}
		}
	}
}

func nearAnySubduction(p spherical.Vector3, subs []SubductionArc, thresholdRad, guardRad float64) bool {
	for _, s := range subs {
		if !s.Arc.WithinInfluence(p, guardRad) {
			continue
		}
		if s.Arc.PointToArcDistance(p) <= thresholdRad {
			return true
		}
	}
	return false
}

// classifyRegime applies the priority-ordered rule of spec.md §4.2.
func classifyRegime(regime *field.RegimeField, crust *field.CrustField, ridges []Ridge, subs []SubductionArc, hotspots []spherical.Vector3, width, height int) {
	const guard = math.Pi
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			lat, lon := cellLatLon(row, col, width, height)
			p := spherical.FromLatLon(lat, lon)

			switch {
			case nearAnyRidge(p, ridges, 2*math.Pi/180, guard):
				regime.Set(row, col, field.RegimeActiveExtensional)
			case nearAnySubduction(p, subs, 3*math.Pi/180, guard):
				regime.Set(row, col, field.RegimeActiveCompressional)
			case nearAnyHotspot(p, hotspots, 2*math.Pi/180):
				regime.Set(row, col, field.RegimeVolcanicHotspot)
			case crust.Get(row, col) == field.CrustContinental:
				regime.Set(row, col, field.RegimeCratonicShield)
			case crust.Get(row, col) == field.CrustActiveMargin:
				regime.Set(row, col, field.RegimeActiveCompressional)
			default:
				regime.Set(row, col, field.RegimePassiveMargin)
			}
		}
	}
}

func nearAnyRidge(p spherical.Vector3, ridges []Ridge, thresholdRad, guardRad float64) bool {
	for _, r := range ridges {
		if !r.Main.WithinInfluence(p, guardRad) {
			continue
		}
		if r.Main.PointToArcDistance(p) <= thresholdRad {
			return true
		}
	}
	return false
}

func nearAnyHotspot(p spherical.Vector3, hotspots []spherical.Vector3, thresholdRad float64) bool {
	for _, h := range hotspots {
		if spherical.GreatCircleDistance(p, h) <= thresholdRad {
			return true
		}
	}
	return false
}

// buildGrainField accumulates weighted circular-coherence contributions
// from nearby ridges, subduction arcs, and hotspots (spec.md §4.2). Craton
// cells (CratonicShield regime) always store intensity 0.
func buildGrainField(grain *field.GrainField, regime *field.RegimeField, ridges []Ridge, subs []SubductionArc, hotspots []spherical.Vector3, width, height int) {
	const guard = math.Pi
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if regime.Get(row, col) == field.RegimeCratonicShield {
				grain.Set(row, col, 0, 0)
				continue
			}
			lat, lon := cellLatLon(row, col, width, height)
			p := spherical.FromLatLon(lat, lon)

			var sumSin, sumCos, sumW float64

			for _, r := range ridges {
				if !r.Main.WithinInfluence(p, guard) {
					continue
				}
				d := r.Main.PointToArcDistance(p)
				const radius = 5 * math.Pi / 180
				if d >= radius {
					continue
				}
				w := 1 - d/radius
				theta := arcStrike(r.Main, p)
				sumSin += w * math.Sin(theta)
				sumCos += w * math.Cos(theta)
				sumW += w
			}

			for _, s := range subs {
				if !s.Arc.WithinInfluence(p, guard) {
					continue
				}
				d := s.Arc.PointToArcDistance(p)
				const radius = 6 * math.Pi / 180
				if d >= radius {
					continue
				}
				w := 1 - d/radius
				theta := arcStrike(s.Arc, p) + math.Pi/2 // perpendicular to arc
				sumSin += w * math.Sin(theta)
				sumCos += w * math.Cos(theta)
				sumW += w
			}

			for _, h := range hotspots {
				d := spherical.GreatCircleDistance(p, h)
				const radius = 4 * math.Pi / 180
				if d >= radius {
					continue
				}
				w := 1 - d/radius
				theta := radialBearing(h, p) // radial outward from hotspot
				sumSin += w * math.Sin(theta)
				sumCos += w * math.Cos(theta)
				sumW += w
			}

			if sumW == 0 {
				grain.Set(row, col, 0, 0)
				continue
			}
			angle := math.Atan2(sumSin, sumCos)
			intensity := math.Hypot(sumSin, sumCos) / sumW
			grain.Set(row, col, angle, intensity)
		}
	}
}

// arcStrike approximates the local tangent bearing of an arc at the point
// on it nearest p, using the plane normal to build an east-reckoned angle.
func arcStrike(arc spherical.Arc, p spherical.Vector3) float64 {
	tangent := arc.Normal.Cross(p)
	return math.Atan2(tangent.Y, tangent.X)
}

// radialBearing returns the bearing from center to p, reckoned the same
// way as arcStrike so grain angles combine consistently.
func radialBearing(center, p spherical.Vector3) float64 {
	dir := p.Sub(center)
	return math.Atan2(dir.Y, dir.X)
}

// erodibilityRanges implements the regime-dependent table of spec.md §4.2.
var erodibilityRanges = map[field.Regime][2]float64{
	field.RegimeCratonicShield:      {0.05, 0.30},
	field.RegimeActiveCompressional: {0.25, 0.55},
	field.RegimeActiveExtensional:   {0.30, 0.60},
	field.RegimeVolcanicHotspot:     {0.30, 0.60},
	field.RegimePassiveMargin:       {0.55, 0.90},
}

// buildErodibilityField maps a low-frequency noise value into the
// regime-dependent range, then smooths with three box-blur passes so the
// output carries no hard regime boundaries (spec.md §4.2).
func buildErodibilityField(erod *field.ErodibilityField, regime *field.RegimeField, seed uint64, width, height int) {
	rng := rand.New(rand.NewSource(int64(seed ^ erodibilityTag)))
	noise := noisegen.Lattice(rng, width, height, 4)

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			span := erodibilityRanges[regime.Get(row, col)]
			n := noise[row*width+col] // [0,1]
			v := span[0] + n*(span[1]-span[0])
			erod.Set(row, col, v)
		}
	}

	for pass := 0; pass < 3; pass++ {
		boxBlur3x3(erod, width, height)
	}
}

func boxBlur3x3(erod *field.ErodibilityField, width, height int) {
	src := make([]float64, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			src[row*width+col] = erod.Get(row, col)
		}
	}
	get := func(row, col int) float64 {
		row = clampInt(row, 0, height-1)
		col = wrapInt(col, width)
		return src[row*width+col]
	}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			sum := 0.0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					sum += get(row+dr, col+dc)
				}
			}
			erod.Set(row, col, sum/9)
		}
	}
}

func cellLatLon(row, col, width, height int) (lat, lon float64) {
	lat = 90 - (float64(row)+0.5)/float64(height)*180
	lon = -180 + (float64(col)+0.5)/float64(width)*360
	return lat, lon
}

func randomUnitVector(rng *rand.Rand) spherical.Vector3 {
	lat := math.Asin(2*rng.Float64()-1) * 180 / math.Pi
	lon := (rng.Float64()*360 - 180)
	return spherical.FromLatLon(lat, lon)
}

// randomArcEndpoint picks a second point at the given great-circle distance
// (degrees) from a in a random bearing: build a tangent plane at a, rotate
// the reference tangent within that plane by the bearing, then rotate a
// towards the resulting direction by the target angular distance.
func randomArcEndpoint(rng *rand.Rand, a spherical.Vector3, distanceDeg float64) spherical.Vector3 {
	tangent := a.Cross(arbitraryNormalTo(a)).Normalize()
	coTangent := a.Cross(tangent)
	bearing := rng.Float64() * 2 * math.Pi
	direction := tangent.Scale(math.Cos(bearing)).Add(coTangent.Scale(math.Sin(bearing)))
	return spherical.PerpendicularOffset(a, a.Add(direction), distanceDeg*math.Pi/180)
}

// arbitraryNormalTo returns a vector not parallel to p, suitable as a
// reference axis for PerpendicularOffset.
func arbitraryNormalTo(p spherical.Vector3) spherical.Vector3 {
	if math.Abs(p.X) < 0.9 {
		return spherical.Vector3{X: 1, Y: 0, Z: 0}
	}
	return spherical.Vector3{X: 0, Y: 1, Z: 0}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapInt(v, n int) int {
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
