// Package climate derives the precipitation, seasonality, and glaciation
// fields from latitude, the tectonic regime field, and two user sliders
// (spec.md §4.3), grounded in the teacher's ecosystem/geography weather
// helpers but replacing the plate-polygon wind model with the spec's
// zonal-band and belt-width orographic rule.
package climate

import (
	"math"
	"math/rand"

	"planetforge/internal/worldgen/field"
	"planetforge/internal/worldgen/noisegen"
)

const modulationTag uint64 = 0x6D6F_6475_6C61_7465 // "modulate" ascii-derived tag

// Result bundles the fields the climate stage produces.
type Result struct {
	Precipitation *field.ScalarField64
	Seasonality   *field.ScalarField64
	Glaciation    *field.GlaciationMask
}

// Run executes the climate stage for a W×H grid against the given plate
// regime field (spec.md §4.3). A zero dimension returns empty fields.
func Run(seed uint64, waterAbundance, climateDiversity, glaciation float64, regime *field.RegimeField, width, height int) Result {
	res := Result{
		Precipitation: field.NewScalarField64(width, height),
		Seasonality:   field.NewScalarField64(width, height),
		Glaciation:    field.NewGlaciationMask(height),
	}
	if width <= 0 || height <= 0 {
		return res
	}

	applyLatitudinalBase(res.Precipitation, waterAbundance, width, height)
	applyModulation(res.Precipitation, seed, climateDiversity, width, height)
	applyOrographicCorrection(res.Precipitation, regime, width, height)
	applySeasonality(res.Seasonality, res.Precipitation, width, height)
	applyGlaciationMask(res.Glaciation, glaciation, height)

	return res
}

// LatitudinalBase implements the closed-form sum of spec.md §4.3 at a given
// absolute latitude in degrees, before the water-abundance scale.
func LatitudinalBase(absLat float64) float64 {
	v := 2200*math.Exp(-(absLat*absLat)/288) -
		800*math.Exp(-((absLat-28)*(absLat-28))/128) +
		600*math.Exp(-((absLat-50)*(absLat-50))/450) +
		200
	if v < 80 {
		v = 80
	}
	return v
}

func applyLatitudinalBase(precip *field.ScalarField64, waterAbundance float64, width, height int) {
	scale := waterAbundance / 0.55
	for row := 0; row < height; row++ {
		lat, _ := cellLatLon(row, 0, width, height)
		base := LatitudinalBase(math.Abs(lat)) * scale
		for col := 0; col < width; col++ {
			precip.Set(row, col, base)
		}
	}
}

// applyModulation multiplies in a three-octave fractal noise field at ≈2
// cycles/axis, mapped to [1-amplitude, 1+amplitude] with
// amplitude = clamp(0.4*climateDiversity, 0, 0.4) (spec.md §4.3). At
// climateDiversity=0 the multiplier is identically 1.0 (boundary property).
func applyModulation(precip *field.ScalarField64, seed uint64, climateDiversity float64, width, height int) {
	amplitude := 0.4 * climateDiversity
	if amplitude < 0 {
		amplitude = 0
	}
	if amplitude > 0.4 {
		amplitude = 0.4
	}
	if amplitude == 0 {
		return
	}

	rng := rand.New(rand.NewSource(int64(seed ^ modulationTag)))
	noise := noisegen.FractalLattice(rng, width, height, 2, 3)

	minV, maxV := noise[0], noise[0]
	for _, v := range noise {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			n := noise[row*width+col]
			normalised := 0.0
			if span > 0 {
				normalised = ((n-minV)/span)*2 - 1 // map [minV,maxV] onto [-1,1]
			}
			multiplier := 1 + amplitude*normalised
			precip.Set(row, col, precip.Get(row, col)*multiplier)
		}
	}
}

// windDirection returns +1 for eastward wind, -1 for westward, by absolute
// latitude band (spec.md §4.3).
func windDirection(absLat float64) int {
	switch {
	case absLat < 30:
		return -1 // trades, westward
	case absLat < 60:
		return 1 // westerlies, eastward
	default:
		return -1 // polar easterlies, westward
	}
}

// applyOrographicCorrection implements the belt-width-dependent windward/
// leeward rule of spec.md §4.3; the fixed-multiplier variant referenced in
// spec.md §9 is not implemented. Mountain cells (ActiveCompressional) are
// left unchanged.
func applyOrographicCorrection(precip *field.ScalarField64, regime *field.RegimeField, width, height int) {
	scanRange := 4
	if width/8 > scanRange {
		scanRange = width / 8
	}

	for row := 0; row < height; row++ {
		lat, _ := cellLatLon(row, 0, width, height)
		dir := windDirection(math.Abs(lat))

		for col := 0; col < width; col++ {
			if regime.Get(row, col) == field.RegimeActiveCompressional {
				continue
			}

			// Upwind = direction the wind is coming from; downwind = where it
			// is heading to, per dir.
			upwindCol, upwindDist, upwindFound := scanForMountain(regime, row, col, width, -dir, scanRange)
			downwindCol, downwindDist, downwindFound := scanForMountain(regime, row, col, width, dir, scanRange)

			switch {
			case upwindFound && (!downwindFound || upwindDist <= downwindDist):
				belt := beltWidth(regime, row, upwindCol, width, -dir)
				precip.Set(row, col, precip.Get(row, col)*leewardMultiplier(belt))
			case downwindFound:
				belt := beltWidth(regime, row, downwindCol, width, dir)
				precip.Set(row, col, precip.Get(row, col)*windwardMultiplier(belt))
			}
		}
	}
}

// scanForMountain walks up to maxSteps cells from col in direction dir
// (wrapping), returning the column and step distance of the first mountain
// cell found.
func scanForMountain(regime *field.RegimeField, row, col, width, dir, maxSteps int) (mountainCol, dist int, found bool) {
	for step := 1; step <= maxSteps; step++ {
		c := wrapIntClimate(col+dir*step, width)
		if regime.Get(row, c) == field.RegimeActiveCompressional {
			return c, step, true
		}
	}
	return 0, 0, false
}

// beltWidth counts consecutive mountain cells starting at col and walking
// in dir, saturating at 8 (spec.md §4.3).
func beltWidth(regime *field.RegimeField, row, col, width, dir int) int {
	w := 0
	c := col
	for w < 8 {
		if regime.Get(row, c) != field.RegimeActiveCompressional {
			break
		}
		w++
		c = wrapIntClimate(c+dir, width)
	}
	if w < 1 {
		w = 1
	}
	return w
}

func windwardMultiplier(beltWidth int) float64 {
	t := clamp01Climate(float64(beltWidth-1) / 7)
	return 1.5 + t*(3.0-1.5)
}

func leewardMultiplier(beltWidth int) float64 {
	t := clamp01Climate(float64(beltWidth-1) / 7)
	return 0.70 + t*(0.30-0.70)
}

// applySeasonality implements spec.md §4.3's formula, which guarantees
// seasonality ≤ 0.2 wherever precipitation exceeds 2500mm.
func applySeasonality(seasonality, precip *field.ScalarField64, width, height int) {
	for row := 0; row < height; row++ {
		lat, _ := cellLatLon(row, 0, width, height)
		absLatNorm := math.Abs(lat) / 90
		for col := 0; col < width; col++ {
			p := precip.Get(row, col)
			v := math.Pow(absLatNorm, 0.7) * (1 - 0.8*math.Min(p/2500, 1))
			seasonality.Set(row, col, clamp01Climate(v))
		}
	}
}

// applyGlaciationMask implements the zonally-uniform threshold rule of
// spec.md §4.3.
func applyGlaciationMask(mask *field.GlaciationMask, glaciation float64, height int) {
	activeThreshold := 90 - 60*glaciation
	formerThreshold := activeThreshold - 30*glaciation
	for row := 0; row < height; row++ {
		lat, _ := cellLatLon(row, 0, 1, height)
		absLat := math.Abs(lat)
		switch {
		case absLat > activeThreshold:
			mask.Set(row, field.GlaciationActive)
		case absLat > formerThreshold:
			mask.Set(row, field.GlaciationFormer)
		default:
			mask.Set(row, field.GlaciationNone)
		}
	}
}

func cellLatLon(row, col, width, height int) (lat, lon float64) {
	lat = 90 - (float64(row)+0.5)/float64(height)*180
	lon = -180 + (float64(col)+0.5)/float64(width)*360
	return lat, lon
}

func clamp01Climate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func wrapIntClimate(v, n int) int {
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
