// Package noise synthesises the final elevation raster from tectonic and
// climate statistics plus gradient noise (spec.md §4.4), grounded in the
// teacher's ecosystem/geography.Heightmap generation (which itself layers
// octaves of github.com/aquilax/go-perlin noise) but replacing the
// plate-weighted blend with the spec's anisotropic-warp, non-stationary
// amplitude, and hypsometric-shaping pipeline.
package noise

import (
	"math"
	"sort"

	perlin "github.com/aquilax/go-perlin"

	"planetforge/internal/worldgen/climate"
	"planetforge/internal/worldgen/field"
	"planetforge/internal/worldgen/params"
	"planetforge/internal/worldgen/plate"
)

// Params is the derived input to fractal synthesis (spec.md §4.4), computed
// from plate/climate means and the raw sliders.
type Params struct {
	TerrainClass       params.TerrainClass
	GlacialClass       params.GlacialClass
	HBase              float64
	HVariance          float64
	GrainAngle         float64
	GrainIntensity     float64
	MeanErodibility    float64
	MeanPrecipitation  float64
	WarpAmplitudeMacro float64
	WarpAmplitudeMicro float64
}

// elevationEnvelopeMeters implements the per-class range-scaling target of
// spec.md §4.4.
var elevationEnvelopeMeters = map[params.TerrainClass]float64{
	params.ClassAlpine:       4000,
	params.ClassFluvialArid:  2000,
	params.ClassCratonic:     1000,
	params.ClassFluvialHumid: 500,
	params.ClassCoastal:      200,
}

// targetHypsometricIntegral implements the per-class hypsometric target of
// spec.md §4.4.
var targetHypsometricIntegral = map[params.TerrainClass]float64{
	params.ClassAlpine:       0.335,
	params.ClassFluvialHumid: 0.361,
	params.ClassFluvialArid:  0.348,
	params.ClassCratonic:     0.278,
	params.ClassCoastal:      0.467,
}

// DeriveParams computes means over the plate and climate fields plus the
// slider-derived h_base/h_variance (spec.md §4.4).
func DeriveParams(gp params.GlobalParams, plateRes plate.Result, climateRes climate.Result, width, height int) Params {
	terrainClass := params.DeriveTerrainClass(gp)
	glacialClass := params.DeriveGlacialClass(gp.Glaciation)

	var sumAngleSin, sumAngleCos, sumIntensity, sumErodibility, sumPrecip float64
	n := width * height
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			angle, intensity := plateRes.Grain.Get(row, col)
			sumAngleSin += math.Sin(angle)
			sumAngleCos += math.Cos(angle)
			sumIntensity += intensity
			sumErodibility += plateRes.Erodibility.Get(row, col)
			sumPrecip += climateRes.Precipitation.Get(row, col)
		}
	}

	meanAngle := 0.0
	meanIntensity := 0.0
	meanErodibility := 0.5
	meanPrecip := 0.0
	if n > 0 {
		meanAngle = math.Atan2(sumAngleSin/float64(n), sumAngleCos/float64(n))
		meanIntensity = sumIntensity / float64(n)
		meanErodibility = sumErodibility / float64(n)
		meanPrecip = sumPrecip / float64(n)
	}

	// Rescale grain intensity by tectonic activity and surface age per
	// spec.md §4.4's NoiseParams derivation.
	rescaledIntensity := meanIntensity * clamp01(0.5+0.5*gp.TectonicActivity) * clamp01(1-0.5*gp.SurfaceAge)

	hBase := clampRange(0.65+0.20*gp.MountainPrevalence-0.10*gp.SurfaceAge, 0.55, 0.90)
	hVariance := clampRange(0.10+0.15*gp.ClimateDiversity, 0.10, 0.25)

	return Params{
		TerrainClass:       terrainClass,
		GlacialClass:       glacialClass,
		HBase:              hBase,
		HVariance:          hVariance,
		GrainAngle:         meanAngle,
		GrainIntensity:     rescaledIntensity,
		MeanErodibility:    meanErodibility,
		MeanPrecipitation:  meanPrecip,
		WarpAmplitudeMacro: 0.015,
		WarpAmplitudeMicro: 0.004,
	}
}

// Synthesize runs the two-pass fractal synthesis of spec.md §4.4 and
// returns the shaped heightfield in metres. seed32 is the orchestrator's
// seed truncated to 32 bits, as the spec requires.
func Synthesize(seed32 uint32, p Params, width, height int) *field.Heightfield {
	hf := field.NewHeightfield(width, height)
	if width <= 0 || height <= 0 {
		return hf
	}

	smoothGen := perlin.NewPerlin(2, 2, 1, int64(seed32))
	hFieldGen := perlin.NewPerlin(2, 2, 1, int64(seed32)+1)
	detailGen := perlin.NewPerlin(2, 2, 1, int64(seed32)+2)
	warpMacroGenX := perlin.NewPerlin(2, 2, 1, int64(seed32)+3)
	warpMacroGenY := perlin.NewPerlin(2, 2, 1, int64(seed32)+4)
	warpMicroGenX := perlin.NewPerlin(2, 2, 1, int64(seed32)+5)
	warpMicroGenY := perlin.NewPerlin(2, 2, 1, int64(seed32)+6)

	smooth := make([]float64, width*height)
	hField := make([]float64, width*height)

	hLo := p.HBase - p.HVariance
	hHi := p.HBase + p.HVariance
	safeLo := math.Min(hLo, 0.3)
	safeHi := math.Max(hHi, 0.9)

	grainIntensity := p.GrainIntensity
	if grainIntensity > 0.99 {
		grainIntensity = 0.99
	}
	crossGrainScale := 1 / (1 - 0.9*grainIntensity)
	cosG, sinG := math.Cos(p.GrainAngle), math.Sin(p.GrainAngle)

	for row := 0; row < height; row++ {
		v := float64(row) / float64(height)
		for col := 0; col < width; col++ {
			u := float64(col) / float64(width)
			idx := row*width + col

			smooth[idx] = fbm(smoothGen, u*1.5, v*1.5, 3, 0.5)

			hRaw := fbm(hFieldGen, u*2, v*2, 1, 0.5)
			h01 := (hRaw + 1) / 2
			hField[idx] = clampRange(safeLo+h01*(safeHi-safeLo), safeLo, safeHi)
		}
	}

	percentile := percentileRanks(smooth)

	data := make([]float64, width*height)
	for row := 0; row < height; row++ {
		v := float64(row) / float64(height)
		for col := 0; col < width; col++ {
			u := float64(col) / float64(width)
			idx := row*width + col

			// Anisotropic rotation then cross-grain scaling.
			du := u*cosG + v*sinG
			dv := (-u*sinG + v*cosG) * crossGrainScale

			macroX := fbm(warpMacroGenX, du, dv, 1, 0.5) * p.WarpAmplitudeMacro
			macroY := fbm(warpMacroGenY, du, dv, 1, 0.5) * p.WarpAmplitudeMacro
			microX := fbm(warpMicroGenX, du+macroX, dv+macroY, 1, 0.5) * p.WarpAmplitudeMicro
			microY := fbm(warpMicroGenY, du+macroX, dv+macroY, 1, 0.5) * p.WarpAmplitudeMicro

			wx := du + macroX + microX
			wy := dv + macroY + microY

			hLocal := hField[idx]
			detail := detailFbm(detailGen, wx, wy, 8, hLocal)

			ampMod := 0.60 + 0.40*percentile[idx]
			data[idx] = 0.3*smooth[idx] + 0.7*detail*ampMod
		}
	}

	envelope := elevationEnvelopeMeters[p.TerrainClass]
	rescaleToRange(data, 0, envelope)

	targetHI := targetHypsometricIntegral[p.TerrainClass]
	hypsometricShape(data, targetHI)

	for i, v := range data {
		hf.Data[i] = float32(v)
	}
	return hf
}

// fbm sums `octaves` layers of gen at doubling frequency (phase-shifted per
// octave to decorrelate a single noise instance) with geometric amplitude
// decay `gain`, normalised to roughly [-1,1].
func fbm(gen *perlin.Perlin, x, y float64, octaves int, gain float64) float64 {
	sum := 0.0
	amp := 1.0
	freq := 1.0
	sumAmp := 0.0
	for o := 0; o < octaves; o++ {
		phase := float64(o) * 97.31
		sum += gen.Noise2D(x*freq+phase, y*freq+phase) * amp
		sumAmp += amp
		amp *= gain
		freq *= 2
	}
	if sumAmp == 0 {
		return 0
	}
	return sum / sumAmp
}

// detailFbm implements the spec's 8-octave detail sum with per-octave gain
// 2^-(h_local+0.35); the +0.35 bias corrects the measured Hurst depression
// inherent to gradient-noise octave stacking (spec.md §4.4, §9).
func detailFbm(gen *perlin.Perlin, x, y float64, octaves int, hLocal float64) float64 {
	sum := 0.0
	amp := 1.0
	freq := 1.0
	sumAmp := 0.0
	gain := math.Pow(2, -(hLocal + 0.35))
	for o := 0; o < octaves; o++ {
		phase := float64(o) * 131.71
		sum += gen.Noise2D(x*freq+phase, y*freq+phase) * amp
		sumAmp += amp
		amp *= gain
		freq *= 2
	}
	if sumAmp == 0 {
		return 0
	}
	return sum / sumAmp
}

// percentileRanks returns, for each element, its rank among all elements
// divided by (n-1), in [0,1]. Ties keep stable input order.
func percentileRanks(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n <= 1 {
		return out
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })
	for rank, idx := range order {
		out[idx] = float64(rank) / float64(n-1)
	}
	return out
}

// rescaleToRange performs min-max normalisation of data into [lo, hi]
// in place.
func rescaleToRange(data []float64, lo, hi float64) {
	if len(data) == 0 {
		return
	}
	minV, maxV := data[0], data[0]
	for _, v := range data {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	for i, v := range data {
		if span == 0 {
			data[i] = lo
			continue
		}
		data[i] = lo + (v-minV)/span*(hi-lo)
	}
}

// hypsometricShape implements spec.md §4.4's monotone percentile remap:
// gamma = max(0.1, 1/targetHI - 1); sort by elevation, remap rank
// percentile p to p^gamma, rescale back to the original [min,max] range.
func hypsometricShape(data []float64, targetHI float64) {
	n := len(data)
	if n == 0 {
		return
	}
	minV, maxV := data[0], data[0]
	for _, v := range data {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	if span == 0 {
		return
	}

	gamma := 1/targetHI - 1
	if gamma < 0.1 {
		gamma = 0.1
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return data[order[a]] < data[order[b]] })

	for rank, idx := range order {
		p := float64(rank) / float64(n-1)
		shaped := math.Pow(p, gamma)
		data[idx] = minV + shaped*span
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
