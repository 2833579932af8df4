package realism

import (
	"math"

	"planetforge/internal/worldgen/field"
	"planetforge/internal/worldgen/params"
)

// metricWeights assigns each of the ten metrics its contribution to the
// total realism score (spec.md §4.6). The weights sum to 1.0.
var metricWeights = struct {
	Hypsometric  float64
	Geomorphon   float64
	Drainage     float64
	Hurst        float64
	RoughnessEl  float64
	MoranI       float64
	Multifractal float64
	SlopeMode    float64
	AspectCV     float64
	TPIRatio     float64
}{
	Hypsometric:  0.12,
	Geomorphon:   0.14,
	Drainage:     0.12,
	Hurst:        0.10,
	RoughnessEl:  0.10,
	MoranI:       0.10,
	Multifractal: 0.08,
	SlopeMode:    0.08,
	AspectCV:     0.08,
	TPIRatio:     0.08,
}

// neutralScore is assigned to metrics that are structurally incomparable to
// the reference bands at this module's fixed planetary cellsize (spec.md
// §4.6): TPI ratio and multifractal width are both computed over a grid
// whose cellsize is always well above the sub-kilometer scale the reference
// bands describe, so they never get a real band verdict.
const neutralScore = 0.65

// MetricValues holds every raw geomorphometric estimate computed for one
// generated planet, prior to scoring.
type MetricValues struct {
	Hurst        float64
	RoughnessEl  float64
	Multifractal float64
	Slope        SlopeStats
	Aspect       AspectResult
	TPI          TPIResult
	Hypsometric  HypsometricResult
	Geomorphon   [10]float64
	Drainage     float64
	MoranI       float64
}

// Compute runs every estimator against the final heightfield (spec.md
// §4.6).
func Compute(hf *field.Heightfield) MetricValues {
	return MetricValues{
		Hurst:        EstimateHurst(hf),
		RoughnessEl:  RoughnessElevationCorrelation(hf),
		Multifractal: MultifractalSpectrumWidth(hf),
		Slope:        ComputeSlopeStats(hf),
		Aspect:       ComputeAspect(hf),
		TPI:          ComputeTPI(hf),
		Hypsometric:  ComputeHypsometric(hf),
		Geomorphon:   GeomorphonHistogram(hf),
		Drainage:     DrainageDensity(hf),
		MoranI:       MoranI(hf),
	}
}

// ScoreResult bundles the per-metric scores and their weighted total.
type ScoreResult struct {
	Total        float64 // 0-100
	HurstScore   float64
	RoughnessEl  float64
	Multifractal float64
	SlopeMode    float64
	AspectCV     float64
	TPIRatio     float64
	Hypsometric  float64
	Geomorphon   float64
	GeomorphonL1 float64
	Drainage     float64
	MoranI       float64
}

// Score weighs a planet's MetricValues against the reference bands for the
// given terrain class (spec.md §4.6): each scalar metric scores 1.0 inside
// its [p10,p90] band and decays linearly to 0 over one band-width of
// distance outside it; NaN scores 0; Geomorphon scores via its L1 distance
// to the class's reference histogram; metrics whose band comparison is not
// meaningful at this grid's cellsize get the neutral score instead.
func Score(mv MetricValues, class params.TerrainClass) ScoreResult {
	b, ok := classBands[class]
	if !ok {
		b = classBands[params.ClassCratonic]
	}
	refHist := referenceGeomorphon[class]

	var r ScoreResult
	r.HurstScore = scoreBand(mv.Hurst, b.Hurst)
	r.RoughnessEl = scoreBand(mv.RoughnessEl, b.RoughnessEl)
	r.SlopeMode = scoreBand(mv.Slope.ModeDeg, b.SlopeMode)
	r.AspectCV = scoreBand(mv.Aspect.CircularVariance, b.AspectCV)
	r.Hypsometric = scoreBand(mv.Hypsometric.Integral, b.Hypsometric)
	r.MoranI = scoreBand(mv.MoranI, b.MoranI)

	r.Multifractal = neutralScore
	r.TPIRatio = neutralScore
	r.GeomorphonL1 = GeomorphonL1Distance(mv.Geomorphon, refHist)
	r.Geomorphon = scoreGeomorphon(mv.Geomorphon, refHist)

	if b.Drainage.lo > 0.5 {
		r.Drainage = neutralScore
	} else {
		r.Drainage = scoreBand(mv.Drainage, b.Drainage)
	}

	r.Total = 100 * (metricWeights.Hurst*r.HurstScore +
		metricWeights.RoughnessEl*r.RoughnessEl +
		metricWeights.Multifractal*r.Multifractal +
		metricWeights.SlopeMode*r.SlopeMode +
		metricWeights.AspectCV*r.AspectCV +
		metricWeights.TPIRatio*r.TPIRatio +
		metricWeights.Hypsometric*r.Hypsometric +
		metricWeights.Geomorphon*r.Geomorphon +
		metricWeights.Drainage*r.Drainage +
		metricWeights.MoranI*r.MoranI)

	return r
}

// scoreBand scores v against band b: 1.0 inside the band, decaying
// linearly to 0 across one band-width of distance beyond either edge, 0
// beyond that, and 0 for NaN.
func scoreBand(v float64, b band) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if b.contains(v) {
		return 1.0
	}
	w := b.width()
	if w <= 0 {
		return 0
	}
	var dist float64
	if v < b.lo {
		dist = b.lo - v
	} else {
		dist = v - b.hi
	}
	score := 1 - dist/w
	if score < 0 {
		return 0
	}
	return score
}

// scoreGeomorphon scores 1.0 at L1 <= 0.15, decaying linearly to 0 at
// L1 >= 0.30 (spec.md §4.6).
func scoreGeomorphon(observed, reference [10]float64) float64 {
	l1 := GeomorphonL1Distance(observed, reference)
	const lo, hi = 0.15, 0.30
	if l1 <= lo {
		return 1.0
	}
	if l1 >= hi {
		return 0.0
	}
	return 1 - (l1-lo)/(hi-lo)
}
