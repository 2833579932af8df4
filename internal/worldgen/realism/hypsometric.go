package realism

import (
	"math"
	"sort"

	"planetforge/internal/worldgen/field"
)

// HypsometricResult bundles the global hypsometric integral of spec.md
// §4.6 and its 100-point CDF (relative area at or above each relief
// fraction, from 1.0 at relief 0 down to the share of cells at the maximum
// elevation at relief 1).
type HypsometricResult struct {
	Integral float64 // (mean-min)/(max-min); NaN when range < 1m
	CDF      [100]float64
}

// ComputeHypsometric implements spec.md §4.6's hypsometric integral
// estimator, defaulting to NaN when the elevation range is below 1m
// (flat or degenerate heightfield, spec.md §7).
func ComputeHypsometric(hf *field.Heightfield) HypsometricResult {
	var res HypsometricResult
	if len(hf.Data) == 0 {
		res.Integral = math.NaN()
		return res
	}

	minZ, maxZ := hf.MinMax()
	span := maxZ - minZ
	if span < 1.0 {
		res.Integral = math.NaN()
		return res
	}

	sum := 0.0
	for _, v := range hf.Data {
		sum += float64(v)
	}
	meanZ := sum / float64(len(hf.Data))
	res.Integral = clamp01((meanZ - minZ) / span)

	sorted := make([]float64, len(hf.Data))
	for i, v := range hf.Data {
		sorted[i] = (float64(v) - minZ) / span
	}
	sort.Float64s(sorted)

	n := len(sorted)
	for i := 0; i < 100; i++ {
		relief := float64(i) / 99
		// Fraction of cells at or above this relief level: count via
		// binary search on the sorted relative-elevation array.
		idx := sort.SearchFloat64s(sorted, relief)
		res.CDF[i] = 1 - float64(idx)/float64(n)
	}

	return res
}
