package realism

import (
	"math"

	"planetforge/internal/worldgen/field"
)

// flatGradientThreshold is tan(0.01 degrees), the minimum gradient
// magnitude treated as non-flat (spec.md §4.6), matching the prototype's
// metrics/aspect.rs.
const flatGradientThreshold = 1.745e-4

// AspectResult bundles the circular-variance aspect statistics of
// spec.md §4.6.
type AspectResult struct {
	CircularVariance float64 // 1 - mean resultant length; NaN if no non-flat cells
	MeanAspectDeg    float64 // clockwise from North; NaN if no non-flat cells
	FlatFraction     float64
}

// ComputeAspect implements the Horn-gradient circular-variance estimator of
// spec.md §4.6. Aspect convention: clockwise from North,
// atan2(dz/dx, -dz/dy). Cells with gradient magnitude below
// flatGradientThreshold are excluded from the circular statistics.
func ComputeAspect(hf *field.Heightfield) AspectResult {
	width, height := hf.Width, hf.Height
	if width < 3 || height < 3 {
		return AspectResult{CircularVariance: math.NaN(), MeanAspectDeg: math.NaN(), FlatFraction: 1.0}
	}

	cellSize := hf.CellSizeMeters()
	nInterior := (height - 2) * width

	var sumCos, sumSin float64
	var nValid, nFlat int

	for row := 1; row < height-1; row++ {
		for col := 0; col < width; col++ {
			dzdx, dzdy := hornGradient(hf, row, col, cellSize)
			magnitude := math.Hypot(dzdx, dzdy)
			if magnitude < flatGradientThreshold {
				nFlat++
				continue
			}
			aspectRad := math.Atan2(dzdx, -dzdy)
			sumCos += math.Cos(aspectRad)
			sumSin += math.Sin(aspectRad)
			nValid++
		}
	}

	flatFraction := float64(nFlat) / float64(nInterior)
	if nValid == 0 {
		return AspectResult{CircularVariance: math.NaN(), MeanAspectDeg: math.NaN(), FlatFraction: flatFraction}
	}

	n := float64(nValid)
	rx := sumCos / n
	ry := sumSin / n
	meanResultant := math.Hypot(rx, ry)
	circularVariance := 1 - meanResultant

	meanRad := math.Atan2(ry, rx)
	meanDeg := meanRad * 180 / math.Pi
	if meanDeg < 0 {
		meanDeg += 360
	}

	return AspectResult{CircularVariance: circularVariance, MeanAspectDeg: meanDeg, FlatFraction: flatFraction}
}
