package realism

import (
	"math"

	"planetforge/internal/worldgen/field"
)

// tpiRadii are the kernel radii in cells of spec.md §4.6.
var tpiRadii = [3]int{5, 10, 20}

// TPIResult bundles the topographic-position-index statistics of
// spec.md §4.6: the standard deviation of z - mean(z in a circular kernel)
// at R=5,10,20 cells, the inter-scale ratios, and a scale-dependence flag.
type TPIResult struct {
	StdDevByRadius  [3]float64 // indexed by tpiRadii
	RatioMidToSmall float64    // StdDev(R10)/StdDev(R5)
	RatioLargeToMid float64    // StdDev(R20)/StdDev(R10)
	ScaleDependent  bool       // true if both ratios deviate from 1 by >10%
}

// ComputeTPI evaluates TPI = z - mean(z in circular kernel) at each of the
// three radii and returns the standard deviation of that residual field,
// plus the inter-scale ratios spec.md §4.6 calls for.
func ComputeTPI(hf *field.Heightfield) TPIResult {
	var res TPIResult
	for i, r := range tpiRadii {
		res.StdDevByRadius[i] = tpiStdDevAtRadius(hf, r)
	}
	if res.StdDevByRadius[0] > 0 {
		res.RatioMidToSmall = res.StdDevByRadius[1] / res.StdDevByRadius[0]
	}
	if res.StdDevByRadius[1] > 0 {
		res.RatioLargeToMid = res.StdDevByRadius[2] / res.StdDevByRadius[1]
	}
	res.ScaleDependent = math.Abs(res.RatioMidToSmall-1) > 0.10 && math.Abs(res.RatioLargeToMid-1) > 0.10
	return res
}

func tpiStdDevAtRadius(hf *field.Heightfield, radius int) float64 {
	width, height := hf.Width, hf.Height
	if width == 0 || height == 0 {
		return math.NaN()
	}

	offsets := circularOffsets(radius)
	values := make([]float64, 0, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			z := hf.Get(row, col)
			sum := 0.0
			for _, o := range offsets {
				r := clampInt(row+o.dr, 0, height-1)
				c := wrapInt(col+o.dc, width)
				sum += hf.Get(r, c)
			}
			kernelMean := sum / float64(len(offsets))
			values = append(values, z-kernelMean)
		}
	}
	return stdDev(values, mean(values))
}

type cellOffset struct{ dr, dc int }

// circularOffsets returns the integer (dr,dc) offsets within a circular
// kernel of the given radius (in cells), excluding the center cell.
func circularOffsets(radius int) []cellOffset {
	var out []cellOffset
	rSq := float64(radius * radius)
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if float64(dr*dr+dc*dc) <= rSq {
				out = append(out, cellOffset{dr, dc})
			}
		}
	}
	return out
}
