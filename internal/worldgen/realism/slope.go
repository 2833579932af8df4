package realism

import (
	"math"

	"planetforge/internal/worldgen/field"
)

// SlopeStats bundles the Horn-method slope distribution of spec.md §4.6:
// mode, mean, std, skewness in degrees, plus a 90-bin degree histogram
// (bin i covers [i, i+1) degrees).
type SlopeStats struct {
	ModeDeg     float64
	MeanDeg     float64
	StdDeg      float64
	SkewnessDeg float64
	Histogram   [90]float64 // normalised to sum 1.0
}

// ComputeSlopeStats applies the Horn (1981) gradient at every interior cell
// and summarises the resulting slope-angle distribution.
func ComputeSlopeStats(hf *field.Heightfield) SlopeStats {
	width, height := hf.Width, hf.Height
	if width < 3 || height < 3 {
		return SlopeStats{ModeDeg: math.NaN(), MeanDeg: math.NaN(), StdDeg: math.NaN(), SkewnessDeg: math.NaN()}
	}

	cellSize := hf.CellSizeMeters()
	var degrees []float64
	var hist [90]int
	for row := 1; row < height-1; row++ {
		for col := 0; col < width; col++ {
			dzdx, dzdy := hornGradient(hf, row, col, cellSize)
			deg := math.Atan(math.Hypot(dzdx, dzdy)) * 180 / math.Pi
			degrees = append(degrees, deg)
			bin := int(deg)
			if bin < 0 {
				bin = 0
			}
			if bin > 89 {
				bin = 89
			}
			hist[bin]++
		}
	}
	if len(degrees) == 0 {
		return SlopeStats{ModeDeg: math.NaN(), MeanDeg: math.NaN(), StdDeg: math.NaN(), SkewnessDeg: math.NaN()}
	}

	m := mean(degrees)
	sd := stdDev(degrees, m)
	skew := skewness(degrees, m, sd)

	modeBin, modeCount := 0, -1
	for i, c := range hist {
		if c > modeCount {
			modeCount = c
			modeBin = i
		}
	}

	var normHist [90]float64
	total := float64(len(degrees))
	for i, c := range hist {
		normHist[i] = float64(c) / total
	}

	return SlopeStats{
		ModeDeg:     float64(modeBin) + 0.5,
		MeanDeg:     m,
		StdDeg:      sd,
		SkewnessDeg: skew,
		Histogram:   normHist,
	}
}

func skewness(xs []float64, m, sd float64) float64 {
	if sd == 0 || len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range xs {
		z := (v - m) / sd
		sum += z * z * z
	}
	return sum / float64(len(xs))
}
