package realism

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"planetforge/internal/worldgen/field"
)

// RoughnessElevationCorrelation returns the Pearson correlation between
// per-cell 3x3 elevation standard deviation and per-cell elevation
// percentile rank (spec.md §4.6). NaN for grids too small to carry an
// interior 3x3 window or with zero variance in either series.
func RoughnessElevationCorrelation(hf *field.Heightfield) float64 {
	width, height := hf.Width, hf.Height
	if width < 3 || height < 3 {
		return math.NaN()
	}

	elevations := make([]float64, width*height)
	for i := range elevations {
		elevations[i] = float64(hf.Data[i])
	}
	ranks := percentileRanks(elevations)

	var roughness, rank []float64
	for row := 1; row < height-1; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			roughness = append(roughness, localStdDev3x3(hf, row, col))
			rank = append(rank, ranks[idx])
		}
	}
	if len(roughness) < 2 {
		return math.NaN()
	}
	if stdDev(roughness, mean(roughness)) == 0 || stdDev(rank, mean(rank)) == 0 {
		return math.NaN()
	}
	return stat.Correlation(roughness, rank, nil)
}

func localStdDev3x3(hf *field.Heightfield, row, col int) float64 {
	width := hf.Width
	var values [9]float64
	i := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			c := wrapInt(col+dc, width)
			values[i] = hf.Get(row+dr, c)
			i++
		}
	}
	m := mean(values[:])
	return stdDev(values[:], m)
}
