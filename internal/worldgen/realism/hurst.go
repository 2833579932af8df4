package realism

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"planetforge/internal/worldgen/field"
)

// lags is the isotropic lag range spec.md §4.6 uses for the Hurst and
// multifractal structure-function fits.
var lags = []int{2, 3, 4, 5, 6, 7, 8}

// EstimateHurst computes the Hurst exponent as the OLS slope of
// log S2(h) vs log h over lags 2..8, divided by 2. At planetary cellsize
// (>1000m) the per-cell local mean (box filter, radius = max(W,H)/3) is
// subtracted before computing the structure function so the measurement
// tracks detail roughness rather than basin-scale trends (spec.md §4.6).
func EstimateHurst(hf *field.Heightfield) float64 {
	width, height := hf.Width, hf.Height
	if width < 3 || height < 3 {
		return math.NaN()
	}

	data := detrended(hf)

	var logH, logS2 []float64
	for _, h := range lags {
		s2 := structureFunction(data, width, height, h, 2.0)
		if math.IsNaN(s2) || s2 <= 0 {
			continue
		}
		logH = append(logH, math.Log(float64(h)))
		logS2 = append(logS2, math.Log(s2))
	}
	if len(logH) < 2 {
		return math.NaN()
	}

	_, slope := stat.LinearRegression(logH, logS2, nil, false)
	if math.IsNaN(slope) {
		return math.NaN()
	}
	return slope / 2
}

// detrended subtracts a box-filter local mean (radius = max(W,H)/3) from
// every cell when the grid's cellsize exceeds the 1000m planetary
// threshold; otherwise it returns the raw elevations unchanged.
func detrended(hf *field.Heightfield) []float64 {
	width, height := hf.Width, hf.Height
	raw := make([]float64, width*height)
	for i := range raw {
		raw[i] = float64(hf.Data[i])
	}
	if hf.CellSizeMeters() <= 1000 {
		return raw
	}

	radius := height
	if width > radius {
		radius = width
	}
	radius /= 3
	if radius < 1 {
		radius = 1
	}

	out := make([]float64, len(raw))
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			sum := 0.0
			count := 0
			for dr := -radius; dr <= radius; dr++ {
				r := clampInt(row+dr, 0, height-1)
				for dc := -radius; dc <= radius; dc++ {
					c := wrapInt(col+dc, width)
					sum += raw[r*width+c]
					count++
				}
			}
			localMean := sum / float64(count)
			out[row*width+col] = raw[row*width+col] - localMean
		}
	}
	return out
}

// structureFunction computes Sq(h) = mean(|increment|^q) over both axes at
// lag h, skipping near-zero increments when q is negative (required to
// keep negative-moment averages finite). It returns NaN if more than 90%
// of candidate pairs were skipped.
func structureFunction(data []float64, width, height, h int, q float64) float64 {
	sum := 0.0
	count := 0
	skipped := 0
	total := 0

	consider := func(a, b float64) {
		total++
		d := b - a
		ad := math.Abs(d)
		if q < 0 && ad < 1e-6 {
			skipped++
			return
		}
		sum += math.Pow(ad, q)
		count++
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if col+h < width {
				consider(data[row*width+col], data[row*width+col+h])
			}
			if row+h < height {
				consider(data[row*width+col], data[(row+h)*width+col])
			}
		}
	}

	if total == 0 {
		return math.NaN()
	}
	if float64(skipped)/float64(total) > 0.9 {
		return math.NaN()
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
