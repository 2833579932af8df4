package realism

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"planetforge/internal/worldgen/field"
)

// multifractalQs are the moment orders of spec.md §4.6, skipping q=0.
var multifractalQs = []float64{-2, -1, 1, 2}

// MultifractalSpectrumWidth fits log Sq(h) ∝ h^zeta(q) by OLS for each
// q in {-2,-1,1,2}, derives H(q) = zeta(q)/q, and returns
// H(-2) - H(2) (spec.md §4.6). Returns NaN if any required H(q) cannot be
// estimated (degenerate fit, or more than 90% of negative-moment pairs
// skipped at a lag).
func MultifractalSpectrumWidth(hf *field.Heightfield) float64 {
	width, height := hf.Width, hf.Height
	if width < 3 || height < 3 {
		return math.NaN()
	}
	data := make([]float64, width*height)
	for i := range data {
		data[i] = float64(hf.Data[i])
	}

	hq := make(map[float64]float64, len(multifractalQs))
	for _, q := range multifractalQs {
		h, ok := estimateHq(data, width, height, q)
		if !ok {
			return math.NaN()
		}
		hq[q] = h
	}

	return hq[-2] - hq[2]
}

func estimateHq(data []float64, width, height int, q float64) (float64, bool) {
	var logH, logSq []float64
	for _, h := range lags {
		sq := structureFunction(data, width, height, h, q)
		if math.IsNaN(sq) || sq <= 0 {
			continue
		}
		logH = append(logH, math.Log(float64(h)))
		logSq = append(logSq, math.Log(sq))
	}
	if len(logH) < 2 {
		return 0, false
	}
	_, zeta := stat.LinearRegression(logH, logSq, nil, false)
	if math.IsNaN(zeta) {
		return 0, false
	}
	return zeta / q, true
}
