package realism

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planetforge/internal/worldgen/field"
	"planetforge/internal/worldgen/params"
)

func flatField(w, h int, z float64) *field.Heightfield {
	hf := field.NewHeightfield(w, h)
	for i := range hf.Data {
		hf.Data[i] = float32(z)
	}
	return hf
}

func rampField(w, h int) *field.Heightfield {
	hf := field.NewHeightfield(w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			hf.Set(row, col, float64(col)*100)
		}
	}
	return hf
}

func TestHypsometricFlatIsNaN(t *testing.T) {
	hf := flatField(64, 32, 500)
	res := ComputeHypsometric(hf)
	assert.True(t, math.IsNaN(res.Integral))
}

func TestHypsometricRampInBounds(t *testing.T) {
	hf := rampField(64, 32)
	res := ComputeHypsometric(hf)
	require.False(t, math.IsNaN(res.Integral))
	assert.True(t, res.Integral >= 0 && res.Integral <= 1)
	assert.InDelta(t, 1.0, res.CDF[0], 1e-9)
}

func TestAspectEastRampLowCircularVariance(t *testing.T) {
	hf := rampField(128, 64)
	res := ComputeAspect(hf)
	require.False(t, math.IsNaN(res.CircularVariance))
	assert.Less(t, res.CircularVariance, 0.05)
}

func TestAspectFlatFieldIsNaN(t *testing.T) {
	hf := flatField(64, 32, 200)
	res := ComputeAspect(hf)
	assert.True(t, math.IsNaN(res.CircularVariance))
	assert.Equal(t, 1.0, res.FlatFraction)
}

func TestGeomorphonHistogramSumsToOne(t *testing.T) {
	hf := rampField(64, 32)
	hist := GeomorphonHistogram(hf)
	sum := 0.0
	for _, v := range hist {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestGeomorphonFlatFieldIsAllFlat(t *testing.T) {
	hf := flatField(64, 32, 300)
	hist := GeomorphonHistogram(hf)
	assert.InDelta(t, 1.0, hist[LandformFlat], 1e-9)
}

func TestSlopeStatsFlatFieldIsZero(t *testing.T) {
	hf := flatField(64, 32, 300)
	s := ComputeSlopeStats(hf)
	assert.InDelta(t, 0, s.MeanDeg, 1e-9)
	assert.InDelta(t, 0, s.StdDeg, 1e-9)
}

func TestTPIFlatFieldIsZero(t *testing.T) {
	hf := flatField(64, 32, 300)
	res := ComputeTPI(hf)
	for _, sd := range res.StdDevByRadius {
		assert.InDelta(t, 0, sd, 1e-9)
	}
}

func TestDrainageDensityNonNegative(t *testing.T) {
	hf := rampField(64, 32)
	d := DrainageDensity(hf)
	assert.GreaterOrEqual(t, d, 0.0)
}

func TestMoranISmallGridIsNaN(t *testing.T) {
	hf := flatField(16, 16, 100)
	assert.True(t, math.IsNaN(MoranI(hf)))
}

func TestMoranIConstantFieldIsNaN(t *testing.T) {
	hf := flatField(128, 128, 100)
	assert.True(t, math.IsNaN(MoranI(hf)))
}

func TestRoughnessElevationCorrelationBounded(t *testing.T) {
	hf := rampField(128, 64)
	r := RoughnessElevationCorrelation(hf)
	if !math.IsNaN(r) {
		assert.True(t, r >= -1 && r <= 1)
	}
}

func TestHurstSmallGridSmoothSurface(t *testing.T) {
	hf := rampField(64, 32)
	for i := range hf.Data {
		hf.Data[i] *= 50
	}
	h := EstimateHurst(hf)
	assert.False(t, math.IsNaN(h))
}

func TestMultifractalWidthOfEastRamp(t *testing.T) {
	// Every east-west increment at lag h is 5000h and every north-south one
	// is 0. The zero increments are skipped for q<0, so H(-2) is 1, but they
	// are averaged in for q=2, where the share of non-zero pairs grows with h
	// and lifts H(2) to about 1.0206. The width H(-2)-H(2) is slightly negative.
	hf := rampField(64, 32)
	for i := range hf.Data {
		hf.Data[i] *= 50
	}
	w := MultifractalSpectrumWidth(hf)
	require.False(t, math.IsNaN(w))
	assert.InDelta(t, -0.0206, w, 1e-3)
}

func TestScoreBandInsideIsOne(t *testing.T) {
	b := band{10, 20}
	assert.Equal(t, 1.0, scoreBand(15, b))
}

func TestScoreBandDecaysOutsideAndFloorsAtZero(t *testing.T) {
	b := band{10, 20}
	assert.InDelta(t, 0.5, scoreBand(25, b), 1e-9)
	assert.Equal(t, 0.0, scoreBand(100, b))
}

func TestScoreBandNaNIsZero(t *testing.T) {
	assert.Equal(t, 0.0, scoreBand(math.NaN(), band{10, 20}))
}

func TestScoreGeomorphonPerfectMatchIsOne(t *testing.T) {
	ref := referenceGeomorphon[params.ClassCratonic]
	assert.Equal(t, 1.0, scoreGeomorphon(ref, ref))
}

func TestScoreTotalWithinZeroToHundred(t *testing.T) {
	hf := rampField(64, 32)
	for i := range hf.Data {
		hf.Data[i] *= 50
	}
	mv := Compute(hf)
	res := Score(mv, params.ClassFluvialArid)
	assert.True(t, res.Total >= 0 && res.Total <= 100)
}
