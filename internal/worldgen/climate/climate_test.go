package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planetforge/internal/worldgen/field"
)

func flatRegime(width, height int, value field.Regime) *field.RegimeField {
	r := field.NewRegimeField(width, height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			r.Set(row, col, value)
		}
	}
	return r
}

func TestRunEmptyGrid(t *testing.T) {
	res := Run(42, 0.55, 0.5, 0.3, field.NewRegimeField(0, 0), 0, 0)
	assert.Empty(t, res.Precipitation.Data)
	assert.Empty(t, res.Seasonality.Data)
	assert.Empty(t, res.Glaciation.Rows)
}

func TestFieldSizesMatchGrid(t *testing.T) {
	const w, h = 64, 32
	regime := flatRegime(w, h, field.RegimePassiveMargin)
	res := Run(42, 0.55, 0.5, 0.3, regime, w, h)

	require.Len(t, res.Precipitation.Data, w*h)
	require.Len(t, res.Seasonality.Data, w*h)
	require.Len(t, res.Glaciation.Rows, h)
}

// Scenario 2 of spec.md §8: seed=42, water_abundance=0.55, climate_diversity=0,
// flat regime field -> equatorial precipitation (|lat|<=10) > 1500mm everywhere.
func TestEquatorialPrecipitationExceedsThreshold(t *testing.T) {
	const w, h = 512, 256
	regime := flatRegime(w, h, field.RegimePassiveMargin)
	res := Run(42, 0.55, 0, 0.3, regime, w, h)

	for row := 0; row < h; row++ {
		lat, _ := cellLatLon(row, 0, w, h)
		if lat < -10 || lat > 10 {
			continue
		}
		for col := 0; col < w; col++ {
			assert.Greater(t, res.Precipitation.Get(row, col), 1500.0)
		}
	}
}

// Scenario 3 of spec.md §8: a single ActiveCompressional column at the
// grid midline, flat prior precipitation of 1000mm; at row 16 (westerlies,
// eastward wind) column 36 should be far drier than column 28.
func TestOrographicLeewardDriesRelativeToWindward(t *testing.T) {
	const w, h = 64, 64
	regime := field.NewRegimeField(w, h)
	mountainCol := w / 2
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if col == mountainCol {
				regime.Set(row, col, field.RegimeActiveCompressional)
			} else {
				regime.Set(row, col, field.RegimePassiveMargin)
			}
		}
	}

	precip := field.NewScalarField64(w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			precip.Set(row, col, 1000)
		}
	}
	applyOrographicCorrection(precip, regime, w, h)

	windwardCol := mountainCol - 4
	leewardCol := mountainCol + 4
	assert.Less(t, precip.Get(16, leewardCol), 0.60*precip.Get(16, windwardCol))
}

func TestOrographicCorrectionLeavesMountainCellsUnchanged(t *testing.T) {
	const w, h = 64, 32
	regime := field.NewRegimeField(w, h)
	for row := 0; row < h; row++ {
		regime.Set(row, 10, field.RegimeActiveCompressional)
	}
	precip := field.NewScalarField64(w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			precip.Set(row, col, 1000)
		}
	}
	applyOrographicCorrection(precip, regime, w, h)
	for row := 0; row < h; row++ {
		assert.Equal(t, 1000.0, precip.Get(row, 10))
	}
}

func TestModulationIsIdentityAtZeroClimateDiversity(t *testing.T) {
	const w, h = 32, 16
	precip := field.NewScalarField64(w, h)
	for i := range precip.Data {
		precip.Data[i] = 1234.5
	}
	before := append([]float64(nil), precip.Data...)
	applyModulation(precip, 42, 0, w, h)
	assert.Equal(t, before, precip.Data)
}

// Scenario 4 of spec.md §8: water_abundance=1.0, climate_diversity=0, flat
// regime -> every cell with map>2500 has seasonality <= 0.8.
func TestSeasonalityBoundedWhenWet(t *testing.T) {
	const w, h = 512, 256
	regime := flatRegime(w, h, field.RegimePassiveMargin)
	res := Run(42, 1.0, 0, 0.3, regime, w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if res.Precipitation.Get(row, col) > 2500 {
				assert.LessOrEqual(t, res.Seasonality.Get(row, col), 0.8)
			}
		}
	}
}

func TestSeasonalityAtMostPointTwoAboveWetThreshold(t *testing.T) {
	precip := field.NewScalarField64(4, 4)
	for i := range precip.Data {
		precip.Data[i] = 3000
	}
	seasonality := field.NewScalarField64(4, 4)
	applySeasonality(seasonality, precip, 4, 4)
	for _, v := range seasonality.Data {
		assert.LessOrEqual(t, v, 0.2)
	}
}

// Scenario 5 of spec.md §8: glaciation=0.1 -> every Active cell has
// |latitude| > 60.
func TestGlaciationActiveCellsAboveSixtyDegrees(t *testing.T) {
	const h = 256
	mask := field.NewGlaciationMask(h)
	applyGlaciationMask(mask, 0.1, h)
	for row := 0; row < h; row++ {
		lat, _ := cellLatLon(row, 0, 1, h)
		if mask.At(row) == field.GlaciationActive {
			assert.Greater(t, abs(lat), 60.0)
		}
	}
}

func TestGlaciationAllNoneAtZeroSlider(t *testing.T) {
	const h = 128
	mask := field.NewGlaciationMask(h)
	applyGlaciationMask(mask, 0, h)
	for row := 0; row < h; row++ {
		assert.Equal(t, field.GlaciationNone, mask.At(row))
	}
}

func TestZeroWaterAbundanceKeepsPrecipitationBelowOneMM(t *testing.T) {
	const w, h = 64, 32
	regime := flatRegime(w, h, field.RegimePassiveMargin)
	res := Run(42, 0, 0, 0, regime, w, h)
	for _, v := range res.Precipitation.Data {
		assert.Less(t, v, 1.0)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
