package hydraulic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planetforge/internal/worldgen/field"
	"planetforge/internal/worldgen/params"
)

func TestShapePanicsOnErodibilitySizeMismatch(t *testing.T) {
	hf := randomHeightfield(16, 8, 1)
	mismatched := flatErodibility(8, 8, 0.5)
	assert.Panics(t, func() {
		Shape(hf, mismatched, params.ClassFluvialHumid, params.GlacialNone)
	})
}

func flatErodibility(width, height int, v float64) *field.ErodibilityField {
	e := field.NewErodibilityField(width, height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			e.Set(row, col, v)
		}
	}
	return e
}

func randomHeightfield(width, height int, seed int) *field.Heightfield {
	hf := field.NewHeightfield(width, height)
	x := seed
	for i := range hf.Data {
		x = (x*1103515245 + 12345) & 0x7fffffff
		hf.Data[i] = float32(x%1000) + 100
	}
	return hf
}

func TestShapeEmptyGrid(t *testing.T) {
	hf := field.NewHeightfield(0, 0)
	res := Shape(hf, field.NewErodibilityField(0, 0), params.ClassFluvialHumid, params.GlacialNone)
	assert.Equal(t, 0, len(res.Flow.Direction))
	assert.Equal(t, 0, len(res.Streams.IsStream))
	assert.Equal(t, 0, len(res.Basins))
}

func TestFillPitsProducesNonDecreasingPathToEdge(t *testing.T) {
	const w, h = 16, 16
	hf := field.NewHeightfield(w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			hf.Set(row, col, 500)
		}
	}
	hf.Set(8, 8, 10) // a deep pit in the interior

	fillPits(hf)
	assert.GreaterOrEqual(t, hf.Get(8, 8), 500.0)
}

func TestFlowDirectionSinkWhenNoLowerNeighbour(t *testing.T) {
	const w, h = 8, 8
	hf := field.NewHeightfield(w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			hf.Set(row, col, 100)
		}
	}
	hf.Set(4, 4, 50) // local minimum
	flow := computeFlowDirections(hf)
	assert.Equal(t, uint8(0), flow.DirectionAt(4, 4))
}

func TestBasinAreaSumsToGridSize(t *testing.T) {
	const w, h = 32, 16
	hf := randomHeightfield(w, h, 7)
	erod := flatErodibility(w, h, 0.5)
	res := Shape(hf, erod, params.ClassCratonic, params.GlacialNone)

	total := 0
	for _, b := range res.Basins {
		total += b.CellCount
	}
	assert.Equal(t, w*h, total)
	assert.Len(t, res.BasinIDs, w*h)
}

func TestMassWastingConservesTotalElevation(t *testing.T) {
	const w, h = 16, 16
	hf := field.NewHeightfield(w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			hf.Set(row, col, float64(row*10+col))
		}
	}
	before := 0.0
	for _, v := range hf.Data {
		before += float64(v)
	}
	applyMassWasting(hf, 30)
	after := 0.0
	for _, v := range hf.Data {
		after += float64(v)
	}
	relErr := math.Abs(after-before) / math.Abs(before)
	assert.Less(t, relErr, 1e-4)
}

func TestStreamPowerErosionNeverIncreasesMaxElevation(t *testing.T) {
	const w, h = 32, 16
	hf := randomHeightfield(w, h, 3)
	fillPits(hf)
	flow := computeFlowDirections(hf)
	computeAccumulation(hf, flow)
	erod := flatErodibility(w, h, 0.5)

	_, maxBefore := hf.MinMax()
	applyStreamPowerErosion(hf, flow, erod)
	_, maxAfter := hf.MinMax()

	assert.LessOrEqual(t, maxAfter, maxBefore+1e-9)
}

func TestShapeIsDeterministic(t *testing.T) {
	const w, h = 24, 12
	erod := flatErodibility(w, h, 0.5)
	a := Shape(randomHeightfield(w, h, 11), erod, params.ClassFluvialArid, params.GlacialNone)
	b := Shape(randomHeightfield(w, h, 11), erod, params.ClassFluvialArid, params.GlacialNone)
	assert.Equal(t, a.Flow.Direction, b.Flow.Direction)
	assert.Equal(t, a.Flow.Accumulation, b.Flow.Accumulation)
}

func TestStrahlerOrdersNeverExceedMaxOrder(t *testing.T) {
	const w, h = 16, 8
	hf := randomHeightfield(w, h, 5)
	erod := flatErodibility(w, h, 0.5)
	res := Shape(hf, erod, params.ClassFluvialHumid, params.GlacialNone)
	require.NotNil(t, res.Streams)
	for _, order := range res.Streams.StrahlerOrder {
		assert.LessOrEqual(t, order, res.Streams.MaxOrder)
	}
}

func TestGlacialCarvingNeverRaisesElevation(t *testing.T) {
	const w, h = 24, 24
	hf := randomHeightfield(w, h, 9)
	fillPits(hf)
	flow := computeFlowDirections(hf)
	computeAccumulation(hf, flow)
	before := append([]float32(nil), hf.Data...)

	applyGlacialCarving(hf, flow)

	for i, v := range hf.Data {
		assert.LessOrEqual(t, float64(v), float64(before[i])+1e-6)
	}
}
