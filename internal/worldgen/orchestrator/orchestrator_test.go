package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planetforge/internal/worldgen/params"
)

func TestGenerateGridDeterministic(t *testing.T) {
	gp := params.Default(42)
	a := GenerateGrid(gp, 64, 32)
	b := GenerateGrid(gp, 64, 32)

	require.Equal(t, len(a.Heightfield.Data), len(b.Heightfield.Data))
	for i := range a.Heightfield.Data {
		assert.Equal(t, a.Heightfield.Data[i], b.Heightfield.Data[i])
	}
	assert.Equal(t, a.Realism.Total, b.Realism.Total)
}

func TestGenerateGridZeroDimensions(t *testing.T) {
	gp := params.Default(1)
	res := GenerateGrid(gp, 0, 0)
	assert.Equal(t, 0, len(res.Heightfield.Data))
}

func TestGenerateGridPanicsOnNegativeDimensions(t *testing.T) {
	gp := params.Default(1)
	assert.Panics(t, func() {
		GenerateGrid(gp, -1, 8)
	})
}

func TestGenerateGridProducesFiniteRealismScore(t *testing.T) {
	gp := params.Default(7)
	res := GenerateGrid(gp, 64, 32)
	assert.True(t, res.Realism.Total >= 0 && res.Realism.Total <= 100)
	assert.NotEmpty(t, res.Realism.Metrics)
}

func TestResolveMatchesParamsResolve(t *testing.T) {
	gp := params.Default(3)
	got := Resolve(gp)
	want := params.Resolve(gp)
	assert.Equal(t, want, got)
}

func TestRealismSubsystemAttribution(t *testing.T) {
	// spec.md §8 scenario 6: 3 noise metrics, 7 hydraulic metrics.
	gp := params.Default(42)
	res := GenerateGrid(gp, 64, 32)

	var noiseCount, hydraulicCount int
	for _, m := range res.Realism.Metrics {
		switch m.Subsystem {
		case "noise":
			noiseCount++
		case "hydraulic":
			hydraulicCount++
		}
	}
	assert.Equal(t, 3, noiseCount)
	assert.Equal(t, 7, hydraulicCount)
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	a := GenerateGrid(params.Default(1), 64, 32)
	b := GenerateGrid(params.Default(2), 64, 32)
	differs := false
	for i := range a.Heightfield.Data {
		if a.Heightfield.Data[i] != b.Heightfield.Data[i] {
			differs = true
			break
		}
	}
	assert.True(t, differs)
}
