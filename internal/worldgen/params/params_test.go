package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	p := Default(42)
	assert.Equal(t, uint64(42), p.Seed)
	assert.Equal(t, 0.50, p.TectonicActivity)
	assert.Equal(t, 0.55, p.WaterAbundance)
	assert.Equal(t, 0.50, p.SurfaceAge)
	assert.Equal(t, 0.50, p.ClimateDiversity)
	assert.Equal(t, 0.30, p.Glaciation)
	assert.Equal(t, 0.50, p.ContinentalFragmentation)
	assert.Equal(t, 0.50, p.MountainPrevalence)
}

func TestClampBoundsEverySlider(t *testing.T) {
	p := GlobalParams{
		Seed:                     1,
		TectonicActivity:         -1,
		WaterAbundance:           2,
		SurfaceAge:               -0.5,
		ClimateDiversity:         1.5,
		Glaciation:               -3,
		ContinentalFragmentation: 4,
		MountainPrevalence:       0.5,
	}
	c := p.Clamp()
	assert.Equal(t, uint64(1), c.Seed)
	assert.Equal(t, 0.0, c.TectonicActivity)
	assert.Equal(t, 1.0, c.WaterAbundance)
	assert.Equal(t, 0.0, c.SurfaceAge)
	assert.Equal(t, 1.0, c.ClimateDiversity)
	assert.Equal(t, 0.0, c.Glaciation)
	assert.Equal(t, 1.0, c.ContinentalFragmentation)
	assert.Equal(t, 0.5, c.MountainPrevalence)
}

func TestDeriveTerrainClassPriorityOrder(t *testing.T) {
	base := Default(1)

	alpine := base
	alpine.MountainPrevalence = 0.70
	assert.Equal(t, ClassAlpine, DeriveTerrainClass(alpine))

	// Alpine takes priority even when the cratonic condition also holds
	// (it can't here since MountainPrevalence>0.65 excludes <0.20, but
	// verify the boundary is exclusive on 0.65 itself).
	boundary := base
	boundary.MountainPrevalence = 0.65
	assert.NotEqual(t, ClassAlpine, DeriveTerrainClass(boundary))

	cratonic := base
	cratonic.MountainPrevalence = 0.10
	cratonic.TectonicActivity = 0.10
	assert.Equal(t, ClassCratonic, DeriveTerrainClass(cratonic))

	arid := base
	arid.MountainPrevalence = 0.50
	arid.TectonicActivity = 0.50
	arid.WaterAbundance = 0.10
	assert.Equal(t, ClassFluvialArid, DeriveTerrainClass(arid))

	humid := base
	assert.Equal(t, ClassFluvialHumid, DeriveTerrainClass(humid))
}

func TestDeriveGlacialClassThresholds(t *testing.T) {
	assert.Equal(t, GlacialNone, DeriveGlacialClass(0))
	assert.Equal(t, GlacialNone, DeriveGlacialClass(0.25))
	assert.Equal(t, GlacialFormer, DeriveGlacialClass(0.26))
	assert.Equal(t, GlacialFormer, DeriveGlacialClass(0.65))
	assert.Equal(t, GlacialActive, DeriveGlacialClass(0.66))
}

func TestResolveRidgeCountClampedTo2And10(t *testing.T) {
	p := Default(1)
	p.ContinentalFragmentation = 0
	r := Resolve(p)
	assert.Equal(t, 2, r.RidgeCount)

	p.ContinentalFragmentation = 1
	r = Resolve(p)
	assert.Equal(t, 10, r.RidgeCount)
}

func TestResolveHBaseAndVarianceClamped(t *testing.T) {
	p := Default(1)
	p.MountainPrevalence = 1
	p.SurfaceAge = 0
	r := Resolve(p)
	assert.LessOrEqual(t, r.HBase, 0.90)
	assert.GreaterOrEqual(t, r.HBase, 0.55)

	p.ClimateDiversity = 1
	r = Resolve(p)
	assert.LessOrEqual(t, r.HVariance, 0.25)
	assert.GreaterOrEqual(t, r.HVariance, 0.10)
}

func TestResolveErosionIterationsAndAngleMatchClass(t *testing.T) {
	p := Default(1)
	p.MountainPrevalence = 0.80
	r := Resolve(p)
	assert.Equal(t, ClassAlpine, r.TerrainClass)
	assert.Equal(t, 30, r.ErosionIterations)
	assert.Equal(t, 35.0, r.AngleOfReposeDeg)
}

func TestResolveWaterAbundanceZeroGivesLowPrecipitation(t *testing.T) {
	p := Default(1)
	p.WaterAbundance = 0
	r := Resolve(p)
	assert.Less(t, r.EquatorialPrecipitationBase, 1.0)
}
