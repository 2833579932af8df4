// Package params defines the external parameter contract of the planet
// generator (spec.md §6.1) and the resolved-parameter audit record
// (spec.md §6.3), mirroring the teacher orchestrator's plain-struct
// configuration convention (no file-based config loader: the whole surface
// is eight scalars).
package params

import "math"

// GlobalParams is the user-facing input to the pipeline: a seed plus seven
// sliders in [0,1]. Defaults are calibrated to Earth-like values per
// spec.md §6.1.
type GlobalParams struct {
	Seed uint64

	TectonicActivity         float64 // default 0.50
	WaterAbundance           float64 // default 0.55
	SurfaceAge               float64 // default 0.50
	ClimateDiversity         float64 // default 0.50
	Glaciation               float64 // default 0.30
	ContinentalFragmentation float64 // default 0.50
	MountainPrevalence       float64 // default 0.50
}

// Default returns the Earth-like default parameter set for the given seed.
func Default(seed uint64) GlobalParams {
	return GlobalParams{
		Seed:                     seed,
		TectonicActivity:         0.50,
		WaterAbundance:           0.55,
		SurfaceAge:               0.50,
		ClimateDiversity:         0.50,
		Glaciation:               0.30,
		ContinentalFragmentation: 0.50,
		MountainPrevalence:       0.50,
	}
}

// Clamp clamps every slider into [0,1], leaving Seed untouched. The
// orchestrator calls this before deriving anything so a caller's
// out-of-range slider cannot propagate NaNs or negative ranges downstream.
func (p GlobalParams) Clamp() GlobalParams {
	p.TectonicActivity = clamp01(p.TectonicActivity)
	p.WaterAbundance = clamp01(p.WaterAbundance)
	p.SurfaceAge = clamp01(p.SurfaceAge)
	p.ClimateDiversity = clamp01(p.ClimateDiversity)
	p.Glaciation = clamp01(p.Glaciation)
	p.ContinentalFragmentation = clamp01(p.ContinentalFragmentation)
	p.MountainPrevalence = clamp01(p.MountainPrevalence)
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TerrainClass is the per-tile terrain archetype derived from sliders
// (spec.md §4.4) and used to select elevation envelopes, erosion iteration
// counts, angle of repose, and realism reference bands.
type TerrainClass string

const (
	ClassAlpine       TerrainClass = "Alpine"
	ClassCratonic     TerrainClass = "Cratonic"
	ClassFluvialArid  TerrainClass = "FluvialArid"
	ClassFluvialHumid TerrainClass = "FluvialHumid"
	// ClassCoastal is reserved for scoring reference bands only; it is
	// never produced by DeriveTerrainClass (spec.md §4.4).
	ClassCoastal TerrainClass = "Coastal"
)

// DeriveTerrainClass applies the priority-ordered classification of
// spec.md §4.4.
func DeriveTerrainClass(p GlobalParams) TerrainClass {
	switch {
	case p.MountainPrevalence > 0.65:
		return ClassAlpine
	case p.MountainPrevalence < 0.20 && p.TectonicActivity < 0.30:
		return ClassCratonic
	case p.WaterAbundance < 0.30:
		return ClassFluvialArid
	default:
		return ClassFluvialHumid
	}
}

// GlacialClass mirrors the plate/climate glaciation mask classes but here
// names a single representative class for the tile's noise/hydraulic
// parameters (spec.md §4.4).
type GlacialClass string

const (
	GlacialNone   GlacialClass = "None"
	GlacialFormer GlacialClass = "Former"
	GlacialActive GlacialClass = "Active"
)

// DeriveGlacialClass applies the slider thresholds of spec.md §4.4.
func DeriveGlacialClass(glaciation float64) GlacialClass {
	switch {
	case glaciation > 0.65:
		return GlacialActive
	case glaciation > 0.25:
		return GlacialFormer
	default:
		return GlacialNone
	}
}

// GridDimensions is the default internal raster resolution (spec.md §2).
type GridDimensions struct {
	Width, Height int
}

// DefaultGrid is the default 2:1 equirectangular grid.
var DefaultGrid = GridDimensions{Width: 512, Height: 256}

// ResolvedParams echoes the derived internal parameters for a given
// GlobalParams without running the pipeline (spec.md §4.7 resolve entry
// point, §6.3).
type ResolvedParams struct {
	TerrainClass                TerrainClass
	GlacialClass                GlacialClass
	HBase                       float64
	HVariance                   float64
	ErosionIterations           int
	AngleOfReposeDeg            float64
	RidgeCount                  int
	TectonicUplift              float64
	MountainScale               float64
	EquatorialPrecipitationBase float64
	ErosionFactor               float64
	GrainIntensityRescale       float64
	WarpAmplitudeMacro          float64
	WarpAmplitudeMicro          float64
}

// erosionIterationsByClass implements the per-class iteration counts of
// spec.md §4.5.
var erosionIterationsByClass = map[TerrainClass]int{
	ClassAlpine:       30,
	ClassFluvialHumid: 50,
	ClassFluvialArid:  20,
	ClassCratonic:     10,
	ClassCoastal:      25,
}

// angleOfReposeByClass implements the angle-of-repose table of spec.md §4.5.
var angleOfReposeByClass = map[TerrainClass]float64{
	ClassAlpine:       35,
	ClassFluvialHumid: 30,
	ClassFluvialArid:  35,
	ClassCratonic:     25,
	ClassCoastal:      20,
}

// Resolve computes the audit record of spec.md §6.3/§4.7 without running
// the pipeline.
func Resolve(p GlobalParams) ResolvedParams {
	p = p.Clamp()
	class := DeriveTerrainClass(p)
	glacial := DeriveGlacialClass(p.Glaciation)

	hBase := clampRange(0.65+0.20*p.MountainPrevalence-0.10*p.SurfaceAge, 0.55, 0.90)
	hVariance := clampRange(0.10+0.15*p.ClimateDiversity, 0.10, 0.25)

	ridgeCount := int(roundHalfAwayFromZero(2 + 8*p.ContinentalFragmentation))
	if ridgeCount < 2 {
		ridgeCount = 2
	}
	if ridgeCount > 10 {
		ridgeCount = 10
	}

	tectonicUplift := 0.5 + 1.5*p.TectonicActivity
	mountainScale := 0.7 + 0.6*p.MountainPrevalence

	erosionFactor := clampRange((0.3+1.4*p.WaterAbundance)*(0.3+1.4*p.SurfaceAge), 0.05, 2.0)

	grainIntensityRescale := clampRange(0.5+0.5*p.TectonicActivity, 0, 1) * clampRange(1-0.5*p.SurfaceAge, 0, 1)

	return ResolvedParams{
		TerrainClass:                class,
		GlacialClass:                glacial,
		HBase:                       hBase,
		HVariance:                   hVariance,
		ErosionIterations:           erosionIterationsByClass[class],
		AngleOfReposeDeg:            angleOfReposeByClass[class],
		RidgeCount:                  ridgeCount,
		TectonicUplift:              tectonicUplift,
		MountainScale:               mountainScale,
		EquatorialPrecipitationBase: latitudinalPrecipitationBase(0, p.WaterAbundance),
		ErosionFactor:               erosionFactor,
		GrainIntensityRescale:       grainIntensityRescale,
		WarpAmplitudeMacro:          0.015,
		WarpAmplitudeMicro:          0.004,
	}
}

// latitudinalPrecipitationBase is shared with the climate package's
// formula (spec.md §4.3); duplicated here at |phi|=0 only for the resolve
// audit so params has no import cycle on climate.
func latitudinalPrecipitationBase(absLat, waterAbundance float64) float64 {
	v := 2200*math.Exp(-(absLat*absLat)/288) -
		800*math.Exp(-((absLat-28)*(absLat-28))/128) +
		600*math.Exp(-((absLat-50)*(absLat-50))/450) +
		200
	if v < 80 {
		v = 80
	}
	return v * (waterAbundance / 0.55)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int(v + 0.5))
	}
	return float64(int(v - 0.5))
}
