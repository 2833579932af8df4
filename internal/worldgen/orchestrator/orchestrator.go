// Package orchestrator wires plate, climate, noise, hydraulic, and realism
// into the single generate(params) -> PlanetResult entry point of spec.md
// §4.7, grounded in the teacher's top-level generation pipeline (the
// function that runs ecosystem generation stage by stage, logging and
// timing each one through the same zerolog/Prometheus pair this package
// reuses via internal/plog and internal/pmetrics).
package orchestrator

import (
	"time"

	"planetforge/internal/perr"
	"planetforge/internal/plog"
	"planetforge/internal/pmetrics"
	"planetforge/internal/worldgen/climate"
	"planetforge/internal/worldgen/field"
	"planetforge/internal/worldgen/hydraulic"
	"planetforge/internal/worldgen/noise"
	"planetforge/internal/worldgen/params"
	"planetforge/internal/worldgen/plate"
	"planetforge/internal/worldgen/realism"
)

// climateSeedTag XORs into the seed before the climate stage, per spec.md
// §4.7 step 2 and §5's determinism rule.
const climateSeedTag uint64 = 0x5A5A

// MetricRecord is one realism metric's reporting record (spec.md §6.2): a
// name, its raw value, the normalised [0,1] score, a pass boolean, and the
// subsystem it belongs to.
type MetricRecord struct {
	Name      string
	Value     float64
	Score     float64
	Pass      bool
	Subsystem string
}

// RealismReport bundles the total score and every per-metric record.
type RealismReport struct {
	Total   float64
	Metrics []MetricRecord
}

// PlanetResult is the full output record of spec.md §6.2.
type PlanetResult struct {
	Heightfield   *field.Heightfield
	Regime        *field.RegimeField
	Precipitation *field.ScalarField64
	Realism       RealismReport
	Resolved      params.ResolvedParams
}

// Generate runs the full pipeline for the given parameters at the default
// grid resolution (spec.md §4.7).
func Generate(gp params.GlobalParams) PlanetResult {
	return GenerateGrid(gp, params.DefaultGrid.Width, params.DefaultGrid.Height)
}

// GenerateGrid runs the full pipeline at an explicit resolution, mainly for
// tests that need a smaller grid than the 512x256 default.
func GenerateGrid(gp params.GlobalParams, width, height int) PlanetResult {
	if width < 0 || height < 0 {
		panic(perr.New(perr.CodeInvalidDimensions, "grid dimensions must not be negative"))
	}
	gp = gp.Clamp()
	resolved := params.Resolve(gp)

	stop := plog.Stage("plate")
	plateRes := timedSimulate("plate", gp.Seed, gp.ContinentalFragmentation, width, height)
	stop()

	stop = plog.Stage("climate")
	climateRes := timedClimate("climate", gp.Seed^climateSeedTag, gp.WaterAbundance, gp.ClimateDiversity, gp.Glaciation, plateRes.Regime, width, height)
	stop()

	noiseParams := noise.DeriveParams(gp, plateRes, climateRes, width, height)

	stop = plog.Stage("noise")
	hf := timedSynthesize("noise", uint32(gp.Seed), noiseParams, width, height)
	stop()

	scaleElevations(hf, resolved.TectonicUplift*resolved.MountainScale)
	scaleErodibility(plateRes.Erodibility, resolved.ErosionFactor)

	stop = plog.Stage("hydraulic")
	timedShape("hydraulic", hf, plateRes.Erodibility, resolved.TerrainClass, resolved.GlacialClass)
	stop()

	stop = plog.Stage("realism")
	start := metricsStart()
	report := computeRealism(hf, resolved.TerrainClass)
	pmetrics.ObserveStage("realism", metricsElapsed(start))
	stop()

	pmetrics.RealismScore.Set(report.Total)
	pmetrics.GenerationsTotal.Inc()

	return PlanetResult{
		Heightfield:   hf,
		Regime:        plateRes.Regime,
		Precipitation: climateRes.Precipitation,
		Realism:       report,
		Resolved:      resolved,
	}
}

// Resolve echoes the derived internal parameters without running the
// pipeline (spec.md §4.7).
func Resolve(gp params.GlobalParams) params.ResolvedParams {
	return params.Resolve(gp)
}

func metricsStart() time.Time { return time.Now() }

func metricsElapsed(start time.Time) float64 { return time.Since(start).Seconds() }

func timedSimulate(stage string, seed uint64, fragmentation float64, width, height int) plate.Result {
	start := metricsStart()
	res := plate.Simulate(seed, fragmentation, width, height)
	pmetrics.ObserveStage(stage, metricsElapsed(start))
	return res
}

func timedClimate(stage string, seed uint64, waterAbundance, climateDiversity, glaciation float64, regime *field.RegimeField, width, height int) climate.Result {
	start := metricsStart()
	res := climate.Run(seed, waterAbundance, climateDiversity, glaciation, regime, width, height)
	pmetrics.ObserveStage(stage, metricsElapsed(start))
	return res
}

func timedSynthesize(stage string, seed32 uint32, p noise.Params, width, height int) *field.Heightfield {
	start := metricsStart()
	hf := noise.Synthesize(seed32, p, width, height)
	pmetrics.ObserveStage(stage, metricsElapsed(start))
	return hf
}

func timedShape(stage string, hf *field.Heightfield, erodibility *field.ErodibilityField, terrainClass params.TerrainClass, glacialClass params.GlacialClass) hydraulic.Result {
	start := metricsStart()
	res := hydraulic.Shape(hf, erodibility, terrainClass, glacialClass)
	pmetrics.ObserveStage(stage, metricsElapsed(start))
	return res
}

// scaleElevations applies the tectonic_uplift*mountain_scale multiplier of
// spec.md §4.7 step 5 to every cell in place.
func scaleElevations(hf *field.Heightfield, factor float64) {
	for i, v := range hf.Data {
		hf.Data[i] = float32(float64(v) * factor)
	}
}

// scaleErodibility applies the clamped erosion_factor of spec.md §4.7 step
// 6 to every cell in place, clamping the result back into [0,1].
func scaleErodibility(erodibility *field.ErodibilityField, factor float64) {
	for i, v := range erodibility.Data {
		scaled := float64(v) * factor
		if scaled < 0 {
			scaled = 0
		}
		if scaled > 1 {
			scaled = 1
		}
		erodibility.Data[i] = float32(scaled)
	}
}

func computeRealism(hf *field.Heightfield, class params.TerrainClass) RealismReport {
	mv := realism.Compute(hf)
	sc := realism.Score(mv, class)

	// Subsystem attribution follows spec.md §8 scenario 6: the three
	// metrics that characterize the noise-synthesis stage's fractal
	// structure (Hurst, roughness-elevation correlation, multifractal
	// width) are tagged "noise"; the seven metrics that characterize the
	// hydraulic-shaping stage's resulting landforms are tagged "hydraulic".
	records := []MetricRecord{
		{"hurst_exponent", mv.Hurst, sc.HurstScore, sc.HurstScore >= 0.5, "noise"},
		{"roughness_elevation_correlation", mv.RoughnessEl, sc.RoughnessEl, sc.RoughnessEl >= 0.5, "noise"},
		{"multifractal_spectrum_width", mv.Multifractal, sc.Multifractal, sc.Multifractal >= 0.5, "noise"},
		{"slope_mode_degrees", mv.Slope.ModeDeg, sc.SlopeMode, sc.SlopeMode >= 0.5, "hydraulic"},
		{"aspect_circular_variance", mv.Aspect.CircularVariance, sc.AspectCV, sc.AspectCV >= 0.5, "hydraulic"},
		{"tpi_ratio", mv.TPI.RatioMidToSmall, sc.TPIRatio, sc.TPIRatio >= 0.5, "hydraulic"},
		{"hypsometric_integral", mv.Hypsometric.Integral, sc.Hypsometric, sc.Hypsometric >= 0.5, "hydraulic"},
		{"drainage_density", mv.Drainage, sc.Drainage, sc.Drainage >= 0.5, "hydraulic"},
		{"morans_i", mv.MoranI, sc.MoranI, sc.MoranI >= 0.5, "hydraulic"},
		{"geomorphon_l1_distance", sc.GeomorphonL1, sc.Geomorphon, sc.Geomorphon >= 0.5, "hydraulic"},
	}
	return RealismReport{Total: sc.Total, Metrics: records}
}
