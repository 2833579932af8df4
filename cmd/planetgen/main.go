// Command planetgen is a thin CLI collaborator around the generation core
// (spec.md §1): it parses flags into a GlobalParams, runs generate() or
// resolve(), and prints a summary. It owns no persistence and starts no
// server; a host process embedding the core for that is out of scope here.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"planetforge/internal/imaging"
	"planetforge/internal/plog"
	"planetforge/internal/worldgen/orchestrator"
	"planetforge/internal/worldgen/params"
)

func main() {
	var (
		seed          = flag.Uint64("seed", 1, "generation seed")
		tectonic      = flag.Float64("tectonic-activity", 0.50, "tectonic activity [0,1]")
		water         = flag.Float64("water-abundance", 0.55, "water abundance [0,1]")
		age           = flag.Float64("surface-age", 0.50, "surface age [0,1]")
		climate       = flag.Float64("climate-diversity", 0.50, "climate diversity [0,1]")
		glaciation    = flag.Float64("glaciation", 0.30, "glaciation [0,1]")
		fragmentation = flag.Float64("continental-fragmentation", 0.50, "continental fragmentation [0,1]")
		mountains     = flag.Float64("mountain-prevalence", 0.50, "mountain prevalence [0,1]")
		resolveOnly   = flag.Bool("resolve", false, "print resolved parameters and exit without generating")
		verbose       = flag.Bool("verbose", false, "emit debug-level stage logs")
		pngOut        = flag.String("png", "", "optional path to write a diagnostic heightfield PNG")
	)
	flag.Parse()

	if *verbose {
		plog.SetLevel(zerolog.DebugLevel)
	} else {
		plog.SetLevel(zerolog.InfoLevel)
	}

	gp := params.GlobalParams{
		Seed:                     *seed,
		TectonicActivity:         *tectonic,
		WaterAbundance:           *water,
		SurfaceAge:               *age,
		ClimateDiversity:         *climate,
		Glaciation:               *glaciation,
		ContinentalFragmentation: *fragmentation,
		MountainPrevalence:       *mountains,
	}.Clamp()

	if *resolveOnly {
		printResolved(orchestrator.Resolve(gp))
		return
	}

	start := time.Now()
	result := orchestrator.Generate(gp)
	plog.Logger.Info().Dur("total_duration", time.Since(start)).Msg("generation complete")

	printResolved(result.Resolved)
	fmt.Printf("realism score: %.2f\n", result.Realism.Total)
	for _, m := range result.Realism.Metrics {
		status := "fail"
		if m.Pass {
			status = "pass"
		}
		fmt.Printf("  %-32s value=%.4f score=%.3f %s\n", m.Name, m.Value, m.Score, status)
	}

	if *pngOut != "" {
		if err := imaging.WriteHeightfieldPNG(result.Heightfield, *pngOut); err != nil {
			plog.Logger.Error().Err(err).Str("path", *pngOut).Msg("failed to write diagnostic PNG")
			os.Exit(1)
		}
	}
}

func printResolved(r params.ResolvedParams) {
	fmt.Printf("terrain class:        %s\n", r.TerrainClass)
	fmt.Printf("glacial class:        %s\n", r.GlacialClass)
	fmt.Printf("h_base / h_variance:  %.3f / %.3f\n", r.HBase, r.HVariance)
	fmt.Printf("erosion iterations:   %d\n", r.ErosionIterations)
	fmt.Printf("angle of repose:      %.1f deg\n", r.AngleOfReposeDeg)
	fmt.Printf("ridge count:          %d\n", r.RidgeCount)
	fmt.Printf("tectonic uplift:      %.3f\n", r.TectonicUplift)
	fmt.Printf("mountain scale:       %.3f\n", r.MountainScale)
	fmt.Printf("equatorial precip:    %.1f mm/yr\n", r.EquatorialPrecipitationBase)
	fmt.Printf("erosion factor:       %.3f\n", r.ErosionFactor)
	fmt.Printf("grain intensity rsc:  %.3f\n", r.GrainIntensityRescale)
	fmt.Printf("warp amplitude m/µ:   %.3f / %.3f\n", r.WarpAmplitudeMacro, r.WarpAmplitudeMicro)
}
