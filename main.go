package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-twostream-rt/pkg/atmosphere"
	"github.com/df07/go-twostream-rt/pkg/ensemble"
	"github.com/df07/go-twostream-rt/pkg/integrator"
	"github.com/df07/go-twostream-rt/pkg/loaders"
	"github.com/df07/go-twostream-rt/pkg/phase"
)

func main() {
	// Atmosphere selection
	preset := flag.String("preset", atmosphere.DefaultPreset, "Built-in atmosphere preset")
	deckPath := flag.String("deck", "", "YAML deck file with named atmospheres")
	name := flag.String("name", "", "Atmosphere name within the deck")
	tau := flag.Float64("tau", 0, "Override total optical depth")
	omega0 := flag.Float64("omega0", 0, "Override single-scattering albedo")
	g := flag.Float64("g", 0, "Override scattering asymmetry")
	albedo := flag.Float64("albedo", 0, "Override surface albedo")

	// Run configuration
	photons := flag.Int("photons", 0, "Number of photons to trace (0 uses the default)")
	seed := flag.Int64("seed", 0, "Random seed (0 uses the default)")
	model := flag.String("model", "", "Phase model: 'isotropic' or 'henyey-greenstein'")
	mode := flag.String("mode", "", "Termination mode: 'absorb' or 'decay'")
	cutoff := flag.Float64("cutoff", 0, "Weight cutoff for decay mode (0 uses the default)")
	bins := flag.Int("bins", 0, "Depth histogram bins (0 uses the default)")
	paths := flag.Int("paths", 0, "Number of photon paths to record")
	workers := flag.Int("workers", 0, "Worker goroutines (0 uses all CPUs)")

	// Output
	jsonOut := flag.Bool("json", false, "Emit the full result as JSON on stdout")
	listPresets := flag.Bool("list-presets", false, "List the built-in presets and exit")
	verbose := flag.Bool("v", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Two-Stream Photon Simulator")
		fmt.Println("Usage: twostream [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("The atmosphere comes from a preset (-preset) or a YAML deck")
		fmt.Println("(-deck with -name). Individual parameters can be overridden")
		fmt.Println("with -tau, -omega0, -g and -albedo.")
		return
	}

	if *listPresets {
		for _, presetName := range atmosphere.PresetNames() {
			atm, err := atmosphere.Preset(presetName)
			if err != nil {
				continue
			}
			marker := " "
			if presetName == atmosphere.DefaultPreset {
				marker = "*"
			}
			fmt.Printf("%s %-14s %s\n", marker, presetName, atm)
		}
		return
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	// Only flags the user actually passed override the base atmosphere
	overrides := make(map[string]float64)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tau":
			overrides["tau"] = *tau
		case "omega0":
			overrides["omega0"] = *omega0
		case "g":
			overrides["g"] = *g
		case "albedo":
			overrides["albedo"] = *albedo
		}
	})

	atm, err := buildAtmosphere(*preset, *deckPath, *name, overrides)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid atmosphere")
	}

	cfg := ensemble.DefaultConfig()
	if *photons > 0 {
		cfg.NumPhotons = *photons
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *cutoff > 0 {
		cfg.WeightCutoff = *cutoff
	}
	if *bins > 0 {
		cfg.HistogramBins = *bins
	}
	if *paths > 0 {
		cfg.SamplePaths = *paths
	}
	cfg.NumWorkers = *workers
	if *model != "" {
		if cfg.PhaseModel, err = phase.ParseModel(*model); err != nil {
			logger.Fatal().Err(err).Msg("invalid phase model")
		}
	}
	if *mode != "" {
		if cfg.Mode, err = integrator.ParseTerminationMode(*mode); err != nil {
			logger.Fatal().Err(err).Msg("invalid termination mode")
		}
	}

	sim, err := ensemble.NewSimulator(atm, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Stringer("atmosphere", atm).Int("photons", cfg.NumPhotons).Msg("starting simulation")

	startTime := time.Now()
	result, err := sim.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn().Msg("simulation interrupted")
			os.Exit(1)
		}
		logger.Fatal().Err(err).Msg("simulation failed")
	}
	elapsed := time.Since(startTime)

	if *jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			logger.Fatal().Err(err).Msg("encode result")
		}
		fmt.Println(string(data))
		return
	}

	printSummary(result, elapsed)
}

// buildAtmosphere resolves the base atmosphere from a preset or a deck
// entry and applies any explicit parameter overrides
func buildAtmosphere(preset, deckPath, name string, overrides map[string]float64) (atmosphere.Atmosphere, error) {
	var base atmosphere.Atmosphere

	if deckPath != "" {
		deck, err := loaders.LoadDeck(deckPath)
		if err != nil {
			return atmosphere.Atmosphere{}, err
		}
		if name == "" {
			return atmosphere.Atmosphere{}, fmt.Errorf("-name is required with -deck (available: %s)",
				strings.Join(deck.Names(), ", "))
		}
		atm, ok := deck.Get(name)
		if !ok {
			return atmosphere.Atmosphere{}, fmt.Errorf("no atmosphere %q in deck (available: %s)",
				name, strings.Join(deck.Names(), ", "))
		}
		base = atm
	} else {
		atm, err := atmosphere.Preset(preset)
		if err != nil {
			return atmosphere.Atmosphere{}, err
		}
		base = atm
	}

	if v, ok := overrides["tau"]; ok {
		base.TauMax = v
	}
	if v, ok := overrides["omega0"]; ok {
		base.Omega0 = v
	}
	if v, ok := overrides["g"]; ok {
		base.G = v
	}
	if v, ok := overrides["albedo"]; ok {
		base.SurfaceAlbedo = v
	}

	return atmosphere.New(base.TauMax, base.Omega0, base.G, base.SurfaceAlbedo)
}

func printSummary(result *ensemble.Result, elapsed time.Duration) {
	fmt.Printf("Simulation completed in %v\n", elapsed)
	fmt.Printf("Photons: %d (seed %d)\n", result.NumPhotons, result.Seed)
	fmt.Printf("  Reflected:   %8d   R = %.5f\n", result.ReflectedCount, result.Reflectance)
	fmt.Printf("  Transmitted: %8d   T = %.5f\n", result.TransmittedCount, result.Transmittance)
	fmt.Printf("  Absorbed:    %8d   A = %.5f\n", result.AbsorbedCount, result.Absorptance)
	fmt.Printf("  Energy budget: R+T+A = %.6f\n",
		result.Reflectance+result.Transmittance+result.Absorptance)

	if result.ScatterProfile != nil && result.ScatterProfile.Total() > 0 {
		fmt.Printf("  Peak scattering depth: tau = %.3f\n", result.ScatterProfile.PeakDepth())
	}
	if result.NumPhotons > 0 {
		fmt.Printf("  Mean steps per photon: %.1f\n",
			float64(result.TotalSteps)/float64(result.NumPhotons))
	}
}
