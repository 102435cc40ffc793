package ensemble

import (
	"fmt"

	"github.com/df07/go-twostream-rt/pkg/integrator"
	"github.com/df07/go-twostream-rt/pkg/phase"
)

// MaxPhotons caps a single run
const MaxPhotons = 50_000_000

// Config contains configuration for an ensemble run
type Config struct {
	NumPhotons    int   // Total photon packets to launch
	Seed          int64 // Base seed; each batch derives its own from it
	NumWorkers    int   // Number of parallel workers (0 = use CPU count)
	BatchSize     int   // Photons per worker task
	HistogramBins int   // Depth resolution of the event profiles
	SamplePaths   int   // Leading photons that record full trajectories
	MaxSteps      int   // Step cap per photon before the run aborts

	PhaseModel   phase.Model
	Mode         integrator.TerminationMode
	WeightCutoff float64 // Termination threshold for decaying weights
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		NumPhotons:    5000,
		Seed:          42,
		NumWorkers:    0, // Auto-detect CPU count
		BatchSize:     1024,
		HistogramBins: 30,
		SamplePaths:   50,
		MaxSteps:      integrator.DefaultMaxSteps,
		PhaseModel:    phase.ModelHenyeyGreenstein,
		Mode:          integrator.TerminateOnAbsorb,
		WeightCutoff:  integrator.DefaultWeightCutoff,
	}
}

// Validate checks the configuration ranges
func (c Config) Validate() error {
	if c.NumPhotons < 1 || c.NumPhotons > MaxPhotons {
		return fmt.Errorf("num photons must be between 1 and %d, got: %d", MaxPhotons, c.NumPhotons)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got: %d", c.BatchSize)
	}
	if c.HistogramBins < 1 {
		return fmt.Errorf("histogram bins must be positive, got: %d", c.HistogramBins)
	}
	if c.SamplePaths < 0 {
		return fmt.Errorf("sample paths must not be negative, got: %d", c.SamplePaths)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("max steps must be positive, got: %d", c.MaxSteps)
	}
	return nil
}
