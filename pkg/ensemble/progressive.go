package ensemble

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-twostream-rt/pkg/atmosphere"
)

// ProgressiveConfig contains configuration for progressive runs
type ProgressiveConfig struct {
	InitialPhotons int // Photons for the first pass (quick preview)
	MaxPhotons     int // Total photons after the final pass
	MaxPasses      int // Maximum number of passes
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		InitialPhotons: 500,
		MaxPhotons:     5000,
		MaxPasses:      7,
	}
}

// Validate checks the pass sizing parameters
func (c ProgressiveConfig) Validate() error {
	if c.InitialPhotons < 1 {
		return fmt.Errorf("initial photons must be positive, got: %d", c.InitialPhotons)
	}
	if c.MaxPhotons < c.InitialPhotons {
		return fmt.Errorf("max photons must be at least initial photons (%d), got: %d",
			c.InitialPhotons, c.MaxPhotons)
	}
	if c.MaxPasses < 1 {
		return fmt.Errorf("max passes must be positive, got: %d", c.MaxPasses)
	}
	return nil
}

// PassResult contains the cumulative result after a single pass
type PassResult struct {
	PassNumber int
	Photons    int // Photons traced so far across all passes
	Result     *Result
	IsLast     bool
}

// ProgressiveSimulator runs an ensemble in passes of increasing size,
// emitting a cumulative result after each pass. Passes advance in whole
// batches, so the final result matches a single run of the same size.
type ProgressiveSimulator struct {
	sim  *Simulator
	pcfg ProgressiveConfig
}

// NewProgressiveSimulator creates a progressive simulator. The photon
// count in cfg is ignored; pcfg.MaxPhotons sets the total run size.
func NewProgressiveSimulator(atm atmosphere.Atmosphere, cfg Config, pcfg ProgressiveConfig, logger zerolog.Logger) (*ProgressiveSimulator, error) {
	if err := pcfg.Validate(); err != nil {
		return nil, err
	}

	cfg.NumPhotons = pcfg.MaxPhotons
	sim, err := NewSimulator(atm, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &ProgressiveSimulator{sim: sim, pcfg: pcfg}, nil
}

// photonsForPass calculates the cumulative photon target for a given pass
func (ps *ProgressiveSimulator) photonsForPass(passNumber int) int {
	// Special case: if only 1 pass, trace everything at once
	if ps.pcfg.MaxPasses == 1 {
		return ps.pcfg.MaxPhotons
	}

	// For multiple passes: first pass is a quick preview
	if passNumber == 1 {
		return ps.pcfg.InitialPhotons
	}

	// Divide remaining photons evenly across remaining passes
	remainingPhotons := ps.pcfg.MaxPhotons - ps.pcfg.InitialPhotons
	remainingPasses := ps.pcfg.MaxPasses - 1
	photonsPerPass := remainingPhotons / remainingPasses

	target := ps.pcfg.InitialPhotons + (passNumber-1)*photonsPerPass

	// The final pass picks up the rounding remainder
	if passNumber == ps.pcfg.MaxPasses {
		target = ps.pcfg.MaxPhotons
	}

	return target
}

// batchesForPass converts the photon target into a whole batch count.
// Rounding up keeps early passes from being empty for small targets.
func (ps *ProgressiveSimulator) batchesForPass(passNumber, totalBatches int) int {
	target := ps.photonsForPass(passNumber)
	n := (target + ps.sim.cfg.BatchSize - 1) / ps.sim.cfg.BatchSize
	if n > totalBatches || passNumber == ps.pcfg.MaxPasses {
		n = totalBatches
	}
	return n
}

// RunProgressive traces the ensemble over multiple passes with channel-based
// communication, sending a cumulative result after each pass. Both channels
// close when the run finishes, fails or is cancelled.
func (ps *ProgressiveSimulator) RunProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		sim := ps.sim
		batches := sim.makeBatches(sim.cfg.NumPhotons)

		pool := newWorkerPool(sim.engine, sim.cfg, len(batches))
		pool.start(ctx)
		defer pool.stop()

		sim.logger.Debug().
			Int("photons", sim.cfg.NumPhotons).
			Int("passes", ps.pcfg.MaxPasses).
			Int("workers", pool.numWorkers).
			Msg("starting progressive run")

		partials := make([]*tally, len(batches))
		done := 0 // Batches traced so far

		for pass := 1; pass <= ps.pcfg.MaxPasses; pass++ {
			// Check if the client disconnected before starting this pass
			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			target := ps.batchesForPass(pass, len(batches))
			if target < done {
				target = done
			}

			for _, task := range batches[done:target] {
				pool.submit(task)
			}

			fresh, err := collectBatches(pool, target-done, done)
			if err != nil {
				errChan <- err
				return
			}
			copy(partials[done:target], fresh)
			done = target

			result := mergeTallies(sim.cfg.HistogramBins, sim.atm.TauMax, partials[:done]).result(sim.cfg.Seed)
			isLast := pass == ps.pcfg.MaxPasses || done == len(batches)

			sim.logger.Debug().
				Int("pass", pass).
				Int("photons", result.NumPhotons).
				Dur("elapsed", time.Since(startTime)).
				Msg("pass complete")

			select {
			case passChan <- PassResult{
				PassNumber: pass,
				Photons:    result.NumPhotons,
				Result:     result,
				IsLast:     isLast,
			}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			// Stop early once every batch has been traced
			if done == len(batches) {
				break
			}
		}
	}()

	return passChan, errChan
}
