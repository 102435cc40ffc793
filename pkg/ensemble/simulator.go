package ensemble

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-twostream-rt/pkg/atmosphere"
	"github.com/df07/go-twostream-rt/pkg/integrator"
	"github.com/df07/go-twostream-rt/pkg/phase"
)

// Simulator traces photon ensembles through a plane-parallel atmosphere
type Simulator struct {
	atm    atmosphere.Atmosphere
	cfg    Config
	engine *integrator.Engine
	logger zerolog.Logger
}

// NewSimulator creates a simulator for the given atmosphere and run configuration
func NewSimulator(atm atmosphere.Atmosphere, cfg Config, logger zerolog.Logger) (*Simulator, error) {
	if err := atm.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := integrator.NewEngine(atm, integrator.Options{
		Phase:        phase.New(cfg.PhaseModel, atm.G),
		Mode:         cfg.Mode,
		WeightCutoff: cfg.WeightCutoff,
	})

	return &Simulator{
		atm:    atm,
		cfg:    cfg,
		engine: engine,
		logger: logger,
	}, nil
}

// Atmosphere returns the atmosphere the simulator traces through
func (s *Simulator) Atmosphere() atmosphere.Atmosphere {
	return s.atm
}

// Config returns the run configuration
func (s *Simulator) Config() Config {
	return s.cfg
}

// makeBatches splits the run into fixed-size batches. The split depends
// only on the configuration, so batch seeds and recorded paths line up
// across runs regardless of worker count.
func (s *Simulator) makeBatches(numPhotons int) []batchTask {
	record := s.cfg.SamplePaths
	if record > numPhotons {
		record = numPhotons
	}

	var batches []batchTask
	for start := 0; start < numPhotons; start += s.cfg.BatchSize {
		count := s.cfg.BatchSize
		if start+count > numPhotons {
			count = numPhotons - start
		}
		batches = append(batches, batchTask{
			ID:     len(batches),
			Start:  start,
			Count:  count,
			Record: record,
		})
	}

	return batches
}

// Run traces the full photon ensemble and returns aggregate statistics
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	batches := s.makeBatches(s.cfg.NumPhotons)

	pool := newWorkerPool(s.engine, s.cfg, len(batches))
	pool.start(ctx)
	defer pool.stop()

	s.logger.Debug().
		Int("photons", s.cfg.NumPhotons).
		Int("batches", len(batches)).
		Int("workers", pool.numWorkers).
		Msg("starting run")

	for _, task := range batches {
		pool.submit(task)
	}

	partials, err := collectBatches(pool, len(batches), 0)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := mergeTallies(s.cfg.HistogramBins, s.atm.TauMax, partials)

	s.logger.Debug().
		Int64("steps", total.totalSteps).
		Dur("elapsed", time.Since(startTime)).
		Msg("run complete")

	return total.result(s.cfg.Seed), nil
}

// collectBatches gathers count results from the pool and returns the
// partial tallies arranged by batch ID. Results arrive in completion
// order. On failure the error from the lowest batch wins.
func collectBatches(pool *workerPool, count, firstID int) ([]*tally, error) {
	partials := make([]*tally, count)
	errs := make([]error, count)

	for i := 0; i < count; i++ {
		res, ok := pool.result()
		if !ok {
			return nil, fmt.Errorf("worker pool closed unexpectedly")
		}
		if res.Err != nil {
			errs[res.ID-firstID] = res.Err
			continue
		}
		partials[res.ID-firstID] = res.Tally
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return partials, nil
}

// mergeTallies folds partial tallies in batch order into a fresh total.
// Always folding from the first batch keeps the floating point sums
// bit-identical no matter how the batches were grouped into passes.
func mergeTallies(bins int, tauMax float64, partials []*tally) *tally {
	total := newTally(bins, tauMax)
	for _, p := range partials {
		total.merge(p)
	}
	return total
}
