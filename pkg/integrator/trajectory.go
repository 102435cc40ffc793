package integrator

import (
	"errors"
	"fmt"

	"github.com/df07/go-twostream-rt/pkg/core"
)

// ErrDivergence reports a photon walk that exceeded the step cap.
// Callers should abort the whole run: a diverging walk means the
// parameters trap photons rather than a statistical fluke.
var ErrDivergence = errors.New("photon walk exceeded step cap")

// DefaultMaxSteps bounds a single photon walk
const DefaultMaxSteps = 1_000_000

// TraceOptions controls a single-photon trace
type TraceOptions struct {
	MaxSteps   int  // Step cap per photon (0 = DefaultMaxSteps)
	RecordPath bool // Record the position after every step
}

// Trajectory is the full record of one photon's walk.
// ExitWeight + AbsorbedWeight is always exactly 1, so summing
// trajectories yields a closed energy budget.
type Trajectory struct {
	Outcome        core.Outcome
	ExitWeight     float64      // Weight carried out through a boundary
	AbsorbedWeight float64      // Weight deposited in the medium and surface path
	Events         []core.Event // Interior interactions in order
	Path           []float64    // Positions after each step, starting at the entry point
	Steps          int
}

// Trace follows a fresh photon from the top of the atmosphere to termination
func (e *Engine) Trace(s core.Sampler, opts TraceOptions) (Trajectory, error) {
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	photon := core.NewPhoton()
	traj := Trajectory{}
	if opts.RecordPath {
		traj.Path = append(traj.Path, photon.Position)
	}

	for photon.Active {
		if traj.Steps >= maxSteps {
			return traj, fmt.Errorf("%w: %d steps", ErrDivergence, traj.Steps)
		}

		res := e.Step(&photon, s)
		traj.Steps++

		if opts.RecordPath {
			traj.Path = append(traj.Path, photon.Position)
		}
		if res.HasEvent {
			traj.Events = append(traj.Events, res.Event)
		}
		if res.Outcome.Terminal() {
			traj.Outcome = res.Outcome
		}
	}

	// Boundary exits carry the remaining weight out; everything else
	// stays in the column
	switch traj.Outcome {
	case core.Reflected, core.Transmitted:
		traj.ExitWeight = photon.Weight
	}
	traj.AbsorbedWeight = 1.0 - traj.ExitWeight

	return traj, nil
}
