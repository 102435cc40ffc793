package integrator

import (
	"fmt"

	"github.com/df07/go-twostream-rt/pkg/atmosphere"
	"github.com/df07/go-twostream-rt/pkg/core"
	"github.com/df07/go-twostream-rt/pkg/phase"
)

// TerminationMode selects how absorption ends a photon's walk
type TerminationMode int

const (
	// TerminateOnAbsorb keeps unit weights and kills the photon at its
	// first absorption event
	TerminateOnAbsorb TerminationMode = iota
	// WeightDecay always scatters and bleeds weight by omega_0 at every
	// interaction until it falls below the cutoff
	WeightDecay
)

func (m TerminationMode) String() string {
	if m == WeightDecay {
		return "decay"
	}
	return "absorb"
}

// ParseTerminationMode maps a mode name to its TerminationMode value
func ParseTerminationMode(name string) (TerminationMode, error) {
	switch name {
	case "absorb", "discrete":
		return TerminateOnAbsorb, nil
	case "decay", "weight-decay":
		return WeightDecay, nil
	default:
		return 0, fmt.Errorf("unknown termination mode %q (valid: absorb, decay)", name)
	}
}

// DefaultWeightCutoff terminates decaying photons below 1% of their initial weight
const DefaultWeightCutoff = 0.01

// Options configures a transport engine
type Options struct {
	Phase        phase.Function  // Defaults to Henyey-Greenstein with the atmosphere's g
	Mode         TerminationMode // Defaults to TerminateOnAbsorb
	WeightCutoff float64         // Defaults to DefaultWeightCutoff; only used by WeightDecay
}

// Engine advances single photons through a fixed atmosphere
type Engine struct {
	atm    atmosphere.Atmosphere
	phase  phase.Function
	mode   TerminationMode
	cutoff float64
}

// NewEngine creates a transport engine for the given atmosphere
func NewEngine(atm atmosphere.Atmosphere, opts Options) *Engine {
	ph := opts.Phase
	if ph == nil {
		ph = phase.HenyeyGreenstein{G: atm.G}
	}
	cutoff := opts.WeightCutoff
	if cutoff <= 0 {
		cutoff = DefaultWeightCutoff
	}

	return &Engine{
		atm:    atm,
		phase:  ph,
		mode:   opts.Mode,
		cutoff: cutoff,
	}
}

// Atmosphere returns the atmosphere the engine is bound to
func (e *Engine) Atmosphere() atmosphere.Atmosphere {
	return e.atm
}

// StepResult describes the outcome of a single transport step
type StepResult struct {
	Outcome  core.Outcome // OutcomeNone while the photon stays active
	Event    core.Event   // The interaction, if any
	HasEvent bool
}

// Step moves a photon through one free flight and at most one interaction.
// Boundary crossings are resolved before any interaction is rolled: a photon
// that overshoots a boundary never interacts with the medium on that flight.
func (e *Engine) Step(p *core.Photon, s core.Sampler) StepResult {
	length := core.SamplePathLength(s)
	p.Position += p.Direction.Sign() * length

	// Escape through the top of the atmosphere
	if p.Position <= 0 {
		p.Position = 0
		p.Active = false
		return StepResult{Outcome: core.Reflected}
	}

	// Surface hit: Lambertian bounce back into the medium, or absorption
	// by the ground. The bounce is not a medium interaction, so no event
	// is recorded for it.
	if p.Position >= e.atm.TauMax {
		p.Position = e.atm.TauMax
		if s.Get1D() < e.atm.SurfaceAlbedo {
			p.Direction = core.Up
			return StepResult{}
		}
		p.Active = false
		return StepResult{Outcome: core.Transmitted}
	}

	// Interior interaction
	if e.mode == WeightDecay {
		p.Weight *= e.atm.Omega0
		if p.Weight < e.cutoff {
			p.Active = false
			return StepResult{
				Outcome:  core.Absorbed,
				Event:    core.Event{Depth: p.Position, Kind: core.EventAbsorb},
				HasEvent: true,
			}
		}
		p.Direction = e.phase.Sample(p.Direction, s)
		return StepResult{
			Event:    core.Event{Depth: p.Position, Kind: core.EventScatter},
			HasEvent: true,
		}
	}

	if s.Get1D() < e.atm.Omega0 {
		p.Direction = e.phase.Sample(p.Direction, s)
		return StepResult{
			Event:    core.Event{Depth: p.Position, Kind: core.EventScatter},
			HasEvent: true,
		}
	}
	p.Active = false
	return StepResult{
		Outcome:  core.Absorbed,
		Event:    core.Event{Depth: p.Position, Kind: core.EventAbsorb},
		HasEvent: true,
	}
}
