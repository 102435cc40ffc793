package phase

import (
	"fmt"

	"github.com/df07/go-twostream-rt/pkg/core"
)

// Function selects an outgoing direction for a scattering event.
// Implementations consume exactly one sampler draw per call.
type Function interface {
	Sample(current core.Direction, s core.Sampler) core.Direction
}

// Isotropic scatters up or down with equal probability
type Isotropic struct{}

// Sample implements the Function interface for isotropic scattering
func (Isotropic) Sample(current core.Direction, s core.Sampler) core.Direction {
	if s.Get1D() < 0.5 {
		return core.Down
	}
	return core.Up
}

// HenyeyGreenstein is the two-stream reduction of the Henyey-Greenstein
// phase function. The asymmetry parameter g sets the forward fraction:
//
//	P(forward)  = (1 + g) / 2
//	P(backward) = (1 - g) / 2
//
// g = 0.85 (water clouds) keeps direction 92.5% of the time; g < 0 prefers
// reversing; g = 0 degenerates to isotropic.
type HenyeyGreenstein struct {
	G float64
}

// Sample keeps the current direction with probability (1+g)/2, otherwise flips
func (h HenyeyGreenstein) Sample(current core.Direction, s core.Sampler) core.Direction {
	pForward := (1.0 + h.G) / 2.0
	if s.Get1D() < pForward {
		return current
	}
	return current.Opposite()
}

// Model identifies a phase function family
type Model int

const (
	ModelIsotropic Model = iota
	ModelHenyeyGreenstein
)

func (m Model) String() string {
	if m == ModelHenyeyGreenstein {
		return "henyey-greenstein"
	}
	return "isotropic"
}

// ParseModel maps a model name to its Model value
func ParseModel(name string) (Model, error) {
	switch name {
	case "isotropic":
		return ModelIsotropic, nil
	case "henyey-greenstein", "hg":
		return ModelHenyeyGreenstein, nil
	default:
		return 0, fmt.Errorf("unknown phase model %q (valid: isotropic, henyey-greenstein)", name)
	}
}

// New builds a phase function for the model. Isotropic ignores g.
func New(m Model, g float64) Function {
	if m == ModelHenyeyGreenstein {
		return HenyeyGreenstein{G: g}
	}
	return Isotropic{}
}
