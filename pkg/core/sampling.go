package core

import (
	"math"
	"math/rand"
)

// Sampler provides random draws for transport algorithms
// Can be swapped out for scripted sequences in deterministic tests
type Sampler interface {
	Get1D() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// SamplePathLength draws an exponential free path in optical depth units
// using the inverse CDF of Beer-Lambert attenuation: s = -ln(ξ)
func SamplePathLength(s Sampler) float64 {
	xi := s.Get1D()
	for xi == 0 {
		// Get1D can return exactly 0; redraw to keep ln finite
		xi = s.Get1D()
	}
	return -math.Log(xi)
}
