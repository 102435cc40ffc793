package atmosphere

import (
	"fmt"
	"math"
)

// Atmosphere describes a homogeneous plane-parallel scattering layer.
// The vertical coordinate is optical depth: 0 at the top of the atmosphere,
// TauMax at the surface.
type Atmosphere struct {
	TauMax        float64 // Total optical depth of the layer
	Omega0        float64 // Single-scattering albedo in [0, 1]
	G             float64 // Henyey-Greenstein asymmetry parameter in (-1, 1)
	SurfaceAlbedo float64 // Lambertian surface reflectance in [0, 1]
}

// ValidationError reports an atmosphere parameter outside its physical range
type ValidationError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %g: %s", e.Param, e.Value, e.Reason)
}

// New validates the parameters and builds an atmosphere.
// The first parameter outside its range wins.
func New(tauMax, omega0, g, surfaceAlbedo float64) (Atmosphere, error) {
	a := Atmosphere{
		TauMax:        tauMax,
		Omega0:        omega0,
		G:             g,
		SurfaceAlbedo: surfaceAlbedo,
	}
	if err := a.Validate(); err != nil {
		return Atmosphere{}, err
	}
	return a, nil
}

// Validate checks every parameter against its physical range
func (a Atmosphere) Validate() error {
	if math.IsNaN(a.TauMax) || a.TauMax <= 0 {
		return &ValidationError{Param: "tau_max", Value: a.TauMax, Reason: "must be positive"}
	}
	if math.IsNaN(a.Omega0) || a.Omega0 < 0 || a.Omega0 > 1 {
		return &ValidationError{Param: "omega_0", Value: a.Omega0, Reason: "must be in [0, 1]"}
	}
	if math.IsNaN(a.G) || a.G <= -1 || a.G >= 1 {
		return &ValidationError{Param: "g", Value: a.G, Reason: "must be in (-1, 1)"}
	}
	if math.IsNaN(a.SurfaceAlbedo) || a.SurfaceAlbedo < 0 || a.SurfaceAlbedo > 1 {
		return &ValidationError{Param: "surface_albedo", Value: a.SurfaceAlbedo, Reason: "must be in [0, 1]"}
	}
	return nil
}

// IsPureAbsorption reports whether every interaction absorbs the photon
func (a Atmosphere) IsPureAbsorption() bool {
	return a.Omega0 == 0
}

// IsConservative reports whether the medium scatters without absorbing
func (a Atmosphere) IsConservative() bool {
	return a.Omega0 == 1
}

// DirectTransmittance returns the unscattered beam fraction exp(-TauMax)
func (a Atmosphere) DirectTransmittance() float64 {
	return math.Exp(-a.TauMax)
}

func (a Atmosphere) String() string {
	return fmt.Sprintf("tau_max=%g omega_0=%g g=%g surface_albedo=%g",
		a.TauMax, a.Omega0, a.G, a.SurfaceAlbedo)
}
