package atmosphere

import (
	"errors"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		tauMax      float64
		omega0      float64
		g           float64
		albedo      float64
		expectError bool
		errorParam  string
	}{
		{"typical cloud", 5.0, 0.9999, 0.85, 0.2, false, ""},
		{"pure absorber", 1.0, 0.0, 0.0, 0.0, false, ""},
		{"conservative scattering", 2.0, 1.0, 0.5, 1.0, false, ""},
		{"backward scattering", 1.0, 0.8, -0.5, 0.1, false, ""},

		{"zero optical depth", 0.0, 0.9, 0.0, 0.1, true, "tau_max"},
		{"negative optical depth", -1.0, 0.9, 0.0, 0.1, true, "tau_max"},
		{"NaN optical depth", math.NaN(), 0.9, 0.0, 0.1, true, "tau_max"},
		{"omega too large", 1.0, 1.1, 0.0, 0.1, true, "omega_0"},
		{"omega negative", 1.0, -0.1, 0.0, 0.1, true, "omega_0"},
		{"NaN omega", 1.0, math.NaN(), 0.0, 0.1, true, "omega_0"},
		{"g at forward limit", 1.0, 0.9, 1.0, 0.1, true, "g"},
		{"g at backward limit", 1.0, 0.9, -1.0, 0.1, true, "g"},
		{"albedo too large", 1.0, 0.9, 0.0, 1.5, true, "surface_albedo"},
		{"albedo negative", 1.0, 0.9, 0.0, -0.5, true, "surface_albedo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atm, err := New(tt.tauMax, tt.omega0, tt.g, tt.albedo)

			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error, got atmosphere %v", atm)
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("Expected *ValidationError, got %T", err)
				}
				if verr.Param != tt.errorParam {
					t.Errorf("Error names parameter %q, expected %q", verr.Param, tt.errorParam)
				}
			} else {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if atm.TauMax != tt.tauMax || atm.Omega0 != tt.omega0 {
					t.Errorf("Atmosphere fields not set: got %v", atm)
				}
			}
		})
	}
}

func TestDerivedQuantities(t *testing.T) {
	absorber, err := New(1.0, 0.0, 0.0, 0.0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !absorber.IsPureAbsorption() {
		t.Error("omega_0 = 0 should be pure absorption")
	}
	if absorber.IsConservative() {
		t.Error("omega_0 = 0 should not be conservative")
	}

	conservative, err := New(2.0, 1.0, 0.5, 0.2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !conservative.IsConservative() {
		t.Error("omega_0 = 1 should be conservative")
	}
	if conservative.IsPureAbsorption() {
		t.Error("omega_0 = 1 should not be pure absorption")
	}

	expected := math.Exp(-1.0)
	if got := absorber.DirectTransmittance(); math.Abs(got-expected) > 1e-12 {
		t.Errorf("DirectTransmittance = %f, expected %f", got, expected)
	}
}
