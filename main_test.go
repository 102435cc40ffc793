package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDeck = `atmospheres:
  - name: haze
    tau_max: 0.8
    omega_0: 0.9
    g: 0.6
    surface_albedo: 0.1
  - name: storm
    tau_max: 30.0
    omega_0: 0.9999
    g: 0.85
    surface_albedo: 0.2
`

func writeTestDeck(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.yaml")
	if err := os.WriteFile(path, []byte(testDeck), 0644); err != nil {
		t.Fatalf("Failed to write deck file: %v", err)
	}
	return path
}

func TestBuildAtmosphere(t *testing.T) {
	deckPath := writeTestDeck(t)

	tests := []struct {
		name        string
		preset      string
		deck        string
		entry       string
		overrides   map[string]float64
		expectError string
		checkTau    float64
		checkAlbedo float64
	}{
		{
			name:        "default preset",
			preset:      "clear-sky",
			checkTau:    0.1,
			checkAlbedo: 0.15,
		},
		{
			name:        "thick cloud preset",
			preset:      "thick-cloud",
			checkTau:    30.0,
			checkAlbedo: 0.2,
		},
		{
			name:        "preset with overrides",
			preset:      "clear-sky",
			overrides:   map[string]float64{"tau": 2.0, "omega0": 1.0},
			checkTau:    2.0,
			checkAlbedo: 0.15,
		},
		{
			name:        "unknown preset",
			preset:      "mars",
			expectError: "unknown preset",
		},
		{
			name:        "deck entry",
			deck:        deckPath,
			entry:       "storm",
			checkTau:    30.0,
			checkAlbedo: 0.2,
		},
		{
			name:        "deck entry with override",
			deck:        deckPath,
			entry:       "haze",
			overrides:   map[string]float64{"albedo": 0.5},
			checkTau:    0.8,
			checkAlbedo: 0.5,
		},
		{
			name:        "deck without name",
			deck:        deckPath,
			expectError: "-name is required",
		},
		{
			name:        "unknown deck entry",
			deck:        deckPath,
			entry:       "tornado",
			expectError: `no atmosphere "tornado"`,
		},
		{
			name:        "missing deck file",
			deck:        filepath.Join(t.TempDir(), "nope.yaml"),
			entry:       "storm",
			expectError: "failed to read deck file",
		},
		{
			name:        "invalid override",
			preset:      "clear-sky",
			overrides:   map[string]float64{"tau": -1.0},
			expectError: "tau_max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atm, err := buildAtmosphere(tt.preset, tt.deck, tt.entry, tt.overrides)

			if tt.expectError != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got none", tt.expectError)
				}
				if !strings.Contains(err.Error(), tt.expectError) {
					t.Errorf("Expected error containing %q, got: %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if atm.TauMax != tt.checkTau {
				t.Errorf("Expected tau_max %v, got %v", tt.checkTau, atm.TauMax)
			}
			if atm.SurfaceAlbedo != tt.checkAlbedo {
				t.Errorf("Expected surface_albedo %v, got %v", tt.checkAlbedo, atm.SurfaceAlbedo)
			}
		})
	}
}

func TestBuildAtmosphereListsDeckEntries(t *testing.T) {
	deckPath := writeTestDeck(t)

	_, err := buildAtmosphere("", deckPath, "tornado", nil)
	if err == nil {
		t.Fatal("Expected error for unknown deck entry")
	}
	for _, want := range []string{"haze", "storm"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to list %q, got: %v", want, err)
		}
	}
}
