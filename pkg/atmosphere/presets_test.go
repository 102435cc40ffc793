package atmosphere

import (
	"reflect"
	"strings"
	"testing"
)

func TestPreset(t *testing.T) {
	atm, err := Preset("clear-sky")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if atm.TauMax != 0.1 || atm.Omega0 != 0.95 || atm.G != 0.0 || atm.SurfaceAlbedo != 0.15 {
		t.Errorf("clear-sky parameters incorrect: %v", atm)
	}

	_, err = Preset("mars")
	if err == nil {
		t.Fatal("Expected error for unknown preset")
	}
	if !strings.Contains(err.Error(), "clear-sky") {
		t.Errorf("Error should list valid presets, got: %v", err)
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range PresetNames() {
		atm, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset %q failed to load: %v", name, err)
		}
		if _, err := New(atm.TauMax, atm.Omega0, atm.G, atm.SurfaceAlbedo); err != nil {
			t.Errorf("Preset %q has invalid parameters: %v", name, err)
		}
	}
}

func TestPresetNames(t *testing.T) {
	expected := []string{"aerosol-layer", "clear-sky", "thick-cloud", "thin-cloud"}
	if got := PresetNames(); !reflect.DeepEqual(got, expected) {
		t.Errorf("PresetNames() = %v, expected %v", got, expected)
	}
}
