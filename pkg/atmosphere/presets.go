package atmosphere

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPreset is used when no atmosphere is specified
const DefaultPreset = "clear-sky"

// presets are representative parameter sets for common atmospheric layers
var presets = map[string]Atmosphere{
	// Thin, weakly scattering atmosphere over a dark surface
	"clear-sky": {TauMax: 0.1, Omega0: 0.95, G: 0.0, SurfaceAlbedo: 0.15},

	// Water cloud: strong forward scattering, almost no absorption
	"thin-cloud": {TauMax: 5.0, Omega0: 0.9999, G: 0.85, SurfaceAlbedo: 0.2},

	// Optically thick storm cloud, same droplet properties
	"thick-cloud": {TauMax: 30.0, Omega0: 0.9999, G: 0.85, SurfaceAlbedo: 0.2},

	// Moderately absorbing aerosol over ocean
	"aerosol-layer": {TauMax: 1.0, Omega0: 0.85, G: 0.7, SurfaceAlbedo: 0.1},
}

// Preset returns a named atmosphere preset
func Preset(name string) (Atmosphere, error) {
	atm, ok := presets[name]
	if !ok {
		return Atmosphere{}, fmt.Errorf("unknown preset %q (valid: %s)",
			name, strings.Join(PresetNames(), ", "))
	}
	return atm, nil
}

// PresetNames returns the available preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
