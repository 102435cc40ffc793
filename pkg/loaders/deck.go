package loaders

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-twostream-rt/pkg/atmosphere"
)

// NamedAtmosphere is one named parameter set in a deck file
type NamedAtmosphere struct {
	Name          string  `yaml:"name"`
	TauMax        float64 `yaml:"tau_max"`
	Omega0        float64 `yaml:"omega_0"`
	G             float64 `yaml:"g"`
	SurfaceAlbedo float64 `yaml:"surface_albedo"`
}

// Atmosphere validates the entry and builds the atmosphere value
func (n NamedAtmosphere) Atmosphere() (atmosphere.Atmosphere, error) {
	return atmosphere.New(n.TauMax, n.Omega0, n.G, n.SurfaceAlbedo)
}

// Deck is a collection of named atmospheres loaded from YAML
type Deck struct {
	Atmospheres []NamedAtmosphere `yaml:"atmospheres"`
}

// ParseDeck decodes and validates a YAML atmosphere deck
func ParseDeck(data []byte) (*Deck, error) {
	var deck Deck
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}

	if len(deck.Atmospheres) == 0 {
		return nil, fmt.Errorf("deck contains no atmospheres")
	}

	seen := make(map[string]bool)
	for i, entry := range deck.Atmospheres {
		if entry.Name == "" {
			return nil, fmt.Errorf("deck entry %d has no name", i)
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("duplicate deck entry %q", entry.Name)
		}
		seen[entry.Name] = true

		if _, err := entry.Atmosphere(); err != nil {
			return nil, fmt.Errorf("deck entry %q: %w", entry.Name, err)
		}
	}

	return &deck, nil
}

// LoadDeck reads an atmosphere deck from a YAML file
func LoadDeck(filename string) (*Deck, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}
	return ParseDeck(data)
}

// Get returns the named atmosphere from the deck
func (d *Deck) Get(name string) (atmosphere.Atmosphere, bool) {
	for _, entry := range d.Atmospheres {
		if entry.Name == name {
			atm, err := entry.Atmosphere()
			if err != nil {
				return atmosphere.Atmosphere{}, false
			}
			return atm, true
		}
	}
	return atmosphere.Atmosphere{}, false
}

// Names returns the entry names in deck order
func (d *Deck) Names() []string {
	names := make([]string, 0, len(d.Atmospheres))
	for _, entry := range d.Atmospheres {
		names = append(names, entry.Name)
	}
	return names
}
