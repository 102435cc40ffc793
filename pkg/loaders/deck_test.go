package loaders

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleDeck = `atmospheres:
  - name: clear
    tau_max: 0.1
    omega_0: 0.95
    g: 0.0
    surface_albedo: 0.15
  - name: storm
    tau_max: 30.0
    omega_0: 0.9999
    g: 0.85
    surface_albedo: 0.2
`

func TestParseDeck(t *testing.T) {
	deck, err := ParseDeck([]byte(sampleDeck))
	if err != nil {
		t.Fatalf("ParseDeck failed: %v", err)
	}
	if len(deck.Atmospheres) != 2 {
		t.Fatalf("parsed %d entries, expected 2", len(deck.Atmospheres))
	}

	atm, ok := deck.Get("storm")
	if !ok {
		t.Fatal("deck has no entry storm")
	}
	if atm.TauMax != 30.0 || atm.Omega0 != 0.9999 || atm.G != 0.85 || atm.SurfaceAlbedo != 0.2 {
		t.Errorf("storm entry = %v, expected the deck values", atm)
	}

	if _, ok := deck.Get("missing"); ok {
		t.Error("lookup of a missing entry succeeded")
	}
}

func TestParseDeckErrors(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "malformed yaml",
			yaml: "atmospheres: [",
			want: "decode deck",
		},
		{
			name: "empty deck",
			yaml: "atmospheres: []",
			want: "no atmospheres",
		},
		{
			name: "unnamed entry",
			yaml: "atmospheres:\n  - tau_max: 1.0\n    omega_0: 0.5",
			want: "has no name",
		},
		{
			name: "duplicate name",
			yaml: "atmospheres:\n  - name: x\n    tau_max: 1.0\n  - name: x\n    tau_max: 2.0",
			want: `duplicate deck entry "x"`,
		},
		{
			name: "invalid parameters",
			yaml: "atmospheres:\n  - name: bad\n    tau_max: -1.0",
			want: `deck entry "bad"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDeck([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadDeck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	if err := os.WriteFile(path, []byte(sampleDeck), 0o644); err != nil {
		t.Fatalf("write deck: %v", err)
	}

	deck, err := LoadDeck(path)
	if err != nil {
		t.Fatalf("LoadDeck failed: %v", err)
	}
	if got := deck.Names(); !reflect.DeepEqual(got, []string{"clear", "storm"}) {
		t.Errorf("names = %v, expected [clear storm]", got)
	}

	if _, err := LoadDeck(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
