package core

// Direction is the vertical travel direction of a photon in the two-stream model.
// Optical depth increases downward, so Down carries a positive sign.
type Direction int8

const (
	Down Direction = 1  // Toward the surface (tau increases)
	Up   Direction = -1 // Toward space (tau decreases)
)

// Opposite returns the reversed direction
func (d Direction) Opposite() Direction {
	return -d
}

// Sign returns the direction as a signed factor for position updates
func (d Direction) Sign() float64 {
	return float64(d)
}

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return "invalid"
	}
}

// Outcome is the terminal fate of a photon packet
type Outcome int

const (
	OutcomeNone Outcome = iota // Photon still in flight
	Reflected                  // Escaped through the top of the atmosphere
	Transmitted                // Absorbed by the surface
	Absorbed                   // Absorbed inside the medium
)

// Terminal reports whether the outcome ends a photon's walk
func (o Outcome) Terminal() bool {
	return o != OutcomeNone
}

func (o Outcome) String() string {
	switch o {
	case Reflected:
		return "reflected"
	case Transmitted:
		return "transmitted"
	case Absorbed:
		return "absorbed"
	default:
		return "none"
	}
}

// MarshalText encodes the outcome as its name for JSON output
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome from its name
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "reflected":
		*o = Reflected
	case "transmitted":
		*o = Transmitted
	case "absorbed":
		*o = Absorbed
	case "none":
		*o = OutcomeNone
	default:
		return &UnknownOutcomeError{Name: string(text)}
	}
	return nil
}

// UnknownOutcomeError reports an unrecognized outcome name
type UnknownOutcomeError struct {
	Name string
}

func (e *UnknownOutcomeError) Error() string {
	return "unknown outcome: " + e.Name
}

// EventKind identifies the type of a medium interaction
type EventKind int8

const (
	EventScatter EventKind = iota
	EventAbsorb
)

func (k EventKind) String() string {
	if k == EventAbsorb {
		return "absorb"
	}
	return "scatter"
}

// Event records a single interaction at an optical depth
type Event struct {
	Depth float64   // Optical depth where the interaction happened
	Kind  EventKind // Scatter or absorb
}

// Photon is a single photon packet on the optical depth axis
type Photon struct {
	Position  float64   // Optical depth in [0, tauMax]
	Direction Direction // Up or Down
	Weight    float64   // Statistical weight in (0, 1]
	Active    bool      // False once the photon has terminated
}

// NewPhoton creates a photon entering the top of the atmosphere heading down
func NewPhoton() Photon {
	return Photon{
		Position:  0,
		Direction: Down,
		Weight:    1.0,
		Active:    true,
	}
}
