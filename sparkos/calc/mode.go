package calc

// AngleMode selects how trigonometric functions interpret and produce angles.
type AngleMode uint8

const (
	Degrees AngleMode = iota
	Radians
)

func (a AngleMode) String() string {
	switch a {
	case Degrees:
		return "DEG"
	case Radians:
		return "RAD"
	default:
		return "?"
	}
}

// Mode is the modifier state that decides which registry entry a function key resolves to.
//
// It changes only through the toggle methods; evaluation never clears it.
type Mode struct {
	Angle      AngleMode
	Inverse    bool
	Hyperbolic bool
}

func (m *Mode) ToggleInverse()    { m.Inverse = !m.Inverse }
func (m *Mode) ToggleHyperbolic() { m.Hyperbolic = !m.Hyperbolic }

func (m *Mode) ToggleAngleMode() {
	if m.Angle == Degrees {
		m.Angle = Radians
		return
	}
	m.Angle = Degrees
}
