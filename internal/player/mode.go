package player

// Mode is the player's viewing mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSpherical
)

func (m Mode) String() string {
	if m == ModeSpherical {
		return "360"
	}
	return "Normal"
}
