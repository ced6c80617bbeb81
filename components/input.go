package components

// InputMethod represents the type of input device behind a binding row
type InputMethod int

const (
	InputKeyboard InputMethod = iota
	InputXbox
	InputPlayStation
	InputGeneric // Gamepad without a standard layout mapping
)

// Label returns the short name shown in the binding panel
func (m InputMethod) Label() string {
	switch m {
	case InputKeyboard:
		return "Keyboard"
	case InputXbox:
		return "Xbox"
	case InputPlayStation:
		return "PlayStation"
	default:
		return "Gamepad"
	}
}
