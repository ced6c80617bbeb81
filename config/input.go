package config

import "github.com/hajimehoshi/ebiten/v2"

// ButtonID identifies one of the stateful buttons carried by an input frame
type ButtonID int

const (
	ButtonGrab ButtonID = iota
	ButtonDash
	ButtonPlace
	ButtonCount // Must be last - used for array sizing
)

// ButtonBinding represents the keys and buttons that drive one button
type ButtonBinding struct {
	Keys                   []ebiten.Key
	MouseButtons           []ebiten.MouseButton
	StandardGamepadButtons []ebiten.StandardGamepadButton
}

// MoveKeys are the keyboard keys composing the keyboard move vector
type MoveKeys struct {
	Up, Down, Left, Right []ebiten.Key
}

// StickAxes selects the standard-layout axes read for one analog stick
type StickAxes struct {
	Horizontal ebiten.StandardGamepadAxis
	Vertical   ebiten.StandardGamepadAxis
}

// InputConfig holds all input mappings
type InputConfig struct {
	// Deadzone applied independently to every analog component (0.0 to 1.0)
	Deadzone float64

	MoveKeys  MoveKeys
	JoinKeys  []ebiten.Key // Re-register an unbound keyboard
	LeaveKeys []ebiten.Key // Release the keyboard's player
	Buttons   map[ButtonID]ButtonBinding
	MoveStick StickAxes
	LookStick StickAxes

	// MouseScale converts cursor pixels into game coordinates for aim events
	MouseScale float64
}

// Input is the global input configuration
var Input InputConfig

func init() {
	Input = InputConfig{
		Deadzone: 0.2,
		MoveKeys: MoveKeys{
			Up:    []ebiten.Key{ebiten.KeyW},
			Down:  []ebiten.Key{ebiten.KeyS},
			Left:  []ebiten.Key{ebiten.KeyA},
			Right: []ebiten.Key{ebiten.KeyD},
		},
		JoinKeys:  []ebiten.Key{ebiten.KeyEnter},
		LeaveKeys: []ebiten.Key{ebiten.KeyBackspace},
		MoveStick: StickAxes{
			Horizontal: ebiten.StandardGamepadAxisLeftStickHorizontal,
			Vertical:   ebiten.StandardGamepadAxisLeftStickVertical,
		},
		LookStick: StickAxes{
			Horizontal: ebiten.StandardGamepadAxisRightStickHorizontal,
			Vertical:   ebiten.StandardGamepadAxisRightStickVertical,
		},
		MouseScale: 0.5,
		Buttons: map[ButtonID]ButtonBinding{
			ButtonGrab: {
				Keys: []ebiten.Key{ebiten.KeySpace},
				// A / Cross button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonRightBottom,
				},
			},
			ButtonDash: {
				Keys: []ebiten.Key{ebiten.KeyShiftLeft},
				// B / Circle button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonRightRight,
				},
			},
			ButtonPlace: {
				Keys:         []ebiten.Key{ebiten.KeyE},
				MouseButtons: []ebiten.MouseButton{ebiten.MouseButtonRight},
				// X / Square button, right bumper
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonRightLeft,
					ebiten.StandardGamepadButtonFrontTopRight,
				},
			},
		},
	}
}
