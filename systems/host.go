package systems

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// DeviceHost is the slice of the host environment the device systems poll.
// EbitenHost reads the real devices; tests substitute a scripted host.
type DeviceHost interface {
	AppendGamepadIDs(ids []ebiten.GamepadID) []ebiten.GamepadID
	IsStandardGamepadLayoutAvailable(id ebiten.GamepadID) bool
	StandardGamepadAxisValue(id ebiten.GamepadID, axis ebiten.StandardGamepadAxis) float64
	IsStandardGamepadButtonPressed(id ebiten.GamepadID, button ebiten.StandardGamepadButton) bool
	GamepadName(id ebiten.GamepadID) string

	IsKeyPressed(key ebiten.Key) bool
	IsMouseButtonPressed(button ebiten.MouseButton) bool
	CursorPosition() (x, y int)
}

// EbitenHost polls devices through ebiten. Only valid on the game goroutine.
type EbitenHost struct{}

func (EbitenHost) AppendGamepadIDs(ids []ebiten.GamepadID) []ebiten.GamepadID {
	return ebiten.AppendGamepadIDs(ids)
}

func (EbitenHost) IsStandardGamepadLayoutAvailable(id ebiten.GamepadID) bool {
	return ebiten.IsStandardGamepadLayoutAvailable(id)
}

func (EbitenHost) StandardGamepadAxisValue(id ebiten.GamepadID, axis ebiten.StandardGamepadAxis) float64 {
	return ebiten.StandardGamepadAxisValue(id, axis)
}

func (EbitenHost) IsStandardGamepadButtonPressed(id ebiten.GamepadID, button ebiten.StandardGamepadButton) bool {
	return ebiten.IsStandardGamepadButtonPressed(id, button)
}

func (EbitenHost) GamepadName(id ebiten.GamepadID) string {
	return ebiten.GamepadName(id)
}

func (EbitenHost) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

func (EbitenHost) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(button)
}

func (EbitenHost) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}
