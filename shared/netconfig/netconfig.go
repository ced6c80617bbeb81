// Package netconfig defines lightweight types shared between client and host
// for network serialization. It must have zero dependencies on ebiten or any
// graphics library so the development host binary stays headless.
package netconfig

import (
	"fmt"
	"strconv"
)

// PlayerID identifies a player issued by the game host. Serial is a host-wide
// counter and Slot the host's player slot. The zero value means "no player"
// and is never issued.
type PlayerID struct {
	Serial uint32
	Slot   uint32
}

// IsZero reports whether id is the "no player" value.
func (id PlayerID) IsZero() bool {
	return id == PlayerID{}
}

func (id PlayerID) String() string {
	if id.IsZero() {
		return "none"
	}
	return fmt.Sprintf("P%d#%d", id.Slot+1, id.Serial)
}

// DeviceIndex identifies a local input source. Gamepads use the non-negative
// index assigned by the host environment.
type DeviceIndex int

// KeyboardDevice is the sentinel index for the keyboard and mouse.
const KeyboardDevice DeviceIndex = -1

// IsKeyboard reports whether d is the keyboard/mouse sentinel.
func (d DeviceIndex) IsKeyboard() bool {
	return d == KeyboardDevice
}

func (d DeviceIndex) String() string {
	if d.IsKeyboard() {
		return "keyboard"
	}
	return "gamepad-" + strconv.Itoa(int(d))
}

// Vec2 is an analog intent; each component is expected in [-1, 1].
type Vec2 struct {
	X, Y float64
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Buttons holds the stateful button set of an input frame.
type Buttons struct {
	Grab  bool
	Dash  bool
	Place bool
}
