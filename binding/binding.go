// Package binding keeps the table of local input devices and the host players
// they drive consistent with the host's roster, and turns raw device samples
// into input frames for the bound players.
package binding

import (
	"errors"

	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/automoto/brickbrawl/shared/netconfig"
)

// ErrMalformedRoster is returned when a roster push is rejected. The previous
// roster stays in effect.
var ErrMalformedRoster = errors.New("malformed roster")

// Transport carries the reconciler's outbound traffic. Both calls must return
// without waiting for the host; errors mean the message was dropped.
type Transport interface {
	// RequestPlayer asks the host for a new player. The answer arrives later
	// through OnPlayerAdded, OnPlayerDenied or a roster push.
	RequestPlayer() error
	SendFrame(frame messages.InputFrame) error
}

// Sample is one raw poll of a device, before deadzone filtering.
type Sample struct {
	Move    netconfig.Vec2
	Look    netconfig.Vec2
	Buttons netconfig.Buttons
}

// Binding is one row of the device table.
type Binding struct {
	Device netconfig.DeviceIndex
	Player netconfig.PlayerID // zero while unbound
}

// Bound reports whether the device currently drives a player.
func (b Binding) Bound() bool {
	return !b.Player.IsZero()
}

// ChangeKind classifies a binding change notification.
type ChangeKind int

const (
	DeviceAdded ChangeKind = iota
	DeviceRemoved
	Bound
	Unbound
	RosterReplaced
)

func (k ChangeKind) String() string {
	switch k {
	case DeviceAdded:
		return "device-added"
	case DeviceRemoved:
		return "device-removed"
	case Bound:
		return "bound"
	case Unbound:
		return "unbound"
	case RosterReplaced:
		return "roster-replaced"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after the mutation it describes.
// Player is set for Bound and Unbound (the previous player).
type Change struct {
	Kind   ChangeKind
	Device netconfig.DeviceIndex
	Player netconfig.PlayerID
}
