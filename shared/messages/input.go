package messages

import "github.com/automoto/brickbrawl/shared/netconfig"

// InputFrame is sent from client to host for every sample of a bound device.
// Look and Buttons are always present; Move is nil when the filtered movement
// is unchanged since the last move sent for that device.
type InputFrame struct {
	Player    netconfig.PlayerID
	Move      *netconfig.Vec2
	Look      netconfig.Vec2
	Buttons   netconfig.Buttons
	Sequence  uint32 // Incrementing per client so the host can drop stale frames
	Timestamp int64  // Client timestamp (Unix ms)
}

// AimEvent carries a pointer aim position for the player bound to the
// keyboard/mouse device, already scaled to game coordinates.
type AimEvent struct {
	Player netconfig.PlayerID
	X, Y   float64
}
