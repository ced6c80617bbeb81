package messages

import "github.com/automoto/brickbrawl/shared/netconfig"

// RosterChanged is broadcast by the host whenever its live-player set changes.
// It is a full replacement, not a delta; order is the host's insertion order.
type RosterChanged struct {
	Players []netconfig.PlayerID
}

// AddPlayerRequest asks the host to create a new player for this client.
type AddPlayerRequest struct{}

// PlayerAdded is sent only to the requesting client in response to its own
// AddPlayerRequest.
type PlayerAdded struct {
	Player netconfig.PlayerID
}

// PlayerDenied is the absence response to an AddPlayerRequest.
type PlayerDenied struct {
	Reason string
}

// RemovePlayerRequest asks the host to drop a player owned by this client.
type RemovePlayerRequest struct {
	Player netconfig.PlayerID
}
