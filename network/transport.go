package network

import (
	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/automoto/brickbrawl/shared/netconfig"
)

// Poster queues an outbound message without blocking.
type Poster interface {
	Post(msg any) error
}

// Transport speaks the binding layer's outbound contract over a Poster.
type Transport struct {
	out Poster
}

func NewTransport(out Poster) *Transport {
	return &Transport{out: out}
}

// RequestPlayer asks the host for a new player; the answer comes back as
// PlayerAdded or PlayerDenied.
func (t *Transport) RequestPlayer() error {
	return t.out.Post(messages.AddPlayerRequest{})
}

func (t *Transport) SendFrame(frame messages.InputFrame) error {
	return t.out.Post(frame)
}

// RemovePlayer asks the host to drop one of this client's players.
func (t *Transport) RemovePlayer(player netconfig.PlayerID) error {
	return t.out.Post(messages.RemovePlayerRequest{Player: player})
}

// SendAim forwards a pointer aim position for player.
func (t *Transport) SendAim(player netconfig.PlayerID, x, y float64) error {
	return t.out.Post(messages.AimEvent{Player: player, X: x, Y: y})
}
