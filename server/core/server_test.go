package core

import (
	"testing"
	"time"

	"github.com/automoto/brickbrawl/binding"
	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/automoto/brickbrawl/shared/protocol"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePeer struct {
	id   string
	sent []any
}

func (p *fakePeer) Id() string { return p.id }

func (p *fakePeer) SendMessage(msg any) error {
	p.sent = append(p.sent, msg)
	return nil
}

func (p *fakePeer) take() []any {
	out := p.sent
	p.sent = nil
	return out
}

func newTestServer(maxPlayers int, clock *fakeClock) *Server {
	return NewServer(Options{
		Name:       "dev",
		TickRate:   20,
		MaxPlayers: maxPlayers,
		PlayerTTL:  30 * time.Second,
		Now:        clock.now,
	}, zap.NewNop().Sugar())
}

func join(t *testing.T, s *Server, id string) *fakePeer {
	t.Helper()
	p := &fakePeer{id: id}
	s.onJoin(p, messages.JoinRequest{Version: protocol.Version, PlayerName: id, ClientID: id + "-session"})
	require.Len(t, p.take(), 2)
	return p
}

func TestJoinAcceptsMatchingVersion(t *testing.T) {
	s := newTestServer(4, newClock())
	p := &fakePeer{id: "c1"}
	s.onJoin(p, messages.JoinRequest{Version: protocol.Version, ClientID: "abc"})

	require.Equal(t, []any{
		messages.JoinAccepted{ClientID: "abc", ServerName: "dev", TickRate: 20, MaxPlayers: 4},
		messages.RosterChanged{Players: []netconfig.PlayerID{}},
	}, p.sent)
}

func TestJoinRejectsVersionMismatch(t *testing.T) {
	s := newTestServer(4, newClock())
	p := &fakePeer{id: "c1"}
	s.onJoin(p, messages.JoinRequest{Version: "brickbrawl/0"})

	require.Len(t, p.sent, 1)
	require.IsType(t, messages.JoinRejected{}, p.sent[0])

	// Not joined: add requests are ignored.
	s.onAddPlayer(p)
	require.Len(t, p.sent, 1)
	require.Zero(t, s.PlayerCount())
}

func TestAddPlayerPushesRosterToOwnerOnly(t *testing.T) {
	s := newTestServer(4, newClock())
	c1 := join(t, s, "c1")
	c2 := join(t, s, "c2")

	s.onAddPlayer(c1)
	id := netconfig.PlayerID{Serial: 1, Slot: 0}
	require.Equal(t, []any{
		messages.PlayerAdded{Player: id},
		messages.RosterChanged{Players: []netconfig.PlayerID{id}},
	}, c1.take())
	require.Empty(t, c2.take())
}

func TestJoinRosterListsOnlyOwnPlayers(t *testing.T) {
	s := newTestServer(4, newClock())
	c1 := join(t, s, "c1")
	s.onAddPlayer(c1)
	s.onAddPlayer(c1)

	c2 := &fakePeer{id: "c2"}
	s.onJoin(c2, messages.JoinRequest{Version: protocol.Version, ClientID: "c2-session"})
	require.Equal(t, messages.RosterChanged{Players: []netconfig.PlayerID{}}, c2.sent[1])

	s.onAddPlayer(c2)
	c1.take()
	c2.take()
	s.broadcastRoster()
	require.Equal(t, []any{messages.RosterChanged{Players: []netconfig.PlayerID{{Serial: 1, Slot: 0}, {Serial: 2, Slot: 1}}}}, c1.take())
	require.Equal(t, []any{messages.RosterChanged{Players: []netconfig.PlayerID{{Serial: 3, Slot: 2}}}}, c2.take())
}

func TestAddPlayerDeniedWhenFull(t *testing.T) {
	s := newTestServer(1, newClock())
	c1 := join(t, s, "c1")
	s.onAddPlayer(c1)
	c1.take()

	s.onAddPlayer(c1)
	require.Equal(t, []any{messages.PlayerDenied{Reason: "server full"}}, c1.take())
}

func TestRemovePlayerChecksOwner(t *testing.T) {
	s := newTestServer(4, newClock())
	c1 := join(t, s, "c1")
	c2 := join(t, s, "c2")
	s.onAddPlayer(c1)
	c1.take()
	c2.take()
	id := netconfig.PlayerID{Serial: 1, Slot: 0}

	s.onRemovePlayer(c2, messages.RemovePlayerRequest{Player: id})
	require.Equal(t, 1, s.PlayerCount())
	require.Empty(t, c2.take())

	s.onRemovePlayer(c1, messages.RemovePlayerRequest{Player: id})
	require.Zero(t, s.PlayerCount())
	require.Equal(t, []any{messages.RosterChanged{Players: []netconfig.PlayerID{}}}, c1.take())
	require.Empty(t, c2.take())
}

func TestInputFromNonOwnerIgnored(t *testing.T) {
	s := newTestServer(4, newClock())
	c1 := join(t, s, "c1")
	c2 := join(t, s, "c2")
	s.onAddPlayer(c1)
	id := netconfig.PlayerID{Serial: 1, Slot: 0}

	move := netconfig.Vec2{Y: -1}
	s.onInputFrame(c2, messages.InputFrame{Player: id, Move: &move, Sequence: 1})
	frame, _, _ := s.Intent(id)
	require.Nil(t, frame.Move)

	s.onInputFrame(c1, messages.InputFrame{Player: id, Move: &move, Sequence: 1})
	s.onAim(c1, messages.AimEvent{Player: id, X: 3, Y: 4})
	frame, aim, ok := s.Intent(id)
	require.True(t, ok)
	require.Equal(t, move, *frame.Move)
	require.Equal(t, netconfig.Vec2{X: 3, Y: 4}, aim)
}

func TestDisconnectDropsOwnedPlayers(t *testing.T) {
	s := newTestServer(4, newClock())
	c1 := join(t, s, "c1")
	c2 := join(t, s, "c2")
	s.onAddPlayer(c1)
	s.onAddPlayer(c2)
	c2.take()

	s.onDisconnect(c1, nil)
	require.Equal(t, 1, s.PlayerCount())
	// c2's own roster is unchanged, so nothing is pushed.
	require.Empty(t, c2.take())

	s.broadcastRoster()
	want := []netconfig.PlayerID{{Serial: 2, Slot: 1}}
	require.Equal(t, []any{messages.RosterChanged{Players: want}}, c2.take())

	// Departed client no longer receives broadcasts.
	c1.take()
	s.onAddPlayer(c2)
	require.Empty(t, c1.sent)
}

func TestExpireIdleBroadcastsOnlyOnChange(t *testing.T) {
	clock := newClock()
	s := newTestServer(4, clock)
	c1 := join(t, s, "c1")
	s.onAddPlayer(c1)
	c1.take()

	s.expireIdle(30 * time.Second)
	require.Empty(t, c1.take())

	clock.advance(31 * time.Second)
	s.expireIdle(30 * time.Second)
	require.Equal(t, []any{messages.RosterChanged{Players: []netconfig.PlayerID{}}}, c1.take())
}

// hostTransport feeds a reconciler's outbound traffic straight into the host
// as peer.
type hostTransport struct {
	s        *Server
	peer     Peer
	requests int
}

func (h *hostTransport) RequestPlayer() error {
	h.requests++
	h.s.onAddPlayer(h.peer)
	return nil
}

func (h *hostTransport) SendFrame(frame messages.InputFrame) error {
	h.s.onInputFrame(h.peer, frame)
	return nil
}

// deliver applies everything the host sent peer to rec.
func deliver(t *testing.T, peer *fakePeer, rec *binding.Reconciler) {
	t.Helper()
	for _, msg := range peer.take() {
		switch m := msg.(type) {
		case messages.RosterChanged:
			require.NoError(t, rec.OnRosterPushed(m.Players))
		case messages.PlayerAdded:
			rec.OnPlayerAdded(m.Player)
		case messages.PlayerDenied:
			rec.OnPlayerDenied(m.Reason)
		}
	}
}

func TestSecondClientRequestsItsOwnPlayer(t *testing.T) {
	s := newTestServer(4, newClock())
	c1 := join(t, s, "c1")
	s.onAddPlayer(c1)
	theirs := netconfig.PlayerID{Serial: 1, Slot: 0}

	c2 := &fakePeer{id: "c2"}
	tr := &hostTransport{s: s, peer: c2}
	rec := binding.New(tr)
	s.onJoin(c2, messages.JoinRequest{Version: protocol.Version, ClientID: "c2-session"})
	deliver(t, c2, rec)
	require.Empty(t, rec.Roster())

	rec.OnDeviceConnected(netconfig.KeyboardDevice)
	require.Equal(t, 1, tr.requests)
	deliver(t, c2, rec)

	mine, ok := rec.BoundPlayer(netconfig.KeyboardDevice)
	require.True(t, ok)
	require.Equal(t, netconfig.PlayerID{Serial: 2, Slot: 1}, mine)
	require.Equal(t, []netconfig.PlayerID{mine}, rec.Roster())

	rec.SampleDevice(netconfig.KeyboardDevice, binding.Sample{Move: netconfig.Vec2{X: 1}})
	frame, _, ok := s.Intent(mine)
	require.True(t, ok)
	require.Equal(t, netconfig.Vec2{X: 1}, *frame.Move)

	frame, _, _ = s.Intent(theirs)
	require.Nil(t, frame.Move)
}
