package systems

import (
	"testing"

	cfg "github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/require"
)

func TestKeyboardRegistersOnFirstPoll(t *testing.T) {
	host, tr, rec := newTestRig()
	kb := NewKeyboardMouse(host, rec, tr, nopLog)

	kb.Poll()
	require.Equal(t, 1, tr.requests)
	require.Len(t, rec.Devices(), 1)

	kb.Poll()
	require.Equal(t, 1, tr.requests)
	require.Empty(t, tr.frames)
}

func TestKeyboardMoveVector(t *testing.T) {
	host, tr, rec := newTestRig()
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	kb := NewKeyboardMouse(host, rec, tr, nopLog)

	host.keys[ebiten.KeyD] = true
	host.keys[ebiten.KeyW] = true
	kb.Poll()
	require.Equal(t, netconfig.Vec2{X: 1, Y: -1}, *tr.lastFrame().Move)

	// Opposite keys cancel.
	host.keys[ebiten.KeyA] = true
	host.keys[ebiten.KeyS] = true
	kb.Poll()
	require.Equal(t, netconfig.Vec2{}, *tr.lastFrame().Move)
}

func TestKeyboardButtons(t *testing.T) {
	host, tr, rec := newTestRig()
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	kb := NewKeyboardMouse(host, rec, tr, nopLog)

	host.keys[ebiten.KeySpace] = true
	host.mouse[ebiten.MouseButtonRight] = true
	kb.Poll()
	require.Equal(t, netconfig.Buttons{Grab: true, Place: true}, tr.lastFrame().Buttons)
	require.Equal(t, netconfig.Vec2{}, tr.lastFrame().Look)
}

func TestMouseAimWhileHeld(t *testing.T) {
	host, tr, rec := newTestRig()
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	kb := NewKeyboardMouse(host, rec, tr, nopLog)

	host.cursorX, host.cursorY = 100, 40
	kb.Poll()
	require.Empty(t, tr.aims, "button not held")

	host.mouse[ebiten.MouseButtonLeft] = true
	kb.Poll()
	scale := cfg.Input.MouseScale
	require.Equal(t, []messages.AimEvent{{Player: p1, X: 100 * scale, Y: 40 * scale}}, tr.aims)

	kb.Poll()
	require.Len(t, tr.aims, 1, "unchanged position is not resent")

	host.cursorX = 120
	kb.Poll()
	require.Len(t, tr.aims, 2)
}

func TestMouseAimNeedsBoundKeyboard(t *testing.T) {
	host, tr, rec := newTestRig()
	kb := NewKeyboardMouse(host, rec, tr, nopLog)

	host.mouse[ebiten.MouseButtonLeft] = true
	host.cursorX, host.cursorY = 10, 10
	kb.Poll()
	require.Empty(t, tr.aims)
}

func TestLeaveReleasesKeyboardPlayerOnce(t *testing.T) {
	host, tr, rec := newTestRig()
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	kb := NewKeyboardMouse(host, rec, tr, nopLog)
	kb.Poll()

	host.keys[ebiten.KeyBackspace] = true
	kb.Poll()
	kb.Poll()
	require.Equal(t, []netconfig.PlayerID{p1}, tr.removed)
	require.Empty(t, rec.Devices())

	// Unregistered keyboard sends no frames.
	frames := len(tr.frames)
	host.keys[ebiten.KeyD] = true
	kb.Poll()
	require.Len(t, tr.frames, frames)
}

func TestPlayerAddedAfterLeaveGoesToGamepad(t *testing.T) {
	host, tr, rec := newTestRig()
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	kb := NewKeyboardMouse(host, rec, tr, nopLog)
	pads := NewGamepadDevices(host, rec, nopLog)
	kb.Poll()

	host.keys[ebiten.KeyBackspace] = true
	kb.Poll()
	require.NoError(t, rec.OnRosterPushed(nil))

	host.plug(0, "Xbox Wireless Controller", true)
	pads.Poll()
	require.Equal(t, 1, tr.requests)

	rec.OnPlayerAdded(p2)
	got, ok := rec.BoundPlayer(0)
	require.True(t, ok)
	require.Equal(t, p2, got)
	_, ok = rec.BoundPlayer(netconfig.KeyboardDevice)
	require.False(t, ok)
	require.Zero(t, rec.Pending())

	// Join brings the keyboard back, asking for its own player.
	host.keys[ebiten.KeyBackspace] = false
	host.keys[ebiten.KeyEnter] = true
	kb.Poll()
	require.Equal(t, 2, tr.requests)
	require.Equal(t, 1, rec.Pending())
	require.Len(t, rec.Devices(), 2)
}

func TestJoinSkippedWhileRequestOutstanding(t *testing.T) {
	host, tr, rec := newTestRig()
	kb := NewKeyboardMouse(host, rec, tr, nopLog)
	kb.Poll()
	require.Equal(t, 1, tr.requests)
	require.Equal(t, 1, rec.Pending())

	host.keys[ebiten.KeyEnter] = true
	kb.Poll()
	require.Equal(t, 1, tr.requests)
	require.Len(t, rec.Devices(), 1)
}

func TestJoinReRegistersUnboundKeyboard(t *testing.T) {
	host, tr, rec := newTestRig()
	kb := NewKeyboardMouse(host, rec, tr, nopLog)
	kb.Poll()
	require.Equal(t, 1, tr.requests)

	rec.OnPlayerDenied("full")
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p2}))

	host.keys[ebiten.KeyEnter] = true
	kb.Poll()
	got, ok := rec.BoundPlayer(netconfig.KeyboardDevice)
	require.True(t, ok)
	require.Equal(t, p2, got)
	require.Equal(t, 1, tr.requests)

	// Held key and a bound keyboard do nothing further.
	kb.Poll()
	require.Len(t, rec.Devices(), 1)
}
