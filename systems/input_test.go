package systems

import (
	"testing"

	"github.com/automoto/brickbrawl/binding"
	"github.com/automoto/brickbrawl/components"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/require"
)

func TestGamepadConnectBindsFreePlayer(t *testing.T) {
	host, tr, rec := newTestRig()
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	pads := NewGamepadDevices(host, rec, nopLog)

	host.plug(0, "Xbox Wireless Controller", true)
	pads.Poll()

	got, ok := rec.BoundPlayer(0)
	require.True(t, ok)
	require.Equal(t, p1, got)
	require.Zero(t, tr.requests)

	// Second pad finds no free player and requests one.
	host.plug(3, "DualSense Wireless Controller", true)
	pads.Poll()
	require.Equal(t, 1, tr.requests)
	_, ok = rec.BoundPlayer(3)
	require.False(t, ok)
}

func TestGamepadDisconnectDetected(t *testing.T) {
	host, _, rec := newTestRig()
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1, p2}))
	pads := NewGamepadDevices(host, rec, nopLog)

	host.plug(0, "pad", true)
	host.plug(1, "pad", true)
	pads.Poll()
	require.Len(t, rec.Devices(), 2)

	host.unplug(0)
	pads.Poll()
	require.Equal(t, []binding.Binding{{Device: 1, Player: p2}}, rec.Devices())
	require.Equal(t, []netconfig.PlayerID{p1, p2}, rec.Roster())
}

func TestGamepadSampleUsesSticksAndButtons(t *testing.T) {
	host, tr, rec := newTestRig()
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	pads := NewGamepadDevices(host, rec, nopLog)

	pad := host.plug(0, "pad", true)
	pad.axes[ebiten.StandardGamepadAxisLeftStickHorizontal] = 0.9
	pad.axes[ebiten.StandardGamepadAxisLeftStickVertical] = 0.05
	pad.axes[ebiten.StandardGamepadAxisRightStickHorizontal] = -0.5
	pad.buttons[ebiten.StandardGamepadButtonRightBottom] = true
	pad.buttons[ebiten.StandardGamepadButtonFrontTopRight] = true
	pads.Poll()

	require.Len(t, tr.frames, 1)
	f := tr.lastFrame()
	require.Equal(t, p1, f.Player)
	require.NotNil(t, f.Move)
	require.Equal(t, netconfig.Vec2{X: 0.9}, *f.Move)
	require.Equal(t, netconfig.Vec2{X: -0.5}, f.Look)
	require.Equal(t, netconfig.Buttons{Grab: true, Place: true}, f.Buttons)

	// Held still: look and buttons keep flowing, move is suppressed.
	pads.Poll()
	require.Len(t, tr.frames, 2)
	require.Nil(t, tr.lastFrame().Move)
}

func TestGamepadWithoutStandardLayoutIsIgnored(t *testing.T) {
	host, tr, rec := newTestRig()
	pads := NewGamepadDevices(host, rec, nopLog)

	host.plug(2, "generic joystick", false)
	pads.Poll()
	pads.Poll()

	// Never registered, so it neither claims nor requests a player.
	require.Empty(t, rec.Devices())
	require.Zero(t, tr.requests)
	require.Empty(t, tr.frames)
	require.Equal(t, components.InputGeneric, pads.ControllerType(2))

	// A free roster player stays for a pad that can drive it.
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	host.plug(0, "Xbox Wireless Controller", true)
	pads.Poll()
	got, ok := rec.BoundPlayer(0)
	require.True(t, ok)
	require.Equal(t, p1, got)

	host.unplug(2)
	pads.Poll()
	require.Equal(t, []binding.Binding{{Device: 0, Player: p1}}, rec.Devices())
}

func TestControllerTypeCached(t *testing.T) {
	host, _, rec := newTestRig()
	pads := NewGamepadDevices(host, rec, nopLog)
	host.plug(1, "Sony DualShock 4", true)

	require.Equal(t, components.InputPlayStation, pads.ControllerType(1))
	hits := host.nameHits
	require.Equal(t, components.InputPlayStation, pads.ControllerType(1))
	require.Equal(t, hits, host.nameHits)
	require.Equal(t, components.InputKeyboard, pads.ControllerType(netconfig.KeyboardDevice))
}

func TestControllerTypeFromName(t *testing.T) {
	cases := map[string]components.InputMethod{
		"Xbox Series X Controller":      components.InputXbox,
		"PS5 Controller":                components.InputPlayStation,
		"DualSense Wireless Controller": components.InputPlayStation,
		"8BitDo Pro 2":                  components.InputXbox,
	}
	for name, want := range cases {
		require.Equal(t, want, controllerTypeFromName(name), name)
	}
}
