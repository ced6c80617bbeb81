package systems

import (
	"github.com/automoto/brickbrawl/binding"
	cfg "github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// KeyboardOutput carries the keyboard's discrete, non-frame messages.
type KeyboardOutput interface {
	SendAim(player netconfig.PlayerID, x, y float64) error
	RemovePlayer(player netconfig.PlayerID) error
}

// KeyboardMouse drives the keyboard sentinel device. Keys produce the move
// vector and buttons every tick; the mouse aims through discrete AimEvents
// addressed with the reconciler's BoundPlayer lookup.
type KeyboardMouse struct {
	host DeviceHost
	rec  *binding.Reconciler
	out  KeyboardOutput
	log  *zap.SugaredLogger

	registered bool
	left       bool // unregistered by the leave key
	joinHeld   bool
	leaveHeld  bool

	aimSet     bool
	aimX, aimY float64
}

func NewKeyboardMouse(host DeviceHost, rec *binding.Reconciler, out KeyboardOutput, log *zap.SugaredLogger) *KeyboardMouse {
	return &KeyboardMouse{host: host, rec: rec, out: out, log: log}
}

// Poll registers the keyboard on the first tick, then samples it.
func (k *KeyboardMouse) Poll() {
	if !k.registered {
		k.registered = true
		k.rec.OnDeviceConnected(netconfig.KeyboardDevice)
	}

	k.pollJoinLeave()
	k.pollAim()

	k.rec.SampleDevice(netconfig.KeyboardDevice, binding.Sample{
		Move: k.moveVector(),
		Buttons: netconfig.Buttons{
			Grab:  k.pressed(cfg.ButtonGrab),
			Dash:  k.pressed(cfg.ButtonDash),
			Place: k.pressed(cfg.ButtonPlace),
		},
	})
}

// pollAim sends the scaled cursor position while the left button is held and
// the position moved since the last one recorded.
func (k *KeyboardMouse) pollAim() {
	if !k.host.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	cx, cy := k.host.CursorPosition()
	x := float64(cx) * cfg.Input.MouseScale
	y := float64(cy) * cfg.Input.MouseScale
	if k.aimSet && x == k.aimX && y == k.aimY {
		return
	}
	k.aimSet = true
	k.aimX, k.aimY = x, y

	player, ok := k.rec.BoundPlayer(netconfig.KeyboardDevice)
	if !ok {
		return
	}
	if err := k.out.SendAim(player, x, y); err != nil {
		k.log.Debugw("aim dropped", "player", player, "error", err)
	}
}

// pollJoinLeave handles drop-in and drop-out. Leave asks the host to remove
// the keyboard's player and unregisters the keyboard, so players added later
// go to devices that asked for them. Join registers it again. Join on a
// registered but unbound keyboard retries the claim, unless an add request
// is still outstanding.
func (k *KeyboardMouse) pollJoinLeave() {
	join := k.anyKeyPressed(cfg.Input.JoinKeys)
	leave := k.anyKeyPressed(cfg.Input.LeaveKeys)
	joinPressed := join && !k.joinHeld
	leavePressed := leave && !k.leaveHeld
	k.joinHeld, k.leaveHeld = join, leave

	switch {
	case leavePressed && !k.left:
		k.left = true
		if player, bound := k.rec.BoundPlayer(netconfig.KeyboardDevice); bound {
			k.log.Infow("releasing keyboard player", "player", player)
			if err := k.out.RemovePlayer(player); err != nil {
				k.log.Warnw("remove request dropped", "player", player, "error", err)
			}
		}
		k.rec.OnDeviceDisconnected(netconfig.KeyboardDevice)

	case joinPressed && k.left:
		k.left = false
		k.log.Infow("keyboard joining")
		k.rec.OnDeviceConnected(netconfig.KeyboardDevice)

	case joinPressed:
		if _, bound := k.rec.BoundPlayer(netconfig.KeyboardDevice); bound {
			return
		}
		if pending := k.rec.Pending(); pending > 0 {
			k.log.Debugw("keyboard rejoin skipped, request outstanding", "pending", pending)
			return
		}
		k.log.Infow("keyboard rejoining")
		k.rec.OnDeviceDisconnected(netconfig.KeyboardDevice)
		k.rec.OnDeviceConnected(netconfig.KeyboardDevice)
	}
}

// moveVector composes the configured move keys into {-1,0,1} per axis.
func (k *KeyboardMouse) moveVector() netconfig.Vec2 {
	keys := cfg.Input.MoveKeys
	return netconfig.Vec2{
		X: k.axis(keys.Left, keys.Right),
		Y: k.axis(keys.Up, keys.Down),
	}
}

func (k *KeyboardMouse) axis(negative, positive []ebiten.Key) float64 {
	var v float64
	if k.anyKeyPressed(positive) {
		v++
	}
	if k.anyKeyPressed(negative) {
		v--
	}
	return v
}

func (k *KeyboardMouse) pressed(button cfg.ButtonID) bool {
	b := cfg.Input.Buttons[button]
	if k.anyKeyPressed(b.Keys) {
		return true
	}
	for _, mb := range b.MouseButtons {
		if k.host.IsMouseButtonPressed(mb) {
			return true
		}
	}
	return false
}

func (k *KeyboardMouse) anyKeyPressed(keys []ebiten.Key) bool {
	for _, key := range keys {
		if k.host.IsKeyPressed(key) {
			return true
		}
	}
	return false
}
