package systems

import (
	"slices"
	"strings"

	"github.com/automoto/brickbrawl/binding"
	"github.com/automoto/brickbrawl/components"
	cfg "github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// GamepadDevices diffs the connected gamepads against the previous tick,
// reports standard-layout arrivals and departures to the reconciler and
// samples those pads.
type GamepadDevices struct {
	host DeviceHost
	rec  *binding.Reconciler
	log  *zap.SugaredLogger

	// Reusable slice for gamepad IDs to avoid allocations
	ids []ebiten.GamepadID
	// Seen pads; false for pads without the standard layout, which are
	// never registered with the reconciler
	known map[ebiten.GamepadID]bool

	// Cache controller types to avoid string allocation every frame
	controllerTypes map[ebiten.GamepadID]components.InputMethod
}

func NewGamepadDevices(host DeviceHost, rec *binding.Reconciler, log *zap.SugaredLogger) *GamepadDevices {
	return &GamepadDevices{
		host:            host,
		rec:             rec,
		log:             log,
		known:           make(map[ebiten.GamepadID]bool),
		controllerTypes: make(map[ebiten.GamepadID]components.InputMethod),
	}
}

// Poll runs one tick: connect/disconnect diff, then sampling.
func (g *GamepadDevices) Poll() {
	g.ids = g.host.AppendGamepadIDs(g.ids[:0])

	var gone []ebiten.GamepadID
	for id := range g.known {
		if !slices.Contains(g.ids, id) {
			gone = append(gone, id)
		}
	}
	slices.Sort(gone)
	for _, id := range gone {
		registered := g.known[id]
		delete(g.known, id)
		delete(g.controllerTypes, id)
		if !registered {
			continue
		}
		g.log.Infow("gamepad disconnected", "id", id)
		g.rec.OnDeviceDisconnected(netconfig.DeviceIndex(id))
	}

	for _, id := range g.ids {
		if _, seen := g.known[id]; seen {
			continue
		}
		if !g.host.IsStandardGamepadLayoutAvailable(id) {
			g.known[id] = false
			g.log.Warnw("gamepad ignored, no standard layout", "id", id, "name", g.host.GamepadName(id))
			continue
		}
		g.known[id] = true
		g.log.Infow("gamepad connected", "id", id, "name", g.host.GamepadName(id), "type", g.ControllerType(netconfig.DeviceIndex(id)).Label())
		g.rec.OnDeviceConnected(netconfig.DeviceIndex(id))
	}

	for _, id := range g.ids {
		if g.known[id] {
			g.rec.SampleDevice(netconfig.DeviceIndex(id), g.sample(id))
		}
	}
}

func (g *GamepadDevices) sample(id ebiten.GamepadID) binding.Sample {
	return binding.Sample{
		Move: g.stick(id, cfg.Input.MoveStick),
		Look: g.stick(id, cfg.Input.LookStick),
		Buttons: netconfig.Buttons{
			Grab:  g.pressed(id, cfg.ButtonGrab),
			Dash:  g.pressed(id, cfg.ButtonDash),
			Place: g.pressed(id, cfg.ButtonPlace),
		},
	}
}

func (g *GamepadDevices) stick(id ebiten.GamepadID, axes cfg.StickAxes) netconfig.Vec2 {
	return netconfig.Vec2{
		X: g.host.StandardGamepadAxisValue(id, axes.Horizontal),
		Y: g.host.StandardGamepadAxisValue(id, axes.Vertical),
	}
}

func (g *GamepadDevices) pressed(id ebiten.GamepadID, button cfg.ButtonID) bool {
	for _, btn := range cfg.Input.Buttons[button].StandardGamepadButtons {
		if g.host.IsStandardGamepadButtonPressed(id, btn) {
			return true
		}
	}
	return false
}

// ControllerType returns the cached controller type, detecting on first access.
// The keyboard sentinel always reports InputKeyboard.
func (g *GamepadDevices) ControllerType(device netconfig.DeviceIndex) components.InputMethod {
	if device.IsKeyboard() {
		return components.InputKeyboard
	}
	gpID := ebiten.GamepadID(device)
	if method, ok := g.controllerTypes[gpID]; ok {
		return method
	}

	method := components.InputGeneric
	if g.host.IsStandardGamepadLayoutAvailable(gpID) {
		method = controllerTypeFromName(g.host.GamepadName(gpID))
	}
	g.controllerTypes[gpID] = method
	return method
}

func controllerTypeFromName(name string) components.InputMethod {
	name = strings.ToLower(name)
	if strings.Contains(name, "ps4") || strings.Contains(name, "ps5") ||
		strings.Contains(name, "playstation") || strings.Contains(name, "dualshock") ||
		strings.Contains(name, "dualsense") {
		return components.InputPlayStation
	}
	// Default gamepad to Xbox-style
	return components.InputXbox
}
