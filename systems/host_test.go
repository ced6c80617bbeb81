package systems

import (
	"github.com/automoto/brickbrawl/binding"
	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

type fakePad struct {
	name     string
	standard bool
	axes     map[ebiten.StandardGamepadAxis]float64
	buttons  map[ebiten.StandardGamepadButton]bool
}

// fakeHost is a scripted DeviceHost.
type fakeHost struct {
	pads     map[ebiten.GamepadID]*fakePad
	order    []ebiten.GamepadID
	keys     map[ebiten.Key]bool
	mouse    map[ebiten.MouseButton]bool
	cursorX  int
	cursorY  int
	nameHits int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		pads:  make(map[ebiten.GamepadID]*fakePad),
		keys:  make(map[ebiten.Key]bool),
		mouse: make(map[ebiten.MouseButton]bool),
	}
}

func (h *fakeHost) plug(id ebiten.GamepadID, name string, standard bool) *fakePad {
	p := &fakePad{
		name:     name,
		standard: standard,
		axes:     make(map[ebiten.StandardGamepadAxis]float64),
		buttons:  make(map[ebiten.StandardGamepadButton]bool),
	}
	h.pads[id] = p
	h.order = append(h.order, id)
	return p
}

func (h *fakeHost) unplug(id ebiten.GamepadID) {
	delete(h.pads, id)
	for i, x := range h.order {
		if x == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			return
		}
	}
}

func (h *fakeHost) AppendGamepadIDs(ids []ebiten.GamepadID) []ebiten.GamepadID {
	return append(ids, h.order...)
}

func (h *fakeHost) IsStandardGamepadLayoutAvailable(id ebiten.GamepadID) bool {
	p, ok := h.pads[id]
	return ok && p.standard
}

func (h *fakeHost) StandardGamepadAxisValue(id ebiten.GamepadID, axis ebiten.StandardGamepadAxis) float64 {
	if p, ok := h.pads[id]; ok {
		return p.axes[axis]
	}
	return 0
}

func (h *fakeHost) IsStandardGamepadButtonPressed(id ebiten.GamepadID, button ebiten.StandardGamepadButton) bool {
	if p, ok := h.pads[id]; ok {
		return p.buttons[button]
	}
	return false
}

func (h *fakeHost) GamepadName(id ebiten.GamepadID) string {
	h.nameHits++
	if p, ok := h.pads[id]; ok {
		return p.name
	}
	return ""
}

func (h *fakeHost) IsKeyPressed(key ebiten.Key) bool { return h.keys[key] }

func (h *fakeHost) IsMouseButtonPressed(b ebiten.MouseButton) bool { return h.mouse[b] }

func (h *fakeHost) CursorPosition() (int, int) { return h.cursorX, h.cursorY }

// recordingTransport captures everything the reconciler and keyboard send.
type recordingTransport struct {
	requests int
	frames   []messages.InputFrame
	aims     []messages.AimEvent
	removed  []netconfig.PlayerID
}

func (t *recordingTransport) RequestPlayer() error {
	t.requests++
	return nil
}

func (t *recordingTransport) SendFrame(f messages.InputFrame) error {
	t.frames = append(t.frames, f)
	return nil
}

func (t *recordingTransport) SendAim(player netconfig.PlayerID, x, y float64) error {
	t.aims = append(t.aims, messages.AimEvent{Player: player, X: x, Y: y})
	return nil
}

func (t *recordingTransport) RemovePlayer(player netconfig.PlayerID) error {
	t.removed = append(t.removed, player)
	return nil
}

func (t *recordingTransport) lastFrame() messages.InputFrame {
	return t.frames[len(t.frames)-1]
}

func newTestRig() (*fakeHost, *recordingTransport, *binding.Reconciler) {
	tr := &recordingTransport{}
	return newFakeHost(), tr, binding.New(tr)
}

var nopLog = zap.NewNop().Sugar()

var (
	p1 = netconfig.PlayerID{Serial: 1, Slot: 0}
	p2 = netconfig.PlayerID{Serial: 2, Slot: 1}
)
