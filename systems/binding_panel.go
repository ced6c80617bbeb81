package systems

import (
	"fmt"
	"image/color"

	"github.com/automoto/brickbrawl/binding"
	"github.com/automoto/brickbrawl/components"
	cfg "github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/fonts"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sasha-s/go-deadlock"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi/ecs"
)

type panelState struct {
	mu      deadlock.Mutex
	dirty   bool
	changed map[netconfig.DeviceIndex]bool
}

// NewBindingPanelSystem returns an ECS system that mirrors the reconciler's
// binding table into the BindingPanel component. Rows whose binding changed
// flash for cfg.Panel.FlashFrames ticks. The returned cancel detaches the
// change hook.
func NewBindingPanelSystem(rec *binding.Reconciler, methodOf func(netconfig.DeviceIndex) components.InputMethod) (system func(*ecs.ECS), cancel func()) {
	state := &panelState{
		dirty:   true,
		changed: make(map[netconfig.DeviceIndex]bool),
	}

	cancel = rec.Subscribe(func(c binding.Change) {
		state.mu.Lock()
		defer state.mu.Unlock()
		state.dirty = true
		switch c.Kind {
		case binding.DeviceAdded, binding.Bound, binding.Unbound:
			state.changed[c.Device] = true
		}
	})

	system = func(e *ecs.ECS) {
		panel := getOrCreateBindingPanel(e)

		state.mu.Lock()
		dirty := state.dirty
		changed := state.changed
		state.dirty = false
		state.changed = make(map[netconfig.DeviceIndex]bool)
		state.mu.Unlock()

		if dirty {
			rebuildRows(panel, rec, methodOf, changed)
		}
		panel.Pending = rec.Pending()

		for i := range panel.Rows {
			advanceFlash(&panel.Rows[i])
		}
	}
	return system, cancel
}

func rebuildRows(panel *components.BindingPanelData, rec *binding.Reconciler, methodOf func(netconfig.DeviceIndex) components.InputMethod, changed map[netconfig.DeviceIndex]bool) {
	bindings := rec.Devices()
	rows := make([]components.DeviceRow, 0, len(bindings))
	for _, b := range bindings {
		row := components.DeviceRow{
			Device: b.Device,
			Method: methodOf(b.Device),
			Player: b.Player,
			Bound:  b.Bound(),
		}
		if prev := panel.Row(b.Device); prev != nil {
			row.Flash = prev.Flash
			row.Highlight = prev.Highlight
		}
		if changed[b.Device] {
			row.Flash = gween.New(1, 0, float32(cfg.Panel.FlashFrames), ease.OutQuad)
			row.Highlight = 1
		}
		rows = append(rows, row)
	}
	panel.Rows = rows
	panel.Roster = rec.Roster()
}

func advanceFlash(row *components.DeviceRow) {
	if row.Flash == nil {
		return
	}
	h, done := row.Flash.Update(1)
	row.Highlight = h
	if done {
		row.Flash = nil
		row.Highlight = 0
	}
}

// getOrCreateBindingPanel returns the singleton BindingPanel component, creating if needed
func getOrCreateBindingPanel(e *ecs.ECS) *components.BindingPanelData {
	entry, ok := components.BindingPanel.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.BindingPanel))
	}
	return components.BindingPanel.Get(entry)
}

// DrawBindingPanel renders one row per known device and, in debug, the roster.
func DrawBindingPanel(e *ecs.ECS, screen *ebiten.Image) {
	entry, ok := components.BindingPanel.First(e.World)
	if !ok {
		return
	}
	panel := components.BindingPanel.Get(entry)
	p := cfg.Panel
	face := fonts.Regular.Get()

	text.Draw(screen, "DEVICES", fonts.Title.Get(), int(p.MarginX), int(p.MarginY), p.TextColor)

	y := p.MarginY + 10
	for _, row := range panel.Rows {
		bg := p.UnboundColor
		if row.Bound {
			bg = p.BoundColor
		}
		vector.FillRect(screen, float32(p.MarginX), float32(y), float32(p.RowWidth), float32(p.RowHeight-4), bg, false)
		if row.Highlight > 0 {
			flash := p.FlashColor
			flash.A = uint8(float32(flash.A) * row.Highlight * 0.6)
			vector.FillRect(screen, float32(p.MarginX), float32(y), float32(p.RowWidth), float32(p.RowHeight-4), flash, false)
		}

		player := "waiting for player"
		textColor := p.DimTextColor
		if row.Bound {
			player = row.Player.String()
			textColor = p.TextColor
		}
		label := fmt.Sprintf("%-12s %-12s %s", row.Method.Label(), row.Device, player)
		text.Draw(screen, label, face, int(p.MarginX)+6, int(y+p.RowHeight)-9, textColor)
		y += p.RowHeight
	}

	if panel.Pending > 0 {
		text.Draw(screen, fmt.Sprintf("requesting %d player(s)...", panel.Pending), fonts.Small.Get(), int(p.MarginX), int(y)+12, cfg.Yellow)
		y += 14
	}

	if cfg.Debug.ShowRoster {
		drawRoster(screen, panel.Roster, p.MarginX, y+16)
	}
}

func drawRoster(screen *ebiten.Image, roster []netconfig.PlayerID, x, y float64) {
	line := "roster:"
	if len(roster) == 0 {
		line += " (empty)"
	}
	for _, id := range roster {
		line += " " + id.String()
	}
	text.Draw(screen, line, fonts.Mono.Get(), int(x), int(y), color.RGBA{180, 180, 180, 255})
}
