package components

import (
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// DeviceRow is one line of the binding panel
type DeviceRow struct {
	Device netconfig.DeviceIndex
	Method InputMethod
	Player netconfig.PlayerID
	Bound  bool

	// Flash fades the row highlight after a binding change; nil when idle
	Flash     *gween.Tween
	Highlight float32 // 0..1, current flash intensity
}

// BindingPanelData mirrors the reconciler's binding table for drawing
type BindingPanelData struct {
	Rows    []DeviceRow
	Roster  []netconfig.PlayerID
	Pending int
}

var BindingPanel = donburi.NewComponentType[BindingPanelData]()

// Row returns the row for device, or nil.
func (d *BindingPanelData) Row(device netconfig.DeviceIndex) *DeviceRow {
	for i := range d.Rows {
		if d.Rows[i].Device == device {
			return &d.Rows[i]
		}
	}
	return nil
}
