package systems

import (
	"testing"

	"github.com/automoto/brickbrawl/components"
	cfg "github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func keyboardOnly(d netconfig.DeviceIndex) components.InputMethod {
	if d.IsKeyboard() {
		return components.InputKeyboard
	}
	return components.InputXbox
}

func panelOf(t *testing.T, e *ecs.ECS) *components.BindingPanelData {
	t.Helper()
	entry, ok := components.BindingPanel.First(e.World)
	require.True(t, ok)
	return components.BindingPanel.Get(entry)
}

func TestBindingPanelMirrorsReconciler(t *testing.T) {
	_, _, rec := newTestRig()
	e := ecs.NewECS(donburi.NewWorld())
	system, cancel := NewBindingPanelSystem(rec, keyboardOnly)
	defer cancel()

	system(e)
	require.Empty(t, panelOf(t, e).Rows)

	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	rec.OnDeviceConnected(netconfig.KeyboardDevice)
	rec.OnDeviceConnected(0)
	system(e)

	panel := panelOf(t, e)
	require.Len(t, panel.Rows, 2)
	require.Equal(t, components.DeviceRow{
		Device: netconfig.KeyboardDevice, Method: components.InputKeyboard, Player: p1, Bound: true,
	}, withoutFlash(panel.Rows[0]))
	require.False(t, panel.Rows[1].Bound)
	require.Equal(t, components.InputXbox, panel.Rows[1].Method)
	require.Equal(t, []netconfig.PlayerID{p1}, panel.Roster)
	require.Equal(t, 1, panel.Pending)
}

func TestBindingPanelFlashFades(t *testing.T) {
	_, _, rec := newTestRig()
	e := ecs.NewECS(donburi.NewWorld())
	system, cancel := NewBindingPanelSystem(rec, keyboardOnly)
	defer cancel()

	rec.OnDeviceConnected(0)
	system(e)
	row := panelOf(t, e).Rows[0]
	require.NotNil(t, row.Flash)
	require.Greater(t, row.Highlight, float32(0))
	require.Less(t, row.Highlight, float32(1))

	for i := 0; i < cfg.Panel.FlashFrames; i++ {
		system(e)
	}
	row = panelOf(t, e).Rows[0]
	require.Nil(t, row.Flash)
	require.Zero(t, row.Highlight)
}

func TestBindingPanelEvictionFlashesRow(t *testing.T) {
	_, _, rec := newTestRig()
	e := ecs.NewECS(donburi.NewWorld())
	system, cancel := NewBindingPanelSystem(rec, keyboardOnly)
	defer cancel()

	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))
	rec.OnDeviceConnected(0)
	for i := 0; i <= cfg.Panel.FlashFrames; i++ {
		system(e)
	}
	require.Nil(t, panelOf(t, e).Rows[0].Flash)

	require.NoError(t, rec.OnRosterPushed(nil))
	system(e)
	row := panelOf(t, e).Rows[0]
	require.False(t, row.Bound)
	require.NotNil(t, row.Flash)
}

func TestBindingPanelCancelStopsUpdates(t *testing.T) {
	_, _, rec := newTestRig()
	e := ecs.NewECS(donburi.NewWorld())
	system, cancel := NewBindingPanelSystem(rec, keyboardOnly)

	system(e)
	cancel()
	rec.OnDeviceConnected(0)
	system(e)
	require.Empty(t, panelOf(t, e).Rows)
}

func withoutFlash(r components.DeviceRow) components.DeviceRow {
	r.Flash = nil
	r.Highlight = 0
	return r
}
