package systems

import (
	"testing"

	"github.com/automoto/brickbrawl/binding"
	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	roster *messages.RosterChanged
	added  []messages.PlayerAdded
	denied []messages.PlayerDenied
}

func (f *fakeEvents) LatestRoster() *messages.RosterChanged {
	r := f.roster
	f.roster = nil
	return r
}

func (f *fakeEvents) DrainPlayerAdded() []messages.PlayerAdded {
	a := f.added
	f.added = nil
	return a
}

func (f *fakeEvents) DrainPlayerDenied() []messages.PlayerDenied {
	d := f.denied
	f.denied = nil
	return d
}

func TestDrainAppliesRosterBeforeAdded(t *testing.T) {
	_, _, rec := newTestRig()
	rec.OnDeviceConnected(0)
	rec.OnDeviceConnected(1)
	require.Equal(t, 2, rec.Pending())

	ev := &fakeEvents{
		roster: &messages.RosterChanged{Players: []netconfig.PlayerID{p1}},
		added:  []messages.PlayerAdded{{Player: p2}},
	}
	var notices []string
	DrainNetEvents(ev, rec, nopLog, func(m string) { notices = append(notices, m) })

	// Roster alone binds nobody; the added player goes to the first waiting device.
	require.Equal(t, []binding.Binding{{Device: 0, Player: p2}, {Device: 1}}, rec.Devices())
	require.Equal(t, []netconfig.PlayerID{p1, p2}, rec.Roster())
	require.Equal(t, 1, rec.Pending())
	require.Equal(t, []string{"player 2 joined"}, notices)
}

func TestDrainDeniedClearsPending(t *testing.T) {
	_, _, rec := newTestRig()
	rec.OnDeviceConnected(0)

	var notices []string
	DrainNetEvents(&fakeEvents{denied: []messages.PlayerDenied{{Reason: "server full"}}}, rec, nopLog, func(m string) { notices = append(notices, m) })
	require.Equal(t, []string{"no player: server full"}, notices)
	require.Zero(t, rec.Pending())
	require.Equal(t, []binding.Binding{{Device: 0}}, rec.Devices())
}

func TestDrainKeepsRosterOnMalformedPush(t *testing.T) {
	_, _, rec := newTestRig()
	require.NoError(t, rec.OnRosterPushed([]netconfig.PlayerID{p1}))

	DrainNetEvents(&fakeEvents{roster: &messages.RosterChanged{Players: []netconfig.PlayerID{p2, p2}}}, rec, nopLog, nil)
	require.Equal(t, []netconfig.PlayerID{p1}, rec.Roster())
}
