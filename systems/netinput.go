package systems

import (
	"fmt"

	"github.com/automoto/brickbrawl/binding"
	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// NetEvents is the inbound side of the network client, drained once per tick.
type NetEvents interface {
	LatestRoster() *messages.RosterChanged
	DrainPlayerAdded() []messages.PlayerAdded
	DrainPlayerDenied() []messages.PlayerDenied
}

// NewNetEventsSystem returns an ECS system that feeds host events into the
// reconciler on the game goroutine. Must run BEFORE the device systems so a
// tick samples against the freshest roster.
func NewNetEventsSystem(src NetEvents, rec *binding.Reconciler, log *zap.SugaredLogger) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		DrainNetEvents(src, rec, log, func(msg string) { ShowNotice(e, msg) })
	}
}

// DrainNetEvents applies the latest roster first, then add confirmations and
// denials in arrival order. notify receives a line per add and denial; may be nil.
func DrainNetEvents(src NetEvents, rec *binding.Reconciler, log *zap.SugaredLogger, notify func(string)) {
	if notify == nil {
		notify = func(string) {}
	}

	if roster := src.LatestRoster(); roster != nil {
		// A malformed roster keeps the previous one.
		if err := rec.OnRosterPushed(roster.Players); err != nil {
			log.Debugw("roster push ignored", "players", len(roster.Players), "error", err)
		}
	}

	for _, added := range src.DrainPlayerAdded() {
		rec.OnPlayerAdded(added.Player)
		notify(fmt.Sprintf("player %d joined", added.Player.Slot+1))
	}

	for _, denied := range src.DrainPlayerDenied() {
		rec.OnPlayerDenied(denied.Reason)
		notify("no player: " + denied.Reason)
	}
}
