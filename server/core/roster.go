package core

import (
	"slices"
	"time"

	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/automoto/brickbrawl/shared/netconfig"
)

// rosterEntry is one live player and the latest intent received for it.
type rosterEntry struct {
	id       netconfig.PlayerID
	owner    string
	lastSeen time.Time
	frame    messages.InputFrame
	aim      netconfig.Vec2
}

// Roster issues player ids and tracks the live set in insertion order.
// Serials come from a host-wide counter starting at 1; slots are the lowest
// free index below maxPlayers. Not safe for concurrent use.
type Roster struct {
	maxPlayers int
	serial     uint32
	entries    []*rosterEntry
	now        func() time.Time
}

func NewRoster(maxPlayers int, now func() time.Time) *Roster {
	if now == nil {
		now = time.Now
	}
	return &Roster{maxPlayers: maxPlayers, now: now}
}

// Add creates a player owned by owner. Returns false when every slot is taken.
func (r *Roster) Add(owner string) (netconfig.PlayerID, bool) {
	slot, ok := r.freeSlot()
	if !ok {
		return netconfig.PlayerID{}, false
	}
	r.serial++
	id := netconfig.PlayerID{Serial: r.serial, Slot: slot}
	r.entries = append(r.entries, &rosterEntry{id: id, owner: owner, lastSeen: r.now()})
	return id, true
}

func (r *Roster) freeSlot() (uint32, bool) {
	for slot := uint32(0); slot < uint32(r.maxPlayers); slot++ {
		taken := slices.ContainsFunc(r.entries, func(e *rosterEntry) bool { return e.id.Slot == slot })
		if !taken {
			return slot, true
		}
	}
	return 0, false
}

// Remove drops id. Returns false if it was not live.
func (r *Roster) Remove(id netconfig.PlayerID) bool {
	n := len(r.entries)
	r.entries = slices.DeleteFunc(r.entries, func(e *rosterEntry) bool { return e.id == id })
	return len(r.entries) != n
}

// RemoveOwner drops every player owned by owner and returns them.
func (r *Roster) RemoveOwner(owner string) []netconfig.PlayerID {
	var removed []netconfig.PlayerID
	r.entries = slices.DeleteFunc(r.entries, func(e *rosterEntry) bool {
		if e.owner == owner {
			removed = append(removed, e.id)
			return true
		}
		return false
	})
	return removed
}

// Owner returns the owner of id.
func (r *Roster) Owner(id netconfig.PlayerID) (string, bool) {
	if e := r.find(id); e != nil {
		return e.owner, true
	}
	return "", false
}

// List returns the live ids in insertion order.
func (r *Roster) List() []netconfig.PlayerID {
	out := make([]netconfig.PlayerID, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.id)
	}
	return out
}

// ListOwner returns the live ids owned by owner, in insertion order.
func (r *Roster) ListOwner(owner string) []netconfig.PlayerID {
	out := make([]netconfig.PlayerID, 0, len(r.entries))
	for _, e := range r.entries {
		if e.owner == owner {
			out = append(out, e.id)
		}
	}
	return out
}

func (r *Roster) Len() int {
	return len(r.entries)
}

// Touch marks id as active now. Returns false if id is not live.
func (r *Roster) Touch(id netconfig.PlayerID) bool {
	e := r.find(id)
	if e == nil {
		return false
	}
	e.lastSeen = r.now()
	return true
}

// RecordFrame stores frame as the latest for its player, dropping frames
// older than the one held. A frame without Move keeps the previous move.
func (r *Roster) RecordFrame(frame messages.InputFrame) bool {
	if !r.Touch(frame.Player) {
		return false
	}
	e := r.find(frame.Player)
	if e.frame.Sequence != 0 && frame.Sequence <= e.frame.Sequence {
		return true
	}
	if frame.Move == nil {
		frame.Move = e.frame.Move
	}
	e.frame = frame
	return true
}

// RecordAim stores the latest pointer aim for a player.
func (r *Roster) RecordAim(id netconfig.PlayerID, aim netconfig.Vec2) bool {
	if !r.Touch(id) {
		return false
	}
	r.find(id).aim = aim
	return true
}

// Intent returns the latest frame and aim recorded for id.
func (r *Roster) Intent(id netconfig.PlayerID) (messages.InputFrame, netconfig.Vec2, bool) {
	e := r.find(id)
	if e == nil {
		return messages.InputFrame{}, netconfig.Vec2{}, false
	}
	return e.frame, e.aim, true
}

// Expire drops players not seen within ttl and returns them.
func (r *Roster) Expire(ttl time.Duration) []netconfig.PlayerID {
	cutoff := r.now().Add(-ttl)
	var expired []netconfig.PlayerID
	r.entries = slices.DeleteFunc(r.entries, func(e *rosterEntry) bool {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.id)
			return true
		}
		return false
	})
	return expired
}

func (r *Roster) find(id netconfig.PlayerID) *rosterEntry {
	for _, e := range r.entries {
		if e.id == id {
			return e
		}
	}
	return nil
}
