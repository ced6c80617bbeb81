// Package protocol holds the rules client and host agree on beyond the raw
// message shapes: the protocol version and roster payload validation.
package protocol

import (
	"errors"
	"fmt"

	"github.com/automoto/brickbrawl/shared/netconfig"
)

// Version must match between client and host for a join to be accepted.
const Version = "brickbrawl/1"

var (
	ErrZeroPlayer      = errors.New("zero player id")
	ErrDuplicatePlayer = errors.New("duplicate player id")
)

// ValidateRoster checks a roster payload before it is applied. An empty
// roster is valid (no live players).
func ValidateRoster(players []netconfig.PlayerID) error {
	seen := make(map[netconfig.PlayerID]struct{}, len(players))
	for i, id := range players {
		if id.IsZero() {
			return fmt.Errorf("roster entry %d: %w", i, ErrZeroPlayer)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("roster entry %d (%s): %w", i, id, ErrDuplicatePlayer)
		}
		seen[id] = struct{}{}
	}
	return nil
}
