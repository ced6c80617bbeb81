package binding

import (
	"math"

	"github.com/automoto/brickbrawl/shared/netconfig"
)

// Deadzone zeroes v when its magnitude is below threshold. Values at or above
// the threshold pass through unchanged, without rescaling. NaN reads as zero.
func Deadzone(v, threshold float64) float64 {
	if math.IsNaN(v) || math.Abs(v) < threshold {
		return 0
	}
	return v
}

// ApplyDeadzone filters each component of v independently.
func ApplyDeadzone(v netconfig.Vec2, threshold float64) netconfig.Vec2 {
	return netconfig.Vec2{
		X: Deadzone(v.X, threshold),
		Y: Deadzone(v.Y, threshold),
	}
}
