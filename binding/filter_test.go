package binding

import (
	"math"
	"testing"

	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/stretchr/testify/assert"
)

func TestDeadzone(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"at threshold passes", 0.2, 0.2},
		{"negative at threshold passes", -0.2, -0.2},
		{"just below threshold zeroes", 0.19999, 0},
		{"small negative zeroes", -0.1, 0},
		{"full deflection unchanged", 1, 1},
		{"mid value not rescaled", 0.35, 0.35},
		{"zero stays zero", 0, 0},
		{"nan reads as zero", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Deadzone(tt.in, DefaultDeadzone))
		})
	}
}

func TestApplyDeadzoneFiltersComponentsIndependently(t *testing.T) {
	got := ApplyDeadzone(netconfig.Vec2{X: 1, Y: 0.1}, DefaultDeadzone)
	assert.Equal(t, netconfig.Vec2{X: 1, Y: 0}, got)

	got = ApplyDeadzone(netconfig.Vec2{X: -0.05, Y: -0.8}, DefaultDeadzone)
	assert.Equal(t, netconfig.Vec2{X: 0, Y: -0.8}, got)
}
