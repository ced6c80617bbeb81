package config

import (
	"image/color"

	"github.com/yohamta/donburi/ecs"
)

// Config holds general window configuration
type Config struct {
	Width  int
	Height int
	Title  string
}

// PanelConfig contains binding panel layout and colors
type PanelConfig struct {
	MarginX     float64
	MarginY     float64
	RowHeight   float64
	RowWidth    float64
	FlashFrames int // Frames a changed row stays highlighted

	BoundColor   color.RGBA
	UnboundColor color.RGBA
	FlashColor   color.RGBA
	TextColor    color.RGBA
	DimTextColor color.RGBA
}

// NoticeConfig contains the transient notice banner settings
type NoticeConfig struct {
	DisplayDuration int // Frames a notice stays on screen
	BoxPadding      int
	TopMargin       int
	BoxColor        color.RGBA
	TextColor       color.RGBA
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	ShowRoster bool // Draw the raw roster under the binding panel
}

// Render layers
const (
	Default ecs.LayerID = iota
)

// Global configuration instances
var C *Config
var Panel PanelConfig
var Notice NoticeConfig
var Debug DebugConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	BrightYellow = color.RGBA{R: 255, G: 255, B: 100, A: 255}
	LightGreen   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	Gray         = color.RGBA{R: 140, G: 140, B: 140, A: 255}
	Background   = color.RGBA{R: 20, G: 20, B: 30, A: 255}
)

func init() {
	C = &Config{
		Width:  640,
		Height: 360,
		Title:  "brickbrawl",
	}

	Panel = PanelConfig{
		MarginX:      16,
		MarginY:      24,
		RowHeight:    22,
		RowWidth:     300,
		FlashFrames:  30,
		BoundColor:   color.RGBA{R: 40, G: 90, B: 40, A: 255},
		UnboundColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
		FlashColor:   BrightYellow,
		TextColor:    White,
		DimTextColor: Gray,
	}

	Notice = NoticeConfig{
		DisplayDuration: 120,
		BoxPadding:      6,
		TopMargin:       4,
		BoxColor:        color.RGBA{R: 0, G: 0, B: 0, A: 180},
		TextColor:       White,
	}

	Debug = DebugConfig{
		ShowRoster: true,
	}
}
