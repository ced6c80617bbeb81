package systems

import (
	"github.com/automoto/brickbrawl/components"
	cfg "github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// maxQueuedNotices bounds the backlog; older notices are dropped first.
const maxQueuedNotices = 4

// ShowNotice queues a short banner message. Shown immediately when idle.
func ShowNotice(e *ecs.ECS, msg string) {
	state := getOrCreateNoticeState(e)
	if state.DisplayTimer == 0 {
		state.Text = msg
		state.DisplayTimer = cfg.Notice.DisplayDuration
		return
	}
	state.Queue = append(state.Queue, msg)
	if len(state.Queue) > maxQueuedNotices {
		state.Queue = state.Queue[len(state.Queue)-maxQueuedNotices:]
	}
}

// UpdateNotice counts down the active notice and promotes the next queued one.
func UpdateNotice(e *ecs.ECS) {
	state := getOrCreateNoticeState(e)
	if state.DisplayTimer == 0 {
		return
	}
	state.DisplayTimer--
	if state.DisplayTimer > 0 {
		return
	}
	state.Text = ""
	if len(state.Queue) > 0 {
		state.Text = state.Queue[0]
		state.Queue = state.Queue[1:]
		state.DisplayTimer = cfg.Notice.DisplayDuration
	}
}

// DrawNotice renders the active notice at the top center of the screen
func DrawNotice(e *ecs.ECS, screen *ebiten.Image) {
	state := getOrCreateNoticeState(e)
	if state.DisplayTimer == 0 || state.Text == "" {
		return
	}

	face := fonts.Regular.Get()
	bounds := text.BoundString(face, state.Text) //nolint:staticcheck // TODO: migrate to text/v2
	textWidth := bounds.Dx()
	textHeight := bounds.Dy()

	padding := cfg.Notice.BoxPadding
	boxWidth := float32(textWidth) + float32(padding)*2
	boxHeight := float32(textHeight) + float32(padding)*2

	screenWidth := float64(screen.Bounds().Dx())
	boxX := float32((screenWidth - float64(boxWidth)) / 2)
	boxY := float32(cfg.Notice.TopMargin)

	vector.FillRect(screen, boxX, boxY, boxWidth, boxHeight, cfg.Notice.BoxColor, false)

	textX := int(boxX + float32(padding))
	textY := int(boxY + float32(padding) + float32(textHeight))
	text.Draw(screen, state.Text, face, textX, textY, cfg.Notice.TextColor) //nolint:staticcheck // TODO: migrate to text/v2
}

func getOrCreateNoticeState(e *ecs.ECS) *components.NoticeStateData {
	entry, ok := components.NoticeState.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.NoticeState))
	}
	return components.NoticeState.Get(entry)
}
