package components

import "github.com/yohamta/donburi"

// NoticeStateData is a singleton holding the notice banner
type NoticeStateData struct {
	Text         string
	DisplayTimer int // Frames remaining to display Text
	Queue        []string
}

var NoticeState = donburi.NewComponentType[NoticeStateData]()
