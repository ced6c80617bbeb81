package core

import (
	"time"
)

// GameLoop ticks the host: each tick expires idle players.
type GameLoop struct {
	server   *Server
	tickRate int
	ttl      time.Duration
	stopChan chan struct{}
}

func NewGameLoop(server *Server, tickRate int, ttl time.Duration) *GameLoop {
	if tickRate <= 0 {
		tickRate = 20
	}
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	g.server.log.Infow("game loop started", "tickRate", g.tickRate, "ttl", g.ttl)

	for {
		select {
		case <-g.stopChan:
			g.server.log.Infow("game loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *GameLoop) Stop() {
	close(g.stopChan)
}

func (g *GameLoop) tick() {
	if g.ttl > 0 {
		g.server.expireIdle(g.ttl)
	}
}
