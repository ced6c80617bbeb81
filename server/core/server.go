package core

import (
	"fmt"
	"time"

	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/automoto/brickbrawl/shared/protocol"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

// Peer is a connected client as the host sees it.
type Peer interface {
	Id() string
	SendMessage(msg any) error
}

// Options configures a Server.
type Options struct {
	Name       string
	TickRate   int
	MaxPlayers int
	// PlayerTTL drops players that sent nothing for this long; 0 disables it
	PlayerTTL time.Duration
	Now       func() time.Time
}

// Server is the development roster host: it issues player ids, pushes
// rosters to joined clients and records their input.
type Server struct {
	opts      Options
	log       *zap.SugaredLogger
	loop      *GameLoop
	transport *transports.WsServerTransport

	mu     deadlock.Mutex
	roster *Roster
	peers  map[string]Peer // joined clients by id
	order  []string        // join order
}

// NewServer creates a new roster host
func NewServer(opts Options, log *zap.SugaredLogger) *Server {
	s := &Server{
		opts:   opts,
		log:    log,
		roster: NewRoster(opts.MaxPlayers, opts.Now),
		peers:  make(map[string]Peer),
	}
	s.loop = NewGameLoop(s, opts.TickRate, opts.PlayerTTL)
	return s
}

// Start registers the router callbacks, starts the loop and blocks serving
// websocket clients on port.
func (s *Server) Start(port uint) error {
	s.setupRouterCallbacks()
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.log.Infow("client connected", "client", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.onJoin(client, msg)
	})

	router.On(func(client *router.NetworkClient, _ messages.AddPlayerRequest) {
		s.onAddPlayer(client)
	})

	router.On(func(client *router.NetworkClient, msg messages.RemovePlayerRequest) {
		s.onRemovePlayer(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.InputFrame) {
		s.onInputFrame(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.AimEvent) {
		s.onAim(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.log.Warnw("client error", "client", client.Id(), "error", err)
	})
}

func (s *Server) onJoin(peer Peer, req messages.JoinRequest) {
	if req.Version != protocol.Version {
		s.log.Warnw("join rejected", "client", peer.Id(), "version", req.Version)
		s.send(peer, messages.JoinRejected{
			Reason: fmt.Sprintf("version mismatch: host %s, client %s", protocol.Version, req.Version),
		})
		return
	}

	s.mu.Lock()
	if _, ok := s.peers[peer.Id()]; !ok {
		s.order = append(s.order, peer.Id())
	}
	s.peers[peer.Id()] = peer
	roster := s.roster.ListOwner(peer.Id())
	s.mu.Unlock()

	s.log.Infow("client joined", "client", peer.Id(), "name", req.PlayerName, "session", req.ClientID)
	s.send(peer, messages.JoinAccepted{
		ClientID:   req.ClientID,
		ServerName: s.opts.Name,
		TickRate:   s.opts.TickRate,
		MaxPlayers: s.opts.MaxPlayers,
	})
	s.send(peer, messages.RosterChanged{Players: roster})
}

func (s *Server) onAddPlayer(peer Peer) {
	s.mu.Lock()
	if _, joined := s.peers[peer.Id()]; !joined {
		s.mu.Unlock()
		s.log.Debugw("add request before join", "client", peer.Id())
		return
	}
	id, ok := s.roster.Add(peer.Id())
	s.mu.Unlock()

	if !ok {
		s.log.Infow("player denied", "client", peer.Id())
		s.send(peer, messages.PlayerDenied{Reason: "server full"})
		return
	}
	s.log.Infow("player added", "client", peer.Id(), "player", id)
	s.send(peer, messages.PlayerAdded{Player: id})
	s.pushRoster(peer)
}

func (s *Server) onRemovePlayer(peer Peer, req messages.RemovePlayerRequest) {
	s.mu.Lock()
	owner, ok := s.roster.Owner(req.Player)
	if !ok || owner != peer.Id() {
		s.mu.Unlock()
		return
	}
	s.roster.Remove(req.Player)
	s.mu.Unlock()

	s.log.Infow("player removed", "client", peer.Id(), "player", req.Player)
	s.pushRoster(peer)
}

func (s *Server) onInputFrame(peer Peer, frame messages.InputFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.roster.Owner(frame.Player); !ok || owner != peer.Id() {
		return
	}
	s.roster.RecordFrame(frame)
}

func (s *Server) onAim(peer Peer, ev messages.AimEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.roster.Owner(ev.Player); !ok || owner != peer.Id() {
		return
	}
	s.roster.RecordAim(ev.Player, netconfig.Vec2{X: ev.X, Y: ev.Y})
}

func (s *Server) onDisconnect(peer Peer, err error) {
	if err != nil {
		s.log.Infow("client disconnected", "client", peer.Id(), "error", err)
	} else {
		s.log.Infow("client disconnected", "client", peer.Id())
	}

	s.mu.Lock()
	delete(s.peers, peer.Id())
	for i, id := range s.order {
		if id == peer.Id() {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	removed := s.roster.RemoveOwner(peer.Id())
	s.mu.Unlock()

	if len(removed) > 0 {
		s.log.Infow("players dropped with client", "client", peer.Id(), "players", removed)
	}
}

// expireIdle drops players idle longer than ttl, broadcasting on change.
func (s *Server) expireIdle(ttl time.Duration) {
	s.mu.Lock()
	expired := s.roster.Expire(ttl)
	s.mu.Unlock()

	if len(expired) > 0 {
		s.log.Infow("players expired", "players", expired, "ttl", ttl)
		s.broadcastRoster()
	}
}

// broadcastRoster pushes every joined client its own roster.
func (s *Server) broadcastRoster() {
	s.mu.Lock()
	peers := make([]Peer, 0, len(s.order))
	for _, id := range s.order {
		peers = append(peers, s.peers[id])
	}
	s.mu.Unlock()

	s.pushRoster(peers...)
}

// pushRoster sends each peer the players it owns, never another client's.
func (s *Server) pushRoster(peers ...Peer) {
	for _, p := range peers {
		s.mu.Lock()
		msg := messages.RosterChanged{Players: s.roster.ListOwner(p.Id())}
		s.mu.Unlock()
		s.send(p, msg)
	}
}

func (s *Server) send(peer Peer, msg any) {
	if err := peer.SendMessage(msg); err != nil {
		s.log.Warnw("send failed", "client", peer.Id(), "type", fmt.Sprintf("%T", msg), "error", err)
	}
}

// Intent returns the latest recorded input for a player.
func (s *Server) Intent(id netconfig.PlayerID) (messages.InputFrame, netconfig.Vec2, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Intent(id)
}

// PlayerCount returns the number of live players
func (s *Server) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Len()
}
