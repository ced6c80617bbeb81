package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	ErrNotConnected = errors.New("not connected")
	ErrOutboxFull   = errors.New("outbox full")
)

// Client manages a WebSocket connection to the game host.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
// Outbound messages go through a bounded outbox so callers on the game tick
// never wait on the socket.
type Client struct {
	mu  deadlock.RWMutex
	log *zap.SugaredLogger

	clientID   string
	state      ClientState
	lastError  error
	serverName string
	tickRate   int
	maxPlayers int
	conn       *websocket.Conn
	stopWriter context.CancelFunc

	outbox chan any

	rosterCh chan messages.RosterChanged // size-1 buffered; latest wins
	addedCh  chan messages.PlayerAdded
	deniedCh chan messages.PlayerDenied
}

func NewClient(log *zap.SugaredLogger) *Client {
	return &Client{
		log:      log,
		clientID: uuid.NewString(),
		state:    StateDisconnected,
		outbox:   make(chan any, config.Network.OutboxSize),
		rosterCh: make(chan messages.RosterChanged, 1),
		addedCh:  make(chan messages.PlayerAdded, config.Network.EventBuffer),
		deniedCh: make(chan messages.PlayerDenied, config.Network.EventBuffer),
	}
}

// Connect dials the host in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.log.Infow("connected to host", "address", address)
		c.mu.Lock()
		c.state = StateConnected
		conn := c.conn
		c.mu.Unlock()

		payload, err := router.Serialize(messages.JoinRequest{
			Version:    version,
			PlayerName: playerName,
			ClientID:   c.clientID,
		})
		if err != nil {
			c.setError(fmt.Errorf("failed to serialize join request: %w", err))
			return
		}

		if conn != nil {
			if err := conn.Write(context.Background(), websocket.MessageBinary, payload); err != nil {
				c.setError(fmt.Errorf("failed to send join request: %w", err))
			}
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.handleJoinAccepted(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		c.log.Warnw("join rejected", "reason", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, msg messages.RosterChanged) {
		c.handleRoster(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.PlayerAdded) {
		c.handlePlayerAdded(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.PlayerDenied) {
		c.handlePlayerDenied(msg)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.log.Infow("disconnected", "error", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		stop := c.stopWriter
		c.stopWriter = nil
		c.mu.Unlock()

		if stop != nil {
			stop()
		}
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.log.Warnw("router error", "error", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			ctx, cancel := context.WithCancel(context.Background())
			c.mu.Lock()
			c.conn = conn
			c.stopWriter = cancel
			c.mu.Unlock()

			go c.writeLoop(ctx, conn)
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	stop := c.stopWriter
	c.state = StateDisconnected
	c.conn = nil
	c.stopWriter = nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) ClientID() string {
	return c.clientID
}

func (c *Client) ServerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverName
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

func (c *Client) MaxPlayers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxPlayers
}

// Post queues msg for the writer goroutine. It never blocks: without a joined
// session or with a full outbox the message is dropped and an error returned.
func (c *Client) Post(msg any) error {
	c.mu.RLock()
	state := c.state
	c.mu.RUnlock()

	if state != StateJoinedGame {
		return ErrNotConnected
	}

	select {
	case c.outbox <- msg:
		return nil
	default:
		return ErrOutboxFull
	}
}

// LatestRoster returns the most recent roster push, or nil. Non-blocking.
func (c *Client) LatestRoster() *messages.RosterChanged {
	select {
	case msg := <-c.rosterCh:
		return &msg
	default:
		return nil
	}
}

// DrainPlayerAdded returns all pending add confirmations, non-blocking.
func (c *Client) DrainPlayerAdded() []messages.PlayerAdded {
	return drainChan(c.addedCh)
}

// DrainPlayerDenied returns all pending add denials, non-blocking.
func (c *Client) DrainPlayerDenied() []messages.PlayerDenied {
	return drainChan(c.deniedCh)
}

func (c *Client) writeLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.outbox:
			payload, err := router.Serialize(msg)
			if err != nil {
				c.log.Warnw("serialize failed", "type", fmt.Sprintf("%T", msg), "error", err)
				continue
			}
			if err := conn.Write(ctx, websocket.MessageBinary, payload); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.log.Warnw("write failed", "type", fmt.Sprintf("%T", msg), "error", err)
			}
		}
	}
}

func (c *Client) handleJoinAccepted(msg messages.JoinAccepted) {
	c.log.Infow("join accepted", "server", msg.ServerName, "tickRate", msg.TickRate, "maxPlayers", msg.MaxPlayers)
	c.mu.Lock()
	c.serverName = msg.ServerName
	c.tickRate = msg.TickRate
	c.maxPlayers = msg.MaxPlayers
	c.state = StateJoinedGame
	c.mu.Unlock()
}

func (c *Client) handleRoster(msg messages.RosterChanged) {
	select { // drain stale, push latest
	case <-c.rosterCh:
	default:
	}
	select {
	case c.rosterCh <- msg:
	default:
	}
}

func (c *Client) handlePlayerAdded(msg messages.PlayerAdded) {
	select {
	case c.addedCh <- msg:
	default:
		c.log.Warnw("player-added event dropped", "player", msg.Player)
	}
}

func (c *Client) handlePlayerDenied(msg messages.PlayerDenied) {
	select {
	case c.deniedCh <- msg:
	default:
		c.log.Warnw("player-denied event dropped", "reason", msg.Reason)
	}
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
