package scenes

import (
	"context"
	"fmt"
	"sync"
	"time"

	cfg "github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/logging"
	"github.com/automoto/brickbrawl/network"
	"github.com/automoto/brickbrawl/shared/directory"
	"github.com/automoto/brickbrawl/shared/protocol"
	"github.com/automoto/brickbrawl/systems"
	"github.com/automoto/brickbrawl/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ConnectingScene shows the connect form and waits for the join handshake.
type ConnectingScene struct {
	sceneChanger SceneChanger
	connectUI    *ui.ConnectUI
	netClient    *network.Client
	log          *zap.SugaredLogger
	once         sync.Once

	autoConnect bool
	status      string
	address     string
	name        string
	quit        bool

	// Directory lookup results, written by the fetch goroutine
	mu       sync.Mutex
	found    *directory.HostInfo
	findErr  error
	findDone bool
}

// NewConnectingScene creates the connect screen. With autoConnect the default
// address is dialed immediately; status is shown until the next attempt.
func NewConnectingScene(sc SceneChanger, autoConnect bool, status string) *ConnectingScene {
	return &ConnectingScene{
		sceneChanger: sc,
		autoConnect:  autoConnect,
		status:       status,
		log:          logging.Named("connect"),
	}
}

func (s *ConnectingScene) Update() {
	s.once.Do(s.configure)
	if s.connectUI == nil {
		return
	}

	s.connectUI.Update()
	s.applyFindResult()

	if s.quit {
		if s.netClient != nil {
			s.netClient.Disconnect()
			s.netClient = nil
		}
		s.sceneChanger.Quit()
		return
	}

	if s.netClient == nil {
		return
	}

	switch s.netClient.State() {
	case network.StateJoinedGame:
		s.connectUI.SetStatus("Joined!")
		s.rememberSettings()
		client := s.netClient
		s.netClient = nil
		s.sceneChanger.ChangeScene(NewSessionScene(s.sceneChanger, client))

	case network.StateError:
		errMsg := "Connection failed"
		if err := s.netClient.LastError(); err != nil {
			errMsg = err.Error()
		}
		s.log.Warnw("connect failed", "address", s.address, "error", errMsg)
		s.connectUI.SetStatus(errMsg)
		s.connectUI.SetConnecting(false)
		s.netClient.Disconnect()
		s.netClient = nil

	case network.StateConnecting:
		s.connectUI.SetStatus("Connecting...")

	case network.StateConnected:
		s.connectUI.SetStatus("Connected, joining game...")

	case network.StateDisconnected:
		s.connectUI.SetStatus("Disconnected")
		s.connectUI.SetConnecting(false)
		s.netClient = nil
	}
}

func (s *ConnectingScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.Background)

	if s.connectUI == nil {
		return
	}
	s.connectUI.UI.Draw(screen)
}

func (s *ConnectingScene) configure() {
	var onFind func()
	if cfg.Network.DirectoryURL != "" {
		onFind = s.findHost
	}
	connectUI, err := ui.NewConnectUI(
		cfg.Network.DefaultAddress,
		cfg.Network.DefaultPlayerName,
		s.onConnect,
		onFind,
		func() { s.quit = true },
	)
	if err != nil {
		s.log.Errorw("connect screen unavailable", "error", err)
		s.sceneChanger.Quit()
		return
	}
	s.connectUI = connectUI
	s.connectUI.SetStatus(s.status)

	if s.autoConnect {
		s.onConnect(s.connectUI.Address(), s.connectUI.Name())
	}
}

func (s *ConnectingScene) onConnect(address, name string) {
	if s.netClient != nil {
		s.netClient.Disconnect()
	}

	s.address, s.name = address, name
	s.connectUI.SetStatus("Connecting...")
	s.connectUI.SetConnecting(true)

	s.netClient = network.NewClient(logging.Named("client"))
	s.netClient.Connect(address, protocol.Version, name)
}

func (s *ConnectingScene) findHost() {
	s.connectUI.SetStatus("Looking up hosts...")
	s.connectUI.SetFinding(true)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var found *directory.HostInfo
		hosts, err := network.FetchHosts(ctx, cfg.Network.DirectoryURL)
		if err == nil {
			var h directory.HostInfo
			if h, err = network.PickHost(hosts, protocol.Version); err == nil {
				found = &h
			}
		}

		s.mu.Lock()
		s.found, s.findErr, s.findDone = found, err, true
		s.mu.Unlock()
	}()
}

// applyFindResult moves a finished lookup onto the form on the game goroutine.
func (s *ConnectingScene) applyFindResult() {
	s.mu.Lock()
	if !s.findDone {
		s.mu.Unlock()
		return
	}
	found, err := s.found, s.findErr
	s.found, s.findErr, s.findDone = nil, nil, false
	s.mu.Unlock()

	s.connectUI.SetFinding(false)
	if err != nil {
		s.log.Warnw("host lookup failed", "directory", cfg.Network.DirectoryURL, "error", err)
		s.connectUI.SetStatus(err.Error())
		return
	}
	s.connectUI.SetAddress(found.Address)
	s.connectUI.SetStatus(fmt.Sprintf("Found %s (%d/%d)", found.Name, found.Players, found.MaxPlayers))
}

// rememberSettings persists the address and name of a successful join.
func (s *ConnectingScene) rememberSettings() {
	cfg.Network.DefaultAddress = s.address
	cfg.Network.DefaultPlayerName = s.name
	if err := systems.SaveSettings(systems.CurrentSettings()); err != nil {
		s.log.Warnw("could not save settings", "error", err)
	}
}
