package scenes

import (
	"fmt"
	"sync"

	"github.com/automoto/brickbrawl/binding"
	cfg "github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/fonts"
	"github.com/automoto/brickbrawl/logging"
	"github.com/automoto/brickbrawl/network"
	"github.com/automoto/brickbrawl/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// SessionScene owns the reconciler for one joined session and wires the
// device, network and panel systems around it.
type SessionScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	netClient    *network.Client
	reconciler   *binding.Reconciler
	cancelPanel  func()
	log          *zap.SugaredLogger
	once         sync.Once
}

func NewSessionScene(sc SceneChanger, client *network.Client) *SessionScene {
	return &SessionScene{
		sceneChanger: sc,
		netClient:    client,
		log:          logging.Named("session"),
	}
}

func (ss *SessionScene) Update() {
	ss.once.Do(ss.configure)

	state := ss.netClient.State()
	if state == network.StateDisconnected || state == network.StateError {
		status := "Disconnected from host"
		if err := ss.netClient.LastError(); err != nil {
			status = err.Error()
		}
		ss.log.Infow("session ended", "state", state)
		ss.leave(status)
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ss.log.Infow("leaving session")
		ss.leave("")
		return
	}

	ss.ecsWorld.Update()
}

func (ss *SessionScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.Background)

	if ss.ecsWorld == nil {
		return
	}

	ss.ecsWorld.Draw(screen)

	footer := fmt.Sprintf("%s  |  %d/%d players  |  Enter: join  Backspace: leave  Esc: disconnect",
		ss.netClient.ServerName(), len(ss.reconciler.Roster()), ss.netClient.MaxPlayers())
	text.Draw(screen, footer, fonts.Small.Get(), int(cfg.Panel.MarginX), cfg.C.Height-10, cfg.Gray)
}

func (ss *SessionScene) configure() {
	ss.ecsWorld = ecs.NewECS(donburi.NewWorld())

	transport := network.NewTransport(ss.netClient)
	ss.reconciler = binding.New(transport,
		binding.WithDeadzone(cfg.Input.Deadzone),
		binding.WithLogger(logging.Named("binding")),
		binding.WithFailureLogInterval(cfg.Network.FailureLogInterval),
	)

	host := systems.EbitenHost{}
	devLog := logging.Named("devices")
	pads := systems.NewGamepadDevices(host, ss.reconciler, devLog)
	keyboard := systems.NewKeyboardMouse(host, ss.reconciler, transport, devLog)
	panelSystem, cancel := systems.NewBindingPanelSystem(ss.reconciler, pads.ControllerType)
	ss.cancelPanel = cancel

	// Host events first so devices sample against the freshest roster
	ss.ecsWorld.AddSystem(systems.NewNetEventsSystem(ss.netClient, ss.reconciler, ss.log))
	ss.ecsWorld.AddSystem(func(_ *ecs.ECS) { keyboard.Poll() })
	ss.ecsWorld.AddSystem(func(_ *ecs.ECS) { pads.Poll() })
	ss.ecsWorld.AddSystem(panelSystem)
	ss.ecsWorld.AddSystem(systems.UpdateNotice)
	ss.ecsWorld.AddRenderer(cfg.Default, systems.DrawBindingPanel)
	ss.ecsWorld.AddRenderer(cfg.Default, systems.DrawNotice)

	ss.log.Infow("session started", "server", ss.netClient.ServerName(), "tickRate", ss.netClient.TickRate())
}

func (ss *SessionScene) leave(status string) {
	if ss.cancelPanel != nil {
		ss.cancelPanel()
	}
	ss.netClient.Disconnect()
	ss.sceneChanger.ChangeScene(NewConnectingScene(ss.sceneChanger, false, status))
}
