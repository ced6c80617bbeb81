package main

import (
	"errors"
	"image"

	"github.com/alecthomas/kong"
	"github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/fonts"
	"github.com/automoto/brickbrawl/logging"
	"github.com/automoto/brickbrawl/scenes"
	"github.com/automoto/brickbrawl/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

var CLI struct {
	Server    string  `help:"Host address (host:port). Connects immediately when set."`
	Name      string  `help:"Player name sent with the join request."`
	Directory string  `help:"Host directory base URL; enables Find on the connect screen."`
	Deadzone  float64 `help:"Analog stick deadzone (0-1)." default:"-1"`
	LogFile   string  `help:"Write logs to this file as well as stderr." type:"path"`
	Debug     bool    `help:"Whether to enable debug logging."`
}

type Game struct {
	bounds image.Rectangle
	scene  scenes.Scene
	quit   bool
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene scenes.Scene) {
	g.scene = scene
}

// Quit ends the game loop after the current tick
func (g *Game) Quit() {
	g.quit = true
}

func NewGame(autoConnect bool) *Game {
	g := &Game{
		bounds: image.Rectangle{},
	}
	g.scene = scenes.NewConnectingScene(g, autoConnect, "")
	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	kong.Parse(&CLI,
		kong.Name("brickbrawl"),
		kong.Description("brickbrawl desktop client"),
		kong.UsageOnError(),
	)

	if err := logging.Init(CLI.LogFile, CLI.Debug); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.Named("main")

	// Initialize persistence and load saved settings; flags override them
	if err := systems.InitPersistence(); err != nil {
		log.Warnw("could not initialize persistence", "error", err)
	}
	saved, err := systems.LoadSettings()
	if err != nil {
		log.Warnw("could not read saved settings", "error", err)
	}
	systems.ApplySavedSettingsGlobal(saved)
	applyFlags()

	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalw("could not load fonts", "error", err)
	}

	ebiten.SetWindowSize(config.C.Width*2, config.C.Height*2)
	ebiten.SetWindowTitle(config.C.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(NewGame(CLI.Server != "")); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalw("game loop failed", "error", err)
	}
}

func applyFlags() {
	if CLI.Server != "" {
		config.Network.DefaultAddress = CLI.Server
	}
	if CLI.Name != "" {
		config.Network.DefaultPlayerName = CLI.Name
	}
	if CLI.Directory != "" {
		config.Network.DirectoryURL = CLI.Directory
	}
	if CLI.Deadzone >= 0 && CLI.Deadzone < 1 {
		config.Input.Deadzone = CLI.Deadzone
	}
}
