package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/automoto/brickbrawl/logging"
	"github.com/automoto/brickbrawl/server/core"
	"github.com/automoto/brickbrawl/shared/directory"
	"github.com/automoto/brickbrawl/shared/protocol"
)

var CLI struct {
	Port       uint          `help:"Server port." default:"7373"`
	Name       string        `help:"Server display name." default:"brickbrawl dev host"`
	TickRate   int           `help:"Host tick rate (updates per second)." default:"20"`
	MaxPlayers int           `help:"Maximum live players across all clients." default:"4"`
	TTL        time.Duration `help:"Drop players idle for this long (0 disables)." default:"30s" name:"ttl"`
	Directory  string        `help:"Directory base URL to advertise this host on (optional)."`
	PublicAddr string        `help:"Address clients should dial; defaults to localhost:<port>." name:"public-addr"`
	LogFile    string        `help:"Write logs to this file as well as stderr." type:"path"`
	Debug      bool          `help:"Whether to enable debug logging."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("brickbrawl-server"),
		kong.Description("development roster host for brickbrawl"),
		kong.UsageOnError(),
	)

	if err := logging.Init(CLI.LogFile, CLI.Debug); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.Named("server")

	server := core.NewServer(core.Options{
		Name:       CLI.Name,
		TickRate:   CLI.TickRate,
		MaxPlayers: CLI.MaxPlayers,
		PlayerTTL:  CLI.TTL,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	if CLI.Directory != "" {
		addr := CLI.PublicAddr
		if addr == "" {
			addr = fmt.Sprintf("localhost:%d", CLI.Port)
		}
		reg := core.NewRegistration(CLI.Directory, directory.RegisterRequest{
			Name:       CLI.Name,
			Address:    addr,
			MaxPlayers: CLI.MaxPlayers,
			Version:    protocol.Version,
		}, server, 0, logging.Named("registration"))
		go reg.Run(ctx)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Infow("shutting down server")
		cancel()
		server.Stop()
		logging.Sync()
		os.Exit(0)
	}()

	log.Infow("starting server", "name", CLI.Name, "port", CLI.Port, "tickRate", CLI.TickRate, "maxPlayers", CLI.MaxPlayers)
	if err := server.Start(CLI.Port); err != nil {
		log.Fatalw("server error", "error", err)
	}
}
