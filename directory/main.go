package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"github.com/automoto/brickbrawl/logging"
)

var CLI struct {
	Port    int           `help:"HTTP listen port." default:"8080"`
	TTL     time.Duration `help:"Drop hosts silent for this long." default:"90s" name:"ttl"`
	LogFile string        `help:"Write logs to this file as well as stderr." type:"path"`
	Debug   bool          `help:"Whether to enable debug logging."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("brickbrawl-directory"),
		kong.Description("dev host directory for brickbrawl"),
		kong.UsageOnError(),
	)

	if err := logging.Init(CLI.LogFile, CLI.Debug); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.Named("directory")

	reg := NewRegistry(CLI.TTL, log)
	stop := make(chan struct{})
	defer close(stop)
	go reg.Run(30*time.Second, stop)

	addr := fmt.Sprintf(":%d", CLI.Port)
	log.Infow("starting directory", "addr", addr, "ttl", CLI.TTL)
	if err := http.ListenAndServe(addr, NewMux(reg, log)); err != nil {
		log.Fatalw("directory stopped", "error", err)
	}
}
