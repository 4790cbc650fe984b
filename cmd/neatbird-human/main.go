package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/kpacha/neatbird"
	"github.com/kpacha/neatbird/render"
)

func main() {
	var (
		cpath = flag.String("config", "", "path to the game configuration file")
		tpath = flag.String("trace", "", "path to the file recording every decision (disabled if empty)")
	)
	flag.Parse()

	cfg, err := neatbird.LoadConfig(*cpath)
	if err != nil {
		log.Fatal(err.Error())
	}
	logger, err := neatbird.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	input := &neatbird.InputJumper{}
	var jumper neatbird.Jumper = input
	if *tpath != "" {
		file, err := os.Create(*tpath)
		if err != nil {
			logger.Fatalw("creating the trace file", "path", *tpath, "error", err)
		}
		defer file.Close()
		jumper = neatbird.TraceJumper{Jumper: input, Out: file}
	}

	scene, err := render.NewScene(cfg)
	if err != nil {
		logger.Fatalw("loading the scene", "error", err)
	}

	newWorld := func() *neatbird.World {
		return neatbird.NewWorld(cfg, neatbird.ModePlay, cfg.NewRand(), jumper)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &render.Game{
		World:   newWorld(),
		Input:   input,
		Scene:   scene,
		Config:  cfg,
		Restart: newWorld,
		Log:     logger,
		Context: ctx,
		Cancel:  cancel,
	}
	if err := g.Run("neatbird"); err != nil {
		logger.Fatalw("playing", "error", err)
	}
}
