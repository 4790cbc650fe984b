package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/klokare/evo/config"
	"github.com/klokare/evo/config/source"
	"github.com/klokare/evo/neat"

	"github.com/kpacha/neatbird"
	"github.com/kpacha/neatbird/bolt"
	"github.com/kpacha/neatbird/neatgo"
	"github.com/kpacha/neatbird/render"
)

func main() {
	var (
		cpath    = flag.String("config", "", "path to the game configuration file")
		engine   = flag.String("engine", "neat", "engine that trained the champion: neat or evo")
		epath    = flag.String("evo-config", "config/evo.json", "path to the evo configuration file used for training")
		headless = flag.Bool("headless", false, "replay without opening a window")
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

	client, err := bolt.New(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("opening %s: %s", cfg.Storage.Path, err.Error())
	}
	jumper, err := loadJumper(*engine, *epath, client)
	client.Close()
	if err != nil {
		log.Fatalf("no %s controller to replay in %s (train with -engine %s first): %s", *engine, cfg.Storage.Path, *engine, err.Error())
	}

	w := neatbird.NewWorld(cfg, neatbird.ModeReplay, cfg.NewRand(), jumper)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if *headless {
		clock := neatbird.NewTickerClock(cfg.TickRate)
		defer clock.Stop()
		obs := neatbird.ObserverFunc(func(s neatbird.Snapshot) {
			if s.Tick > 0 && s.Tick%cfg.TickRate == 0 {
				logger.Debugw("replaying", "tick", s.Tick, "score", s.Score, "y", s.Birds[0].Y)
			}
		})
		if err := w.Run(ctx, clock, obs); err != nil {
			logger.Fatalw("replaying", "error", err)
		}
		logger.Infow("game over", "score", w.Score, "ticks", w.Tick)
		return
	}

	scene, err := render.NewScene(cfg)
	if err != nil {
		logger.Fatalw("loading the scene", "error", err)
	}
	g := &render.Game{
		World:   w,
		Scene:   scene,
		Config:  cfg,
		Log:     logger,
		Context: ctx,
		Cancel:  cancel,
	}
	if err := g.Run("neatbird (replay)"); err != nil {
		logger.Fatalw("replaying", "error", err)
	}
}

// loadJumper rebuilds the stored champion of the given engine.
func loadJumper(engine, evoConfig string, client *bolt.Client) (neatbird.Jumper, error) {
	switch engine {
	case "neat":
		net, err := neatgo.LoadChampion(client)
		if err != nil {
			return nil, err
		}
		return neatbird.NetworkJumper{Net: net}, nil
	case "evo":
		g, err := (&bolt.Evo{Client: client}).LoadChampion()
		if err != nil {
			return nil, err
		}
		src, err := source.NewJSONFromFile(evoConfig)
		if err != nil {
			return nil, err
		}
		cfg := config.Configurer{Source: source.Multi([]config.Source{
			source.Flag{},        // Check flags  first
			source.Environment{}, // Then check environment variables
			src,                  // Lastly, consult the configuration file
		})}
		return neatbird.GenomeJumper(neat.NewExperiment(cfg), g)
	}
	return nil, fmt.Errorf("unknown engine %q", engine)
}
