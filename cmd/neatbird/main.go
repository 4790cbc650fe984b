package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/klokare/evo"
	"github.com/klokare/evo/config"
	"github.com/klokare/evo/config/source"
	"github.com/klokare/evo/neat"
	"go.uber.org/zap"

	"github.com/kpacha/neatbird"
	"github.com/kpacha/neatbird/bolt"
	"github.com/kpacha/neatbird/neatgo"
	"github.com/kpacha/neatbird/render"
	"github.com/kpacha/neatbird/telemetry"
)

func main() {
	// Parse the command-line flags
	var (
		cpath    = flag.String("config", "", "path to the game configuration file")
		engine   = flag.String("engine", "neat", "evolutionary engine: neat or evo")
		iter     = flag.Int("generations", 0, "max number of generations (0 uses the configured value)")
		headless = flag.Bool("headless", false, "train without opening a window")
		epath    = flag.String("evo-config", "config/evo.json", "path to the evo configuration file")
		history  = flag.Bool("history", false, "print the stored generation history as CSV and exit")
	)
	flag.Parse()

	cfg, err := neatbird.LoadConfig(*cpath)
	if err != nil {
		log.Fatal(err.Error())
	}
	if *iter <= 0 {
		*iter = cfg.Training.Generations
	}

	logger, err := neatbird.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	client, err := bolt.New(cfg.Storage.Path)
	if err != nil {
		logger.Fatalw("opening the store", "path", cfg.Storage.Path, "error", err)
	}
	defer client.Close()

	if *history {
		if err := (bolt.Generations{Client: client}).WriteCSV(os.Stdout); err != nil {
			logger.Fatalw("reading the generation history", "error", err)
		}
		return
	}

	output, err := telemetry.NewOutput(cfg.Telemetry.Dir)
	if err != nil {
		logger.Fatalw("creating the telemetry output", "error", err)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		logger.Fatalw("saving the effective config", "error", err)
	}

	trainer := &neatbird.Trainer{
		Config:    cfg,
		Log:       logger,
		Reporters: []neatbird.Reporter{output, bolt.Generations{Client: client}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var run func(context.Context) error
	switch *engine {
	case "neat":
		e, err := neatgo.New(cfg.Training.NeatConfig, trainer, client, logger)
		if err != nil {
			logger.Fatalw("loading the neat-go config", "path", cfg.Training.NeatConfig, "error", err)
		}
		run = func(ctx context.Context) error {
			champion, err := e.Run(ctx, *iter)
			if err != nil {
				return err
			}
			if champion == nil {
				logger.Infow("training finished without a champion", "generations", trainer.Generation())
				return nil
			}
			logger.Infow("training finished", "generations", trainer.Generation(), "champion", champion.Key, "fitness", champion.Fitness)
			return nil
		}
	case "evo":
		run = evoRunner(*epath, *iter, trainer, client, logger)
	default:
		logger.Fatalw("unknown engine", "engine", *engine)
	}

	if *headless {
		if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatalw("training", "error", err)
		}
		return
	}

	scene, err := render.NewScene(cfg)
	if err != nil {
		logger.Fatalw("loading the scene", "error", err)
	}
	clock := neatbird.NewGatedClock()
	latest := &neatbird.Latest{}
	trainer.Clock = clock
	trainer.Observer = latest

	done := make(chan error, 1)
	go func() {
		done <- run(ctx)
	}()

	spectator := &render.Spectator{
		Clock:  clock,
		Latest: latest,
		Scene:  scene,
		Config: cfg,
		Cancel: cancel,
		Done:   done,
	}
	if err := spectator.Run("neatbird (training)"); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalw("training", "error", err)
	}
}

// evoRunner wires the trainer into a klokare/evo experiment: the searcher
// flies every phenome of a generation in the same world.
func evoRunner(path string, iter int, trainer *neatbird.Trainer, client *bolt.Client, logger *zap.SugaredLogger) func(context.Context) error {
	src, err := source.NewJSONFromFile(path)
	if err != nil {
		logger.Fatalw("loading the evo config", "path", path, "error", err)
	}
	cfg := config.Configurer{Source: source.Multi([]config.Source{
		source.Flag{},        // Check flags  first
		source.Environment{}, // Then check environment variables
		src,                  // Lastly, consult the configuration file
	})}
	exp := neat.NewExperiment(cfg)

	boltWatcher := bolt.Evo{Client: client, Log: logger}
	exp.AddSubscription(evo.Subscription{Event: evo.Completed, Callback: neatbird.ShowBest(logger)})
	exp.AddSubscription(evo.Subscription{Event: evo.Evaluated, Callback: boltWatcher.StoreBest})
	exp.AddSubscription(evo.Subscription{Event: evo.Evaluated, Callback: boltWatcher.StoreChampion})

	return func(ctx context.Context) error {
		exp.Searcher = neatbird.Searcher{Trainer: trainer, Context: ctx}

		// Run the experiment for a set number of iterations
		ctx, fn, cb := evo.WithIterations(ctx, iter)
		defer fn() // ensure the context cancels
		exp.AddSubscription(evo.Subscription{Event: evo.Evaluated, Callback: cb})

		// Stop the experiment if there is a solution
		ctx, fn, cb = evo.WithSolution(ctx)
		defer fn() // ensure the context cancels
		exp.AddSubscription(evo.Subscription{Event: evo.Evaluated, Callback: cb})

		_, err := evo.Run(ctx, exp, neatbird.Evaluator{Trainer: trainer, Context: ctx})
		return err
	}
}
