// Package neatgo plugs the neat-go population loop into the trainer: every
// generation is handed to the trainer as a single fitness callback.
package neatgo

import (
	"context"
	"fmt"
	"sort"

	"github.com/baldhumanity/neat-go/neat"
	"github.com/baldhumanity/neat-go/neat/nn"
	"go.uber.org/zap"

	"github.com/kpacha/neatbird"
	"github.com/kpacha/neatbird/bolt"
)

// Engine runs generations of a neat-go population.
type Engine struct {
	Population *neat.Population
	Trainer    *neatbird.Trainer
	// Store receives the champion of a solved generation; optional.
	Store *bolt.Client
	Log   *zap.SugaredLogger

	ctx      context.Context
	champion *neat.Genome
}

// New loads the neat-go INI configuration and seeds a fresh population.
func New(configPath string, trainer *neatbird.Trainer, store *bolt.Client, log *zap.SugaredLogger) (*Engine, error) {
	cfg, err := neat.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	pop, err := neat.NewPopulation(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating population: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		Population: pop,
		Trainer:    trainer,
		Store:      store,
		Log:        log,
	}, nil
}

// Run evaluates up to generations generations. It stops early when a
// generation is solved (the champion is returned) or when neat-go's own
// fitness threshold is met (its winner is returned).
func (e *Engine) Run(ctx context.Context, generations int) (*neat.Genome, error) {
	if e.Log == nil {
		e.Log = zap.NewNop().Sugar()
	}
	e.ctx = ctx
	e.champion = nil

	for i := 0; i < generations; i++ {
		winner, err := e.Population.RunGeneration(e.evaluate)
		if err != nil {
			return nil, err
		}
		if e.champion != nil {
			return e.champion, nil
		}
		if winner != nil {
			e.Log.Infow("fitness threshold met", "genome", winner.Key, "fitness", winner.Fitness)
			return winner, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// evaluate is the neat-go fitness function.
func (e *Engine) evaluate(genomes map[int]*neat.Genome) error {
	ctx := e.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	keys := make([]int, 0, len(genomes))
	for k := range genomes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	candidates := make([]*neatbird.Candidate, len(keys))
	for i, k := range keys {
		net, err := nn.CreateFeedForwardNetwork(genomes[k])
		if err != nil {
			return fmt.Errorf("genome %d: %w", k, err)
		}
		candidates[i] = &neatbird.Candidate{ID: int64(k), Jumper: neatbird.NetworkJumper{Net: net}}
	}

	out, err := e.Trainer.Evaluate(ctx, candidates)
	if err != nil {
		return err
	}
	for i, k := range keys {
		genomes[k].Fitness = candidates[i].Fitness
	}

	if !out.Solved || out.Champion == nil {
		return nil
	}
	champion := genomes[int(out.Champion.ID)]
	e.Log.Infow("generation solved", "generation", out.Generation, "score", out.Score, "genome", champion.Key)
	if e.Store != nil {
		if err := SaveChampion(e.Store, champion); err != nil {
			return err
		}
	}
	e.champion = champion
	return nil
}
