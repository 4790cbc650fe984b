package neatbird

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Candidate is a population member handed over by an evolutionary engine.
// Fitness is overwritten at the end of the generation.
type Candidate struct {
	ID      int64
	Jumper  Jumper
	Fitness float64
}

// Outcome summarizes a finished generation.
type Outcome struct {
	Generation int
	Population int
	Score      int
	Ticks      int
	Solved     bool
	// Champion is the best surviving candidate of a solved generation.
	Champion *Candidate
	// Fitness holds the final fitness of every candidate, in input order.
	Fitness []float64
}

// Reporter is notified of every finished generation.
type Reporter interface {
	Report(Outcome) error
}

// Trainer runs whole populations through a shared world, one generation per
// Evaluate call. The zero value of every optional field is usable.
type Trainer struct {
	Config    *Config
	Clock     Clock
	Observer  Observer
	Log       *zap.SugaredLogger
	Rand      *rand.Rand
	Reporters []Reporter

	generation int
}

// Generation is the number of generations evaluated so far.
func (t *Trainer) Generation() int {
	return t.generation
}

// Evaluate runs one generation until every bird died or the score went past
// the threshold, and writes the accumulated fitness back to the candidates.
func (t *Trainer) Evaluate(ctx context.Context, candidates []*Candidate) (Outcome, error) {
	if t.Config == nil {
		return Outcome{}, errors.New("trainer: missing config")
	}
	if t.Rand == nil {
		t.Rand = t.Config.NewRand()
	}
	log := t.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	t.generation++
	gen := t.generation

	jumpers := make([]Jumper, len(candidates))
	for i, c := range candidates {
		jumpers[i] = c.Jumper
	}
	w := NewWorld(t.Config, ModeTrain, t.Rand, jumpers...)

	var obs Observer
	if t.Observer != nil {
		obs = ObserverFunc(func(s Snapshot) {
			s.Generation = gen
			t.Observer.Observe(s)
		})
	}

	start := time.Now()
	if err := w.Run(ctx, t.Clock, obs); err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		Generation: gen,
		Population: len(candidates),
		Score:      w.Score,
		Ticks:      w.Tick,
		Solved:     w.Solved(),
		Fitness:    make([]float64, len(candidates)),
	}
	for i, a := range w.Agents {
		candidates[i].Fitness = a.Fitness
		out.Fitness[i] = a.Fitness
	}
	if out.Solved {
		var best *Agent
		for _, a := range w.Living() {
			if best == nil || a.Fitness > best.Fitness {
				best = a
			}
		}
		if best != nil {
			out.Champion = candidates[best.ID]
		}
	}

	log.Infow("generation evaluated",
		"generation", gen,
		"population", out.Population,
		"score", out.Score,
		"ticks", out.Ticks,
		"solved", out.Solved,
		"elapsed", time.Since(start),
	)

	for _, r := range t.Reporters {
		if err := r.Report(out); err != nil {
			return out, err
		}
	}
	return out, nil
}
