package neatbird

import (
	"context"

	"github.com/klokare/evo"
)

// Searcher evaluates phenomes all at once: every phenome of the generation
// flies in the same world. A lone phenome is handed to the evaluator.
type Searcher struct {
	Trainer *Trainer
	Context context.Context
}

// Search the solution space with the phenomes
func (s Searcher) Search(eval evo.Evaluator, phenomes []evo.Phenome) (results []evo.Result, err error) {
	if len(phenomes) == 1 && eval != nil {
		r, err := eval.Evaluate(phenomes[0])
		if err != nil {
			return nil, err
		}
		return []evo.Result{r}, nil
	}

	ctx := s.Context
	if ctx == nil {
		ctx = context.Background()
	}

	candidates := make([]*Candidate, len(phenomes))
	for i, p := range phenomes {
		candidates[i] = &Candidate{ID: p.ID, Jumper: PhenomeJumper{p}}
	}

	out, err := s.Trainer.Evaluate(ctx, candidates)
	if err != nil {
		return nil, err
	}

	results = make([]evo.Result, len(candidates))
	for i, c := range candidates {
		results[i] = evo.Result{
			ID:      c.ID,
			Fitness: c.Fitness,
			Solved:  out.Solved && c == out.Champion,
		}
	}
	return results, nil
}
