package neatbird

import (
	"context"
	"errors"
	"fmt"

	"github.com/klokare/evo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const jumpThreshold = 0.5

// ErrNoOutput is returned when a network produces no output value.
var ErrNoOutput = errors.New("network produced no output")

// Activator is a feed-forward network, like the ones built by neat-go.
type Activator interface {
	Activate([]float64) ([]float64, error)
}

// NetworkJumper jumps when the first network output exceeds 0.5.
type NetworkJumper struct {
	Net Activator
}

func (n NetworkJumper) Jump(in Observation) (bool, error) {
	out, err := n.Net.Activate(in.Slice())
	if err != nil {
		return false, fmt.Errorf("activating network: %w", err)
	}
	if len(out) == 0 {
		return false, ErrNoOutput
	}
	return out[0] > jumpThreshold, nil
}

// PhenomeJumper applies the same rule to an evo phenome.
type PhenomeJumper struct {
	Phenome evo.Phenome
}

func (e PhenomeJumper) Jump(input Observation) (bool, error) {
	in := mat.NewDense(1, len(input), input.Slice())
	outputs, err := e.Phenome.Activate(in)
	if err != nil {
		return false, fmt.Errorf("activating phenome %d: %w", e.Phenome.ID, err)
	}
	if r, c := outputs.Dims(); r == 0 || c == 0 {
		return false, ErrNoOutput
	}
	return outputs.At(0, 0) > jumpThreshold, nil
}

// Decoder rebuilds a network from an encoded genome, the way an evo
// experiment does between generations.
type Decoder interface {
	Transcribe(evo.Substrate) (evo.Substrate, error)
	Translate(evo.Substrate) (evo.Network, error)
}

// GenomeJumper decodes a stored evo genome into a jumper.
func GenomeJumper(d Decoder, g evo.Genome) (PhenomeJumper, error) {
	dec, err := d.Transcribe(g.Encoded)
	if err != nil {
		return PhenomeJumper{}, fmt.Errorf("transcribing genome %d: %w", g.ID, err)
	}
	net, err := d.Translate(dec)
	if err != nil {
		return PhenomeJumper{}, fmt.Errorf("translating genome %d: %w", g.ID, err)
	}
	return PhenomeJumper{evo.Phenome{ID: g.ID, Network: net}}, nil
}

// Evaluator runs a phenome alone through a training generation.
type Evaluator struct {
	Trainer *Trainer
	Context context.Context
}

// Evaluate the flappy experiment with this phenome
func (e Evaluator) Evaluate(p evo.Phenome) (r evo.Result, err error) {
	ctx := e.Context
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Candidate{ID: p.ID, Jumper: PhenomeJumper{p}}
	out, err := e.Trainer.Evaluate(ctx, []*Candidate{c})
	if err != nil {
		return evo.Result{}, err
	}
	return evo.Result{
		ID:      p.ID,
		Fitness: c.Fitness,
		Solved:  out.Solved,
	}, nil
}

// ShowBest is an EVO listener which will output a summary of the best genome
// in the population to the log
func ShowBest(log *zap.SugaredLogger) func(evo.Population) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return func(pop evo.Population) error {
		if len(pop.Genomes) == 0 {
			return nil
		}
		// Copy the genomes so we can sort them without affecting other listeners
		genomes := make([]evo.Genome, len(pop.Genomes))
		copy(genomes, pop.Genomes)

		// Sort so the best genome is at the end
		evo.SortBy(genomes, evo.BySolved, evo.ByFitness, evo.ByComplexity, evo.ByAge)

		best := genomes[len(genomes)-1]
		log.Infow("best genome",
			"generation", pop.Generation,
			"id", best.ID,
			"species", best.Species,
			"fitness", best.Fitness,
			"solved", best.Solved,
			"complexity", best.Complexity(),
		)
		return nil
	}
}
