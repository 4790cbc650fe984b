package bolt

import (
	"fmt"

	"github.com/klokare/evo"
	"go.uber.org/zap"
)

// EvoChampionKey holds the solved evo genome in the ControllerBucket.
var EvoChampionKey = []byte("champion-evo")

// Evo persists the best genome of every evaluated evo population.
type Evo struct {
	Client *Client
	Log    *zap.SugaredLogger
}

func (e *Evo) StoreBest(pop evo.Population) error {
	if len(pop.Genomes) == 0 {
		return nil
	}
	// Copy the genomes so we can sort them without affecting other listeners
	genomes := make([]evo.Genome, len(pop.Genomes))
	copy(genomes, pop.Genomes)

	// Sort so the best genome is at the end
	evo.SortBy(genomes, evo.BySolved, evo.ByFitness, evo.ByComplexity, evo.ByAge)

	best := genomes[len(genomes)-1]
	if e.Log != nil {
		e.Log.Infow("storing best genome", "generation", pop.Generation, "id", best.ID, "fitness", best.Fitness)
	}

	return e.Client.Update(PhenomeBucket, itob(uint64(best.ID)), best)
}

// StoreChampion keeps the solved genome of the population, if any, as the
// playback controller.
func (e *Evo) StoreChampion(pop evo.Population) error {
	for _, g := range pop.Genomes {
		if !g.Solved {
			continue
		}
		if e.Log != nil {
			e.Log.Infow("storing champion", "generation", pop.Generation, "id", g.ID, "fitness", g.Fitness)
		}
		if err := e.Client.Update(ControllerBucket, EvoChampionKey, g); err != nil {
			return fmt.Errorf("storing champion %d: %w", g.ID, err)
		}
		return nil
	}
	return nil
}

// LoadChampion returns the stored solved genome.
func (e *Evo) LoadChampion() (evo.Genome, error) {
	g := evo.Genome{}
	if err := e.Client.Get(ControllerBucket, EvoChampionKey, &g); err != nil {
		return g, fmt.Errorf("loading champion: %w", err)
	}
	return g, nil
}
