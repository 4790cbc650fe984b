package bolt

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/kpacha/neatbird"
)

// GenerationRecord is the persisted summary of a training generation.
type GenerationRecord struct {
	Generation  int     `csv:"generation"`
	Population  int     `csv:"population"`
	Score       int     `csv:"score"`
	Ticks       int     `csv:"ticks"`
	Solved      bool    `csv:"solved"`
	BestFitness float64 `csv:"best_fitness"`
}

// Generations is a neatbird.Reporter storing one record per generation.
type Generations struct {
	Client *Client
}

func (g Generations) Report(out neatbird.Outcome) error {
	rec := GenerationRecord{
		Generation: out.Generation,
		Population: out.Population,
		Score:      out.Score,
		Ticks:      out.Ticks,
		Solved:     out.Solved,
	}
	for i, f := range out.Fitness {
		if i == 0 || f > rec.BestFitness {
			rec.BestFitness = f
		}
	}
	return g.Client.Update(GenerationBucket, itob(uint64(out.Generation)), rec)
}

// List returns every stored record ordered by generation.
func (g Generations) List() ([]GenerationRecord, error) {
	var res []GenerationRecord
	err := g.Client.ForEach(GenerationBucket, func(k, v []byte) error {
		rec := GenerationRecord{}
		if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&rec); err != nil {
			return fmt.Errorf("decoding generation %d: %w", btoi(k), err)
		}
		res = append(res, rec)
		return nil
	})
	return res, err
}

// WriteCSV writes the stored history as CSV, header first.
func (g Generations) WriteCSV(w io.Writer) error {
	recs, err := g.List()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}
	if err := gocsv.Marshal(recs, w); err != nil {
		return fmt.Errorf("writing the generation history: %w", err)
	}
	return nil
}
