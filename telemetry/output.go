package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/kpacha/neatbird"
)

// GenerationStats is one row of generations.csv.
type GenerationStats struct {
	Generation  int     `csv:"generation"`
	Population  int     `csv:"population"`
	Score       int     `csv:"score"`
	Ticks       int     `csv:"ticks"`
	Solved      bool    `csv:"solved"`
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
	P50Fitness  float64 `csv:"p50_fitness"`
}

// Summarize computes the fitness statistics of a generation.
func Summarize(out neatbird.Outcome) GenerationStats {
	s := GenerationStats{
		Generation: out.Generation,
		Population: out.Population,
		Score:      out.Score,
		Ticks:      out.Ticks,
		Solved:     out.Solved,
	}
	if len(out.Fitness) == 0 {
		return s
	}

	sorted := make([]float64, len(out.Fitness))
	copy(sorted, out.Fitness)
	sort.Float64s(sorted)

	s.BestFitness = sorted[len(sorted)-1]
	s.MeanFitness = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.StdFitness = stat.StdDev(sorted, nil)
	}
	s.P50Fitness = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return s
}

// Output writes generation statistics to a CSV file.
type Output struct {
	dir           string
	file          *os.File
	headerWritten bool
}

// NewOutput creates <dir>/generations.csv. Returns nil if dir is empty
// (output disabled); a nil *Output accepts and drops every report.
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating generations.csv: %w", err)
	}
	return &Output{dir: dir, file: f}, nil
}

// WriteConfig saves the effective configuration as YAML next to the stats.
func (o *Output) WriteConfig(cfg *neatbird.Config) error {
	if o == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(o.dir, "config.yaml"))
}

// Report implements neatbird.Reporter.
func (o *Output) Report(out neatbird.Outcome) error {
	if o == nil {
		return nil
	}

	records := []GenerationStats{Summarize(out)}
	if !o.headerWritten {
		if err := gocsv.Marshal(records, o.file); err != nil {
			return fmt.Errorf("writing generation stats: %w", err)
		}
		o.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, o.file); err != nil {
		return fmt.Errorf("writing generation stats: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	return o.file.Close()
}
