package neatbird

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
)

var never = JumperFunc(func(Observation) (bool, error) { return false, nil })

func newTestWorld(mode Mode, n int) (*Config, *World) {
	cfg := DefaultConfig()
	jumpers := make([]Jumper, n)
	for i := range jumpers {
		jumpers[i] = never
	}
	return cfg, NewWorld(cfg, mode, rand.New(rand.NewSource(1)), jumpers...)
}

func TestNewWorld(t *testing.T) {
	cfg, w := newTestWorld(ModeTrain, 4)
	if w.Alive() != 4 || len(w.Living()) != 4 {
		t.Errorf("unexpected live agents: %d", w.Alive())
	}
	for i, a := range w.Agents {
		if a.ID != int64(i) {
			t.Errorf("agent %d: unexpected id %d", i, a.ID)
		}
		if a.Bird.X != cfg.Bird.X || a.Bird.Y != cfg.Bird.Y {
			t.Errorf("agent %d: unexpected spawn %v,%v", i, a.Bird.X, a.Bird.Y)
		}
	}
	if len(w.Pipes) != 1 || w.Pipes[0].X != cfg.Screen.Width {
		t.Errorf("unexpected pipes: %+v", w.Pipes)
	}
	if w.Score != 0 || w.Tick != 0 || w.Done() {
		t.Error("unexpected initial state")
	}
}

func TestWorld_Step_groundCrash(t *testing.T) {
	_, w := newTestWorld(ModePlay, 1)
	w.Agents[0].Bird.Y = 693.5

	res, err := w.Step()
	if err != nil {
		t.Fatal(err)
	}
	if w.Agents[0].Bird.Y != 695 {
		t.Errorf("unexpected height: %v", w.Agents[0].Bird.Y)
	}
	if len(res.Died) != 1 || res.Died[0] != 0 || res.Alive != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
	if !w.Done() {
		t.Error("a single player game should be over")
	}
	if w.Agents[0].Fitness != 0 {
		t.Errorf("fitness should not change outside training: %v", w.Agents[0].Fitness)
	}

	tick := w.Tick
	if _, err := w.Step(); err != nil {
		t.Fatal(err)
	}
	if w.Tick != tick {
		t.Error("a finished world should not advance")
	}
}

func TestWorld_Step_population(t *testing.T) {
	cfg, w := newTestWorld(ModeTrain, 5)
	w.Pipes = []*Pipe{{X: 200, Height: 300, cfg: &cfg.Pipe}}
	for i, y := range []float64{100, 350, 600, 350, 350} {
		w.Agents[i].Bird.Y = y
	}

	res, err := w.Step()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Died) != 2 || res.Died[0] != 0 || res.Died[1] != 2 {
		t.Errorf("unexpected deaths: %v", res.Died)
	}
	if w.Alive() != 3 || len(w.Living()) != 3 || res.Alive != 3 {
		t.Errorf("unexpected survivors: %d", w.Alive())
	}
	for _, i := range []int{0, 2} {
		if want := cfg.Fitness.Survival + cfg.Fitness.Crash; math.Abs(w.Agents[i].Fitness-want) > 1e-9 {
			t.Errorf("agent %d: fitness %v, want %v", i, w.Agents[i].Fitness, want)
		}
	}
	for _, i := range []int{1, 3, 4} {
		if want := cfg.Fitness.Survival + cfg.Fitness.Pass; math.Abs(w.Agents[i].Fitness-want) > 1e-9 {
			t.Errorf("agent %d: fitness %v, want %v", i, w.Agents[i].Fitness, want)
		}
	}

	for !w.Done() {
		if _, err := w.Step(); err != nil {
			t.Fatal(err)
		}
		dead := 0
		for _, a := range w.Agents {
			if !a.Alive {
				dead++
			}
		}
		if dead+w.Alive() != 5 {
			t.Fatalf("tick %d: %d dead and %d alive", w.Tick, dead, w.Alive())
		}
	}
}

func TestWorld_Step_pass(t *testing.T) {
	cfg, w := newTestWorld(ModePlay, 1)
	w.Pipes = []*Pipe{{X: 200, Height: 300, cfg: &cfg.Pipe}}

	res, err := w.Step()
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed != 1 || w.Score != 1 {
		t.Errorf("unexpected pass: %+v score %d", res, w.Score)
	}
	if len(w.Pipes) != 2 {
		t.Fatalf("expecting a single spawn, got %d pipes", len(w.Pipes))
	}
	if !w.Pipes[0].Passed || w.Pipes[0].X != 195 {
		t.Errorf("unexpected passed pipe: %+v", w.Pipes[0])
	}
	if w.Pipes[1].Passed || w.Pipes[1].X != cfg.Screen.Width {
		t.Errorf("unexpected spawned pipe: %+v", w.Pipes[1])
	}

	res, err = w.Step()
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed != 0 || w.Score != 1 || len(w.Pipes) != 2 {
		t.Errorf("a pipe should only count once: score %d, %d pipes", w.Score, len(w.Pipes))
	}
}

func TestWorld_Step_retire(t *testing.T) {
	cfg, w := newTestWorld(ModePlay, 1)
	w.Pipes = []*Pipe{
		{X: -104.5, Height: 300, Passed: true, cfg: &cfg.Pipe},
		{X: 100, Height: 300, Passed: true, cfg: &cfg.Pipe},
	}

	if _, err := w.Step(); err != nil {
		t.Fatal(err)
	}
	if len(w.Pipes) != 1 || w.Pipes[0].X != 95 {
		t.Errorf("unexpected pipes after retirement: %+v", w.Pipes)
	}
	if w.Score != 0 {
		t.Errorf("retiring a pipe should not score: %d", w.Score)
	}
}

func TestWorld_Step_invariants(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		cfg := DefaultConfig()
		rnd := rand.New(rand.NewSource(seed))
		jumpers := make([]Jumper, 20)
		for i := range jumpers {
			r := rand.New(rand.NewSource(seed*100 + int64(i)))
			jumpers[i] = JumperFunc(func(Observation) (bool, error) { return r.Intn(8) == 0, nil })
		}
		w := NewWorld(cfg, ModeTrain, rnd, jumpers...)

		score := 0
		for i := 0; i < 1000 && !w.Done(); i++ {
			if _, err := w.Step(); err != nil {
				t.Fatal(err)
			}
			if w.Score < score {
				t.Fatalf("seed %d: the score went down", seed)
			}
			score = w.Score
			if len(w.Pipes) == 0 {
				t.Fatalf("seed %d tick %d: empty pipe queue", seed, w.Tick)
			}
			for j := 1; j < len(w.Pipes); j++ {
				if w.Pipes[j-1].X > w.Pipes[j].X {
					t.Fatalf("seed %d tick %d: pipes out of order", seed, w.Tick)
				}
			}
			if len(w.Living()) != w.Alive() {
				t.Fatalf("seed %d tick %d: inconsistent live count", seed, w.Tick)
			}
		}
	}
}

func TestWorld_LeadPipe(t *testing.T) {
	cfg := DefaultConfig()
	var seen []Observation
	record := JumperFunc(func(in Observation) (bool, error) {
		seen = append(seen, in)
		return false, nil
	})
	w := NewWorld(cfg, ModeTrain, rand.New(rand.NewSource(1)), record, record)
	w.Agents[0].Bird.Y = 200
	w.Agents[1].Bird.Y = 400
	cleared := &Pipe{X: 100, Height: 100, Passed: true, cfg: &cfg.Pipe}
	next := &Pipe{X: 450, Height: 250, cfg: &cfg.Pipe}

	w.Pipes = []*Pipe{cleared}
	if w.LeadPipe() != cleared {
		t.Error("a single pipe is always the lead pipe")
	}

	w.Pipes = []*Pipe{cleared, next}
	if w.LeadPipe() != next {
		t.Error("expecting the pipe ahead of the lead bird")
	}

	if _, err := w.Step(); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 {
		t.Fatalf("unexpected decisions: %d", len(seen))
	}
	if seen[0] != (Observation{200, 50, 250}) || seen[1] != (Observation{400, 150, 50}) {
		t.Errorf("every bird should observe the same pipe: %v", seen)
	}

	w.Pipes = []*Pipe{next, {X: 800, Height: 300, cfg: &cfg.Pipe}}
	if w.LeadPipe() != next {
		t.Error("the first pipe leads until the lead bird clears it")
	}

	for _, a := range w.Agents {
		a.Alive = false
	}
	w.Pipes = []*Pipe{cleared, next}
	if w.LeadPipe() != cleared {
		t.Error("without live birds the first pipe leads")
	}
}

func TestWorld_Step_jumperError(t *testing.T) {
	cfg := DefaultConfig()
	boom := errors.New("boom")
	w := NewWorld(cfg, ModeReplay, rand.New(rand.NewSource(1)),
		JumperFunc(func(Observation) (bool, error) { return false, boom }))

	if _, err := w.Step(); !errors.Is(err, boom) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWorld_Solved(t *testing.T) {
	cfg, w := newTestWorld(ModeTrain, 1)
	w.Score = cfg.Training.ScoreThreshold
	if w.Solved() || w.Done() {
		t.Error("the threshold must be exceeded")
	}
	w.Score++
	if !w.Solved() || !w.Done() {
		t.Error("expecting a solved generation")
	}

	_, w = newTestWorld(ModePlay, 1)
	w.Score = cfg.Training.ScoreThreshold + 1
	if w.Solved() || w.Done() {
		t.Error("the threshold only applies to training")
	}
}

func TestWorld_Run(t *testing.T) {
	_, w := newTestWorld(ModePlay, 1)

	var snaps []Snapshot
	err := w.Run(context.Background(), nil, ObserverFunc(func(s Snapshot) { snaps = append(snaps, s) }))
	if err != nil {
		t.Fatal(err)
	}
	if !w.Done() {
		t.Error("the run should end with the game")
	}
	if len(snaps) != w.Tick+1 {
		t.Errorf("expecting %d snapshots, got %d", w.Tick+1, len(snaps))
	}
	last := snaps[len(snaps)-1]
	if last.Alive != 0 || last.Birds[0].Alive || last.Tick != w.Tick {
		t.Errorf("unexpected last snapshot: %+v", last)
	}
}

func TestWorld_Run_cancelled(t *testing.T) {
	_, w := newTestWorld(ModePlay, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Run(ctx, FreeClock{}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("unexpected error: %v", err)
	}
	if w.Tick != 0 {
		t.Errorf("no tick should run: %d", w.Tick)
	}
}
