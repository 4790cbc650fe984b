package neatbird

import (
	"context"
	"fmt"
	"math/rand"
)

// Mode selects which rules of the step apply.
type Mode int

const (
	// ModePlay is a single bird driven by a human.
	ModePlay Mode = iota
	// ModeReplay is a single bird driven by a pretrained network.
	ModeReplay
	// ModeTrain is a population scored by fitness rewards and a score threshold.
	ModeTrain
)

func (m Mode) String() string {
	switch m {
	case ModePlay:
		return "play"
	case ModeReplay:
		return "replay"
	case ModeTrain:
		return "train"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Agent couples a bird with its controller and fitness. Dead agents stay in
// the arena so indices are stable.
type Agent struct {
	ID      int64
	Bird    *Bird
	Jumper  Jumper
	Fitness float64
	Alive   bool
}

// StepResult reports the transitions of a single tick.
type StepResult struct {
	// Died holds the arena indices of the agents removed this tick
	Died   []int
	Passed int
	Alive  int
}

// World is the full simulation state: agents, the pipe queue and the score.
// It is owned by a single goroutine.
type World struct {
	Mode   Mode
	Agents []*Agent
	// Pipes is sorted by X ascending: spawns are appended at the right edge
	// and retirements only remove from the front.
	Pipes []*Pipe
	Score int
	Tick  int

	cfg   *Config
	gen   *PipeGenerator
	alive int
}

// NewWorld spawns one bird per jumper and the first pipe at the right edge.
func NewWorld(cfg *Config, mode Mode, rnd *rand.Rand, jumpers ...Jumper) *World {
	w := &World{
		Mode:   mode,
		Agents: make([]*Agent, len(jumpers)),
		cfg:    cfg,
		gen:    NewPipeGenerator(&cfg.Pipe, rnd),
	}
	for i, j := range jumpers {
		w.Agents[i] = &Agent{
			ID:     int64(i),
			Bird:   NewBird(&cfg.Bird),
			Jumper: j,
			Alive:  true,
		}
	}
	w.alive = len(jumpers)
	w.Pipes = []*Pipe{w.gen.Spawn(cfg.Screen.Width)}
	return w
}

// Alive is the number of live agents.
func (w *World) Alive() int {
	return w.alive
}

// Living returns the live agents in arena order.
func (w *World) Living() []*Agent {
	res := make([]*Agent, 0, w.alive)
	for _, a := range w.Agents {
		if a.Alive {
			res = append(res, a)
		}
	}
	return res
}

// Solved reports a training run that went past the score threshold.
func (w *World) Solved() bool {
	return w.Mode == ModeTrain && w.Score > w.cfg.Training.ScoreThreshold
}

// Done reports whether the game (or the generation) is over.
func (w *World) Done() bool {
	return w.alive == 0 || w.Solved()
}

// lead returns the first live agent, the shared reference for pipe selection.
func (w *World) lead() *Agent {
	for _, a := range w.Agents {
		if a.Alive {
			return a
		}
	}
	return nil
}

// LeadPipe is the pipe every bird observes: the first one, unless the lead
// bird already cleared its right edge.
func (w *World) LeadPipe() *Pipe {
	if len(w.Pipes) == 0 {
		return nil
	}
	if lead := w.lead(); lead != nil && len(w.Pipes) > 1 && lead.Bird.X > w.Pipes[0].Right() {
		return w.Pipes[1]
	}
	return w.Pipes[0]
}

func (w *World) training() bool {
	return w.Mode == ModeTrain
}

// Step advances the simulation by one tick.
func (w *World) Step() (StepResult, error) {
	var res StepResult
	if w.Done() {
		res.Alive = w.alive
		return res, nil
	}

	pipe := w.LeadPipe()
	for _, a := range w.Agents {
		if !a.Alive {
			continue
		}
		jump, err := a.Jumper.Jump(a.Bird.Observe(pipe))
		if err != nil {
			return res, fmt.Errorf("agent %d: %w", a.ID, err)
		}
		if jump {
			a.Bird.Jump()
		}
		a.Bird.Advance()
		if w.training() {
			a.Fitness += w.cfg.Fitness.Survival
		}
	}

	for i, a := range w.Agents {
		if !a.Alive || !w.crashed(a.Bird) {
			continue
		}
		a.Alive = false
		w.alive--
		if w.training() {
			a.Fitness += w.cfg.Fitness.Crash
		}
		res.Died = append(res.Died, i)
	}

	for _, p := range w.Pipes {
		if p.Passed || !w.anyPast(p) {
			continue
		}
		p.Passed = true
		w.Score++
		res.Passed++
		if w.training() {
			for _, a := range w.Agents {
				if a.Alive {
					a.Fitness += w.cfg.Fitness.Pass
				}
			}
		}
	}

	for len(w.Pipes) > 0 && w.Pipes[0].OffScreen() {
		w.Pipes[0] = nil
		w.Pipes = w.Pipes[1:]
	}
	for _, p := range w.Pipes {
		p.Advance()
	}
	for i := 0; i < res.Passed; i++ {
		w.Pipes = append(w.Pipes, w.gen.Spawn(w.cfg.Screen.Width))
	}

	w.Tick++
	res.Alive = w.alive
	return res, nil
}

func (w *World) crashed(b *Bird) bool {
	if b.OutOfBounds(w.cfg.Screen.Ground) {
		return true
	}
	for _, p := range w.Pipes {
		if p.Collides(b) {
			return true
		}
	}
	return false
}

func (w *World) anyPast(p *Pipe) bool {
	for _, a := range w.Agents {
		if a.Alive && a.Bird.X > p.X {
			return true
		}
	}
	return false
}

// Run drives the world from clock until it is done, publishing a snapshot
// to obs after every step. Cancellation is only observed between ticks.
func (w *World) Run(ctx context.Context, clock Clock, obs Observer) error {
	if clock == nil {
		clock = FreeClock{}
	}
	if obs != nil {
		obs.Observe(w.Snapshot())
	}
	for !w.Done() {
		if err := clock.Wait(ctx); err != nil {
			return err
		}
		if _, err := w.Step(); err != nil {
			return err
		}
		if obs != nil {
			obs.Observe(w.Snapshot())
		}
	}
	return nil
}
