package neatbird

import "sync"

// Snapshot is a read-only copy of the world after a step.
type Snapshot struct {
	Generation int
	Mode       Mode
	Tick       int
	Score      int
	Alive      int
	Birds      []BirdState
	Pipes      []PipeState
}

type BirdState struct {
	X, Y  float64
	Tilt  float64
	Alive bool
}

type PipeState struct {
	X      float64
	Top    float64
	Height float64
	Bottom float64
	Passed bool
}

// Snapshot copies the current state.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Mode:  w.Mode,
		Tick:  w.Tick,
		Score: w.Score,
		Alive: w.alive,
		Birds: make([]BirdState, len(w.Agents)),
		Pipes: make([]PipeState, len(w.Pipes)),
	}
	for i, a := range w.Agents {
		s.Birds[i] = BirdState{X: a.Bird.X, Y: a.Bird.Y, Tilt: a.Bird.Tilt, Alive: a.Alive}
	}
	for i, p := range w.Pipes {
		s.Pipes[i] = PipeState{X: p.X, Top: p.Top(), Height: p.Height, Bottom: p.Bottom(), Passed: p.Passed}
	}
	return s
}

// Observer receives a snapshot after every step.
type Observer interface {
	Observe(Snapshot)
}

type ObserverFunc func(Snapshot)

func (f ObserverFunc) Observe(s Snapshot) {
	f(s)
}

// Latest keeps the most recent snapshot for a reader on another goroutine.
type Latest struct {
	mu   sync.RWMutex
	snap Snapshot
	ok   bool
}

func (l *Latest) Observe(s Snapshot) {
	l.mu.Lock()
	l.snap = s
	l.ok = true
	l.mu.Unlock()
}

// Load returns the last snapshot and whether any was observed.
func (l *Latest) Load() (Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap, l.ok
}
