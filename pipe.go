package neatbird

import (
	"math/rand"
	"time"
)

// Pipe is a pair of pipes with a vertical gap. Height is the y of the gap's
// top edge.
type Pipe struct {
	X      float64
	Height float64
	Passed bool

	cfg *PipeConfig
}

// Top is the y of the top pipe sprite, which ends where the gap starts.
func (p *Pipe) Top() float64 {
	return p.Height - float64(p.cfg.Height)
}

// Bottom is the y of the bottom pipe sprite, where the gap ends.
func (p *Pipe) Bottom() float64 {
	return p.Height + p.cfg.Gap
}

func (p *Pipe) Gap() float64 {
	return p.cfg.Gap
}

// Right is the x of the pipe's right edge.
func (p *Pipe) Right() float64 {
	return p.X + float64(p.cfg.Width)
}

// Advance scrolls the pipe one tick to the left.
func (p *Pipe) Advance() {
	p.X -= p.cfg.Velocity
}

// OffScreen reports whether the pipe has fully left the playfield.
func (p *Pipe) OffScreen() bool {
	return p.Right() < 0
}

// PipeGenerator spawns pipes with a random gap position.
type PipeGenerator struct {
	cfg *PipeConfig
	rnd *rand.Rand
}

// NewPipeGenerator returns a generator drawing from rnd. A nil rnd is seeded
// from the clock.
func NewPipeGenerator(cfg *PipeConfig, rnd *rand.Rand) *PipeGenerator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PipeGenerator{cfg: cfg, rnd: rnd}
}

// Spawn creates a pipe at x with its gap top drawn from [MinHeight, MaxHeight].
func (g *PipeGenerator) Spawn(x float64) *Pipe {
	h := g.cfg.MinHeight + g.rnd.Intn(g.cfg.MaxHeight-g.cfg.MinHeight+1)
	return &Pipe{
		X:      x,
		Height: float64(h),
		cfg:    g.cfg,
	}
}
