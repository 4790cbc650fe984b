package neatbird

import (
	"image"
	"math"
)

// Bird is the vertical motion state of a single entity. Its X never changes:
// the pipes scroll, not the bird.
type Bird struct {
	X        float64
	Y        float64
	Velocity float64
	// Ticks since the last jump (or since the spawn)
	Ticks int
	// Tilt is presentational only
	Tilt float64

	jumpY float64
	cfg   *BirdConfig
}

// NewBird places a bird at the configured spawn point.
func NewBird(cfg *BirdConfig) *Bird {
	return &Bird{
		X:     cfg.X,
		Y:     cfg.Y,
		jumpY: cfg.Y,
		cfg:   cfg,
	}
}

// Jump applies the upward impulse and restarts the parabola.
func (b *Bird) Jump() {
	b.Velocity = b.cfg.JumpVelocity
	b.Ticks = 0
	b.jumpY = b.Y
}

// Advance moves the bird one tick along its parabola and returns the applied
// displacement.
func (b *Bird) Advance() float64 {
	b.Ticks++
	t := float64(b.Ticks)
	d := b.Velocity*t + 0.5*b.cfg.Gravity*t*t

	if d >= b.cfg.TerminalVelocity {
		d = b.cfg.TerminalVelocity
	}
	if d < 0 {
		d -= b.cfg.LiftBias
	}
	b.Y += d

	b.tilt(d)
	return d
}

func (b *Bird) tilt(d float64) {
	if d < 0 || b.Y < b.jumpY+b.cfg.TiltWindow {
		if b.Tilt < b.cfg.MaxTilt {
			b.Tilt = b.cfg.MaxTilt
		}
		return
	}
	// may overshoot MinTilt by less than one step
	if b.Tilt > b.cfg.MinTilt {
		b.Tilt -= b.cfg.TiltVelocity
	}
}

// Bounds is the hitbox standing in for the sprite silhouette.
func (b *Bird) Bounds() image.Rectangle {
	x := int(math.Round(b.X))
	y := int(math.Round(b.Y))
	return image.Rect(x, y, x+b.cfg.Width, y+b.cfg.Height)
}

// Observe builds the controller input against the given pipe.
func (b *Bird) Observe(p *Pipe) Observation {
	return Observation{
		b.Y,
		math.Abs(b.Y - p.Height),
		math.Abs(b.Y - p.Bottom()),
	}
}
