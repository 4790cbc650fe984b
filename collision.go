package neatbird

import (
	"image"
	"math"
)

// Collisions are tested on axis-aligned rectangles sized like the sprites
// instead of per-pixel masks, so the transparent corners of the bird count
// as solid. Touching edges do not collide.

// Collides reports whether the bird overlaps the top or the bottom pipe.
func (p *Pipe) Collides(b *Bird) bool {
	bird := b.Bounds()
	return bird.Overlaps(p.topBounds()) || bird.Overlaps(p.bottomBounds())
}

func (p *Pipe) topBounds() image.Rectangle {
	return p.rect(p.Top())
}

func (p *Pipe) bottomBounds() image.Rectangle {
	return p.rect(p.Bottom())
}

func (p *Pipe) rect(y float64) image.Rectangle {
	x0 := int(math.Round(p.X))
	y0 := int(math.Round(y))
	return image.Rect(x0, y0, x0+p.cfg.Width, y0+p.cfg.Height)
}

// OutOfBounds reports ground contact or a flight above the playfield.
func (b *Bird) OutOfBounds(ground float64) bool {
	return b.Y+float64(b.cfg.Height) >= ground || b.Y < 0
}
