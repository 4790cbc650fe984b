package neatbird

import "testing"

func TestPipe_Collides(t *testing.T) {
	cfg := DefaultConfig()
	// gap from y=300 to y=500, pipe spanning x in [200, 304)
	pipe := &Pipe{X: 200, Height: 300, cfg: &cfg.Pipe}

	for _, tc := range []struct {
		name    string
		x, y    float64
		collide bool
	}{
		{"inside the gap", 230, 350, false},
		{"touching the top pipe", 230, 300, false},
		{"touching the bottom pipe", 230, 452, false},
		{"into the top pipe", 230, 299, true},
		{"into the bottom pipe", 230, 453, true},
		{"far above", 230, 10, true},
		{"right of the pipe", 304, 10, false},
		{"left of the pipe", 132, 10, false},
		{"clipping the left edge", 133, 10, true},
	} {
		b := NewBird(&cfg.Bird)
		b.X, b.Y = tc.x, tc.y
		if got := pipe.Collides(b); got != tc.collide {
			t.Errorf("%s: collides = %v, want %v", tc.name, got, tc.collide)
		}
	}
}

func TestPipe_Collides_horizontalSeparation(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBird(&cfg.Bird)
	for y := -200.0; y < 900; y += 25 {
		b.Y = y
		for _, x := range []float64{b.X + float64(cfg.Bird.Width), b.X + 400, b.X - float64(cfg.Pipe.Width), -500} {
			pipe := &Pipe{X: x, Height: 300, cfg: &cfg.Pipe}
			if pipe.Collides(b) {
				t.Errorf("x=%v y=%v: no horizontal overlap can not collide", x, y)
			}
		}
	}
}

func TestBird_OutOfBounds(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBird(&cfg.Bird)
	for _, tc := range []struct {
		y   float64
		out bool
	}{
		{350, false},
		{0, false},
		{-0.5, true},
		{cfg.Screen.Ground - float64(cfg.Bird.Height) - 1, false},
		{cfg.Screen.Ground - float64(cfg.Bird.Height), true},
		{695, true},
	} {
		b.Y = tc.y
		if got := b.OutOfBounds(cfg.Screen.Ground); got != tc.out {
			t.Errorf("y=%v: out of bounds = %v, want %v", tc.y, got, tc.out)
		}
	}
}
