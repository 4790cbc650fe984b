package neatbird

import (
	"math"
	"testing"
)

func TestBird_Advance(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBird(&cfg.Bird)

	d := b.Advance()
	if d != 1.5 {
		t.Errorf("unexpected displacement: %v", d)
	}
	if b.Y != 351.5 {
		t.Errorf("unexpected height: %v", b.Y)
	}
	if b.Ticks != 1 {
		t.Errorf("unexpected ticks: %d", b.Ticks)
	}
}

func TestBird_Jump(t *testing.T) {
	cfg := DefaultConfig()
	for _, ticks := range []int{0, 1, 7, 100} {
		b := NewBird(&cfg.Bird)
		for i := 0; i < ticks; i++ {
			b.Advance()
		}
		b.Jump()
		if b.Ticks != 0 {
			t.Errorf("after %d ticks: unexpected ticks %d", ticks, b.Ticks)
		}
		if b.Velocity != cfg.Bird.JumpVelocity {
			t.Errorf("after %d ticks: unexpected velocity %v", ticks, b.Velocity)
		}
	}
}

func TestBird_jumpArc(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBird(&cfg.Bird)
	b.Jump()

	// -10.5 + 1.5 = -9, plus the lift bias
	if d := b.Advance(); d != -11 {
		t.Errorf("unexpected first displacement: %v", d)
	}
	if b.Y != 339 {
		t.Errorf("unexpected height: %v", b.Y)
	}
	if b.Tilt != cfg.Bird.MaxTilt {
		t.Errorf("unexpected tilt: %v", b.Tilt)
	}
	// -21 + 6 = -15, -17 with bias
	if d := b.Advance(); d != -17 {
		t.Errorf("unexpected second displacement: %v", d)
	}
}

func TestBird_terminalVelocity(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBird(&cfg.Bird)
	for i := 0; i < 200; i++ {
		if i%37 == 0 {
			b.Jump()
		}
		if d := b.Advance(); d > cfg.Bird.TerminalVelocity {
			t.Fatalf("tick %d: displacement %v above the terminal velocity", i, d)
		}
	}

	b = NewBird(&cfg.Bird)
	for i := 0; i < 10; i++ {
		b.Advance()
	}
	if d := b.Advance(); d != cfg.Bird.TerminalVelocity {
		t.Errorf("expecting a clamped displacement, got %v", d)
	}
}

func TestBird_deterministic(t *testing.T) {
	cfg := DefaultConfig()
	a, b := NewBird(&cfg.Bird), NewBird(&cfg.Bird)
	for i := 0; i < 50; i++ {
		if i%9 == 0 {
			a.Jump()
			b.Jump()
		}
		a.Advance()
		b.Advance()
		if *a != *b {
			t.Fatalf("tick %d: states diverged: %+v %+v", i, a, b)
		}
	}
}

func TestBird_tiltDecay(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBird(&cfg.Bird)
	b.Tilt = cfg.Bird.MaxTilt

	prev := b.Tilt
	for i := 0; i < 40; i++ {
		b.Advance()
		if b.Tilt > prev {
			t.Fatalf("tick %d: tilt went up while falling", i)
		}
		if b.Tilt <= cfg.Bird.MinTilt-cfg.Bird.TiltVelocity {
			t.Fatalf("tick %d: tilt %v kept decreasing past the minimum", i, b.Tilt)
		}
		prev = b.Tilt
	}
	// 25, 5, -15, ..., -75, -95: the last step crosses -90
	if b.Tilt != -95 {
		t.Errorf("expecting a fully tilted bird, got %v", b.Tilt)
	}
}

func TestBird_Observe(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBird(&cfg.Bird)
	p := &Pipe{X: 400, Height: 300, cfg: &cfg.Pipe}

	got := b.Observe(p)
	want := Observation{350, 50, 150}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("unexpected observation: %v", got)
		}
	}
}
