// Package render is the ebiten frontend: it draws world snapshots and feeds
// player input back into the simulation.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	resources "github.com/hajimehoshi/ebiten/v2/examples/resources/images/flappy"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/kpacha/neatbird"
)

const (
	fontWidth   = 7
	fontHeight  = 13
	stripeWidth = 24
)

var (
	skyColor     = color.RGBA{0x80, 0xa0, 0xc0, 0xff}
	pipeColor    = color.RGBA{0x5a, 0xa0, 0x2c, 0xff}
	groundColor  = color.RGBA{0xde, 0xd8, 0x95, 0xff}
	stripeColor  = color.RGBA{0x9c, 0xe6, 0x59, 0xff}
	deadTint     = color.RGBA{0xff, 0x40, 0x40, 0xff}
	overlayColor = color.RGBA{0x00, 0x00, 0x00, 0x80}
)

// Scene draws snapshots with the flappy gopher sprite scaled to the bird
// hitbox.
type Scene struct {
	cfg  *neatbird.Config
	bird *ebiten.Image
}

func NewScene(cfg *neatbird.Config) (*Scene, error) {
	img, _, err := image.Decode(bytes.NewReader(resources.Gopher_png))
	if err != nil {
		return nil, fmt.Errorf("decoding the bird sprite: %w", err)
	}
	return &Scene{cfg: cfg, bird: ebiten.NewImageFromImage(img)}, nil
}

// Layout is the logical screen size.
func (s *Scene) Layout() (int, int) {
	return int(s.cfg.Screen.Width), int(s.cfg.Screen.Height)
}

// Draw renders the snapshot and centers the given lines over it.
func (s *Scene) Draw(screen *ebiten.Image, snap neatbird.Snapshot, lines ...string) {
	screen.Fill(skyColor)
	s.drawPipes(screen, snap.Pipes)
	s.drawGround(screen, snap.Tick)
	s.drawBirds(screen, snap.Birds)

	score := fmt.Sprintf("%04d", snap.Score)
	text.Draw(screen, score, basicfont.Face7x13, (int(s.cfg.Screen.Width)-len(score)*fontWidth)/2, 2*fontHeight, color.White)

	if len(lines) > 0 {
		s.drawLines(screen, lines)
	}

	status := fmt.Sprintf("TPS: %0.2f. FPS: %0.2f. %s", ebiten.ActualTPS(), ebiten.ActualFPS(), snap.Mode)
	if snap.Mode == neatbird.ModeTrain {
		status += fmt.Sprintf(". Generation %d, %d/%d alive", snap.Generation, snap.Alive, len(snap.Birds))
	}
	ebitenutil.DebugPrint(screen, status)
}

func (s *Scene) drawPipes(screen *ebiten.Image, pipes []neatbird.PipeState) {
	w, h := float32(s.cfg.Pipe.Width), float32(s.cfg.Pipe.Height)
	for _, p := range pipes {
		vector.DrawFilledRect(screen, float32(p.X), float32(p.Top), w, h, pipeColor, false)
		vector.DrawFilledRect(screen, float32(p.X), float32(p.Bottom), w, h, pipeColor, false)
	}
}

func (s *Scene) drawGround(screen *ebiten.Image, tick int) {
	ground := float32(s.cfg.Screen.Ground)
	vector.DrawFilledRect(screen, 0, ground, float32(s.cfg.Screen.Width), float32(s.cfg.Screen.Height)-ground, groundColor, false)

	offset := float32(groundOffset(tick, s.cfg.Pipe.Velocity))
	for x := -offset; x < float32(s.cfg.Screen.Width); x += 2 * stripeWidth {
		vector.DrawFilledRect(screen, x, ground, stripeWidth, 12, stripeColor, false)
	}
}

func (s *Scene) drawBirds(screen *ebiten.Image, birds []neatbird.BirdState) {
	bounds := s.bird.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	bw, bh := float64(s.cfg.Bird.Width), float64(s.cfg.Bird.Height)

	op := &ebiten.DrawImageOptions{}
	for _, b := range birds {
		// a population hides its dead; a single bird stays on screen
		if !b.Alive && len(birds) > 1 {
			continue
		}
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.GeoM.Scale(bw/w, bh/h)
		op.GeoM.Translate(-bw/2, -bh/2)
		op.GeoM.Rotate(birdAngle(b.Tilt))
		op.GeoM.Translate(bw/2, bh/2)
		op.GeoM.Translate(b.X, b.Y)
		if !b.Alive {
			op.ColorScale.ScaleWithColor(deadTint)
		}
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(s.bird, op)
	}
}

func (s *Scene) drawLines(screen *ebiten.Image, lines []string) {
	width := float32(s.cfg.Screen.Width)
	top := 8 * fontHeight
	vector.DrawFilledRect(screen, 0, float32(top-2*fontHeight), width, float32((len(lines)+2)*2*fontHeight), overlayColor, false)
	for i, l := range lines {
		x := (int(width) - len(l)*fontWidth) / 2
		text.Draw(screen, l, basicfont.Face7x13, x, top+i*2*fontHeight, color.White)
	}
}

// groundOffset scrolls the ground stripes with the pipes.
func groundOffset(tick int, velocity float64) float64 {
	return math.Mod(float64(tick)*velocity, 2*stripeWidth)
}

// birdAngle turns the tilt (degrees, nose up positive) into a screen rotation.
func birdAngle(tilt float64) float64 {
	return -tilt * math.Pi / 180
}
