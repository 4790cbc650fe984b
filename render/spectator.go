package render

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/kpacha/neatbird"
)

// Spectator shows a training session running on another goroutine. Every
// update releases one tick of the gated clock and every frame draws the
// latest published snapshot, so the world itself is never touched here.
type Spectator struct {
	Clock  *neatbird.GatedClock
	Latest *neatbird.Latest
	Scene  *Scene
	Config *neatbird.Config
	Cancel context.CancelFunc
	// Done delivers the result of the training session.
	Done <-chan error

	err      error
	finished bool
}

// Run opens the window and blocks until the window is closed or the session
// fails.
func (s *Spectator) Run(title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(s.Scene.Layout())
	ebiten.SetTPS(s.Config.TickRate)
	if err := ebiten.RunGame(s); err != nil {
		return err
	}
	return s.err
}

func (s *Spectator) Update() error {
	if quit() {
		s.Cancel()
		return ebiten.Termination
	}
	checkSpeed(s.Config.TickRate)

	if s.finished {
		return nil
	}
	select {
	case err := <-s.Done:
		s.finished = true
		if err != nil {
			s.err = err
			return ebiten.Termination
		}
		return nil
	default:
	}

	s.Clock.Release()
	return nil
}

func (s *Spectator) Draw(screen *ebiten.Image) {
	snap, ok := s.Latest.Load()
	if !ok {
		screen.Fill(skyColor)
		s.Scene.drawLines(screen, []string{"BUILDING", "", "WAIT FOR IT..."})
		return
	}
	var lines []string
	if s.finished {
		lines = []string{"TRAINING FINISHED", fmt.Sprintf("GENERATION #%d", snap.Generation)}
	}
	s.Scene.Draw(screen, snap, lines...)
}

func (s *Spectator) Layout(_, _ int) (int, int) {
	return s.Scene.Layout()
}
