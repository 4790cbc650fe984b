package render

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/kpacha/neatbird"
)

func jump() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		return true
	}
	return false
}

func quit() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ)
}

var speedKeys = map[ebiten.Key]int{
	ebiten.KeyF1:  100,
	ebiten.KeyF2:  200,
	ebiten.KeyF3:  300,
	ebiten.KeyF4:  400,
	ebiten.KeyF5:  500,
	ebiten.KeyF6:  600,
	ebiten.KeyF7:  700,
	ebiten.KeyF8:  800,
	ebiten.KeyF9:  900,
	ebiten.KeyF10: 1000,
}

// checkSpeed scales the tick rate with the F1..F10 keys.
func checkSpeed(rate int) {
	for k, v := range speedKeys {
		if inpututil.IsKeyJustPressed(k) {
			ebiten.SetTPS(rate * v / 100)
			return
		}
	}
}

// Game steps a single-bird world from ebiten's update loop, one tick per
// update. Input is nil when a network drives the bird.
type Game struct {
	World  *neatbird.World
	Input  *neatbird.InputJumper
	Scene  *Scene
	Config *neatbird.Config
	// Restart, when set, starts a new game on the first jump after a game over.
	Restart func() *neatbird.World
	Log     *zap.SugaredLogger

	Context context.Context
	Cancel  context.CancelFunc

	over bool
}

// Run opens the window and blocks until the player quits.
func (g *Game) Run(title string) error {
	if g.Log == nil {
		g.Log = zap.NewNop().Sugar()
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.Scene.Layout())
	ebiten.SetTPS(g.Config.TickRate)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	if quit() && g.Cancel != nil {
		g.Cancel()
	}
	if g.Context != nil && g.Context.Err() != nil {
		return ebiten.Termination
	}
	checkSpeed(g.Config.TickRate)

	if g.World.Done() {
		if !g.over {
			g.over = true
			g.Log.Infow("game over", "mode", g.World.Mode, "score", g.World.Score, "ticks", g.World.Tick)
		}
		if g.Restart != nil && jump() {
			g.World = g.Restart()
			g.over = false
		}
		return nil
	}

	if g.Input != nil && jump() {
		g.Input.Press()
	}
	if _, err := g.World.Step(); err != nil {
		return fmt.Errorf("tick %d: %w", g.World.Tick, err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	var lines []string
	if g.World.Done() {
		lines = []string{"GAME OVER!", fmt.Sprintf("SCORE %d", g.World.Score)}
		if g.Restart != nil {
			lines = append(lines, "", "JUMP TO PLAY AGAIN")
		}
	}
	g.Scene.Draw(screen, g.World.Snapshot(), lines...)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.Scene.Layout()
}
