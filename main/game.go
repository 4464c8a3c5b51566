package main

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/TheFellow/fluid/pkg/emitter"
	"github.com/TheFellow/fluid/pkg/fluid"
	"github.com/TheFellow/fluid/pkg/render"
)

type Game struct {
	fluid   *fluid.Fluid
	emitter *emitter.Emitter
	dt      float32

	brush     int
	mode      render.Mode
	snap      fluid.Snapshot
	img       *image.RGBA
	frame     *ebiten.Image
	showDebug bool

	touches []ebiten.TouchID
}

func NewGame(f *fluid.Fluid, e *emitter.Emitter, opts options) *Game {
	g := f.Grid()
	return &Game{
		fluid:     f,
		emitter:   e,
		dt:        1 / float32(opts.tps),
		brush:     opts.brush,
		mode:      opts.mode,
		img:       render.NewImage(g),
		frame:     ebiten.NewImage(g.W, g.H),
		showDebug: opts.showDebug,
	}
}

var schemeKeys = map[ebiten.Key]fluid.Scheme{
	ebiten.Key1: fluid.Linear,
	ebiten.Key2: fluid.MacCormack,
	ebiten.Key3: fluid.BFECC,
}

func (g *Game) handleKeys() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.mode = g.mode.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.fluid.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.showDebug = !g.showDebug
	}
	for key, scheme := range schemeKeys {
		if inpututil.IsKeyJustPressed(key) {
			if err := g.fluid.SetScheme(scheme); err != nil {
				return err
			}
		}
	}
	return nil
}

// handlePointers feeds the mouse and touches to the emitter and paints
// obstacles with the right button. The layout is one logical pixel per cell,
// so cursor positions are grid coordinates.
func (g *Game) handlePointers() {
	mx, my := ebiten.CursorPosition()
	x, y := float32(mx), float32(my)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.emitter.Down(emitter.MouseID, x, y)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.emitter.Up(emitter.MouseID)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.emitter.Move(emitter.MouseID, x, y)
	}

	// Right drag paints walls, shift+right drag erases them.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		grid := g.fluid.Grid()
		if grid.Contains(mx, my) {
			g.fluid.PaintObstacle(mx, my, g.brush, !ebiten.IsKeyPressed(ebiten.KeyShift))
		}
	}

	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		tx, ty := ebiten.TouchPosition(id)
		g.emitter.Down(int(id), float32(tx), float32(ty))
	}
	g.touches = ebiten.AppendTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		tx, ty := ebiten.TouchPosition(id)
		g.emitter.Move(int(id), float32(tx), float32(ty))
	}
	g.touches = inpututil.AppendJustReleasedTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		g.emitter.Up(int(id))
	}
}

func (g *Game) Update() error {
	if err := g.handleKeys(); err != nil {
		return err
	}
	g.handlePointers()
	g.fluid.Tick(g.dt, g.emitter)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.fluid.Snapshot(&g.snap)
	render.Draw(g.img, &g.snap, g.mode)
	g.frame.WritePixels(g.img.Pix)
	screen.DrawImage(g.frame, nil)

	if g.showDebug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FluidSim - %s / %s\nFPS: %0.2f\nmax div: %.4f",
			g.fluid.Config().Scheme, g.mode, ebiten.ActualFPS(), g.fluid.MaxDivergence()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (w, h int) {
	grid := g.fluid.Grid()
	return grid.W, grid.H
}
