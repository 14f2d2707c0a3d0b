// Package pixelboxebiten runs pixelbox demos in an ebiten game loop.
//
// The stage is redrawn on a ManualScheduler advanced once per tick, so every
// surface paints on the game goroutine. The composed stage image is cached
// and uploaded again only when the stage reports a change.
package pixelboxebiten

import (
	"image/color"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/phroun/pixelbox"
	"github.com/phroun/pixelbox/internal/logger"
)

const (
	panelWidth  = 300
	panelMargin = 16
	lineHeight  = 16
)

// Options configures a Game
type Options struct {
	TPS    int           // Ticks per second (default: 60)
	Logger logger.Logger // Defaults to logger.Nop()
}

// Game implements ebiten.Game for one demo
type Game struct {
	demo  *pixelbox.Demo
	stage *pixelbox.Stage
	sched *pixelbox.ManualScheduler
	lggr  logger.Logger
	tick  time.Duration

	stageImage *ebiten.Image
	dirty      atomic.Bool

	lastX, lastY int
}

// New creates the game for demo d
func New(d *pixelbox.Demo, opts Options) *Game {
	if opts.TPS <= 0 {
		opts.TPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	g := &Game{
		demo:  d,
		sched: pixelbox.NewManualScheduler(),
		lggr:  opts.Logger.Named("ebiten"),
		tick:  time.Second / time.Duration(opts.TPS),
		lastX: -1,
		lastY: -1,
	}
	g.stage = pixelbox.NewStage(d, g.sched)
	g.stage.SetChangeCallback(func() {
		g.dirty.Store(true)
	})
	g.dirty.Store(true)
	ebiten.SetTPS(opts.TPS)
	return g
}

// Stage returns the stage driven by the game
func (g *Game) Stage() *pixelbox.Stage {
	return g.stage
}

// Close stops every redraw schedule
func (g *Game) Close() {
	g.stage.Close()
}

// WindowSize returns the window size that fits the stage and the panel
func (g *Game) WindowSize() (w, h int) {
	b := g.stage.Bounds()
	w = b.Max.X + panelWidth + panelMargin
	h = b.Max.Y
	if h < 480 {
		h = 480
	}
	return w, h
}

// Update advances the redraw schedule and handles input
func (g *Game) Update() error {
	g.sched.Advance(g.tick)

	x, y := ebiten.CursorPosition()
	if x != g.lastX || y != g.lastY {
		g.lastX, g.lastY = x, y
		g.stage.PointerMove(pixelbox.Point{X: float64(x), Y: float64(y)})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.stage.PointerDown(pixelbox.Point{X: float64(x), Y: float64(y)})
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	g.handleKeys()
	return nil
}

func (g *Game) handleKeys() {
	c := g.demo.Console
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.demo.Reset()
	}

	if ch := g.demo.Challenge; ch != nil {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.Key1):
			if !ch.ReadOnly() {
				ch.SetLowPassSize(strconv.Itoa(pixelbox.PresetLowPassRows), strconv.Itoa(pixelbox.PresetLowPassCols))
			}
			ch.RunLowPass()
		case inpututil.IsKeyJustPressed(ebiten.Key2):
			if !ch.ReadOnly() {
				ch.SetHighPassSize(strconv.Itoa(pixelbox.PresetHighPassRows), strconv.Itoa(pixelbox.PresetHighPassCols))
			}
			ch.RunHighPass()
		case inpututil.IsKeyJustPressed(ebiten.Key3):
			ch.AddImages()
		case inpututil.IsKeyJustPressed(ebiten.KeyO):
			ch.ShowOriginal(!ch.ShowingOriginal())
		}
		return
	}

	if c.ReadOnly() {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) && c.HasColorizeToggle() {
		c.ToggleColorize()
	}

	step := 1.0
	if shift {
		step = 10
	}
	for _, st := range c.Sliders() {
		var down, up ebiten.Key
		switch st.Purpose {
		case pixelbox.PurposeDNSlider:
			down, up = ebiten.KeyBracketLeft, ebiten.KeyBracketRight
		case pixelbox.PurposeDNBase:
			down, up = ebiten.KeyMinus, ebiten.KeyEqual
		case pixelbox.PurposeDNMultiplier:
			down, up = ebiten.KeyComma, ebiten.KeyPeriod
		default:
			continue
		}
		if inpututil.IsKeyJustPressed(down) {
			c.SetSlider(st.Purpose, st.Value-step*st.Step)
		}
		if inpututil.IsKeyJustPressed(up) {
			c.SetSlider(st.Purpose, st.Value+step*st.Step)
		}
	}

	if cube := g.demo.Cube; cube != nil {
		keys := []struct {
			key         ebiten.Key
			grow, shrink func()
		}{
			{ebiten.KeyL, cube.AddLine, cube.RemoveLine},
			{ebiten.KeyS, cube.AddSample, cube.RemoveSample},
			{ebiten.KeyB, cube.AddBand, cube.RemoveBand},
		}
		for _, k := range keys {
			if !inpututil.IsKeyJustPressed(k.key) {
				continue
			}
			if shift {
				k.grow()
			} else {
				k.shrink()
			}
		}
	}
}

// Draw paints the cached stage image and the console panel
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)

	if g.dirty.CompareAndSwap(true, false) || g.stageImage == nil {
		if g.stageImage != nil {
			g.stageImage.Deallocate()
		}
		g.stageImage = ebiten.NewImageFromImage(g.stage.Image())
	}
	screen.DrawImage(g.stageImage, nil)

	b := g.stage.Bounds()
	px := float32(b.Max.X + panelMargin)
	vector.StrokeLine(screen, px-panelMargin/2, 0, px-panelMargin/2, float32(screen.Bounds().Dy()), 1, color.Gray{Y: 0xc0}, false)

	y := lineHeight
	for _, row := range g.panelRows() {
		x := int(px)
		if row.swatch != nil {
			vector.DrawFilledRect(screen, px, float32(y-11), 12, 12, row.swatch.Color().RGBA(), false)
			x += 18
		}
		text.Draw(screen, row.text, basicfont.Face7x13, x, y, color.Black)
		y += lineHeight
	}
}

// Layout keeps a one-to-one pixel mapping with the window
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
