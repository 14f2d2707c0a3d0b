// Package pixelboxqt shows pixelbox demos in Qt5 windows through miqt.
package pixelboxqt

import (
	"image"
	"math"
	"sync/atomic"

	"github.com/mappu/miqt/qt"

	"github.com/phroun/pixelbox"
	"github.com/phroun/pixelbox/internal/logger"
)

// Options configures view creation
type Options struct {
	RefreshInterval int           // Milliseconds between pending-refresh checks (default: 16)
	Logger          logger.Logger // Defaults to logger.Nop()
}

// scaleControl pairs a QSlider with its value label. QSlider is integer
// only, so positions count steps from the minimum.
type scaleControl struct {
	state  pixelbox.SliderState
	slider *qt.QSlider
	label  *qt.QLabel
}

func (sc *scaleControl) position(v float64) int {
	return int(math.Round((v - sc.state.Min) / sc.state.Step))
}

func (sc *scaleControl) value(pos int) float64 {
	return sc.state.Min + float64(pos)*sc.state.Step
}

// View is a demo page: the stage canvas plus the console panel
type View struct {
	demo  *pixelbox.Demo
	stage *pixelbox.Stage
	lggr  logger.Logger

	widget *qt.QWidget
	canvas *qt.QWidget
	panel  *qt.QVBoxLayout

	pixelAt *qt.QLabel
	stored  *qt.QLabel
	trueDN  *qt.QLabel

	scales    []*scaleControl
	colorize  *qt.QPushButton
	cubeLabel *qt.QLabel

	loRows, loCols *qt.QLineEdit
	hiRows, hiCols *qt.QLineEdit
	original       *qt.QCheckBox
	output         *qt.QLabel

	syncing bool

	// Rendered image or challenge layers, rebuilt on the next paint when stale
	pixmap      *qt.QPixmap
	pixmapSrc   *image.RGBA
	pixmapStale bool

	// Set from any goroutine; the refresh timer applies it on the main thread
	refreshPending atomic.Bool
	refreshTimer   *qt.QTimer
}

// New builds the view for demo d. Call from the Qt main thread.
func New(d *pixelbox.Demo, opts Options) *View {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 16
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	v := &View{
		demo:   d,
		lggr:   opts.Logger.Named("qt"),
		widget: qt.NewQWidget2(),
		canvas: qt.NewQWidget2(),
	}
	v.widget.SetObjectName(d.Options.Target)

	root := qt.NewQHBoxLayout2()
	v.widget.SetLayout(root.QLayout)

	v.canvas.SetMouseTracking(true)
	v.canvas.OnPaintEvent(func(super func(event *qt.QPaintEvent), event *qt.QPaintEvent) {
		v.paintEvent()
	})
	v.canvas.OnMouseMoveEvent(func(super func(event *qt.QMouseEvent), event *qt.QMouseEvent) {
		pos := event.Pos()
		v.stage.PointerMove(pixelbox.Point{X: float64(pos.X()), Y: float64(pos.Y())})
	})
	v.canvas.OnMousePressEvent(func(super func(event *qt.QMouseEvent), event *qt.QMouseEvent) {
		if event.Button() != qt.LeftButton {
			super(event)
			return
		}
		pos := event.Pos()
		v.stage.PointerDown(pixelbox.Point{X: float64(pos.X()), Y: float64(pos.Y())})
	})
	root.AddWidget(v.canvas)

	v.panel = qt.NewQVBoxLayout2()
	root.AddLayout(v.panel.QLayout)
	v.buildPanel()
	v.panel.AddStretch()

	v.stage = pixelbox.NewStage(d, Scheduler{})
	v.stage.SetChangeCallback(func() {
		v.refreshPending.Store(true)
	})

	// Stage changes can arrive from the image loader goroutine, so widget
	// updates are deferred to this timer on the main thread
	v.refreshTimer = qt.NewQTimer2(v.widget.QObject)
	v.refreshTimer.OnTimeout(func() {
		if v.refreshPending.CompareAndSwap(true, false) {
			v.refresh()
		}
	})
	v.refreshTimer.Start(opts.RefreshInterval)

	v.refresh()
	return v
}

// Widget returns the top-level widget of the view
func (v *View) Widget() *qt.QWidget {
	return v.widget
}

// Stage returns the stage shown by the view
func (v *View) Stage() *pixelbox.Stage {
	return v.stage
}

// Close stops the refresh timer and every redraw schedule
func (v *View) Close() {
	v.refreshTimer.Stop()
	v.stage.Close()
	if v.pixmap != nil {
		v.pixmap.Delete()
		v.pixmap = nil
	}
}

// --- Panel Construction ---

func (v *View) addLabel(text string) *qt.QLabel {
	l := qt.NewQLabel3(text)
	v.panel.AddWidget(l.QWidget)
	return l
}

func (v *View) addButton(text, purpose string, fn func()) *qt.QPushButton {
	btn := qt.NewQPushButton3(text)
	btn.SetObjectName(v.demo.Console.ControlID(purpose))
	btn.OnClicked(func() {
		fn()
		v.refreshPending.Store(true)
	})
	v.panel.AddWidget(btn.QWidget)
	return btn
}

func (v *View) buildPanel() {
	c := v.demo.Console

	if c.ReadOnly() {
		msg := v.addLabel(c.Message())
		msg.SetWordWrap(true)
	}

	if v.demo.Challenge != nil {
		v.buildChallenge()
		return
	}

	v.pixelAt = v.addLabel(c.PixelAt())
	v.stored = v.addLabel("")
	if c.HasTrueDN() {
		v.trueDN = v.addLabel("")
	}

	if !c.ShowRightConsole() {
		return
	}

	for _, st := range c.Sliders() {
		sc := &scaleControl{state: st}
		sc.label = v.addLabel(st.Text)
		sc.label.SetObjectName(st.ValueID)

		sc.slider = qt.NewQSlider3(qt.Horizontal)
		sc.slider.SetObjectName(st.ID)
		sc.slider.SetMinimum(0)
		sc.slider.SetMaximum(sc.position(st.Max))
		sc.slider.SetValue(sc.position(st.Value))
		sc.slider.SetMinimumWidth(200)
		sc.slider.OnValueChanged(func(pos int) {
			if v.syncing {
				return
			}
			c.SetSlider(sc.state.Purpose, sc.value(pos))
		})
		v.panel.AddWidget(sc.slider.QWidget)
		v.scales = append(v.scales, sc)
	}

	v.addButton(c.ResetLabel(), pixelbox.PurposeReset, v.demo.Reset)
	if c.HasColorizeToggle() {
		v.colorize = v.addButton(c.ColorizeLabel(), pixelbox.PurposeColorize, c.ToggleColorize)
	}

	if cube := v.demo.Cube; cube != nil {
		v.cubeLabel = v.addLabel(cube.Label())
		v.addButton("+ line", pixelbox.PurposeAddLine, cube.AddLine)
		v.addButton("- line", pixelbox.PurposeRemoveLine, cube.RemoveLine)
		v.addButton("+ sample", pixelbox.PurposeAddSample, cube.AddSample)
		v.addButton("- sample", pixelbox.PurposeRemoveSample, cube.RemoveSample)
		v.addButton("+ band", pixelbox.PurposeAddBand, cube.AddBand)
		v.addButton("- band", pixelbox.PurposeRemoveBand, cube.RemoveBand)
	}

	for _, cat := range c.Legend() {
		row := qt.NewQHBoxLayout2()
		swatch := qt.NewQLabel2()
		swatch.SetFixedSize2(16, 16)
		swatch.SetStyleSheet("background-color: " + cat.Hex() + ";")
		row.AddWidget(swatch.QWidget)
		row.AddWidget(qt.NewQLabel3(cat.String()).QWidget)
		row.AddStretch()
		v.panel.AddLayout(row.QLayout)
	}
}

func (v *View) buildChallenge() {
	ch := v.demo.Challenge
	c := v.demo.Console
	readOnly := c.ReadOnly()

	entry := func(purpose string) *qt.QLineEdit {
		e := qt.NewQLineEdit2()
		e.SetObjectName(c.ControlID(purpose))
		e.SetMaximumWidth(60)
		e.SetEnabled(!readOnly)
		return e
	}
	row := func(text string, a, b *qt.QLineEdit) {
		r := qt.NewQHBoxLayout2()
		r.AddWidget(qt.NewQLabel3(text).QWidget)
		r.AddWidget(a.QWidget)
		r.AddWidget(b.QWidget)
		r.AddStretch()
		v.panel.AddLayout(r.QLayout)
	}

	v.loRows = entry(pixelbox.PurposeLoBoxcarRows)
	v.loCols = entry(pixelbox.PurposeLoBoxcarCols)
	v.hiRows = entry(pixelbox.PurposeHiBoxcarRows)
	v.hiCols = entry(pixelbox.PurposeHiBoxcarCols)

	row("Low pass", v.loRows, v.loCols)
	v.addButton("Run low pass", pixelbox.PurposeRunLowPass, func() {
		ch.SetLowPassSize(v.loRows.Text(), v.loCols.Text())
		ch.RunLowPass()
	})
	row("High pass", v.hiRows, v.hiCols)
	v.addButton("Run high pass", pixelbox.PurposeRunHiPass, func() {
		ch.SetHighPassSize(v.hiRows.Text(), v.hiCols.Text())
		ch.RunHighPass()
	})
	v.addButton("Add images", pixelbox.PurposeResults, ch.AddImages)

	v.original = qt.NewQCheckBox3("Show original")
	v.original.SetObjectName(c.ControlID(pixelbox.PurposeShowOriginal))
	v.original.OnToggled(func(checked bool) {
		if v.syncing {
			return
		}
		ch.ShowOriginal(checked)
		v.refreshPending.Store(true)
	})
	v.panel.AddWidget(v.original.QWidget)

	v.addButton(c.ResetLabel(), pixelbox.PurposeReset, v.demo.Reset)

	v.output = v.addLabel("")
	v.output.SetObjectName(c.ControlID(pixelbox.PurposeCommandOutput))
	v.output.SetWordWrap(true)
	v.output.SetTextInteractionFlags(qt.TextSelectableByMouse)
}

// --- Refresh and Painting ---

// refresh copies console state into the widgets and schedules a repaint
func (v *View) refresh() {
	c := v.demo.Console
	v.syncing = true
	defer func() { v.syncing = false }()

	if v.pixelAt != nil {
		v.pixelAt.SetText(c.PixelAt())
	}
	if v.stored != nil {
		v.stored.SetText(c.StoredLabel() + " " + c.StoredDN())
	}
	if v.trueDN != nil {
		v.trueDN.SetText("True DN: " + c.TrueDNText())
	}

	states := c.Sliders()
	for i, sc := range v.scales {
		if i >= len(states) {
			break
		}
		sc.state = states[i]
		if pos := sc.position(sc.state.Value); sc.slider.Value() != pos {
			sc.slider.SetValue(pos)
		}
		sc.label.SetText(sc.state.Text)
	}
	if v.colorize != nil {
		v.colorize.SetText(c.ColorizeLabel())
	}
	if v.cubeLabel != nil {
		v.cubeLabel.SetText(v.demo.Cube.Label())
	}

	if ch := v.demo.Challenge; ch != nil {
		loRows, loCols, hiRows, hiCols := ch.Inputs()
		v.loRows.SetText(loRows)
		v.loCols.SetText(loCols)
		v.hiRows.SetText(hiRows)
		v.hiCols.SetText(hiCols)
		v.original.SetChecked(ch.ShowingOriginal())
		if out := ch.Output(); out != pixelbox.DegradedMessage {
			v.output.SetText(out)
		}
		v.pixmapStale = true
	}

	b := v.stage.Bounds()
	v.canvas.SetMinimumSize2(b.Dx(), b.Dy())
	v.canvas.Update()
}

// cachedPixmap returns the pixmap for the rendered image, rendering it only
// after a change. It returns nil while there is nothing to draw.
func (v *View) cachedPixmap(render func() *image.RGBA) *qt.QPixmap {
	if v.pixmap != nil && !v.pixmapStale {
		return v.pixmap
	}
	img := render()
	if img == nil {
		return v.pixmap
	}
	if v.pixmap != nil {
		v.pixmap.Delete()
	}
	v.pixmap = imagePixmap(img)
	v.pixmapSrc = img
	v.pixmapStale = false
	return v.pixmap
}

func (v *View) paintEvent() {
	painter := qt.NewQPainter2(v.canvas.QPaintDevice)
	defer painter.End()

	painter.FillRect5(0, 0, v.canvas.Width(), v.canvas.Height(), qt.NewQColor3(255, 255, 255))
	if v.stage == nil {
		return
	}

	switch {
	case v.demo.Challenge != nil:
		painter.DrawPixmap9(0, 0, v.cachedPixmap(v.demo.Challenge.Render))
	case v.demo.Image != nil:
		// The layer image is replaced, never mutated, once loaded
		if img := v.demo.Image.Image(); img != v.pixmapSrc {
			v.pixmapStale = true
		}
		if pm := v.cachedPixmap(v.demo.Image.Image); pm != nil {
			painter.DrawPixmap9(0, 0, pm)
		}
	default:
		for _, pl := range v.stage.Placements() {
			pl.Surface.Paint(qtPainter{painter: painter, dx: pl.Origin.X, dy: pl.Origin.Y})
		}
	}
}
