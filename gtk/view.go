// Package pixelboxgtk shows pixelbox demos in GTK3 windows.
package pixelboxgtk

import (
	"sync"

	"github.com/gotk3/gotk3/cairo"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/phroun/pixelbox"
	"github.com/phroun/pixelbox/internal/logger"
)

// Options configures view creation
type Options struct {
	Spacing int           // Gap between the stage and the console panel (default: 12)
	Logger  logger.Logger // Defaults to logger.Nop()
}

// View is a demo page: a drawing area for the stage plus the console panel
type View struct {
	mu sync.Mutex

	demo  *pixelbox.Demo
	stage *pixelbox.Stage
	lggr  logger.Logger

	box   *gtk.Box
	panel *gtk.Box
	area  *gtk.DrawingArea

	// Readout
	pixelAt *gtk.Label
	stored  *gtk.Label
	trueDN  *gtk.Label
	message *gtk.Label

	// Controls
	scales      map[string]*gtk.Scale
	scaleLabels map[string]*gtk.Label
	colorize    *gtk.Button
	cubeLabel   *gtk.Label

	// Destripe challenge
	loRows, loCols *gtk.Entry
	hiRows, hiCols *gtk.Entry
	original       *gtk.CheckButton
	output         *gtk.Label

	// Set while controls are updated from console state, so their change
	// signals are not fed back
	syncing bool

	refreshPending bool
}

// New builds the view for demo d. Call from the GTK main thread.
func New(d *pixelbox.Demo, opts Options) (*View, error) {
	if opts.Spacing <= 0 {
		opts.Spacing = 12
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	v := &View{
		demo:        d,
		lggr:        opts.Logger.Named("gtk"),
		scales:      make(map[string]*gtk.Scale),
		scaleLabels: make(map[string]*gtk.Label),
	}

	var err error
	v.box, err = gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, opts.Spacing)
	if err != nil {
		return nil, err
	}
	v.box.SetName(d.Options.Target)

	v.area, err = gtk.DrawingAreaNew()
	if err != nil {
		return nil, err
	}
	v.area.AddEvents(int(gdk.BUTTON_PRESS_MASK | gdk.POINTER_MOTION_MASK))
	v.area.Connect("draw", v.onDraw)
	v.area.Connect("motion-notify-event", v.onMotionNotify)
	v.area.Connect("button-press-event", v.onButtonPress)
	v.box.PackStart(v.area, false, false, 0)

	v.panel, err = gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 4)
	if err != nil {
		return nil, err
	}
	v.box.PackStart(v.panel, false, false, 0)

	if err := v.buildPanel(); err != nil {
		v.lggr.Errorw("failed to build console panel", "err", err)
		return nil, err
	}

	v.stage = pixelbox.NewStage(d, Scheduler{})
	v.stage.SetChangeCallback(v.scheduleRefresh)

	b := v.stage.Bounds()
	v.area.SetSizeRequest(b.Dx(), b.Dy())
	v.refresh()
	return v, nil
}

// Widget returns the GTK box containing the view
func (v *View) Widget() *gtk.Box {
	return v.box
}

// Stage returns the stage shown by the view
func (v *View) Stage() *pixelbox.Stage {
	return v.stage
}

// Close stops every redraw schedule
func (v *View) Close() {
	v.stage.Close()
}

// --- Panel Construction ---

func newLabel(text string) (*gtk.Label, error) {
	l, err := gtk.LabelNew(text)
	if err != nil {
		return nil, err
	}
	l.SetHAlign(gtk.ALIGN_START)
	return l, nil
}

func (v *View) addLabel(text string) (*gtk.Label, error) {
	l, err := newLabel(text)
	if err != nil {
		return nil, err
	}
	v.panel.PackStart(l, false, false, 0)
	return l, nil
}

func (v *View) addButton(label, purpose string, fn func()) (*gtk.Button, error) {
	btn, err := gtk.ButtonNewWithLabel(label)
	if err != nil {
		return nil, err
	}
	btn.SetName(v.demo.Console.ControlID(purpose))
	btn.Connect("clicked", func() {
		fn()
		v.scheduleRefresh()
	})
	v.panel.PackStart(btn, false, false, 0)
	return btn, nil
}

func (v *View) buildPanel() error {
	c := v.demo.Console
	var err error

	if c.ReadOnly() {
		if v.message, err = v.addLabel(c.Message()); err != nil {
			return err
		}
		v.message.SetLineWrap(true)
	}

	if v.demo.Challenge != nil {
		return v.buildChallenge()
	}

	if v.pixelAt, err = v.addLabel(c.PixelAt()); err != nil {
		return err
	}
	if v.stored, err = v.addLabel(""); err != nil {
		return err
	}
	if c.HasTrueDN() {
		if v.trueDN, err = v.addLabel(""); err != nil {
			return err
		}
	}

	if !c.ShowRightConsole() {
		return nil
	}

	for _, sl := range c.Sliders() {
		sl := sl
		label, err := v.addLabel(sl.Text)
		if err != nil {
			return err
		}
		label.SetName(sl.ValueID)
		scale, err := gtk.ScaleNewWithRange(gtk.ORIENTATION_HORIZONTAL, sl.Min, sl.Max, sl.Step)
		if err != nil {
			return err
		}
		scale.SetName(sl.ID)
		scale.SetDrawValue(false)
		scale.SetSizeRequest(200, -1)
		scale.SetValue(sl.Value)
		scale.Connect("value-changed", func(s *gtk.Scale) {
			if v.syncing {
				return
			}
			c.SetSlider(sl.Purpose, s.GetValue())
		})
		v.panel.PackStart(scale, false, false, 0)
		v.scales[sl.Purpose] = scale
		v.scaleLabels[sl.Purpose] = label
	}

	if _, err := v.addButton(c.ResetLabel(), pixelbox.PurposeReset, v.demo.Reset); err != nil {
		return err
	}
	if c.HasColorizeToggle() {
		if v.colorize, err = v.addButton(c.ColorizeLabel(), pixelbox.PurposeColorize, c.ToggleColorize); err != nil {
			return err
		}
	}

	if cube := v.demo.Cube; cube != nil {
		if err := v.buildCube(cube); err != nil {
			return err
		}
	}

	for _, cat := range c.Legend() {
		if err := v.addSwatch(cat); err != nil {
			return err
		}
	}
	return nil
}

func (v *View) buildCube(cube *pixelbox.CubeDemo) error {
	var err error
	if v.cubeLabel, err = v.addLabel(cube.Label()); err != nil {
		return err
	}
	buttons := []struct {
		label, purpose string
		fn             func()
	}{
		{"+ line", pixelbox.PurposeAddLine, cube.AddLine},
		{"- line", pixelbox.PurposeRemoveLine, cube.RemoveLine},
		{"+ sample", pixelbox.PurposeAddSample, cube.AddSample},
		{"- sample", pixelbox.PurposeRemoveSample, cube.RemoveSample},
		{"+ band", pixelbox.PurposeAddBand, cube.AddBand},
		{"- band", pixelbox.PurposeRemoveBand, cube.RemoveBand},
	}
	for _, b := range buttons {
		if _, err := v.addButton(b.label, b.purpose, b.fn); err != nil {
			return err
		}
	}
	return nil
}

// addSwatch adds one legend row: a color square and the category name
func (v *View) addSwatch(cat pixelbox.Category) error {
	row, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 6)
	if err != nil {
		return err
	}
	sw, err := gtk.DrawingAreaNew()
	if err != nil {
		return err
	}
	sw.SetSizeRequest(16, 16)
	sw.Connect("draw", func(da *gtk.DrawingArea, cr *cairo.Context) bool {
		r, g, b := cat.Color().Float()
		cr.SetSourceRGB(r, g, b)
		cr.Rectangle(0, 0, 16, 16)
		cr.Fill()
		return true
	})
	label, err := newLabel(cat.String())
	if err != nil {
		return err
	}
	row.PackStart(sw, false, false, 0)
	row.PackStart(label, false, false, 0)
	v.panel.PackStart(row, false, false, 0)
	return nil
}

func (v *View) buildChallenge() error {
	ch := v.demo.Challenge
	c := v.demo.Console
	readOnly := c.ReadOnly()

	entry := func(purpose string) (*gtk.Entry, error) {
		e, err := gtk.EntryNew()
		if err != nil {
			return nil, err
		}
		e.SetName(c.ControlID(purpose))
		e.SetWidthChars(5)
		e.SetSensitive(!readOnly)
		return e, nil
	}
	row := func(label string, a, b *gtk.Entry) error {
		box, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 4)
		if err != nil {
			return err
		}
		l, err := newLabel(label)
		if err != nil {
			return err
		}
		box.PackStart(l, false, false, 0)
		box.PackStart(a, false, false, 0)
		box.PackStart(b, false, false, 0)
		v.panel.PackStart(box, false, false, 0)
		return nil
	}

	var err error
	if v.loRows, err = entry(pixelbox.PurposeLoBoxcarRows); err != nil {
		return err
	}
	if v.loCols, err = entry(pixelbox.PurposeLoBoxcarCols); err != nil {
		return err
	}
	if v.hiRows, err = entry(pixelbox.PurposeHiBoxcarRows); err != nil {
		return err
	}
	if v.hiCols, err = entry(pixelbox.PurposeHiBoxcarCols); err != nil {
		return err
	}
	if err := row("Low pass", v.loRows, v.loCols); err != nil {
		return err
	}
	lo, err := v.addButton("Run low pass", pixelbox.PurposeRunLowPass, func() {
		ch.SetLowPassSize(entryText(v.loRows), entryText(v.loCols))
		ch.RunLowPass()
	})
	if err != nil {
		return err
	}
	if err := row("High pass", v.hiRows, v.hiCols); err != nil {
		return err
	}
	hi, err := v.addButton("Run high pass", pixelbox.PurposeRunHiPass, func() {
		ch.SetHighPassSize(entryText(v.hiRows), entryText(v.hiCols))
		ch.RunHighPass()
	})
	if err != nil {
		return err
	}
	if _, err := v.addButton("Add images", pixelbox.PurposeResults, ch.AddImages); err != nil {
		return err
	}

	v.original, err = gtk.CheckButtonNewWithLabel("Show original")
	if err != nil {
		return err
	}
	v.original.SetName(c.ControlID(pixelbox.PurposeShowOriginal))
	v.original.Connect("toggled", func(cb *gtk.CheckButton) {
		if v.syncing {
			return
		}
		ch.ShowOriginal(cb.GetActive())
	})
	v.panel.PackStart(v.original, false, false, 0)

	if _, err := v.addButton(c.ResetLabel(), pixelbox.PurposeReset, v.demo.Reset); err != nil {
		return err
	}

	if v.output, err = v.addLabel(""); err != nil {
		return err
	}
	v.output.SetName(c.ControlID(pixelbox.PurposeCommandOutput))
	v.output.SetSelectable(true)

	if readOnly {
		// Run buttons still reveal the precomputed layers
		lo.SetSensitive(true)
		hi.SetSensitive(true)
	}
	return nil
}

func entryText(e *gtk.Entry) string {
	s, err := e.GetText()
	if err != nil {
		return ""
	}
	return s
}

// --- Refresh ---

// scheduleRefresh queues one refresh on the main loop. Safe from any
// goroutine.
func (v *View) scheduleRefresh() {
	v.mu.Lock()
	if v.refreshPending {
		v.mu.Unlock()
		return
	}
	v.refreshPending = true
	v.mu.Unlock()

	glib.IdleAdd(func() bool {
		v.mu.Lock()
		v.refreshPending = false
		v.mu.Unlock()
		v.refresh()
		return false
	})
}

// refresh copies console state into the widgets and queues a redraw
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
	for _, sl := range c.Sliders() {
		if scale, ok := v.scales[sl.Purpose]; ok && scale.GetValue() != sl.Value {
			scale.SetValue(sl.Value)
		}
		if label, ok := v.scaleLabels[sl.Purpose]; ok {
			label.SetText(sl.Text)
		}
	}
	if v.colorize != nil {
		v.colorize.SetLabel(c.ColorizeLabel())
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
		v.original.SetActive(ch.ShowingOriginal())
		if out := ch.Output(); out != pixelbox.DegradedMessage {
			v.output.SetText(out)
		}
	}

	if v.stage != nil {
		b := v.stage.Bounds()
		v.area.SetSizeRequest(b.Dx(), b.Dy())
	}
	v.area.QueueDraw()
}

// --- Drawing and Events ---

func (v *View) onDraw(da *gtk.DrawingArea, cr *cairo.Context) bool {
	cr.SetSourceRGB(1, 1, 1)
	cr.Paint()
	if v.stage == nil {
		return true
	}

	switch {
	case v.demo.Challenge != nil:
		if err := drawImage(cr, v.demo.Challenge.Render()); err != nil {
			v.lggr.Errorw("failed to draw challenge", "err", err)
		}
	case v.demo.Image != nil:
		if img := v.demo.Image.Image(); img != nil {
			if err := drawImage(cr, img); err != nil {
				v.lggr.Errorw("failed to draw image", "err", err)
			}
		}
	default:
		for _, pl := range v.stage.Placements() {
			pl.Surface.Paint(cairoPainter{cr: cr, dx: float64(pl.Origin.X), dy: float64(pl.Origin.Y)})
		}
	}
	return true
}

func (v *View) onMotionNotify(da *gtk.DrawingArea, ev *gdk.Event) bool {
	x, y := gdk.EventMotionNewFromEvent(ev).MotionVal()
	v.stage.PointerMove(pixelbox.Point{X: x, Y: y})
	return true
}

func (v *View) onButtonPress(da *gtk.DrawingArea, ev *gdk.Event) bool {
	btn := gdk.EventButtonNewFromEvent(ev)
	if btn.Button() != gdk.BUTTON_PRIMARY {
		return false
	}
	v.stage.PointerDown(pixelbox.Point{X: btn.X(), Y: btn.Y()})
	return true
}
