package pixelbox

import (
	"image"
	"image/color"
	"image/draw"
	"sort"
	"sync"
)

// stageBackground fills the area no layer covers
var stageBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// layer is one surface painted into its own image and placed on the stage
type layer struct {
	surface *Surface
	painter *ImagePainter
	order   int // Insertion order, later layers sit above earlier ones
}

// Stage places a demo's surfaces (or its image) in one coordinate space. It
// keeps a painted layer per surface, composes them in stacking order, and
// routes pointer events to the topmost layer under the pointer.
type Stage struct {
	mu sync.Mutex

	demo  *Demo
	sched Scheduler

	layers []*layer

	onChange func()
}

// NewStage attaches every surface of d to sched and returns the stage
func NewStage(d *Demo, sched Scheduler) *Stage {
	if sched == nil {
		sched = TickerScheduler{}
	}
	st := &Stage{demo: d, sched: sched}
	st.attach(d.Surfaces())

	if d.Cube != nil {
		d.Cube.SetRebuildCallback(func(prev, next []*Surface) {
			for _, s := range prev {
				s.Detach()
			}
			st.attach(next)
			st.changed()
		})
	}
	d.Console.SetChangeCallback(st.changed)
	if d.Challenge != nil {
		d.Challenge.SetChangeCallback(st.changed)
	}
	if d.Image != nil {
		go func() {
			<-d.Image.Loaded()
			st.changed()
		}()
	}
	return st
}

// attach replaces the layer set with one painter per surface
func (st *Stage) attach(surfaces []*Surface) {
	layers := make([]*layer, len(surfaces))
	for i, s := range surfaces {
		w, h := s.Size()
		p := NewImagePainter(w, h)
		p.SetPaintCallback(st.changed)
		layers[i] = &layer{surface: s, painter: p, order: i}
	}

	st.mu.Lock()
	st.layers = layers
	st.mu.Unlock()

	for _, l := range layers {
		l.surface.Attach(st.sched, l.painter)
	}
}

// SetChangeCallback sets a function called whenever the composed image or
// the console state may have changed. fn must not block.
func (st *Stage) SetChangeCallback(fn func()) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.onChange = fn
}

func (st *Stage) changed() {
	st.mu.Lock()
	fn := st.onChange
	st.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Demo returns the staged demo
func (st *Stage) Demo() *Demo {
	return st.demo
}

// Console returns the demo's console
func (st *Stage) Console() *Console {
	return st.demo.Console
}

// snapshot copies the layer set. Surfaces take their own locks while
// painting and may call back into the stage, so they are never queried with
// the stage lock held.
func (st *Stage) snapshot() []*layer {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]*layer(nil), st.layers...)
}

// stacked returns the layers bottom first: lower z-index first, then by
// insertion order
func (st *Stage) stacked() []*layer {
	out := st.snapshot()
	sort.SliceStable(out, func(i, j int) bool {
		zi, zj := out[i].surface.ZIndex(), out[j].surface.ZIndex()
		if zi != zj {
			return zi < zj
		}
		return out[i].order < out[j].order
	})
	return out
}

func layerRect(s *Surface) image.Rectangle {
	o := s.Options()
	w, h := s.Size()
	return image.Rect(o.Left, o.Top, o.Left+w, o.Top+h)
}

// Bounds returns the area covered by the stage
func (st *Stage) Bounds() image.Rectangle {
	switch {
	case st.demo.Challenge != nil:
		w, h := st.demo.Challenge.Size()
		return image.Rect(0, 0, w, h)
	case st.demo.Image != nil:
		w, h := st.demo.Image.Size()
		return image.Rect(0, 0, w, h)
	}

	var r image.Rectangle
	for _, l := range st.snapshot() {
		r = r.Union(layerRect(l.surface))
	}
	return image.Rect(0, 0, r.Max.X, r.Max.Y)
}

// Image composes the current stage into a new image
func (st *Stage) Image() *image.RGBA {
	b := st.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(stageBackground), image.Point{}, draw.Src)

	switch {
	case st.demo.Challenge != nil:
		src := st.demo.Challenge.Render()
		draw.Draw(out, b, src, src.Bounds().Min, draw.Over)
		return out
	case st.demo.Image != nil:
		if src := st.demo.Image.Image(); src != nil {
			draw.Draw(out, b, src, src.Bounds().Min, draw.Over)
		}
		return out
	}

	for _, l := range st.stacked() {
		o := l.surface.Options()
		l.painter.DrawTo(out, image.Pt(o.Left, o.Top))
	}
	return out
}

// Placement is a staged surface and the stage position of its top-left
type Placement struct {
	Surface *Surface
	Origin  image.Point
}

// Placements returns the staged surfaces bottom first, for frontends that
// paint surfaces themselves
func (st *Stage) Placements() []Placement {
	layers := st.stacked()
	out := make([]Placement, len(layers))
	for i, l := range layers {
		o := l.surface.Options()
		out[i] = Placement{Surface: l.surface, Origin: image.Pt(o.Left, o.Top)}
	}
	return out
}

// topmost returns the highest layer containing p
func (st *Stage) topmost(p Point) *layer {
	layers := st.stacked()
	for i := len(layers) - 1; i >= 0; i-- {
		r := layerRect(layers[i].surface)
		if p.X >= float64(r.Min.X) && p.X <= float64(r.Max.X) &&
			p.Y >= float64(r.Min.Y) && p.Y <= float64(r.Max.Y) {
			return layers[i]
		}
	}
	return nil
}

// local converts a stage point to a point relative to s
func local(s *Surface, p Point) Point {
	o := s.Options()
	return Point{X: p.X - float64(o.Left), Y: p.Y - float64(o.Top)}
}

// PointerMove routes a pointer move in stage coordinates. Read-only
// consoles ignore it.
func (st *Stage) PointerMove(p Point) {
	c := st.demo.Console
	if c.ReadOnly() || st.demo.Challenge != nil {
		return
	}
	if st.demo.Image != nil {
		c.ImagePointerMove(p)
		return
	}
	if l := st.topmost(p); l != nil {
		c.PointerMove(l.surface, local(l.surface, p))
	}
}

// PointerDown routes a primary button press in stage coordinates
func (st *Stage) PointerDown(p Point) {
	c := st.demo.Console
	if c.ReadOnly() || st.demo.Image != nil {
		return
	}
	if l := st.topmost(p); l != nil {
		c.PointerDown(l.surface, local(l.surface, p))
	}
}

// Close detaches every surface
func (st *Stage) Close() {
	st.mu.Lock()
	layers := st.layers
	st.layers = nil
	st.mu.Unlock()
	for _, l := range layers {
		l.surface.Detach()
	}
}
