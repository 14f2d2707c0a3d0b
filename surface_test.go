package pixelbox

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGradient(t *testing.T) *Surface {
	t.Helper()
	return NewSurface(Options{Target: "test", PixelSize: 35, Width: 280, Height: 280})
}

func TestNewSurface_Defaults(t *testing.T) {
	s := NewSurface(Options{Target: "test"})
	o := s.Options()
	assert.Equal(t, ModeGradient, o.Type)
	assert.Equal(t, 35, o.PixelSize)
	assert.Equal(t, OrientationTop, o.Orientation)
	w, h := s.Size()
	assert.Equal(t, 280, w)
	assert.Equal(t, 280, h)
	assert.Len(t, s.Cells(), 64)
	assert.False(t, s.IsActive())
	assert.False(t, s.HasSelection())
	assert.True(t, s.IsDirty())
}

func TestSurface_MapPointer(t *testing.T) {
	s := newGradient(t)

	tests := []struct {
		name     string
		p        Point
		subpixel bool
		want     string
	}{
		{"origin", Point{0, 0}, false, "0, 0"},
		{"cell edge", Point{35, 35}, false, "1, 1"},
		{"past edge", Point{36, 1}, false, "2, 1"},
		{"subpixel centre", Point{17.5, 17.5}, true, "1.00, 1.00"},
		{"subpixel low clamp", Point{0, 0}, true, "0.50, 0.50"},
		{"subpixel high clamp", Point{400, 400}, true, "8.50, 8.50"},
		{"subpixel rounding", Point{10, 52.5}, true, "0.79, 2.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.MapPointer(tt.p, tt.subpixel).String())
		})
	}
}

func TestSurface_SubpixelClamp(t *testing.T) {
	s := newGradient(t)

	tests := []struct {
		name string
		p    Point
		want string
	}{
		{"negative", Point{-500, -1}, "0.50, 0.50"},
		{"just below zero", Point{-0.1, -17.5}, "0.50, 0.50"},
		{"far beyond", Point{1e9, -1e9}, "8.50, 0.50"},
		{"far before and beyond", Point{-1e9, 1e9}, "0.50, 8.50"},
		{"right and bottom edges", Point{280, 280}, "8.50, 8.50"},
		{"past the edges", Point{281, 400}, "8.50, 8.50"},
		{"inside on one axis", Point{35, -35}, "1.50, 0.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.MapPointer(tt.p, true).String())
		})
	}

	// Every mapped coordinate stays in range
	for x := -1000.0; x <= 1000; x += 37 {
		for y := -1000.0; y <= 1000; y += 53 {
			c := s.MapPointer(Point{x, y}, true)
			assert.True(t, c.X >= SubpixelMin && c.X <= SubpixelMax, "x %v -> %v", x, c.X)
			assert.True(t, c.Y >= SubpixelMin && c.Y <= SubpixelMax, "y %v -> %v", y, c.Y)
		}
	}
}

func TestSurface_HandlePointerMove(t *testing.T) {
	s := newGradient(t)

	r := s.HandlePointerMove(Point{10, 10}, false)
	require.True(t, r.Hit)
	assert.Equal(t, "255", r.Value)

	// On a shared border the last generated cell wins
	r = s.HandlePointerMove(Point{35, 35}, false)
	require.True(t, r.Hit)
	assert.Equal(t, "221", r.Value)

	r = s.HandlePointerMove(Point{-5, 10}, false)
	assert.False(t, r.Hit)
}

func TestSurface_Selection(t *testing.T) {
	s := newGradient(t)

	assert.False(t, s.RecolorSelection(10), "nothing selected")

	require.True(t, s.HandlePointerDown(Point{40, 5}))
	cell, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, 35, cell.X)
	assert.Equal(t, 0, cell.Y)

	require.True(t, s.RecolorSelection(42))
	cell, _ = s.Selection()
	assert.Equal(t, "42", cell.Readout())

	// A miss clears the selection
	assert.False(t, s.HandlePointerDown(Point{500, 500}))
	assert.False(t, s.HasSelection())
}

func TestSurface_DeactivateDropsSelection(t *testing.T) {
	s := newGradient(t)
	s.Activate()
	assert.True(t, s.IsActive())
	assert.Greater(t, s.ZIndex(), 0)

	s.HandlePointerDown(Point{5, 5})
	s.RecolorSelection(0)
	s.Deactivate()

	assert.False(t, s.IsActive())
	assert.False(t, s.HasSelection())
	dn, _ := s.Cells()[0].DN()
	assert.Equal(t, 255, dn, "regenerated")
}

func TestSurface_GrowShrink(t *testing.T) {
	s := NewSurface(Options{Type: ModeLines, Width: 200, Height: 200, Rows: 4, Columns: 4})

	for i := 0; i < 20; i++ {
		s.Grow(AxisRows)
	}
	assert.Equal(t, MaxGridSize, s.Rows())
	assert.Len(t, s.Cells(), MaxGridSize*4)

	for i := 0; i < 20; i++ {
		s.Shrink(AxisRows)
	}
	assert.Equal(t, MinGridSize, s.Rows())

	s.Grow(AxisColumns)
	assert.Equal(t, 5, s.Columns())
	w, h := s.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 160, h)

	s.Reset()
	assert.Equal(t, 4, s.Columns())
}

func TestSurface_Colorize(t *testing.T) {
	s := NewSurface(Options{Type: ModeSpecial, PixelSize: 35, Width: 280, Height: 280})
	assert.False(t, s.IsColorized())

	assert.True(t, s.ToggleColorize())
	assert.Equal(t, "HIS", s.Cells()[0].Readout())

	s.Reset()
	assert.False(t, s.IsColorized())
	assert.Equal(t, "255", s.Cells()[0].Readout())
}

func TestSurface_InitialColorize(t *testing.T) {
	s := NewSurface(Options{Type: ModeSpecial, PixelSize: 35, Width: 280, Height: 280, Colorize: true})
	assert.True(t, s.IsColorized())
	assert.Equal(t, "HIS", s.Cells()[0].Readout())

	// Reset returns to the decolorized default, not the configured state
	s.Reset()
	assert.False(t, s.IsColorized())
	assert.Equal(t, "255", s.Cells()[0].Readout())

	// Gradient surfaces ignore it: no cell has a category
	g := NewSurface(Options{PixelSize: 35, Width: 280, Height: 280, Colorize: true})
	assert.Equal(t, "255", g.Cells()[0].Readout())
}

func TestSurface_DirtyCallback(t *testing.T) {
	s := newGradient(t)
	calls := 0
	s.SetDirtyCallback(func() { calls++ })

	s.ClearDirty()
	s.HandlePointerDown(Point{5, 5})
	assert.True(t, s.IsDirty())
	assert.Equal(t, 1, calls)
}

func TestSurface_RedrawSchedule(t *testing.T) {
	s := newGradient(t)
	sched := NewManualScheduler()
	w, h := s.Size()
	p := NewImagePainter(w, h)

	frames := 0
	p.SetPaintCallback(func() { frames++ })

	s.Attach(sched, p)
	assert.True(t, s.IsAttached())
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(RedrawInterval - time.Millisecond)
	assert.Equal(t, 0, frames, "not yet due")

	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, frames)
	assert.False(t, s.IsDirty())

	// Clean surfaces are not repainted
	sched.Advance(3 * RedrawInterval)
	assert.Equal(t, 1, frames)

	s.HandlePointerDown(Point{5, 5})
	sched.Advance(RedrawInterval)
	assert.Equal(t, 2, frames)

	s.Detach()
	assert.False(t, s.IsAttached())
	assert.Equal(t, 0, sched.Pending())

	s.HandlePointerDown(Point{50, 50})
	assert.False(t, s.Redraw(p), "redraw after detach is a no-op")
	assert.Equal(t, 2, frames)
}

// hookScheduler runs before ahead of every registration
type hookScheduler struct {
	Scheduler
	before func()
}

func (h hookScheduler) Every(interval time.Duration, fn func()) func() {
	if h.before != nil {
		h.before()
	}
	return h.Scheduler.Every(interval, fn)
}

func TestSurface_ReattachRacingDetach(t *testing.T) {
	s := newGradient(t)
	sched := NewManualScheduler()
	w, h := s.Size()
	p := NewImagePainter(w, h)

	frames := 0
	p.SetPaintCallback(func() { frames++ })

	s.Attach(sched, p)
	require.Equal(t, 1, sched.Pending())

	// A Detach lands while the new schedule is being registered
	s.Attach(hookScheduler{Scheduler: sched, before: s.Detach}, p)
	assert.True(t, s.IsAttached())
	assert.Equal(t, 1, sched.Pending(), "exactly one live schedule")

	sched.Advance(RedrawInterval)
	assert.Equal(t, 1, frames, "the live schedule paints")

	s.Detach()
	assert.False(t, s.IsAttached())
	assert.Equal(t, 0, sched.Pending())
}

func TestSurface_AttachReplacesSchedule(t *testing.T) {
	s := newGradient(t)
	sched := NewManualScheduler()
	w, h := s.Size()
	p := NewImagePainter(w, h)

	s.Attach(sched, p)
	s.Attach(sched, p)
	assert.Equal(t, 1, sched.Pending())

	frames := 0
	p.SetPaintCallback(func() { frames++ })
	sched.Advance(RedrawInterval)
	assert.Equal(t, 1, frames)
}

func TestSurface_Paint(t *testing.T) {
	s := newGradient(t)
	s.HandlePointerDown(Point{40, 40})

	img := Snapshot(s)
	assert.Equal(t, 280, img.Bounds().Dx())

	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{R: 221, G: 221, B: 221, A: 255}, img.RGBAAt(52, 52))

	// Selection outline on the selected cell's inset border
	assert.Equal(t, SelectionColor.RGBA(), img.RGBAAt(36, 52))
}

func TestStrokeBands(t *testing.T) {
	bands := StrokeBands(10, 10, 20, 20, 2)
	require.Len(t, bands, 4)
	for _, b := range bands {
		assert.False(t, b.Empty())
	}

	// Bands tile the outline without covering the inside
	covered := image.Rect(0, 0, 0, 0)
	area := 0
	for _, b := range bands {
		covered = covered.Union(b)
		area += b.Dx() * b.Dy()
	}
	assert.Equal(t, image.Rect(9, 9, 31, 31), covered)
	assert.Equal(t, 22*22-18*18, area)
}

func TestStrokeBands_Solid(t *testing.T) {
	tests := []struct {
		name           string
		x, y, w, h, lw int
		want           image.Rectangle
	}{
		{"thicker than the rectangle", 0, 0, 1, 1, 4, image.Rect(-2, -2, 3, 3)},
		{"lines meet", 0, 0, 2, 8, 2, image.Rect(-1, -1, 3, 9)},
		{"zero size", 5, 5, 0, 0, 2, image.Rect(4, 4, 6, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands := StrokeBands(tt.x, tt.y, tt.w, tt.h, tt.lw)
			require.Len(t, bands, 1)
			assert.Equal(t, tt.want, bands[0])
		})
	}
}
