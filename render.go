package pixelbox

import (
	"image"
	"image/draw"
	"sync"
)

// Painter is the drawing target a surface paints into. Implementations exist
// for in-memory images here and for cairo and QPainter in the frontends.
type Painter interface {
	// Clear starts a frame, sizing the target to w x h and erasing it
	Clear(w, h int)
	// FillRect fills a rectangle with a solid color
	FillRect(x, y, w, h int, c Color)
	// StrokeRect outlines a rectangle with a line of the given width
	// centered on its edges, as a canvas strokeRect does
	StrokeRect(x, y, w, h, lineWidth int, c Color)
}

// Flusher is implemented by painters that want to know when a frame is
// complete
type Flusher interface {
	Flush()
}

// StrokeBands returns the four filled strips that make up a stroked
// rectangle, for painters that only fill.
func StrokeBands(x, y, w, h, lineWidth int) []image.Rectangle {
	half := lineWidth / 2
	outer := image.Rect(x-half, y-half, x+w+lineWidth-half, y+h+lineWidth-half)
	// Lines that meet in the middle leave no inside; image.Rect would
	// reorder the inner corners rather than produce an empty rectangle
	if outer.Dx() <= 2*lineWidth || outer.Dy() <= 2*lineWidth {
		return []image.Rectangle{outer}
	}
	inner := image.Rect(outer.Min.X+lineWidth, outer.Min.Y+lineWidth, outer.Max.X-lineWidth, outer.Max.Y-lineWidth)
	return []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y), // top
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y), // bottom
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y), // left
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y), // right
	}
}

// ImagePainter paints into an *image.RGBA. It is safe for concurrent use so a
// ticker-driven redraw can paint while a frontend reads the image.
type ImagePainter struct {
	mu  sync.RWMutex
	img *image.RGBA

	onPaint func()
}

// NewImagePainter creates a painter with an empty w x h image
func NewImagePainter(w, h int) *ImagePainter {
	return &ImagePainter{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// SetPaintCallback sets a function called after each completed frame, used
// by stages to learn that a layer changed. fn must not block.
func (p *ImagePainter) SetPaintCallback(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onPaint = fn
}

// Clear resizes and erases the image
func (p *ImagePainter) Clear(w, h int) {
	p.mu.Lock()
	if p.img.Bounds().Dx() != w || p.img.Bounds().Dy() != h {
		p.img = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		draw.Draw(p.img, p.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}
	p.mu.Unlock()
}

// FillRect fills a rectangle, clipped to the image
func (p *ImagePainter) FillRect(x, y, w, h int, c Color) {
	p.mu.Lock()
	r := image.Rect(x, y, x+w, y+h).Intersect(p.img.Bounds())
	draw.Draw(p.img, r, image.NewUniform(c.RGBA()), image.Point{}, draw.Src)
	p.mu.Unlock()
}

// StrokeRect outlines a rectangle, clipped to the image
func (p *ImagePainter) StrokeRect(x, y, w, h, lineWidth int, c Color) {
	p.mu.Lock()
	src := image.NewUniform(c.RGBA())
	for _, band := range StrokeBands(x, y, w, h, lineWidth) {
		draw.Draw(p.img, band.Intersect(p.img.Bounds()), src, image.Point{}, draw.Src)
	}
	p.mu.Unlock()
}

// Flush signals the end of a frame
func (p *ImagePainter) Flush() {
	p.mu.RLock()
	fn := p.onPaint
	p.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Image returns a copy of the current image
func (p *ImagePainter) Image() *image.RGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := image.NewRGBA(p.img.Bounds())
	copy(out.Pix, p.img.Pix)
	return out
}

// DrawTo composites the current image onto dst at the given offset
func (p *ImagePainter) DrawTo(dst draw.Image, at image.Point) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r := p.img.Bounds().Add(at)
	draw.Draw(dst, r, p.img, image.Point{}, draw.Over)
}

// Snapshot paints a surface into a fresh image regardless of its dirty state
func Snapshot(s *Surface) *image.RGBA {
	w, h := s.Size()
	p := NewImagePainter(w, h)
	s.Paint(p)
	return p.Image()
}
