package pixelboxqt

import (
	"image"
	"image/color"

	"github.com/mappu/miqt/qt"

	"github.com/phroun/pixelbox"
)

// qtPainter paints a surface through a QPainter at an offset
type qtPainter struct {
	painter *qt.QPainter
	dx, dy  int
}

func qColor(c pixelbox.Color) *qt.QColor {
	r, g, b := c.Components()
	return qt.NewQColor3(int(r), int(g), int(b))
}

// Clear is a no-op: the paint event fills the background once per frame
func (p qtPainter) Clear(w, h int) {}

func (p qtPainter) FillRect(x, y, w, h int, c pixelbox.Color) {
	p.painter.FillRect5(p.dx+x, p.dy+y, w, h, qColor(c))
}

// StrokeRect draws the outline as four filled bands, the same geometry the
// image painter uses
func (p qtPainter) StrokeRect(x, y, w, h, lineWidth int, c pixelbox.Color) {
	col := qColor(c)
	for _, r := range pixelbox.StrokeBands(p.dx+x, p.dy+y, w, h, lineWidth) {
		p.painter.FillRect5(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), col)
	}
}

// pixelRun is a horizontal span of equal opaque pixels
type pixelRun struct {
	x, y, w int
	c       color.RGBA
}

// imageRuns splits img into horizontal runs of equal pixels, skipping fully
// transparent ones. Coordinates are relative to the image origin.
func imageRuns(img *image.RGBA) []pixelRun {
	b := img.Bounds()
	var runs []pixelRun
	for y := b.Min.Y; y < b.Max.Y; y++ {
		runStart := b.Min.X
		run := img.RGBAAt(runStart, y)
		for x := b.Min.X + 1; x <= b.Max.X; x++ {
			if x < b.Max.X {
				if c := img.RGBAAt(x, y); c == run {
					continue
				}
			}
			if run.A > 0 {
				runs = append(runs, pixelRun{x: runStart - b.Min.X, y: y - b.Min.Y, w: x - runStart, c: run})
			}
			if x < b.Max.X {
				runStart = x
				run = img.RGBAAt(x, y)
			}
		}
	}
	return runs
}

// imagePixmap renders img into a pixmap once so repaints only blit it
func imagePixmap(img *image.RGBA) *qt.QPixmap {
	b := img.Bounds()
	pixmap := qt.NewQPixmap2(b.Dx(), b.Dy())
	pixmap.FillWithFillColor(qt.NewQColor2(qt.Transparent))

	painter := qt.NewQPainter2(pixmap.QPaintDevice)
	for _, r := range imageRuns(img) {
		painter.FillRect5(r.x, r.y, r.w, 1, qt.NewQColor3(int(r.c.R), int(r.c.G), int(r.c.B)))
	}
	painter.End()
	return pixmap
}
