package pixelboxgtk

import (
	"image"

	"github.com/gotk3/gotk3/cairo"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"github.com/phroun/pixelbox"
)

// cairoPainter paints a surface into a cairo context at an offset
type cairoPainter struct {
	cr     *cairo.Context
	dx, dy float64
}

func (p cairoPainter) setColor(c pixelbox.Color) {
	r, g, b := c.Float()
	p.cr.SetSourceRGB(r, g, b)
}

// Clear is a no-op: the draw handler fills the background once per frame
func (p cairoPainter) Clear(w, h int) {}

func (p cairoPainter) FillRect(x, y, w, h int, c pixelbox.Color) {
	p.setColor(c)
	p.cr.Rectangle(p.dx+float64(x), p.dy+float64(y), float64(w), float64(h))
	p.cr.Fill()
}

func (p cairoPainter) StrokeRect(x, y, w, h, lineWidth int, c pixelbox.Color) {
	p.setColor(c)
	p.cr.SetLineWidth(float64(lineWidth))
	p.cr.Rectangle(p.dx+float64(x), p.dy+float64(y), float64(w), float64(h))
	p.cr.Stroke()
}

// drawImage paints an RGBA image at the origin through a pixbuf
func drawImage(cr *cairo.Context, img *image.RGBA) error {
	b := img.Bounds()
	pb, err := gdk.PixbufNewFromData(img.Pix, gdk.COLORSPACE_RGB, true, 8, b.Dx(), b.Dy(), img.Stride)
	if err != nil {
		return err
	}
	gtk.GdkCairoSetSourcePixBuf(cr, pb, 0, 0)
	cr.Paint()
	return nil
}
