package pixelbox

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"

	"github.com/phroun/pixelbox/internal/logger"
)

// LayerName identifies one image layer of the destripe challenge
type LayerName string

const (
	LayerBase     LayerName = "base"
	LayerLowPass  LayerName = "lpf"
	LayerHighPass LayerName = "hpf"
	LayerFinal    LayerName = "final"
)

// File names used in the generated command lines
const (
	filterFromFile = "input.cub"
	lowPassToFile  = "lpf.cub"
	highPassToFile = "hpf.cub"
	addToFile      = "destripe.cub"
)

// Boxcar sizes used when the filters cannot be run interactively
const (
	PresetLowPassRows  = 53
	PresetLowPassCols  = 251
	PresetHighPassRows = 1
	PresetHighPassCols = 91
)

// DegradedMessage explains why the challenge inputs are read-only
const DegradedMessage = "Please use a display that supports overlay composition in order to enable input."

// DestripeOptions configures the challenge
type DestripeOptions struct {
	Target         string
	Source         image.Image // Striped input image
	OverlaySupport bool        // Run filters interactively and compose with overlay
	Logger         logger.Logger
}

// Layer is one image in the challenge stack
type Layer struct {
	Name    LayerName
	Image   *image.RGBA
	Visible bool
}

// DestripeChallenge lets the user remove striping from an image by combining
// a low pass and a high pass boxcar filter. Without overlay support the
// filters are precomputed at preset sizes and the inputs are read-only.
type DestripeChallenge struct {
	mu sync.Mutex

	target  string
	src     *image.RGBA
	overlay bool
	lggr    logger.Logger

	layers []*Layer

	// Boxcar inputs as typed, "" when empty
	loRows, loCols string
	hiRows, hiCols string

	output       string
	composite    bool // Compose layers above base with overlay
	showOriginal bool
	saved        map[LayerName]bool

	onChange func()
}

// NewDestripeChallenge creates the challenge layers from opts.Source
func NewDestripeChallenge(opts DestripeOptions) *DestripeChallenge {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	src := toRGBA(opts.Source)

	d := &DestripeChallenge{
		target:  opts.Target,
		src:     src,
		overlay: opts.OverlaySupport,
		lggr:    opts.Logger.Named("destripe"),
	}

	if d.overlay {
		d.layers = []*Layer{
			{Name: LayerBase, Image: src, Visible: true},
			{Name: LayerLowPass, Image: src, Visible: true},
			{Name: LayerHighPass, Image: effect.Invert(src), Visible: false},
		}
	} else {
		low := Boxcar(src, PresetLowPassRows, PresetLowPassCols)
		high := HighPass(src, PresetHighPassRows, PresetHighPassCols)
		d.layers = []*Layer{
			{Name: LayerBase, Image: src, Visible: true},
			{Name: LayerLowPass, Image: low, Visible: false},
			{Name: LayerHighPass, Image: high, Visible: false},
			{Name: LayerFinal, Image: AddImages(low, high), Visible: false},
		}
		d.output = DegradedMessage
	}

	d.lggr.Debugw("destripe challenge created", "overlay", d.overlay, "bounds", src.Bounds())
	return d
}

// SetChangeCallback sets a callback invoked after layers or output change
func (d *DestripeChallenge) SetChangeCallback(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = fn
}

func (d *DestripeChallenge) notify() {
	d.mu.Lock()
	fn := d.onChange
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// OverlaySupport reports whether the challenge runs interactively
func (d *DestripeChallenge) OverlaySupport() bool {
	return d.overlay
}

// ReadOnly reports whether the boxcar inputs are fixed
func (d *DestripeChallenge) ReadOnly() bool {
	return !d.overlay
}

// ControlID returns the identifier for one of the challenge controls
func (d *DestripeChallenge) ControlID(purpose string) string {
	return ControlID(d.target, purpose)
}

func (d *DestripeChallenge) layer(name LayerName) *Layer {
	for _, l := range d.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Layers returns a snapshot of the layer stack, bottom first
func (d *DestripeChallenge) Layers() []Layer {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Layer, len(d.layers))
	for i, l := range d.layers {
		out[i] = *l
	}
	return out
}

// Visible reports whether the named layer is shown
func (d *DestripeChallenge) Visible(name LayerName) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l := d.layer(name); l != nil {
		return l.Visible
	}
	return false
}

// Output returns the command line text of the last step
func (d *DestripeChallenge) Output() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output
}

// ShowingOriginal reports whether the original is temporarily shown
func (d *DestripeChallenge) ShowingOriginal() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.showOriginal
}

// --- Inputs ---

// Inputs returns the boxcar fields as typed
func (d *DestripeChallenge) Inputs() (loRows, loCols, hiRows, hiCols string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loRows, d.loCols, d.hiRows, d.hiCols
}

// SetLowPassSize fills the low pass boxcar fields. Ignored when read-only.
func (d *DestripeChallenge) SetLowPassSize(rows, cols string) {
	if d.ReadOnly() {
		return
	}
	d.mu.Lock()
	d.loRows, d.loCols = strings.TrimSpace(rows), strings.TrimSpace(cols)
	d.mu.Unlock()
	d.notify()
}

// SetHighPassSize fills the high pass boxcar fields. Ignored when read-only.
func (d *DestripeChallenge) SetHighPassSize(rows, cols string) {
	if d.ReadOnly() {
		return
	}
	d.mu.Lock()
	d.hiRows, d.hiCols = strings.TrimSpace(rows), strings.TrimSpace(cols)
	d.mu.Unlock()
	d.notify()
}

// boxcarSize parses a field; anything that is not a positive integer means
// no blur along that axis
func boxcarSize(field string) int {
	n, err := strconv.Atoi(field)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// --- Steps ---

// RunLowPass blurs the low pass layer with the low pass boxcar and shows it
// alone
func (d *DestripeChallenge) RunLowPass() {
	d.mu.Lock()
	d.showOriginal = false
	if d.overlay {
		rows, cols := boxcarSize(d.loRows), boxcarSize(d.loCols)
		d.layer(LayerLowPass).Image = Boxcar(d.src, rows, cols)
		d.layer(LayerLowPass).Visible = true
		d.layer(LayerHighPass).Visible = false
		d.layer(LayerBase).Visible = false
	} else {
		d.loRows, d.loCols = itoa(PresetLowPassRows), itoa(PresetLowPassCols)
		d.setOnly(LayerLowPass)
	}
	d.output = lowPassCommand(d.loRows, d.loCols)
	rows, cols := d.loRows, d.loCols
	d.mu.Unlock()

	d.lggr.Debugw("low pass run", "rows", rows, "cols", cols)
	d.notify()
}

// RunHighPass blurs the inverted image with the high pass boxcar. With
// overlay support it is composed over the base, which yields the high
// frequencies.
func (d *DestripeChallenge) RunHighPass() {
	d.mu.Lock()
	d.showOriginal = false
	if d.overlay {
		rows, cols := boxcarSize(d.hiRows), boxcarSize(d.hiCols)
		d.layer(LayerHighPass).Image = Boxcar(effect.Invert(d.src), rows, cols)
		d.layer(LayerHighPass).Visible = true
		d.layer(LayerLowPass).Visible = false
		d.layer(LayerBase).Visible = true
		d.composite = true
	} else {
		d.hiRows, d.hiCols = itoa(PresetHighPassRows), itoa(PresetHighPassCols)
		d.setOnly(LayerHighPass)
	}
	d.output = highPassCommand(d.hiRows, d.hiCols)
	rows, cols := d.hiRows, d.hiCols
	d.mu.Unlock()

	d.lggr.Debugw("high pass run", "rows", rows, "cols", cols)
	d.notify()
}

// AddImages combines the filtered layers. Without overlay support the final
// layer is shown once all four boxcar fields are filled.
func (d *DestripeChallenge) AddImages() {
	d.mu.Lock()
	d.showOriginal = false
	if d.overlay {
		for _, l := range d.layers {
			l.Visible = true
		}
		d.composite = true
	} else if d.loRows != "" && d.loCols != "" && d.hiRows != "" && d.hiCols != "" {
		d.setOnly(LayerFinal)
	}
	d.output = addCommand()
	d.mu.Unlock()

	d.lggr.Debugw("images added")
	d.notify()
}

// setOnly shows one filtered layer, keeping base as is. Must be called with
// the lock held.
func (d *DestripeChallenge) setOnly(name LayerName) {
	for _, l := range d.layers {
		if l.Name == LayerBase {
			continue
		}
		l.Visible = l.Name == name
	}
}

// ShowOriginal shows only the base layer while on, remembering and later
// restoring the previous visibility
func (d *DestripeChallenge) ShowOriginal(on bool) {
	d.mu.Lock()
	if on && !d.showOriginal {
		d.saved = make(map[LayerName]bool, len(d.layers))
		for _, l := range d.layers {
			d.saved[l.Name] = l.Visible
			l.Visible = l.Name == LayerBase
		}
	} else if !on && d.showOriginal {
		for _, l := range d.layers {
			if v, ok := d.saved[l.Name]; ok {
				l.Visible = v
			}
		}
	}
	d.showOriginal = on
	d.mu.Unlock()
	d.notify()
}

// Reset clears the inputs and output and returns the layers to their
// initial state
func (d *DestripeChallenge) Reset() {
	d.mu.Lock()
	d.loRows, d.loCols, d.hiRows, d.hiCols = "", "", "", ""
	d.showOriginal = false
	d.saved = nil
	d.composite = false
	if d.overlay {
		d.output = ""
		d.layer(LayerLowPass).Image = d.src
		d.layer(LayerHighPass).Image = effect.Invert(d.src)
		d.layer(LayerHighPass).Visible = false
		d.layer(LayerLowPass).Visible = true
		d.layer(LayerBase).Visible = true
	} else {
		d.output = DegradedMessage
		for _, l := range d.layers {
			l.Visible = l.Name == LayerBase
		}
	}
	d.mu.Unlock()

	d.lggr.Debugw("destripe reset")
	d.notify()
}

// Render composes the visible layers bottom first. When composition is on,
// each layer above the first visible one is blended with overlay.
func (d *DestripeChallenge) Render() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out *image.RGBA
	for _, l := range d.layers {
		if !l.Visible {
			continue
		}
		switch {
		case out == nil:
			out = image.NewRGBA(l.Image.Bounds())
			draw.Draw(out, out.Bounds(), l.Image, l.Image.Bounds().Min, draw.Src)
		case d.composite:
			out = blend.Overlay(out, l.Image)
		default:
			draw.Draw(out, out.Bounds(), l.Image, l.Image.Bounds().Min, draw.Over)
		}
	}
	if out == nil {
		out = image.NewRGBA(d.src.Bounds())
	}
	return out
}

// Size returns the source image size
func (d *DestripeChallenge) Size() (w, h int) {
	return d.src.Bounds().Dx(), d.src.Bounds().Dy()
}

// --- Filters ---

// Boxcar averages each pixel over a rows x cols window. The kernel is
// separable, so it runs as a horizontal pass followed by a vertical one.
func Boxcar(src image.Image, rows, cols int) *image.RGBA {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	out := toRGBA(src)
	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}
	if cols > 1 {
		out = convolution.Convolve(out, uniformKernel(cols, 1), opts)
	}
	if rows > 1 {
		out = convolution.Convolve(out, uniformKernel(1, rows), opts)
	}
	return out
}

func uniformKernel(w, h int) *convolution.Kernel {
	k := convolution.NewKernel(w, h)
	v := 1 / float64(w*h)
	for i := range k.Matrix {
		k.Matrix[i] = v
	}
	return k
}

// HighPass returns src minus its boxcar average, offset to mid grey
func HighPass(src image.Image, rows, cols int) *image.RGBA {
	in := toRGBA(src)
	low := Boxcar(in, rows, cols)
	out := image.NewRGBA(in.Bounds())
	for i := 0; i+3 < len(in.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			out.Pix[i+c] = clampDN(int(in.Pix[i+c]) - int(low.Pix[i+c]) + 128)
		}
		out.Pix[i+3] = in.Pix[i+3]
	}
	return out
}

// AddImages sums a low pass and a high pass image, removing the high pass
// offset
func AddImages(low, high *image.RGBA) *image.RGBA {
	out := image.NewRGBA(low.Bounds())
	for i := 0; i+3 < len(out.Pix) && i+3 < len(high.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			out.Pix[i+c] = clampDN(int(low.Pix[i+c]) + int(high.Pix[i+c]) - 128)
		}
		out.Pix[i+3] = 0xff
	}
	return out
}

func toRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}

// --- Command Lines ---

func lowPassCommand(rows, cols string) string {
	return "Finished Low Pass Filter\n\nISIS Command Line:\n" +
		fmt.Sprintf(" lowpass FROM=%s TO=%s FILT=LPF\n LINE=%s SAMP=%s BAND=1\n", filterFromFile, lowPassToFile, rows, cols)
}

func highPassCommand(rows, cols string) string {
	return "Finished High Pass Filter\n\nISIS Command Line:\n" +
		fmt.Sprintf(" highpass FROM=%s TO=%s FILT=HPF\n LINE=%s SAMP=%s BAND=1\n", filterFromFile, highPassToFile, rows, cols)
}

func addCommand() string {
	return "Finished image addition\n\nISIS Command Line:\n" +
		fmt.Sprintf(" algebra OPERATOR=ADD FROM=%s\n FROM2=%s TO=%s\n", lowPassToFile, highPassToFile, addToFile)
}

// GreyImage builds a greyscale RGBA image from a DN function, used for
// synthetic challenge sources
func GreyImage(w, h int, dn func(x, y int) int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := clampDN(dn(x, y))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 0xff})
		}
	}
	return img
}
