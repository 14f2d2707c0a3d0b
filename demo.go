package pixelbox

import (
	"image"
	"math"

	"github.com/pkg/errors"

	"github.com/phroun/pixelbox/internal/logger"
)

// DemoKind selects what a demo page shows
type DemoKind string

const (
	DemoGrid     DemoKind = "grid"     // One surface with a console
	DemoCube     DemoKind = "cube"     // Stacked lines-mode bands
	DemoImage    DemoKind = "image"    // Static image with DN readout
	DemoDestripe DemoKind = "destripe" // Low and high pass filter challenge
)

// DemoOptions describes one demo page
type DemoOptions struct {
	Target           string            `toml:"target" yaml:"target" json:"target"`
	Title            string            `toml:"title" yaml:"title" json:"title"`
	Kind             DemoKind          `toml:"kind" yaml:"kind" json:"kind"`                                     // grid, cube, image or destripe (default: grid)
	Surface          Options           `toml:"surface" yaml:"surface" json:"surface"`                            // Grid demos only
	Image            ImageLayerOptions `toml:"image" yaml:"image" json:"image"`                                  // Image and destripe demos
	Slider           bool              `toml:"slider" yaml:"slider" json:"slider"`                               // DN slider
	DNMultiplier     bool              `toml:"dnMultiplier" yaml:"dnMultiplier" json:"dnMultiplier"`             // Base and multiplier sliders
	Subpixels        bool              `toml:"subpixels" yaml:"subpixels" json:"subpixels"`                      // Sub-cell pointer readout
	ShowRightConsole bool              `toml:"showRightConsole" yaml:"showRightConsole" json:"showRightConsole"` // Control panel
	OverlaySupport   *bool             `toml:"overlaySupport" yaml:"overlaySupport" json:"overlaySupport"`       // Destripe composition (default: true)
}

// Demo is a constructed demo page. Image-backed demos finish building in the
// background; Ready is closed once they have.
type Demo struct {
	Options DemoOptions

	Console   *Console
	Cube      *CubeDemo
	Image     *ImageLayer
	Challenge *DestripeChallenge

	ready chan struct{}
	err   error
}

// NewDemo builds the page described by opts
func NewDemo(opts DemoOptions, lggr logger.Logger) (*Demo, error) {
	if lggr == nil {
		lggr = logger.Nop()
	}
	if opts.Kind == "" {
		opts.Kind = DemoGrid
	}
	if opts.Surface.Target == "" {
		opts.Surface.Target = opts.Target
	}
	if opts.Image.Target == "" {
		opts.Image.Target = opts.Target
	}

	d := &Demo{Options: opts, ready: make(chan struct{})}

	switch opts.Kind {
	case DemoGrid:
		d.Console = NewConsole(ConsoleOptions{
			Target:           opts.Target,
			Surfaces:         []*Surface{NewSurface(opts.Surface)},
			Slider:           opts.Slider,
			DNMultiplier:     opts.DNMultiplier,
			Subpixels:        opts.Subpixels,
			ShowRightConsole: opts.ShowRightConsole,
			Logger:           lggr,
		})
		close(d.ready)

	case DemoCube:
		d.Cube = NewCubeDemo(CubeOptions{Target: opts.Target, Logger: lggr})
		d.Console = d.Cube.Console()
		close(d.ready)

	case DemoImage:
		d.Image = d.loadImage()
		d.Console = NewConsole(ConsoleOptions{
			Target:           opts.Target,
			Image:            d.Image,
			Slider:           opts.Slider,
			DNMultiplier:     opts.DNMultiplier,
			Subpixels:        opts.Subpixels,
			ShowRightConsole: opts.ShowRightConsole,
			Logger:           lggr,
		})
		go func() {
			<-d.Image.Loaded()
			d.err = d.Image.Err()
			close(d.ready)
		}()

	case DemoDestripe:
		d.Image = d.loadImage()
		<-d.Image.Loaded()
		if err := d.Image.Err(); err != nil {
			return nil, errors.Wrapf(err, "demo %s", opts.Target)
		}
		d.Challenge = NewDestripeChallenge(DestripeOptions{
			Target:         opts.Target,
			Source:         d.Image.Image(),
			OverlaySupport: opts.OverlaySupport == nil || *opts.OverlaySupport,
			Logger:         lggr,
		})
		d.Console = NewConsole(ConsoleOptions{
			Target:    opts.Target,
			Challenge: d.Challenge,
			Logger:    lggr,
		})
		close(d.ready)

	default:
		return nil, errors.Errorf("demo %s: unknown kind %q", opts.Target, opts.Kind)
	}

	lggr.Debugw("demo created", "target", opts.Target, "kind", opts.Kind)
	return d, nil
}

// loadImage starts loading the configured image, or synthesizes a striped
// scene when no source is set
func (d *Demo) loadImage() *ImageLayer {
	if d.Options.Image.Src != "" {
		return LoadImageLayer(d.Options.Image)
	}
	w, h := d.Options.Image.Width, d.Options.Image.Height
	if w <= 0 {
		w = 256
	}
	if h <= 0 {
		h = 256
	}
	return NewImageLayer(StripedScene(w, h), d.Options.Image)
}

// Ready is closed once the demo is fully built
func (d *Demo) Ready() <-chan struct{} {
	return d.ready
}

// Err returns the background build error, valid after Ready is closed
func (d *Demo) Err() error {
	select {
	case <-d.ready:
		return d.err
	default:
		return nil
	}
}

// Surfaces returns the surfaces shown by the demo, in stacking order
func (d *Demo) Surfaces() []*Surface {
	if d.Cube != nil {
		return d.Cube.Surfaces()
	}
	return d.Console.Surfaces()
}

// Reset resets the whole demo
func (d *Demo) Reset() {
	if d.Cube != nil {
		d.Cube.Reset()
		return
	}
	d.Console.Reset()
}

// StripedScene renders a smooth terrain-like surface with periodic column
// striping, the kind of artifact the destripe challenge removes.
func StripedScene(w, h int) *image.RGBA {
	return GreyImage(w, h, func(x, y int) int {
		fx, fy := float64(x)/float64(w), float64(y)/float64(h)
		base := 128 + 60*math.Sin(fx*2*math.Pi)*math.Cos(fy*math.Pi)
		stripe := 0.0
		if x%8 < 2 {
			stripe = 40
		}
		return int(base + stripe)
	})
}
