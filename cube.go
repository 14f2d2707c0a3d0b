package pixelbox

import (
	"strconv"
	"sync"

	"github.com/phroun/pixelbox/internal/logger"
)

// Cube bounds
const (
	MinBands = 1
	MaxBands = 8
)

// Cube band layout in device pixels
const (
	cubeBandSize      = 200
	cubeBandPixelSize = 50
	cubeTopStart      = 30
	cubeLeftStart     = 370
	cubeBandOffset    = 50
)

// cubeOrientations cycles per band so stacked bands show distinct stripes
var cubeOrientations = [...]Orientation{OrientationBottom, OrientationRight, OrientationTop, OrientationLeft}

// CubeOptions configures a cube demo
type CubeOptions struct {
	Target string
	Logger logger.Logger
}

// CubeDemo stacks lines-mode surfaces as bands of an image cube. Line and
// sample changes apply to every band; band changes rebuild the stack.
type CubeDemo struct {
	mu sync.Mutex

	target  string
	lggr    logger.Logger
	console *Console

	lines, samples, bands int
	surfaces              []*Surface // Band order, band 0 first

	onRebuild func(prev, next []*Surface)
}

// NewCubeDemo creates a cube with one 4x4 band and its console
func NewCubeDemo(opts CubeOptions) *CubeDemo {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	c := &CubeDemo{
		target:  opts.Target,
		lggr:    opts.Logger.Named("cube"),
		lines:   MinGridSize,
		samples: MinGridSize,
		bands:   MinBands,
	}
	c.surfaces = c.buildBands()
	c.console = NewConsole(ConsoleOptions{
		Target:           opts.Target,
		Surfaces:         reversed(c.surfaces),
		Slider:           true,
		ShowRightConsole: true,
		Logger:           opts.Logger,
	})
	return c
}

// SetRebuildCallback sets a function called after the band stack is
// replaced, with the previous and next surfaces
func (c *CubeDemo) SetRebuildCallback(fn func(prev, next []*Surface)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRebuild = fn
}

// Console returns the cube's console
func (c *CubeDemo) Console() *Console {
	return c.console
}

// Lines returns the row count shared by all bands
func (c *CubeDemo) Lines() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lines
}

// Samples returns the column count shared by all bands
func (c *CubeDemo) Samples() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.samples
}

// Bands returns the band count
func (c *CubeDemo) Bands() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bands
}

// Surfaces returns the bands, band 0 first
func (c *CubeDemo) Surfaces() []*Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Surface(nil), c.surfaces...)
}

// Label returns the dimension readout, e.g. "4 lines x 4 samples x 1 band"
func (c *CubeDemo) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	band := " bands"
	if c.bands == 1 {
		band = " band"
	}
	return strconv.Itoa(c.lines) + " lines x " + strconv.Itoa(c.samples) + " samples x " + strconv.Itoa(c.bands) + band
}

// --- Lines and Samples ---

// AddLine grows every band by one row
func (c *CubeDemo) AddLine() { c.resize(AxisRows, 1) }

// RemoveLine shrinks every band by one row
func (c *CubeDemo) RemoveLine() { c.resize(AxisRows, -1) }

// AddSample grows every band by one column
func (c *CubeDemo) AddSample() { c.resize(AxisColumns, 1) }

// RemoveSample shrinks every band by one column
func (c *CubeDemo) RemoveSample() { c.resize(AxisColumns, -1) }

func (c *CubeDemo) resize(axis Axis, delta int) {
	c.mu.Lock()
	count := &c.lines
	if axis == AxisColumns {
		count = &c.samples
	}
	next := *count + delta
	if next < MinGridSize || next > MaxGridSize {
		c.mu.Unlock()
		return
	}
	*count = next
	surfaces := append([]*Surface(nil), c.surfaces...)
	c.mu.Unlock()

	for _, s := range surfaces {
		if delta > 0 {
			s.Grow(axis)
		} else {
			s.Shrink(axis)
		}
	}
	c.lggr.Debugw("cube resized", "lines", c.Lines(), "samples", c.Samples())
	c.console.notify()
}

// --- Bands ---

// AddBand appends a band, up to MaxBands
func (c *CubeDemo) AddBand() {
	c.mu.Lock()
	if c.bands >= MaxBands {
		c.mu.Unlock()
		return
	}
	c.bands++
	c.mu.Unlock()
	c.rebuild()
}

// RemoveBand drops the last band, down to MinBands
func (c *CubeDemo) RemoveBand() {
	c.mu.Lock()
	if c.bands <= MinBands {
		c.mu.Unlock()
		return
	}
	c.bands--
	c.mu.Unlock()
	c.rebuild()
}

// Reset returns the cube to 4 lines, 4 samples and one band
func (c *CubeDemo) Reset() {
	c.mu.Lock()
	c.lines, c.samples, c.bands = MinGridSize, MinGridSize, MinBands
	c.mu.Unlock()
	c.rebuild()
	c.console.Reset()
}

// rebuild replaces every band. Old surfaces are detached so their pending
// redraws become no-ops.
func (c *CubeDemo) rebuild() {
	c.mu.Lock()
	old := c.surfaces
	c.surfaces = c.buildBands()
	surfaces := append([]*Surface(nil), c.surfaces...)
	fn := c.onRebuild
	c.mu.Unlock()

	for _, s := range old {
		s.Detach()
	}
	c.console.SetSurfaces(reversed(surfaces))
	if fn != nil {
		fn(old, surfaces)
	}
	c.lggr.Debugw("cube rebuilt", "bands", len(surfaces))
}

// buildBands must be called with the lock held
func (c *CubeDemo) buildBands() []*Surface {
	out := make([]*Surface, c.bands)
	for i := range out {
		out[i] = NewSurface(BandOptions(c.target, i, c.lines, c.samples))
	}
	return out
}

// BandOptions returns the surface options for band i of a cube
func BandOptions(target string, i, lines, samples int) Options {
	return Options{
		Target:      target,
		ID:          target + "-band" + strconv.Itoa(i+1),
		Type:        ModeLines,
		PixelSize:   cubeBandPixelSize,
		Width:       cubeBandSize,
		Height:      cubeBandSize,
		Rows:        lines,
		Columns:     samples,
		Orientation: cubeOrientations[i%len(cubeOrientations)],
		Top:         cubeTopStart + cubeBandOffset*i,
		Left:        cubeLeftStart - cubeBandOffset*i,
	}
}

// reversed returns the bands last first, so the front band registers first
// and starts active
func reversed(in []*Surface) []*Surface {
	out := make([]*Surface, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}
