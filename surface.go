package pixelbox

import (
	"math"
	"sync"
)

// Axis selects rows (lines) or columns (samples) for grow and shrink
type Axis int

const (
	AxisRows    Axis = iota // Lines
	AxisColumns             // Samples
)

// Active surfaces are raised above inactive ones
const (
	zIndexInactive = 0
	zIndexActive   = 5
)

// selectionLineWidth is the width of the selection outline in device pixels
const selectionLineWidth = 2

// Options configures surface creation
type Options struct {
	Target      string      `toml:"target" yaml:"target" json:"target"`                // Container identifier
	ID          string      `toml:"id" yaml:"id" json:"id"`                            // Optional identifier for debugging
	Type        Mode        `toml:"type" yaml:"type" json:"type"`                      // gradient, lines or special (default: gradient)
	PixelSize   int         `toml:"pixelSize" yaml:"pixelSize" json:"pixelSize"`       // Cell edge in device pixels (default: 35)
	Width       int         `toml:"width" yaml:"width" json:"width"`                   // Surface width (default: 280)
	Height      int         `toml:"height" yaml:"height" json:"height"`                // Surface height (default: 280)
	Rows        int         `toml:"rows" yaml:"rows" json:"rows"`                      // Lines mode rows (default: 4)
	Columns     int         `toml:"columns" yaml:"columns" json:"columns"`             // Lines mode columns (default: 4)
	Orientation Orientation `toml:"orientation" yaml:"orientation" json:"orientation"` // Lines mode orientation (default: top)
	Colorize    bool        `toml:"colorize" yaml:"colorize" json:"colorize"`          // Initial special-pixel colorization; Reset turns it off
	Top         int         `toml:"top" yaml:"top" json:"top"`                         // Placement within the stage
	Left        int         `toml:"left" yaml:"left" json:"left"`                      // Placement within the stage
}

// Point is a device coordinate relative to a surface's top-left corner
type Point struct {
	X, Y float64
}

// Surface wraps one grid with pointer handling, selection and redraw state
type Surface struct {
	mu sync.RWMutex

	opts Options

	rows      int
	columns   int
	colorized bool

	grid      Grid
	selection int // Index into grid.Cells, -1 when nothing is selected

	active bool
	zIndex int

	dirty   bool
	onDirty func()

	cancelRedraw func()
	detached     bool
}

// NewSurface creates a surface and generates its initial grid
func NewSurface(opts Options) *Surface {
	// Apply defaults
	if opts.Type == "" {
		opts.Type = ModeGradient
	}
	if opts.PixelSize <= 0 {
		opts.PixelSize = 35
	}
	if opts.Width <= 0 {
		opts.Width = 280
	}
	if opts.Height <= 0 {
		opts.Height = 280
	}
	if opts.Rows <= 0 {
		opts.Rows = MinGridSize
	}
	if opts.Columns <= 0 {
		opts.Columns = MinGridSize
	}
	if opts.Orientation == "" {
		opts.Orientation = OrientationTop
	}

	s := &Surface{
		opts:      opts,
		rows:      opts.Rows,
		columns:   opts.Columns,
		colorized: opts.Colorize,
		selection: -1,
		zIndex:    zIndexInactive,
	}
	s.regenerate()
	return s
}

// SetDirtyCallback sets a callback to be invoked when the surface changes
func (s *Surface) SetDirtyCallback(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDirty = fn
}

func (s *Surface) markDirty() {
	s.dirty = true
	if s.onDirty != nil {
		s.onDirty()
	}
}

// IsDirty returns true if the surface needs repainting
func (s *Surface) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// ClearDirty clears the dirty flag without painting
func (s *Surface) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// regenerate rebuilds every cell from the current configuration and drops
// the selection. Must be called with the lock held.
func (s *Surface) regenerate() {
	s.grid = Generate(GenerateOptions{
		Mode:        s.opts.Type,
		PixelSize:   s.opts.PixelSize,
		Width:       s.opts.Width,
		Height:      s.opts.Height,
		Rows:        s.rows,
		Columns:     s.columns,
		Orientation: s.opts.Orientation,
		Colorize:    s.colorized,
	})
	s.selection = -1
	s.markDirty()
}

// --- Accessors ---

// Options returns the construction options with defaults applied
func (s *Surface) Options() Options {
	return s.opts
}

// Type returns the generation mode
func (s *Surface) Type() Mode {
	return s.opts.Type
}

// Size returns the current surface size in device pixels
func (s *Surface) Size() (w, h int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.Width, s.grid.Height
}

// PixelSize returns the current cell edge length
func (s *Surface) PixelSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.PixelSize
}

// Rows returns the configured line count
func (s *Surface) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

// Columns returns the configured sample count
func (s *Surface) Columns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columns
}

// IsColorized reports whether special pixels render in their category colors
func (s *Surface) IsColorized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colorized
}

// Cells returns a copy of the cells in generation order
func (s *Surface) Cells() []Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Cell, len(s.grid.Cells))
	copy(out, s.grid.Cells)
	return out
}

// IsActive returns true if the surface is the console's active surface
func (s *Surface) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// ZIndex returns the stacking order; active surfaces sit above inactive ones
func (s *Surface) ZIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zIndex
}

// --- Structural Changes ---

// Grow adds a row or column, up to MaxGridSize, and regenerates
func (s *Surface) Grow(axis Axis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch axis {
	case AxisRows:
		if s.rows < MaxGridSize {
			s.rows++
		}
	case AxisColumns:
		if s.columns < MaxGridSize {
			s.columns++
		}
	}
	s.regenerate()
}

// Shrink removes a row or column, down to MinGridSize, and regenerates
func (s *Surface) Shrink(axis Axis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch axis {
	case AxisRows:
		if s.rows > MinGridSize {
			s.rows--
		}
	case AxisColumns:
		if s.columns > MinGridSize {
			s.columns--
		}
	}
	s.regenerate()
}

// Regenerate rebuilds the grid from the current configuration
func (s *Surface) Regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
}

// Reset restores the construction row and column counts, turns colorize off
// and regenerates
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = s.opts.Rows
	s.columns = s.opts.Columns
	s.colorized = false
	s.regenerate()
}

// SetColorized switches special-pixel colorization and regenerates
func (s *Surface) SetColorized(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colorized = on
	s.regenerate()
}

// ToggleColorize flips colorization and returns the new state
func (s *Surface) ToggleColorize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colorized = !s.colorized
	s.regenerate()
	return s.colorized
}

// --- Activation ---

// Activate raises the surface and marks it active
func (s *Surface) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.zIndex = zIndexActive
	s.markDirty()
}

// Deactivate lowers the surface and regenerates it, which drops any selection
func (s *Surface) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.zIndex = zIndexInactive
	s.regenerate()
}

// --- Pointer Mapping ---

// GridCoord is a pointer position in grid units
type GridCoord struct {
	X, Y     float64
	Subpixel bool
}

// String formats the coordinate the way the readout shows it
func (g GridCoord) String() string {
	if g.Subpixel {
		return formatFixed2(g.X) + ", " + formatFixed2(g.Y)
	}
	return itoa(int(g.X)) + ", " + itoa(int(g.Y))
}

// Subpixel coordinates are clamped to this range on both axes
const (
	SubpixelMin = 0.5
	SubpixelMax = 8.5
)

// MapPointer converts a device point to grid units. The default mapping is
// ceiling division by the cell size; subpixel mode offsets by half a cell,
// rounds to two decimals and clamps to [SubpixelMin, SubpixelMax].
func (s *Surface) MapPointer(p Point, subpixel bool) GridCoord {
	size := float64(s.PixelSize())
	if !subpixel {
		return GridCoord{X: math.Ceil(p.X / size), Y: math.Ceil(p.Y / size)}
	}
	return GridCoord{
		X:        clampSubpixel(round2(p.X/size + 0.5)),
		Y:        clampSubpixel(round2(p.Y/size + 0.5)),
		Subpixel: true,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampSubpixel(v float64) float64 {
	if v < SubpixelMin {
		return SubpixelMin
	}
	if v > SubpixelMax {
		return SubpixelMax
	}
	return v
}

// --- Pointer Handling ---

// Readout is what a pointer move reports
type Readout struct {
	Coord GridCoord
	Value string // Readout of the cell under the pointer
	Hit   bool   // False when the pointer is over no cell
}

// HandlePointerMove reports the grid coordinate and the value under p.
// Where cells overlap, the last one in generation order wins.
func (s *Surface) HandlePointerMove(p Point, subpixel bool) Readout {
	r := Readout{Coord: s.MapPointer(p, subpixel)}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.hitTest(p); i >= 0 {
		r.Value = s.grid.Cells[i].Readout()
		r.Hit = true
	}
	return r
}

// HandlePointerDown selects the cell under p, or clears the selection when
// p misses every cell. Returns true if a cell was selected.
func (s *Surface) HandlePointerDown(p Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.hitTest(p); i >= 0 {
		s.selection = i
		s.markDirty()
		return true
	}
	if s.selection >= 0 {
		s.selection = -1
		s.markDirty()
	}
	return false
}

// hitTest scans from last to first. Must be called with the lock held.
func (s *Surface) hitTest(p Point) int {
	for i := len(s.grid.Cells) - 1; i >= 0; i-- {
		if s.grid.Cells[i].Contains(p.X, p.Y) {
			return i
		}
	}
	return -1
}
