package pixelbox

import "math"

// Mode selects how a grid is populated
type Mode string

const (
	ModeGradient Mode = "gradient" // Diagonal brightness ramp
	ModeLines    Mode = "lines"    // Orientation-dependent striping
	ModeSpecial  Mode = "special"  // Special-pixel classification over a gradient
)

// Orientation is the direction a lines grid brightens toward
type Orientation string

const (
	OrientationTop    Orientation = "top"
	OrientationBottom Orientation = "bottom"
	OrientationLeft   Orientation = "left"
	OrientationRight  Orientation = "right"
)

// Grid size bounds for rows (lines) and columns (samples)
const (
	MinGridSize = 4
	MaxGridSize = 16
)

// GenerateOptions are the inputs to Generate
type GenerateOptions struct {
	Mode        Mode
	PixelSize   int // Cell edge for gradient and special modes
	Width       int // Surface width in device pixels (original width for lines)
	Height      int // Surface height in device pixels (original height for lines)
	Rows        int // Lines mode only
	Columns     int // Lines mode only
	Orientation Orientation
	Colorize    bool // Special mode only
}

// Grid is the result of a generation pass
type Grid struct {
	Cells     []Cell
	PixelSize int
	Width     int // Resulting surface width
	Height    int // Resulting surface height
}

// special-pixel lookup tables, (column, row)
var specialPixels = map[Category][][2]int{
	CategoryHIS: {{0, 0}, {1, 0}, {2, 0}, {0, 1}, {0, 2}, {0, 3}},
	CategoryNUL: {{6, 0}, {7, 2}, {0, 5}, {2, 6}},
	CategoryLRS: {{6, 1}, {6, 6}, {7, 6}, {6, 7}, {7, 7}},
	CategoryLIS: {{7, 5}, {5, 7}},
	CategoryHRS: {{3, 0}, {2, 1}, {1, 2}},
}

// SpecialCategory returns the reserved category at a grid coordinate
func SpecialCategory(col, row int) Category {
	for cat, coords := range specialPixels {
		for _, c := range coords {
			if c[0] == col && c[1] == row {
				return cat
			}
		}
	}
	return CategoryNone
}

// SpecialCoordinates returns the (column, row) pairs reserved for cat
func SpecialCoordinates(cat Category) [][2]int {
	coords := specialPixels[cat]
	out := make([][2]int, len(coords))
	copy(out, coords)
	return out
}

// Generate populates a grid. It is a pure function of its options. Cells are
// emitted column by column, which is the order hit-testing scans in reverse.
func Generate(opts GenerateOptions) Grid {
	switch opts.Mode {
	case ModeLines:
		return generateLines(opts)
	case ModeSpecial:
		return generateSpecial(opts)
	default:
		return generateGradient(opts)
	}
}

// gradientSteps returns the column and row counts plus the per-step decrement.
// Partial trailing cells still count, as they do on the canvas.
func gradientSteps(opts GenerateOptions) (cols, rows int, diff float64) {
	size := opts.PixelSize
	if size <= 0 {
		size = 1
	}
	w := float64(opts.Width) / float64(size)
	h := float64(opts.Height) / float64(size)
	diff = 255 / ((w + h) - 1)
	return int(math.Ceil(w)), int(math.Ceil(h)), diff
}

// GradientDN returns the gradient value at column i, row j
func GradientDN(i, j int, diff float64) int {
	return int(math.Floor((255 - float64(j)*diff) - float64(i)*diff))
}

func generateGradient(opts GenerateOptions) Grid {
	cols, rows, diff := gradientSteps(opts)
	size := opts.PixelSize
	cells := make([]Cell, 0, cols*rows)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			cells = append(cells, NewCell(i*size, j*size, size, GradientDN(i, j, diff)))
		}
	}
	return Grid{Cells: cells, PixelSize: size, Width: opts.Width, Height: opts.Height}
}

func generateSpecial(opts GenerateOptions) Grid {
	cols, rows, diff := gradientSteps(opts)
	size := opts.PixelSize
	cells := make([]Cell, 0, cols*rows)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			x, y := i*size, j*size
			cat := SpecialCategory(i, j)
			switch {
			case cat == CategoryNone:
				cells = append(cells, NewCell(x, y, size, GradientDN(i, j, diff)))
			case opts.Colorize:
				cells = append(cells, NewCategoryCell(x, y, size, cat))
			default:
				c := Cell{X: x, Y: y, Size: size, Color: cat.Decolorized()}
				cells = append(cells, c)
			}
		}
	}
	return Grid{Cells: cells, PixelSize: size, Width: opts.Width, Height: opts.Height}
}

func generateLines(opts GenerateOptions) Grid {
	rows := clampLines(opts.Rows)
	columns := clampLines(opts.Columns)

	var size int
	if rows > columns {
		size = int(math.Ceil(float64(opts.Height) / float64(rows)))
	} else {
		size = int(math.Ceil(float64(opts.Width) / float64(columns)))
	}

	cells := make([]Cell, 0, rows*columns)
	for i := 0; i < columns; i++ {
		for j := 0; j < rows; j++ {
			cells = append(cells, NewCell(i*size, j*size, size, LineDN(opts.Orientation, i, j)))
		}
	}
	return Grid{Cells: cells, PixelSize: size, Width: columns * size, Height: rows * size}
}

// LineDN returns the striping value at column i, row j. Ascending
// orientations start at 15, descending ones at 255, stepping by 16.
func LineDN(o Orientation, i, j int) int {
	switch o {
	case OrientationLeft:
		return 15 + 16*i
	case OrientationBottom:
		return 255 - 16*j
	case OrientationRight:
		return 255 - 16*i
	default:
		return 15 + 16*j
	}
}

// clampLines bounds a lines-mode count to at most MaxGridSize
func clampLines(n int) int {
	if n > MaxGridSize {
		return MaxGridSize
	}
	if n < 1 {
		return 1
	}
	return n
}
