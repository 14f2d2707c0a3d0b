package pixelbox

import (
	"fmt"
	"image"
)

// Cell represents a single square pixel of a grid, in device pixels
type Cell struct {
	X, Y     int      // Top-left corner
	Size     int      // Edge length
	Color    Color    // Fill color
	Category Category // Special-pixel class, CategoryNone for ordinary cells
}

// NewCell creates a greyscale cell
func NewCell(x, y, size, dn int) Cell {
	return Cell{X: x, Y: y, Size: size, Color: Greyscale(dn)}
}

// NewCategoryCell creates a colorized special-pixel cell
func NewCategoryCell(x, y, size int, cat Category) Cell {
	return Cell{X: x, Y: y, Size: size, Color: cat.Color(), Category: cat}
}

// Contains returns true if the device point lies within the cell.
// All four edges are inclusive, so neighbouring cells share their border.
func (c Cell) Contains(x, y float64) bool {
	return float64(c.X) <= x && float64(c.X+c.Size) >= x &&
		float64(c.Y) <= y && float64(c.Y+c.Size) >= y
}

// Bounds returns the cell rectangle
func (c Cell) Bounds() image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+c.Size, c.Y+c.Size)
}

// Readout returns the value shown for the cell under the pointer: the DN for
// greyscale cells, the category name for colorized special cells.
func (c Cell) Readout() string {
	if c.Color.IsRGB() {
		if c.Category != CategoryNone {
			return c.Category.String()
		}
		return fmt.Sprintf("%d, %d, %d", c.Color.R, c.Color.G, c.Color.B)
	}
	return dnString(c.Color.DN)
}

// DN returns the cell's digital number. ok is false for RGB cells.
func (c Cell) DN() (dn int, ok bool) {
	if c.Color.IsRGB() {
		return 0, false
	}
	return int(c.Color.DN), true
}

// Recolor replaces the cell color with a greyscale DN
func (c *Cell) Recolor(dn int) {
	c.Color = Greyscale(dn)
	c.Category = CategoryNone
}
