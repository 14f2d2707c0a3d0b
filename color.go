// Package pixelbox provides the toolkit-neutral core of an interactive pixel
// grid demo shared between the frontend implementations (GTK, Qt, Ebiten, CLI).
//
// This package contains:
//   - Color and special-pixel category types
//   - Cell representation and grid generation
//   - Surfaces with selection, redraw scheduling and painting
//   - The demo console, cube demo, image layer and destripe challenge
//
// Frontend packages (pixelbox/gtk, pixelbox/qt, pixelbox/ebiten, pixelbox/cli)
// provide the widgets that drive this core package.
package pixelbox

import (
	"fmt"
	"image/color"
	"strconv"
)

// ColorType indicates which representation a Color carries
type ColorType uint8

const (
	ColorTypeDN  ColorType = iota // Single digital number rendered as greyscale
	ColorTypeRGB                  // Explicit RGB triple
)

// Color is either a DN (0-255) or an RGB triple, never both.
type Color struct {
	Type    ColorType
	DN      uint8 // For ColorTypeDN
	R, G, B uint8 // For ColorTypeRGB
}

// SelectionColor is the outline color of a selected cell (#CC0000)
var SelectionColor = RGB(0xCC, 0x00, 0x00)

// Greyscale creates a DN color, clamping dn into [0, 255]
func Greyscale(dn int) Color {
	return Color{Type: ColorTypeDN, DN: clampDN(dn)}
}

// RGB creates an RGB color
func RGB(r, g, b uint8) Color {
	return Color{Type: ColorTypeRGB, R: r, G: g, B: b}
}

// IsRGB returns true if the color carries an RGB triple rather than a DN
func (c Color) IsRGB() bool {
	return c.Type == ColorTypeRGB
}

// Components returns the displayed red, green and blue channels
func (c Color) Components() (r, g, b uint8) {
	if c.Type == ColorTypeDN {
		return c.DN, c.DN, c.DN
	}
	return c.R, c.G, c.B
}

// RGBA converts the color for use with the image packages
func (c Color) RGBA() color.RGBA {
	r, g, b := c.Components()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// String returns the CSS-style rgb(r,g,b) form
func (c Color) String() string {
	r, g, b := c.Components()
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
}

// Hex returns the #rrggbb form
func (c Color) Hex() string {
	r, g, b := c.Components()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Float returns the channels scaled to [0, 1], as cairo expects
func (c Color) Float() (r, g, b float64) {
	ri, gi, bi := c.Components()
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255
}

func clampDN(dn int) uint8 {
	if dn < 0 {
		return 0
	}
	if dn > 255 {
		return 255
	}
	return uint8(dn)
}

// Category names a reserved special-pixel class
type Category uint8

const (
	CategoryNone Category = iota // Ordinary pixel
	CategoryHIS                  // High instrument saturation
	CategoryNUL                  // Null, no data
	CategoryLRS                  // Low representation saturation
	CategoryLIS                  // Low instrument saturation
	CategoryHRS                  // High representation saturation
)

// LegendOrder is the order the special-pixel legend lists categories in
var LegendOrder = []Category{CategoryNUL, CategoryLRS, CategoryLIS, CategoryHRS, CategoryHIS}

var categoryColors = map[Category]Color{
	CategoryHIS: RGB(255, 255, 127),
	CategoryNUL: RGB(191, 0, 0),
	CategoryLRS: RGB(63, 63, 255),
	CategoryLIS: RGB(0, 127, 0),
	CategoryHRS: RGB(127, 255, 255),
}

// String returns the three letter category name
func (c Category) String() string {
	switch c {
	case CategoryHIS:
		return "HIS"
	case CategoryNUL:
		return "NUL"
	case CategoryLRS:
		return "LRS"
	case CategoryLIS:
		return "LIS"
	case CategoryHRS:
		return "HRS"
	}
	return ""
}

// Color returns the reserved colorized color for the category
func (c Category) Color() Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return Greyscale(0)
}

// Decolorized returns the extreme a category collapses to when not colorized:
// high saturation classes are white, the rest black.
func (c Category) Decolorized() Color {
	switch c {
	case CategoryHIS, CategoryHRS:
		return Greyscale(255)
	}
	return Greyscale(0)
}

// Hex returns the legend swatch color
func (c Category) Hex() string {
	return c.Color().Hex()
}

// CategoryForColor maps a reserved color back to its category
func CategoryForColor(col Color) Category {
	if !col.IsRGB() {
		return CategoryNone
	}
	for cat, c := range categoryColors {
		if c == col {
			return cat
		}
	}
	return CategoryNone
}

// dnString renders a DN for readouts
func dnString(dn uint8) string {
	return itoa(int(dn))
}

// itoa is a simple int to string conversion
func itoa(i int) string {
	return strconv.Itoa(i)
}

// formatFixed2 formats v with exactly two decimals
func formatFixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
