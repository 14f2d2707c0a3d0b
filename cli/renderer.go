package cli

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"time"
)

// halfBlock draws the upper half of a cell in the foreground color
const halfBlock = '▀'

// Renderer draws the stage and console panel to the host terminal
type Renderer struct {
	term *Terminal
	mu   sync.Mutex

	// Render state
	renderNeeded bool
	lastCells    [][]renderedCell // Previous frame for differential rendering
	lastPanel    []string
	renderTicker *time.Ticker

	// Output buffer for batching writes
	output strings.Builder

	// Border characters
	borderChars borderCharSet
}

// renderedCell stores the last rendered state of a cell for diff comparison
type renderedCell struct {
	top    color.RGBA
	bottom color.RGBA
}

// borderCharSet contains the characters for drawing borders
type borderCharSet struct {
	topLeft     rune
	topRight    rune
	bottomLeft  rune
	bottomRight rune
	horizontal  rune
	vertical    rune
	titleLeft   rune
	titleRight  rune
}

var borderStyles = map[BorderStyle]borderCharSet{
	BorderSingle: {
		topLeft: '┌', topRight: '┐', bottomLeft: '└', bottomRight: '┘',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
	BorderDouble: {
		topLeft: '╔', topRight: '╗', bottomLeft: '╚', bottomRight: '╝',
		horizontal: '═', vertical: '║', titleLeft: '╡', titleRight: '╞',
	},
	BorderHeavy: {
		topLeft: '┏', topRight: '┓', bottomLeft: '┗', bottomRight: '┛',
		horizontal: '━', vertical: '┃', titleLeft: '┫', titleRight: '┣',
	},
	BorderRounded: {
		topLeft: '╭', topRight: '╮', bottomLeft: '╰', bottomRight: '╯',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
}

// NewRenderer creates a new renderer for the terminal
func NewRenderer(term *Terminal) *Renderer {
	r := &Renderer{
		term:         term,
		renderNeeded: true,
	}

	if term.options.BorderStyle != BorderNone {
		r.borderChars = borderStyles[term.options.BorderStyle]
	}

	return r
}

// RequestRender marks that a render is needed
func (r *Renderer) RequestRender() {
	r.mu.Lock()
	r.renderNeeded = true
	r.mu.Unlock()
}

// ForceFullRedraw discards the previous frame so the next render repaints
// everything
func (r *Renderer) ForceFullRedraw() {
	r.mu.Lock()
	r.lastCells = nil
	r.lastPanel = nil
	r.renderNeeded = true
	r.mu.Unlock()
}

// RenderLoop runs the main render loop
func (r *Renderer) RenderLoop() {
	// Render at ~60fps max, but only when needed
	r.renderTicker = time.NewTicker(16 * time.Millisecond)
	defer r.renderTicker.Stop()

	for {
		select {
		case <-r.renderTicker.C:
			r.mu.Lock()
			needsRender := r.renderNeeded
			r.renderNeeded = false
			r.mu.Unlock()

			if needsRender {
				fmt.Print(r.Render())
			}
		case <-r.term.stopRender:
			return
		}
	}
}

// sampleCells reduces img to character cells, two stage rows per cell,
// sampling the center of each scale x scale block
func sampleCells(img *image.RGBA, scale int) [][]renderedCell {
	b := img.Bounds()
	cols := (b.Dx() + scale - 1) / scale
	rows := (b.Dy() + 2*scale - 1) / (2 * scale)
	at := func(x, y int) color.RGBA {
		if !(image.Point{X: x, Y: y}).In(b) {
			return color.RGBA{A: 0xff}
		}
		return img.RGBAAt(x, y)
	}
	cells := make([][]renderedCell, rows)
	for row := range cells {
		cells[row] = make([]renderedCell, cols)
		for col := range cells[row] {
			x := b.Min.X + col*scale + scale/2
			y := b.Min.Y + row*2*scale + scale/2
			cells[row][col] = renderedCell{top: at(x, y), bottom: at(x, y+scale)}
		}
	}
	return cells
}

// Render produces the escape sequences for one frame. Only cells that
// changed since the previous frame are written.
func (r *Renderer) Render() string {
	t := r.term
	t.mu.Lock()
	opts := t.options
	scale := t.scale
	t.mu.Unlock()

	cells := sampleCells(t.stage.Image(), scale)
	rows := len(cells)
	cols := 0
	if rows > 0 {
		cols = len(cells[0])
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.output.Reset()
	r.output.WriteString("\033[?25l")

	prev := r.lastCells
	full := prev == nil || len(prev) != rows || (rows > 0 && len(prev[0]) != cols)
	if full {
		r.output.WriteString("\033[2J")
		r.lastPanel = nil
		if opts.BorderStyle != BorderNone {
			r.renderBorder(opts.OffsetX, opts.OffsetY, cols, rows, opts.Title)
		}
	}

	ox, oy := t.contentOrigin()
	var curFg, curBg color.RGBA
	first := true
	for y := 0; y < rows; y++ {
		lastX := -2
		for x := 0; x < cols; x++ {
			c := cells[y][x]
			if !full && prev[y][x] == c {
				continue
			}
			if x != lastX+1 {
				fmt.Fprintf(&r.output, "\033[%d;%dH", oy+y+1, ox+x+1)
			}
			if first || c.top != curFg {
				fmt.Fprintf(&r.output, "\033[38;2;%d;%d;%dm", c.top.R, c.top.G, c.top.B)
				curFg = c.top
			}
			if first || c.bottom != curBg {
				fmt.Fprintf(&r.output, "\033[48;2;%d;%d;%dm", c.bottom.R, c.bottom.G, c.bottom.B)
				curBg = c.bottom
			}
			first = false
			r.output.WriteRune(halfBlock)
			lastX = x
		}
	}
	r.output.WriteString("\033[0m")
	r.lastCells = cells

	if opts.ShowPanel {
		px := ox + cols + 3
		if opts.BorderStyle != BorderNone {
			px++
		}
		r.renderPanel(px, opts.OffsetY)
	}

	return r.output.String()
}

// renderPanel draws the console panel, clearing lines the previous panel
// used and this one does not
func (r *Renderer) renderPanel(x, y int) {
	lines := strings.Split(Panel(r.term.stage), "\n")
	for i, line := range lines {
		if i < len(r.lastPanel) && r.lastPanel[i] == line {
			continue
		}
		fmt.Fprintf(&r.output, "\033[%d;%dH\033[K%s\033[0m", y+i+1, x+1, line)
	}
	for i := len(lines); i < len(r.lastPanel); i++ {
		fmt.Fprintf(&r.output, "\033[%d;%dH\033[K", y+i+1, x+1)
	}
	r.lastPanel = lines
}

// renderBorder draws the stage border
func (r *Renderer) renderBorder(x, y, innerCols, innerRows int, title string) {
	bc := r.borderChars
	totalWidth := innerCols + 2

	// Top border
	fmt.Fprintf(&r.output, "\033[%d;%dH", y+1, x+1)
	r.output.WriteString("\033[0m") // Reset attributes

	r.output.WriteRune(bc.topLeft)

	// Title in top border
	if title != "" && len(title) < innerCols-4 {
		padding := (innerCols - len(title) - 2) / 2
		for i := 0; i < padding; i++ {
			r.output.WriteRune(bc.horizontal)
		}
		r.output.WriteRune(bc.titleRight)
		r.output.WriteString(" ")
		r.output.WriteString(title)
		r.output.WriteString(" ")
		r.output.WriteRune(bc.titleLeft)
		remaining := innerCols - padding - len(title) - 4
		for i := 0; i < remaining; i++ {
			r.output.WriteRune(bc.horizontal)
		}
	} else {
		for i := 0; i < innerCols; i++ {
			r.output.WriteRune(bc.horizontal)
		}
	}
	r.output.WriteRune(bc.topRight)

	// Side borders
	for row := 0; row < innerRows; row++ {
		fmt.Fprintf(&r.output, "\033[%d;%dH", y+row+2, x+1)
		r.output.WriteRune(bc.vertical)
		fmt.Fprintf(&r.output, "\033[%d;%dH", y+row+2, x+totalWidth)
		r.output.WriteRune(bc.vertical)
	}

	// Bottom border
	fmt.Fprintf(&r.output, "\033[%d;%dH", y+innerRows+2, x+1)
	r.output.WriteRune(bc.bottomLeft)
	for i := 0; i < innerCols; i++ {
		r.output.WriteRune(bc.horizontal)
	}
	r.output.WriteRune(bc.bottomRight)
}

// NeedsRender returns true if a render has been requested
func (r *Renderer) NeedsRender() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderNeeded
}
