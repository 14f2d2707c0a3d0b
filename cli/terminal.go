package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/phroun/pixelbox"
	"github.com/phroun/pixelbox/internal/logger"
)

// BorderStyle defines the visual style for the stage border
type BorderStyle int

const (
	BorderNone    BorderStyle = iota // No border
	BorderSingle                     // Single-line box drawing characters
	BorderDouble                     // Double-line box drawing characters
	BorderHeavy                      // Heavy/thick box drawing characters
	BorderRounded                    // Rounded corners (single line)
)

var borderNames = map[string]BorderStyle{
	"none":    BorderNone,
	"single":  BorderSingle,
	"double":  BorderDouble,
	"heavy":   BorderHeavy,
	"rounded": BorderRounded,
}

// ParseBorderStyle returns the border style with the given name
func ParseBorderStyle(name string) (BorderStyle, error) {
	b, ok := borderNames[name]
	if !ok {
		return BorderNone, fmt.Errorf("unknown border style %q", name)
	}
	return b, nil
}

// Options configures terminal frontend creation
type Options struct {
	BorderStyle BorderStyle   // Border style around the stage
	Title       string        // Shown in the top border
	OffsetX     int           // X offset from top-left of the host terminal
	OffsetY     int           // Y offset from top-left of the host terminal
	Scale       int           // Device pixels per character column (default: fit the host)
	ShowPanel   bool          // Render the console panel beside the stage
	Logger      logger.Logger // Defaults to logger.Nop()
}

// Terminal shows a stage inside the host terminal. Stage pixels are drawn
// as truecolor half blocks, two per character cell.
type Terminal struct {
	mu sync.Mutex

	stage   *pixelbox.Stage
	options Options
	lggr    logger.Logger

	renderer *Renderer
	input    *InputHandler

	// Terminal state
	done       chan struct{}
	stopRender chan struct{}
	stopOnce   sync.Once

	// Original terminal state for restoration
	oldState *term.State

	// Actual terminal size
	hostCols int
	hostRows int

	// Device pixels per character column
	scale int

	// Keyboard pointer in stage coordinates
	pointer pixelbox.Point
}

// New creates a terminal frontend for st
func New(st *pixelbox.Stage, opts Options) (*Terminal, error) {
	if st == nil {
		return nil, fmt.Errorf("no stage")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Title == "" {
		opts.Title = st.Demo().Options.Title
	}

	hostCols, hostRows := getHostTerminalSize()
	t := &Terminal{
		stage:      st,
		options:    opts,
		lggr:       opts.Logger.Named("cli"),
		done:       make(chan struct{}),
		stopRender: make(chan struct{}),
		hostCols:   hostCols,
		hostRows:   hostRows,
	}
	t.scale = t.fitScale()

	t.renderer = NewRenderer(t)
	t.input = NewInputHandler(t)

	st.SetChangeCallback(t.renderer.RequestRender)
	return t, nil
}

// getHostTerminalSize returns the current size of the host terminal
func getHostTerminalSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80, 24
	}
	return cols, rows
}

// IsTerminal reports whether stdin and stdout are both terminals
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// panelWidth is the column budget for the console panel
const panelWidth = 36

// fitScale picks the smallest scale that fits the stage into the host
// terminal. Must be called with the lock held or before Start.
func (t *Terminal) fitScale() int {
	if t.options.Scale > 0 {
		return t.options.Scale
	}
	b := t.stage.Bounds()
	cols := t.hostCols - t.options.OffsetX*2 - 2
	rows := t.hostRows - t.options.OffsetY*2 - 2
	if t.options.ShowPanel {
		cols -= panelWidth + 2
	}
	if cols < 10 {
		cols = 10
	}
	if rows < 5 {
		rows = 5
	}
	scale := 1
	for b.Dx()/scale > cols || b.Dy()/(2*scale) > rows {
		scale++
	}
	return scale
}

// Scale returns the device pixels per character column
func (t *Terminal) Scale() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scale
}

// Start enters raw mode, enables mouse reporting, and starts rendering
func (t *Terminal) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Enter raw mode
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	t.oldState = oldState

	// Hide host cursor
	fmt.Print("\033[?25l")

	// Enable alternate screen buffer
	fmt.Print("\033[?1049h")

	// Report all mouse motion in SGR encoding
	fmt.Print("\033[?1003h\033[?1006h")

	// Clear screen
	fmt.Print("\033[2J\033[H")

	go t.handleSIGWINCH()
	go t.renderer.RenderLoop()
	go t.input.InputLoop()

	t.lggr.Debugw("terminal started", "cols", t.hostCols, "rows", t.hostRows, "scale", t.scale)
	return nil
}

// handleSIGWINCH listens for terminal resize signals
func (t *Terminal) handleSIGWINCH() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			t.handleResize()
		case <-t.done:
			return
		}
	}
}

// handleResize refits the stage when the host terminal is resized
func (t *Terminal) handleResize() {
	t.mu.Lock()
	newCols, newRows := getHostTerminalSize()
	if newCols == t.hostCols && newRows == t.hostRows {
		t.mu.Unlock()
		return
	}
	t.hostCols = newCols
	t.hostRows = newRows
	t.scale = t.fitScale()
	t.mu.Unlock()

	// Force full redraw
	t.renderer.ForceFullRedraw()
}

// Wait blocks until the user quits
func (t *Terminal) Wait() {
	<-t.done
}

// Quit ends the session; Wait returns afterwards
func (t *Terminal) Quit() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}

// Stage returns the stage being shown
func (t *Terminal) Stage() *pixelbox.Stage {
	return t.stage
}

// --- Coordinate Mapping ---

// contentOrigin returns the zero-based host cell of the stage's top-left
func (t *Terminal) contentOrigin() (x, y int) {
	x, y = t.options.OffsetX, t.options.OffsetY
	if t.options.BorderStyle != BorderNone {
		x++
		y++
	}
	return x, y
}

// cellToStage converts a zero-based host cell to the stage point at the
// center of its upper or lower half block
func (t *Terminal) cellToStage(col, row int, lower bool) (pixelbox.Point, bool) {
	t.mu.Lock()
	scale := t.scale
	t.mu.Unlock()

	ox, oy := t.contentOrigin()
	col -= ox
	row -= oy
	if col < 0 || row < 0 {
		return pixelbox.Point{}, false
	}
	half := 0
	if lower {
		half = 1
	}
	p := pixelbox.Point{
		X: float64(col*scale) + float64(scale)/2,
		Y: float64((row*2+half)*scale) + float64(scale)/2,
	}
	b := t.stage.Bounds()
	if p.X >= float64(b.Dx()) || p.Y >= float64(b.Dy()) {
		return pixelbox.Point{}, false
	}
	return p, true
}

// movePointer moves the keyboard pointer by whole half blocks and reports the
// move to the stage
func (t *Terminal) movePointer(dx, dy int) {
	t.mu.Lock()
	step := float64(t.scale)
	p := t.pointer
	p.X += float64(dx) * step
	p.Y += float64(dy) * step
	b := t.stage.Bounds()
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.X > float64(b.Dx()-1) {
		p.X = float64(b.Dx() - 1)
	}
	if p.Y > float64(b.Dy()-1) {
		p.Y = float64(b.Dy() - 1)
	}
	t.pointer = p
	t.mu.Unlock()

	t.stage.PointerMove(p)
	t.renderer.RequestRender()
}

// Pointer returns the keyboard pointer position
func (t *Terminal) Pointer() pixelbox.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pointer
}

// --- Output Without a Terminal ---

// Dump writes the console readout as plain text, for output that is not a
// terminal
func Dump(w io.Writer, st *pixelbox.Stage) error {
	_, err := io.WriteString(w, PanelText(st)+"\n")
	return err
}

// Stop stops rendering and restores the original terminal state
func (t *Terminal) Stop() error {
	t.Quit()
	select {
	case <-t.stopRender:
	default:
		close(t.stopRender)
	}

	t.mu.Lock()
	oldState := t.oldState
	t.oldState = nil
	t.mu.Unlock()

	// Restore terminal state
	if oldState != nil {
		// Disable mouse reporting
		fmt.Print("\033[?1006l\033[?1003l")

		// Disable alternate screen buffer
		fmt.Print("\033[?1049l")

		// Show cursor
		fmt.Print("\033[?25h")

		// Reset attributes
		fmt.Print("\033[0m")

		// Restore terminal mode
		if err := term.Restore(int(os.Stdin.Fd()), oldState); err != nil {
			return fmt.Errorf("failed to restore terminal: %w", err)
		}
	}

	t.lggr.Debugw("terminal stopped")
	return nil
}

// Close is an alias for Stop
func (t *Terminal) Close() error {
	return t.Stop()
}
