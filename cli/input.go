package cli

import (
	"os"
	"strconv"
	"time"

	"github.com/phroun/pixelbox"
)

// InputHandler manages keyboard and mouse input from the host terminal
type InputHandler struct {
	term         *Terminal
	escapeBuffer []byte
	lastEscape   time.Time
}

// Special key constants for internal handling
const (
	keyNone = iota
	keyUp
	keyDown
	keyLeft
	keyRight
	keyMouse
)

// Mouse event decoded from an SGR report
type mouseEvent struct {
	col, row int // Zero-based host cell
	button   int // Button code with modifier and motion bits
	pressed  bool
}

// SGR mouse button bits
const (
	mouseMotion  = 32
	mouseButtons = 3
)

// Slider steps per key press
const (
	dnStep         = 1
	dnCoarseStep   = 10
	baseStep       = 10
	multiplierStep = 0.1
)

// NewInputHandler creates a new input handler
func NewInputHandler(term *Terminal) *InputHandler {
	return &InputHandler{
		term:         term,
		escapeBuffer: make([]byte, 0, 32),
	}
}

// InputLoop reads and processes input from stdin
func (h *InputHandler) InputLoop() {
	buf := make([]byte, 256)

	for {
		select {
		case <-h.term.stopRender:
			return
		default:
		}

		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}

		h.processInput(buf[:n])
	}
}

// processInput handles raw input bytes
func (h *InputHandler) processInput(data []byte) {
	for i := 0; i < len(data); {
		b := data[i]

		if b != 0x1b { // ESC
			h.handleRegularInput(b)
			i++
			continue
		}

		// Collect escape sequence
		h.escapeBuffer = append(h.escapeBuffer[:0], b)
		h.lastEscape = time.Now()
		i++

		for i < len(data) && len(h.escapeBuffer) < 32 {
			h.escapeBuffer = append(h.escapeBuffer, data[i])
			i++

			key, ev, consumed := h.parseEscapeSequence(h.escapeBuffer)
			if consumed > 0 {
				switch key {
				case keyMouse:
					h.handleMouse(ev)
				case keyNone:
				default:
					h.handleSpecialKey(key)
				}
				h.escapeBuffer = h.escapeBuffer[:0]
				break
			}
		}

		// A lone or unfinished escape is dropped
		h.escapeBuffer = h.escapeBuffer[:0]
	}
}

// parseEscapeSequence attempts to parse an escape sequence. consumed is zero
// while the sequence is incomplete.
func (h *InputHandler) parseEscapeSequence(seq []byte) (key int, ev mouseEvent, consumed int) {
	if len(seq) < 3 {
		return keyNone, ev, 0
	}
	if seq[1] != '[' && seq[1] != 'O' {
		return keyNone, ev, len(seq)
	}

	// SGR mouse: ESC [ < b ; x ; y M|m
	if seq[1] == '[' && seq[2] == '<' {
		last := seq[len(seq)-1]
		if last != 'M' && last != 'm' {
			return keyNone, ev, 0
		}
		m, ok := parseSGRMouse(seq[3 : len(seq)-1])
		if !ok {
			return keyNone, ev, len(seq)
		}
		m.pressed = last == 'M'
		return keyMouse, m, len(seq)
	}

	lastByte := seq[len(seq)-1]
	switch {
	case lastByte >= 'A' && lastByte <= 'Z', lastByte >= 'a' && lastByte <= 'z', lastByte == '~':
	default:
		return keyNone, ev, 0
	}
	switch lastByte {
	case 'A':
		key = keyUp
	case 'B':
		key = keyDown
	case 'C':
		key = keyRight
	case 'D':
		key = keyLeft
	}
	return key, ev, len(seq)
}

// parseSGRMouse parses "b;x;y" with one-based coordinates
func parseSGRMouse(params []byte) (mouseEvent, bool) {
	var nums [3]int
	n := 0
	start := 0
	for i := 0; i <= len(params); i++ {
		if i < len(params) && params[i] != ';' {
			continue
		}
		if n == 3 {
			return mouseEvent{}, false
		}
		v, err := strconv.Atoi(string(params[start:i]))
		if err != nil {
			return mouseEvent{}, false
		}
		nums[n] = v
		n++
		start = i + 1
	}
	if n != 3 {
		return mouseEvent{}, false
	}
	return mouseEvent{button: nums[0], col: nums[1] - 1, row: nums[2] - 1}, true
}

// handleMouse routes a mouse report to the stage. Motion becomes a pointer
// move; a primary button press becomes a pointer down.
func (h *InputHandler) handleMouse(ev mouseEvent) {
	p, ok := h.term.cellToStage(ev.col, ev.row, false)
	if !ok {
		return
	}
	h.term.mu.Lock()
	h.term.pointer = p
	h.term.mu.Unlock()

	st := h.term.stage
	switch {
	case ev.button&mouseMotion != 0:
		st.PointerMove(p)
	case ev.pressed && ev.button&mouseButtons == 0:
		st.PointerMove(p)
		st.PointerDown(p)
	}
	h.term.renderer.RequestRender()
}

// handleSpecialKey moves the keyboard pointer
func (h *InputHandler) handleSpecialKey(key int) {
	switch key {
	case keyUp:
		h.term.movePointer(0, -1)
	case keyDown:
		h.term.movePointer(0, 1)
	case keyLeft:
		h.term.movePointer(-1, 0)
	case keyRight:
		h.term.movePointer(1, 0)
	}
}

// handleRegularInput maps single keys to console actions
func (h *InputHandler) handleRegularInput(b byte) {
	t := h.term
	st := t.stage
	d := st.Demo()
	c := st.Console()

	switch b {
	case 'q', 0x03: // Ctrl+C
		t.Quit()
		return
	case 'r':
		d.Reset()
	}

	if ch := d.Challenge; ch != nil {
		if c.ReadOnly() {
			t.renderer.RequestRender()
			return
		}
		switch b {
		case '1':
			ch.SetLowPassSize(strconv.Itoa(pixelbox.PresetLowPassRows), strconv.Itoa(pixelbox.PresetLowPassCols))
			ch.RunLowPass()
		case '2':
			ch.SetHighPassSize(strconv.Itoa(pixelbox.PresetHighPassRows), strconv.Itoa(pixelbox.PresetHighPassCols))
			ch.RunHighPass()
		case '3':
			ch.AddImages()
		case 'o':
			ch.ShowOriginal(!ch.ShowingOriginal())
		}
		t.renderer.RequestRender()
		return
	}

	switch b {
	case ' ', '\r':
		p := t.Pointer()
		st.PointerDown(p)
	case 'c':
		if c.HasColorizeToggle() {
			c.ToggleColorize()
		}
	case '[':
		c.SetDN(float64(c.DN() - dnStep))
	case ']':
		c.SetDN(float64(c.DN() + dnStep))
	case '{':
		c.SetDN(float64(c.DN() - dnCoarseStep))
	case '}':
		c.SetDN(float64(c.DN() + dnCoarseStep))
	case '-', '=':
		if v, ok := sliderValue(c, pixelbox.PurposeDNBase); ok {
			if b == '-' {
				c.SetBase(v - baseStep)
			} else {
				c.SetBase(v + baseStep)
			}
		}
	case ',', '.':
		if v, ok := sliderValue(c, pixelbox.PurposeDNMultiplier); ok {
			if b == ',' {
				c.SetMultiplier(v - multiplierStep)
			} else {
				c.SetMultiplier(v + multiplierStep)
			}
		}
	}

	if cube := d.Cube; cube != nil {
		switch b {
		case 'L':
			cube.AddLine()
		case 'l':
			cube.RemoveLine()
		case 'S':
			cube.AddSample()
		case 's':
			cube.RemoveSample()
		case 'B':
			cube.AddBand()
		case 'b':
			cube.RemoveBand()
		}
	}
	t.renderer.RequestRender()
}

func sliderValue(c *pixelbox.Console, purpose string) (float64, bool) {
	for _, sl := range c.Sliders() {
		if sl.Purpose == purpose {
			return sl.Value, true
		}
	}
	return 0, false
}
