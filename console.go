package pixelbox

import (
	"strconv"
	"sync"

	"github.com/phroun/pixelbox/internal/logger"
)

// Control purposes, combined with the target as ${target}-${purpose}
const (
	PurposeDNSlider        = "slider"
	PurposeDNSliderVal     = "sliderVal"
	PurposeDNBase          = "dnBase"
	PurposeDNBaseVal       = "dnBaseVal"
	PurposeDNMultiplier    = "dnMultiplier"
	PurposeDNMultiplierVal = "dnMultiplierVal"
	PurposeReset           = "reset"
	PurposeColorize        = "colorize"
	PurposeShowOriginal    = "showOriginalCheck"
	PurposeResults         = "results"
	PurposeHiBoxcarRows    = "hiBoxcarRows"
	PurposeHiBoxcarCols    = "hiBoxcarCols"
	PurposeLoBoxcarRows    = "loBoxcarRows"
	PurposeLoBoxcarCols    = "loBoxcarCols"
	PurposeRunLowPass      = "runLowPass"
	PurposeRunHiPass       = "runHiPass"
	PurposeCommandOutput   = "isisOut"
	PurposeAddLine         = "add-line"
	PurposeRemoveLine      = "remove-line"
	PurposeAddSample       = "add-sample"
	PurposeRemoveSample    = "remove-sample"
	PurposeAddBand         = "add-band"
	PurposeRemoveBand      = "remove-band"
)

// ControlID joins a target and a purpose into a control identifier
func ControlID(target, purpose string) string {
	return target + "-" + purpose
}

// ConsoleOptions configures console creation
type ConsoleOptions struct {
	Target           string             // Container identifier
	Surfaces         []*Surface         // Registered surfaces; the first starts active
	Image            *ImageLayer        // Static image shown instead of surfaces
	Challenge        *DestripeChallenge // Layered filter challenge
	Slider           bool               // Show the DN slider
	DNMultiplier     bool               // Show base and multiplier sliders with a true DN readout
	Subpixels        bool               // Report pointer positions with sub-cell precision
	ShowRightConsole bool               // Show the control panel; sliders need it
	Logger           logger.Logger      // Defaults to logger.Nop()
}

// Console coordinates surfaces, sliders and the shared readout. At most one
// registered surface is active at a time.
type Console struct {
	mu sync.Mutex

	opts ConsoleOptions
	lggr logger.Logger

	surfaces []*Surface
	active   *Surface

	// Readout, last write wins across surfaces
	pixelAt  string
	storedDN string
	trueDN   string

	dnSlider         *Slider
	baseSlider       *Slider
	multiplierSlider *Slider

	onChange func()
}

// NewConsole creates a console and activates its first surface
func NewConsole(opts ConsoleOptions) *Console {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	c := &Console{
		opts:     opts,
		lggr:     opts.Logger.Named("console").Named(opts.Target),
		surfaces: append([]*Surface(nil), opts.Surfaces...),
		pixelAt:  "Pixel at: 0, 0",
	}

	if len(c.surfaces) > 0 || opts.Image != nil {
		c.storedDN = "255"
	} else {
		c.storedDN = "255, 255, 255"
	}

	if opts.Slider && opts.ShowRightConsole {
		c.dnSlider = NewSlider(c.ControlID(PurposeDNSlider), c.ControlID(PurposeDNSliderVal), "DN", 0, 255, 1, 255)
	}
	if opts.DNMultiplier && opts.ShowRightConsole {
		c.baseSlider = NewSlider(c.ControlID(PurposeDNBase), c.ControlID(PurposeDNBaseVal), "Base", -500, 500, 1, 0)
		c.multiplierSlider = NewSlider(c.ControlID(PurposeDNMultiplier), c.ControlID(PurposeDNMultiplierVal), "Multiplier", 1, 255, 0.1, 1)
		c.trueDN = "255"
	}

	if len(c.surfaces) > 0 {
		c.surfaces[0].Activate()
		c.active = c.surfaces[0]
	}

	c.lggr.Debugw("console created",
		"surfaces", len(c.surfaces),
		"image", opts.Image != nil,
		"challenge", opts.Challenge != nil,
	)
	return c
}

// SetChangeCallback sets a callback invoked after the readout, sliders or
// registered surfaces change
func (c *Console) SetChangeCallback(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Console) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Target returns the container identifier
func (c *Console) Target() string {
	return c.opts.Target
}

// ControlID returns the identifier for one of this console's controls
func (c *Console) ControlID(purpose string) string {
	return ControlID(c.opts.Target, purpose)
}

// Subpixels reports whether pointer positions use sub-cell precision
func (c *Console) Subpixels() bool {
	return c.opts.Subpixels
}

// ShowRightConsole reports whether the control panel is shown
func (c *Console) ShowRightConsole() bool {
	return c.opts.ShowRightConsole
}

// Image returns the static image layer, if any
func (c *Console) Image() *ImageLayer {
	return c.opts.Image
}

// Challenge returns the filter challenge, if any
func (c *Console) Challenge() *DestripeChallenge {
	return c.opts.Challenge
}

// --- Surface Registry ---

// Surfaces returns the registered surfaces in order
func (c *Console) Surfaces() []*Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Surface(nil), c.surfaces...)
}

// SetSurfaces replaces the registered surfaces and activates the first
func (c *Console) SetSurfaces(surfaces []*Surface) {
	c.mu.Lock()
	c.surfaces = append([]*Surface(nil), surfaces...)
	c.active = nil
	if len(c.surfaces) > 0 {
		c.surfaces[0].Activate()
		c.active = c.surfaces[0]
	}
	c.mu.Unlock()

	c.lggr.Debugw("surfaces registered", "count", len(surfaces))
	c.notify()
}

// Active returns the active surface, or nil
func (c *Console) Active() *Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ActivateSurface deactivates every other registered surface, then
// activates s
func (c *Console) ActivateSurface(s *Surface) {
	c.mu.Lock()
	for _, other := range c.surfaces {
		if other != s {
			other.Deactivate()
		}
	}
	s.Activate()
	c.active = s
	c.mu.Unlock()

	c.lggr.Debugw("surface activated", "id", s.Options().ID)
	c.notify()
}

// --- Pointer Events ---

// PointerMove updates the shared readout from a pointer move over s
func (c *Console) PointerMove(s *Surface, p Point) {
	r := s.HandlePointerMove(p, c.opts.Subpixels)

	c.mu.Lock()
	c.pixelAt = "Pixel at: " + r.Coord.String()
	if r.Hit {
		// long values such as RGB triples do not fit the field
		if len(r.Value) <= 3 {
			c.storedDN = r.Value
		} else {
			c.storedDN = ""
		}
		c.updateTrueDN()
	}
	c.mu.Unlock()

	c.notify()
}

// PointerDown selects under p on s, activates s and syncs the DN slider to
// the selected cell
func (c *Console) PointerDown(s *Surface, p Point) {
	s.HandlePointerDown(p)
	c.ActivateSurface(s)

	c.mu.Lock()
	if c.dnSlider != nil {
		if cell, ok := s.Selection(); ok {
			if dn, ok := cell.DN(); ok {
				c.dnSlider.Set(float64(dn))
			}
		}
	}
	c.mu.Unlock()

	c.notify()
}

// ImagePointerMove updates the readout from a pointer move over the static
// image. Moves before the image has loaded are ignored.
func (c *Console) ImagePointerMove(p Point) {
	img := c.opts.Image
	if img == nil {
		return
	}
	x, y := int(p.X), int(p.Y)
	dn, ok := img.DNAt(x, y)
	if !ok {
		return
	}

	c.mu.Lock()
	c.pixelAt = "Pixel at: " + itoa(x) + ", " + itoa(y)
	c.storedDN = dnString(dn)
	c.updateTrueDN()
	c.mu.Unlock()

	c.notify()
}

// updateTrueDN must be called with the lock held
func (c *Console) updateTrueDN() {
	if c.multiplierSlider == nil || c.baseSlider == nil {
		return
	}
	stored, err := strconv.Atoi(c.storedDN)
	if err != nil {
		return
	}
	c.trueDN = itoa(TrueDN(stored, c.multiplierSlider.Value(), c.baseSlider.Value()))
}

// TrueDN converts a stored DN to its physical value: the product with the
// multiplier is truncated before the base is added.
func TrueDN(stored int, multiplier, base float64) int {
	return int(float64(stored)*multiplier) + int(base)
}

// --- Readout ---

// PixelAt returns the pointer position readout, e.g. "Pixel at: 3, 4"
func (c *Console) PixelAt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixelAt
}

// StoredLabel returns the label shown before the stored value
func (c *Console) StoredLabel() string {
	if len(c.Surfaces()) > 0 || c.opts.Image != nil {
		return "Stored DN:"
	}
	return "RGB:"
}

// StoredDN returns the value readout
func (c *Console) StoredDN() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storedDN
}

// HasTrueDN reports whether the true DN readout is shown
func (c *Console) HasTrueDN() bool {
	return c.multiplierSlider != nil
}

// TrueDNText returns the true DN readout
func (c *Console) TrueDNText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trueDN
}

// --- Sliders ---

// SliderState is a read-only view of a slider for frontends
type SliderState struct {
	Purpose  string
	ID       string
	ValueID  string
	Text     string
	Value    float64
	Min, Max float64
	Step     float64
}

// Sliders returns the console's sliders in display order
func (c *Console) Sliders() []SliderState {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []SliderState
	add := func(purpose string, s *Slider) {
		if s == nil {
			return
		}
		out = append(out, SliderState{
			Purpose: purpose,
			ID:      s.ID,
			ValueID: s.ValueID,
			Text:    s.Text(),
			Value:   s.Value(),
			Min:     s.Min,
			Max:     s.Max,
			Step:    s.Step,
		})
	}
	add(PurposeDNSlider, c.dnSlider)
	add(PurposeDNBase, c.baseSlider)
	add(PurposeDNMultiplier, c.multiplierSlider)
	return out
}

// SetSlider moves the slider with the given purpose. Unknown or hidden
// sliders are ignored.
func (c *Console) SetSlider(purpose string, v float64) {
	switch purpose {
	case PurposeDNSlider:
		c.SetDN(v)
	case PurposeDNBase:
		c.SetBase(v)
	case PurposeDNMultiplier:
		c.SetMultiplier(v)
	}
}

// SetDN moves the DN slider and recolors the active surface's selection.
// With no slider, no active surface or no selection it changes nothing else.
func (c *Console) SetDN(v float64) {
	c.mu.Lock()
	if c.dnSlider == nil {
		c.mu.Unlock()
		return
	}
	dn := int(c.dnSlider.Set(v))
	active := c.active
	c.mu.Unlock()

	recolored := false
	if active != nil {
		recolored = active.RecolorSelection(dn)
	}
	c.lggr.Debugw("dn slider moved", "dn", dn, "recolored", recolored)
	c.notify()
}

// DN returns the DN slider value, or 255 when there is no slider
func (c *Console) DN() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dnSlider == nil {
		return 255
	}
	return c.dnSlider.Int()
}

// SetBase moves the base slider
func (c *Console) SetBase(v float64) {
	c.mu.Lock()
	if c.baseSlider != nil {
		c.baseSlider.Set(v)
		c.updateTrueDN()
	}
	c.mu.Unlock()
	c.notify()
}

// SetMultiplier moves the multiplier slider
func (c *Console) SetMultiplier(v float64) {
	c.mu.Lock()
	if c.multiplierSlider != nil {
		c.multiplierSlider.Set(v)
		c.updateTrueDN()
	}
	c.mu.Unlock()
	c.notify()
}

// --- Reset and Colorize ---

// ResetLabel returns the reset button text
func (c *Console) ResetLabel() string {
	return "RESET"
}

// Reset regenerates every surface from its construction configuration,
// resets the challenge and returns the sliders to their defaults
func (c *Console) Reset() {
	c.mu.Lock()
	surfaces := append([]*Surface(nil), c.surfaces...)
	for _, s := range []*Slider{c.dnSlider, c.baseSlider, c.multiplierSlider} {
		if s != nil {
			s.Reset()
		}
	}
	c.updateTrueDN()
	c.mu.Unlock()

	for _, s := range surfaces {
		s.Reset()
	}
	if c.opts.Challenge != nil {
		c.opts.Challenge.Reset()
	}

	c.lggr.Debugw("console reset", "surfaces", len(surfaces))
	c.notify()
}

// HasColorizeToggle reports whether the console leads with a special-pixel
// surface and therefore offers a Colorize button
func (c *Console) HasColorizeToggle() bool {
	ss := c.Surfaces()
	return len(ss) > 0 && ss[0].Type() == ModeSpecial
}

// ColorizeLabel returns the colorize button text for the current state
func (c *Console) ColorizeLabel() string {
	ss := c.Surfaces()
	if len(ss) > 0 && ss[0].IsColorized() {
		return "Decolorize"
	}
	return "Colorize"
}

// ToggleColorize flips colorization on every special-pixel surface
func (c *Console) ToggleColorize() {
	for _, s := range c.Surfaces() {
		if s.Type() == ModeSpecial {
			on := s.ToggleColorize()
			c.lggr.Debugw("colorize toggled", "colorized", on)
		}
	}
	c.notify()
}

// Legend returns the special-pixel legend entries, empty unless the console
// leads with a special-pixel surface
func (c *Console) Legend() []Category {
	if !c.HasColorizeToggle() {
		return nil
	}
	return append([]Category(nil), LegendOrder...)
}

// --- Degraded Mode ---

// ReadOnly reports whether input is disabled because overlay composition is
// unavailable
func (c *Console) ReadOnly() bool {
	return c.opts.Challenge != nil && !c.opts.Challenge.OverlaySupport()
}

// Message returns the explanation shown in read-only mode
func (c *Console) Message() string {
	if c.ReadOnly() {
		return DegradedMessage
	}
	return ""
}
