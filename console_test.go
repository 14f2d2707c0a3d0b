package pixelbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/pixelbox/internal/logger"
)

func newTestConsole(t *testing.T, opts ConsoleOptions) *Console {
	t.Helper()
	if opts.Target == "" {
		opts.Target = "test"
	}
	opts.Logger = logger.Test(t)
	return NewConsole(opts)
}

func TestConsole_Initial(t *testing.T) {
	s := newGradient(t)
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{s}, Slider: true, ShowRightConsole: true})

	assert.Equal(t, "Pixel at: 0, 0", c.PixelAt())
	assert.Equal(t, "Stored DN:", c.StoredLabel())
	assert.Equal(t, "255", c.StoredDN())
	assert.True(t, s.IsActive(), "first surface starts active")
	assert.Same(t, s, c.Active())
	assert.Equal(t, "test-slider", c.ControlID(PurposeDNSlider))

	sliders := c.Sliders()
	require.Len(t, sliders, 1)
	assert.Equal(t, "test-slider", sliders[0].ID)
	assert.Equal(t, "test-sliderVal", sliders[0].ValueID)
	assert.Equal(t, "DN: 255", sliders[0].Text)
}

func TestConsole_RGBLabelWithoutSurfaces(t *testing.T) {
	c := newTestConsole(t, ConsoleOptions{})
	assert.Equal(t, "RGB:", c.StoredLabel())
	assert.Equal(t, "255, 255, 255", c.StoredDN())
	assert.Nil(t, c.Active())
}

func TestConsole_SliderNeedsRightConsole(t *testing.T) {
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{newGradient(t)}, Slider: true})
	assert.Empty(t, c.Sliders())
	assert.Equal(t, 255, c.DN())

	// Ignored without a slider
	c.SetDN(3)
	assert.Equal(t, 255, c.DN())
}

func TestConsole_PointerMove(t *testing.T) {
	s := newGradient(t)
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{s}})

	changes := 0
	c.SetChangeCallback(func() { changes++ })

	c.PointerMove(s, Point{40, 40})
	assert.Equal(t, "Pixel at: 2, 2", c.PixelAt())
	assert.Equal(t, "221", c.StoredDN())
	assert.Equal(t, 1, changes)

	// A miss updates the position but keeps the last value
	c.PointerMove(s, Point{500, 500})
	assert.Equal(t, "Pixel at: 15, 15", c.PixelAt())
	assert.Equal(t, "221", c.StoredDN())
}

func TestConsole_Subpixels(t *testing.T) {
	s := newGradient(t)
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{s}, Subpixels: true})
	c.PointerMove(s, Point{17.5, 52.5})
	assert.Equal(t, "Pixel at: 1.00, 2.00", c.PixelAt())
}

func TestConsole_CategoryReadout(t *testing.T) {
	s := NewSurface(Options{Type: ModeSpecial, PixelSize: 35, Width: 280, Height: 280})
	s.SetColorized(true)
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{s}})

	c.PointerMove(s, Point{5, 5})
	assert.Equal(t, "HIS", c.StoredDN())
}

func TestConsole_SelectAndRecolor(t *testing.T) {
	a := newGradient(t)
	b := NewSurface(Options{Target: "test", PixelSize: 35, Width: 280, Height: 280, Top: 40, Left: 40})
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{a, b}, Slider: true, ShowRightConsole: true})

	c.PointerDown(b, Point{40, 5})
	assert.True(t, b.IsActive())
	assert.False(t, a.IsActive())
	assert.Same(t, b, c.Active())
	assert.Greater(t, b.ZIndex(), a.ZIndex())
	assert.Equal(t, 238, c.DN(), "slider follows the selected cell")

	c.SetDN(12)
	cell, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, "12", cell.Readout())
	assert.Equal(t, "DN: 12", c.Sliders()[0].Text)

	// Selecting on a then recoloring leaves b regenerated
	c.PointerDown(a, Point{5, 5})
	assert.False(t, b.HasSelection())
	c.SetSlider(PurposeDNSlider, 99)
	cell, _ = a.Selection()
	assert.Equal(t, "99", cell.Readout())
}

func TestConsole_SetDNWithoutSelection(t *testing.T) {
	s := newGradient(t)
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{s}, Slider: true, ShowRightConsole: true})
	before := s.Cells()

	c.SetDN(10)
	assert.Equal(t, 10, c.DN())
	assert.Equal(t, before, s.Cells())
}

func TestConsole_TrueDN(t *testing.T) {
	img := NewImageLayer(GreyImage(4, 4, func(x, y int) int { return 10 * (x + y) }), ImageLayerOptions{})
	c := newTestConsole(t, ConsoleOptions{Image: img, DNMultiplier: true, ShowRightConsole: true})

	require.True(t, c.HasTrueDN())
	require.Len(t, c.Sliders(), 2)
	assert.Equal(t, "Stored DN:", c.StoredLabel())

	c.ImagePointerMove(Point{3, 2})
	assert.Equal(t, "Pixel at: 3, 2", c.PixelAt())
	assert.Equal(t, "50", c.StoredDN())
	assert.Equal(t, "50", c.TrueDNText())

	c.SetMultiplier(2.5)
	c.SetBase(-10)
	assert.Equal(t, "115", c.TrueDNText())

	c.Reset()
	assert.Equal(t, "50", c.TrueDNText())

	// Outside the image nothing changes
	c.ImagePointerMove(Point{9, 9})
	assert.Equal(t, "Pixel at: 3, 2", c.PixelAt())
}

func TestConsole_Reset(t *testing.T) {
	s := newGradient(t)
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{s}, Slider: true, ShowRightConsole: true})

	c.PointerDown(s, Point{5, 5})
	c.SetDN(0)
	c.Reset()

	assert.Equal(t, 255, c.DN())
	assert.False(t, s.HasSelection())
	dn, _ := s.Cells()[0].DN()
	assert.Equal(t, 255, dn)
}

func TestConsole_Colorize(t *testing.T) {
	special := NewSurface(Options{Type: ModeSpecial, PixelSize: 35, Width: 280, Height: 280})
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{special}, ShowRightConsole: true})

	require.True(t, c.HasColorizeToggle())
	assert.Equal(t, LegendOrder, c.Legend())
	assert.Equal(t, "Colorize", c.ColorizeLabel())

	c.ToggleColorize()
	assert.True(t, special.IsColorized())
	assert.Equal(t, "Decolorize", c.ColorizeLabel())

	c.Reset()
	assert.False(t, special.IsColorized())

	plain := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{newGradient(t)}})
	assert.False(t, plain.HasColorizeToggle())
	assert.Empty(t, plain.Legend())
}

func TestConsole_SetSurfaces(t *testing.T) {
	a, b := newGradient(t), newGradient(t)
	c := newTestConsole(t, ConsoleOptions{Surfaces: []*Surface{a}})

	c.SetSurfaces([]*Surface{b})
	assert.Same(t, b, c.Active())
	assert.True(t, b.IsActive())
	assert.Equal(t, []*Surface{b}, c.Surfaces())
}

func TestConsole_ReadOnly(t *testing.T) {
	src := GreyImage(8, 8, func(x, y int) int { return 100 })
	ch := NewDestripeChallenge(DestripeOptions{Target: "test", Source: src})
	c := newTestConsole(t, ConsoleOptions{Challenge: ch})

	assert.True(t, c.ReadOnly())
	assert.Equal(t, DegradedMessage, c.Message())

	interactive := NewDestripeChallenge(DestripeOptions{Target: "test", Source: src, OverlaySupport: true})
	c = newTestConsole(t, ConsoleOptions{Challenge: interactive})
	assert.False(t, c.ReadOnly())
	assert.Empty(t, c.Message())
}
