package pixelbox

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/pixelbox/internal/logger"
)

func uniform(w, h, dn int) *image.RGBA {
	return GreyImage(w, h, func(x, y int) int { return dn })
}

func newChallenge(t *testing.T, overlay bool) *DestripeChallenge {
	t.Helper()
	return NewDestripeChallenge(DestripeOptions{
		Target:         "test",
		Source:         StripedScene(32, 16),
		OverlaySupport: overlay,
		Logger:         logger.Test(t),
	})
}

func visibleLayers(d *DestripeChallenge) []LayerName {
	var out []LayerName
	for _, l := range d.Layers() {
		if l.Visible {
			out = append(out, l.Name)
		}
	}
	return out
}

func TestBoxcar(t *testing.T) {
	flat := Boxcar(uniform(10, 10, 100), 3, 5)
	for _, p := range []image.Point{{0, 0}, {5, 5}, {9, 9}} {
		assert.InDelta(t, 100, int(flat.RGBAAt(p.X, p.Y).R), 1, "at %v", p)
	}

	// A one pixel boxcar leaves the image unchanged
	src := StripedScene(16, 8)
	assert.Equal(t, src.Pix, Boxcar(src, 1, 1).Pix)

	// Column stripes flatten under a wide horizontal boxcar
	striped := GreyImage(16, 4, func(x, y int) int {
		if x%2 == 0 {
			return 0
		}
		return 200
	})
	smooth := Boxcar(striped, 1, 8)
	assert.InDelta(t, 100, int(smooth.RGBAAt(8, 2).R), 15)
}

func TestHighPassAndAdd(t *testing.T) {
	flat := uniform(8, 8, 90)
	high := HighPass(flat, 1, 3)
	assert.InDelta(t, 128, int(high.RGBAAt(4, 4).R), 1)

	sum := AddImages(Boxcar(flat, 1, 3), high)
	assert.InDelta(t, 90, int(sum.RGBAAt(4, 4).R), 2)
	assert.Equal(t, uint8(0xff), sum.RGBAAt(0, 0).A)
}

func TestDestripe_Overlay(t *testing.T) {
	d := newChallenge(t, true)

	assert.False(t, d.ReadOnly())
	assert.Empty(t, d.Output())
	assert.Equal(t, []LayerName{LayerBase, LayerLowPass}, visibleLayers(d))
	w, h := d.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)

	d.SetLowPassSize(" 3 ", "9")
	loRows, loCols, _, _ := d.Inputs()
	assert.Equal(t, "3", loRows)
	assert.Equal(t, "9", loCols)

	d.RunLowPass()
	assert.Equal(t, []LayerName{LayerLowPass}, visibleLayers(d))
	assert.Contains(t, d.Output(), "lowpass FROM=input.cub TO=lpf.cub FILT=LPF")
	assert.Contains(t, d.Output(), "LINE=3 SAMP=9 BAND=1")

	d.SetHighPassSize("1", "5")
	d.RunHighPass()
	assert.Equal(t, []LayerName{LayerBase, LayerHighPass}, visibleLayers(d))
	assert.Contains(t, d.Output(), "highpass FROM=input.cub TO=hpf.cub FILT=HPF")

	d.AddImages()
	assert.Equal(t, []LayerName{LayerBase, LayerLowPass, LayerHighPass}, visibleLayers(d))
	assert.Contains(t, d.Output(), "algebra OPERATOR=ADD FROM=lpf.cub")

	img := d.Render()
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())
}

func TestDestripe_ShowOriginalRestores(t *testing.T) {
	d := newChallenge(t, true)
	d.RunHighPass()
	before := visibleLayers(d)

	d.ShowOriginal(true)
	assert.True(t, d.ShowingOriginal())
	assert.Equal(t, []LayerName{LayerBase}, visibleLayers(d))

	// Repeating does not overwrite the saved visibility
	d.ShowOriginal(true)

	d.ShowOriginal(false)
	assert.False(t, d.ShowingOriginal())
	assert.Equal(t, before, visibleLayers(d))
}

func TestDestripe_Reset(t *testing.T) {
	d := newChallenge(t, true)
	d.SetLowPassSize("3", "3")
	d.SetHighPassSize("1", "3")
	d.RunLowPass()
	d.ShowOriginal(true)

	d.Reset()
	loRows, loCols, hiRows, hiCols := d.Inputs()
	assert.Empty(t, loRows+loCols+hiRows+hiCols)
	assert.Empty(t, d.Output())
	assert.False(t, d.ShowingOriginal())
	assert.Equal(t, []LayerName{LayerBase, LayerLowPass}, visibleLayers(d))
}

func TestDestripe_ReadOnly(t *testing.T) {
	d := newChallenge(t, false)

	require.True(t, d.ReadOnly())
	assert.Equal(t, DegradedMessage, d.Output())
	assert.Equal(t, []LayerName{LayerBase}, visibleLayers(d))
	require.Len(t, d.Layers(), 4)

	d.SetLowPassSize("3", "3")
	loRows, _, _, _ := d.Inputs()
	assert.Empty(t, loRows, "inputs are fixed")

	// Adding before both filters ran shows nothing new
	d.AddImages()
	assert.False(t, d.Visible(LayerFinal))

	d.RunLowPass()
	loRows, loCols, _, _ := d.Inputs()
	assert.Equal(t, "53", loRows)
	assert.Equal(t, "251", loCols)
	assert.Equal(t, []LayerName{LayerBase, LayerLowPass}, visibleLayers(d))

	d.RunHighPass()
	_, _, hiRows, hiCols := d.Inputs()
	assert.Equal(t, "1", hiRows)
	assert.Equal(t, "91", hiCols)
	assert.Equal(t, []LayerName{LayerBase, LayerHighPass}, visibleLayers(d))
	assert.Contains(t, d.Output(), "LINE=1 SAMP=91")

	d.AddImages()
	assert.Equal(t, []LayerName{LayerBase, LayerFinal}, visibleLayers(d))

	d.Reset()
	assert.Equal(t, DegradedMessage, d.Output())
	assert.Equal(t, []LayerName{LayerBase}, visibleLayers(d))
}

func TestDestripe_ChangeCallback(t *testing.T) {
	d := newChallenge(t, true)
	calls := 0
	d.SetChangeCallback(func() { calls++ })

	d.RunLowPass()
	d.ShowOriginal(true)
	d.Reset()
	assert.Equal(t, 3, calls)
}
