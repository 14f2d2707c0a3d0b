package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/phroun/pixelbox"
)

func TestPanelText_Grid(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)

	out := PanelText(st)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Pixels", lines[0])
	assert.Contains(t, lines, "Pixel at: 0, 0")
	assert.Contains(t, lines, "Stored DN: 255")
	assert.Contains(t, lines, "DN: 255")
	assert.Contains(t, lines, "[################]")
	assert.NotContains(t, out, "True DN:")
	assert.NotContains(t, out, "NUL")
}

func TestPanelText_Special(t *testing.T) {
	st := newTestStage(t, "isis-special-pixels", nil)

	out := PanelText(st)
	assert.Contains(t, out, "#bf0000 NUL")
	assert.Contains(t, out, "#ffff7f HIS")
	assert.Contains(t, out, "c colorize")

	st.Console().ToggleColorize()
	assert.Contains(t, PanelText(st), "c decolorize")
}

func TestPanelText_Multiplier(t *testing.T) {
	st := newTestStage(t, "isis-multiplier", nil)

	out := PanelText(st)
	assert.Contains(t, out, "True DN:")
	assert.Contains(t, out, "- = base")
	assert.Contains(t, out, ", . mult")
}

func TestPanelText_Cube(t *testing.T) {
	st := newTestStage(t, "isis-cube", nil)

	out := PanelText(st)
	assert.Contains(t, out, "4 lines x 4 samples x 1 band")
	assert.Contains(t, out, "b/B bands")
}

func TestPanelText_Challenge(t *testing.T) {
	st := newTestStage(t, "isis-destripe", nil)
	ch := st.Demo().Challenge

	out := PanelText(st)
	assert.Contains(t, out, "Low pass boxcar: _ x _")
	assert.Contains(t, out, "Showing: base, lpf")
	assert.Contains(t, out, "1 low")

	ch.SetLowPassSize("3", "5")
	ch.RunLowPass()
	out = PanelText(st)
	assert.Contains(t, out, "Low pass boxcar: 3 x 5")
	assert.Contains(t, out, " LINE=3 SAMP=5 BAND=1")

	ch.ShowOriginal(true)
	assert.Contains(t, PanelText(st), "(original)")
}

func TestPanelText_ChallengeReadOnly(t *testing.T) {
	off := false
	st := newTestStage(t, "isis-destripe", func(o *pixelbox.DemoOptions) { o.OverlaySupport = &off })

	out := PanelText(st)
	assert.Contains(t, out, "Please use a display that supports")
	// The message is shown once, wrapped, not repeated as output
	assert.Equal(t, 1, strings.Count(out, "Please use"))
	assert.NotContains(t, out, "1 low")
	for _, l := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(l)), panelWidth)
	}
}

func TestSliderBar(t *testing.T) {
	s := plainPanelStyles()
	tests := []struct {
		name string
		sl   pixelbox.SliderState
		want string
	}{
		{"full", pixelbox.SliderState{Min: 0, Max: 255, Value: 255}, "[################]"},
		{"empty", pixelbox.SliderState{Min: 0, Max: 255, Value: 0}, "[----------------]"},
		{"half", pixelbox.SliderState{Min: 0, Max: 2, Value: 1}, "[########--------]"},
		{"below", pixelbox.SliderState{Min: 0, Max: 10, Value: -5}, "[----------------]"},
		{"degenerate", pixelbox.SliderState{Min: 5, Max: 5, Value: 5}, "[----------------]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sliderBar(tt.sl, s))
		})
	}
}

func TestPack(t *testing.T) {
	style := lipgloss.NewStyle()
	got := pack(style, []string{"q quit", "r reset", "arrows move", "space select"}, 20)
	assert.Equal(t, []string{"q quit  r reset", "arrows move", "space select"}, got)

	assert.Empty(t, pack(style, nil, 20))
	assert.Equal(t, []string{"a-very-long-item"}, pack(style, []string{"a-very-long-item"}, 4), "items are never split")
}

func TestWrap(t *testing.T) {
	style := lipgloss.NewStyle()
	got := wrap(style, "the quick  brown fox jumps", 10)
	assert.Equal(t, []string{"the quick", "brown fox", "jumps"}, got)
	assert.Empty(t, wrap(style, "   ", 10))
}

func TestKeyHelp(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)
	assert.Equal(t,
		[]string{"q quit", "r reset", "arrows move", "space select", "[ ] dn"},
		keyHelp(st.Demo(), st.Console()))

	off := false
	ro := newTestStage(t, "isis-destripe", func(o *pixelbox.DemoOptions) { o.OverlaySupport = &off })
	assert.Equal(t, []string{"q quit", "r reset"}, keyHelp(ro.Demo(), ro.Console()))
}
