package pixelboxebiten

import (
	"strings"

	"github.com/phroun/pixelbox"
)

// panelRow is one line of the console panel, optionally led by a legend
// swatch
type panelRow struct {
	text   string
	swatch *pixelbox.Category
}

// wrapWidth is the panel width in basicfont cells
const wrapWidth = (panelWidth - panelMargin) / 7

func (g *Game) panelRows() []panelRow {
	c := g.demo.Console
	var rows []panelRow
	add := func(lines ...string) {
		for _, l := range lines {
			rows = append(rows, panelRow{text: l})
		}
	}

	if c.ReadOnly() {
		add(wrap(c.Message(), wrapWidth)...)
		add("")
	}

	if ch := g.demo.Challenge; ch != nil {
		loRows, loCols, hiRows, hiCols := ch.Inputs()
		add("Low pass:  "+loRows+" x "+loCols,
			"High pass: "+hiRows+" x "+hiCols, "")
		if out := ch.Output(); out != "" && out != pixelbox.DegradedMessage {
			add(wrap(out, wrapWidth)...)
			add("")
		}
		add("1 low pass  2 high pass  3 add images",
			"o original  r reset  q quit")
		return rows
	}

	add(c.PixelAt(), c.StoredLabel()+" "+c.StoredDN())
	if c.HasTrueDN() {
		add("True DN: " + c.TrueDNText())
	}
	if img := g.demo.Image; img != nil && !img.Ready() {
		if err := img.Err(); err != nil {
			add("Image failed to load")
		} else {
			add("Loading image...")
		}
	}

	if c.ShowRightConsole() {
		add("")
		for _, st := range c.Sliders() {
			add(st.Text)
		}
		if cube := g.demo.Cube; cube != nil {
			add("", cube.Label())
		}
	}

	if legend := c.Legend(); len(legend) > 0 {
		add("")
		for i := range legend {
			rows = append(rows, panelRow{text: legend[i].String(), swatch: &legend[i]})
		}
	}

	add("", "click select  r reset  q quit")
	if !c.ReadOnly() {
		if c.HasColorizeToggle() {
			add("c " + strings.ToLower(c.ColorizeLabel()))
		}
		if len(c.Sliders()) > 0 {
			add("[ ] DN  - = base  , . multiplier", "shift steps by 10")
		}
		if g.demo.Cube != nil {
			add("l s b remove, shift+l s b add")
		}
	}
	return rows
}

// wrap breaks s into lines of at most width runes at spaces
func wrap(s string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(s) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
