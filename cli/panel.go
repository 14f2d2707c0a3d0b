package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phroun/pixelbox"
)

type panelStyles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	dim     lipgloss.Style
	warn    lipgloss.Style
	output  lipgloss.Style
	plain   bool
	sliderW int
}

func newPanelStyles() panelStyles {
	brand := lipgloss.AdaptiveColor{Light: "26", Dark: "86"}
	subtle := lipgloss.AdaptiveColor{Light: "245", Dark: "244"}
	return panelStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(brand),
		label:   lipgloss.NewStyle().Foreground(subtle),
		value:   lipgloss.NewStyle().Bold(true),
		dim:     lipgloss.NewStyle().Foreground(subtle).Faint(true),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		output:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		sliderW: 16,
	}
}

func plainPanelStyles() panelStyles {
	s := lipgloss.NewStyle()
	return panelStyles{title: s, label: s, value: s, dim: s, warn: s, output: s, plain: true, sliderW: 16}
}

// Panel renders the console readout and controls with terminal styling
func Panel(st *pixelbox.Stage) string {
	return renderPanel(st, newPanelStyles())
}

// PanelText renders the console readout without styling
func PanelText(st *pixelbox.Stage) string {
	return renderPanel(st, plainPanelStyles())
}

func renderPanel(st *pixelbox.Stage, s panelStyles) string {
	d := st.Demo()
	c := st.Console()
	var lines []string
	add := func(l ...string) { lines = append(lines, l...) }

	if d.Options.Title != "" {
		add(s.title.Render(d.Options.Title), "")
	}

	if c.ReadOnly() {
		add(wrap(s.warn, c.Message(), panelWidth)...)
		add("")
	}

	if ch := d.Challenge; ch != nil {
		add(challengeLines(ch, s)...)
	} else {
		add(s.label.Render(c.PixelAt()))
		add(s.label.Render(c.StoredLabel()) + " " + s.value.Render(c.StoredDN()))
		if c.HasTrueDN() {
			add(s.label.Render("True DN:") + " " + s.value.Render(c.TrueDNText()))
		}
		if d.Image != nil && !d.Image.Ready() {
			if err := d.Image.Err(); err != nil {
				add(s.warn.Render("Image failed to load"))
			} else {
				add(s.dim.Render("Loading image..."))
			}
		}
	}

	if c.ShowRightConsole() {
		add("")
		for _, sl := range c.Sliders() {
			add(s.label.Render(sl.Text), sliderBar(sl, s))
		}
	}

	if cube := d.Cube; cube != nil {
		add("", s.value.Render(cube.Label()))
	}

	if legend := c.Legend(); len(legend) > 0 {
		add("")
		for _, cat := range legend {
			swatch := cat.Hex()
			if !s.plain {
				swatch = lipgloss.NewStyle().Background(lipgloss.Color(cat.Hex())).Render("  ")
			}
			add(swatch + " " + cat.String())
		}
	}

	add("")
	add(pack(s.dim, keyHelp(d, c), panelWidth)...)
	return strings.Join(lines, "\n")
}

func challengeLines(ch *pixelbox.DestripeChallenge, s panelStyles) []string {
	loRows, loCols, hiRows, hiCols := ch.Inputs()
	field := func(v string) string {
		if v == "" {
			return "_"
		}
		return v
	}
	out := []string{
		s.label.Render("Low pass boxcar:") + " " + s.value.Render(field(loRows)+" x "+field(loCols)),
		s.label.Render("High pass boxcar:") + " " + s.value.Render(field(hiRows)+" x "+field(hiCols)),
	}
	var visible []string
	for _, l := range ch.Layers() {
		if l.Visible {
			visible = append(visible, string(l.Name))
		}
	}
	out = append(out, s.label.Render("Showing:")+" "+s.value.Render(strings.Join(visible, ", ")))
	if ch.ShowingOriginal() {
		out = append(out, s.dim.Render("(original)"))
	}
	if text := ch.Output(); text != "" && text != pixelbox.DegradedMessage {
		out = append(out, "")
		for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			out = append(out, s.output.Render(l))
		}
	}
	return out
}

// sliderBar draws a slider position as a bar
func sliderBar(sl pixelbox.SliderState, s panelStyles) string {
	w := s.sliderW
	filled := 0
	if sl.Max > sl.Min {
		filled = int((sl.Value - sl.Min) / (sl.Max - sl.Min) * float64(w))
	}
	if filled > w {
		filled = w
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", w-filled) + "]"
}

// keyHelp lists the keys that apply to the demo
func keyHelp(d *pixelbox.Demo, c *pixelbox.Console) []string {
	parts := []string{"q quit", "r reset"}
	if d.Challenge != nil {
		if !c.ReadOnly() {
			parts = append(parts, "1 low", "2 high", "3 add", "o original")
		}
		return parts
	}
	parts = append(parts, "arrows move", "space select")
	if c.HasColorizeToggle() {
		parts = append(parts, "c "+strings.ToLower(c.ColorizeLabel()))
	}
	for _, sl := range c.Sliders() {
		switch sl.Purpose {
		case pixelbox.PurposeDNSlider:
			parts = append(parts, "[ ] dn")
		case pixelbox.PurposeDNBase:
			parts = append(parts, "- = base")
		case pixelbox.PurposeDNMultiplier:
			parts = append(parts, ", . mult")
		}
	}
	if d.Cube != nil {
		parts = append(parts, "l/L lines", "s/S samples", "b/B bands")
	}
	return parts
}

// pack joins items two spaces apart into styled lines of at most width
// runes, never splitting an item
func pack(style lipgloss.Style, items []string, width int) []string {
	var out []string
	line := ""
	for _, item := range items {
		if line != "" && len([]rune(line))+2+len([]rune(item)) > width {
			out = append(out, style.Render(line))
			line = ""
		}
		if line != "" {
			line += "  "
		}
		line += item
	}
	if line != "" {
		out = append(out, style.Render(line))
	}
	return out
}

// wrap breaks text into styled lines of at most width runes
func wrap(style lipgloss.Style, text string, width int) []string {
	var out []string
	line := ""
	for _, word := range strings.Fields(text) {
		if line != "" && len([]rune(line))+1+len([]rune(word)) > width {
			out = append(out, style.Render(line))
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		out = append(out, style.Render(line))
	}
	return out
}
