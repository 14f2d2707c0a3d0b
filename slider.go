package pixelbox

import (
	"math"
	"strconv"
)

// Slider is a bounded numeric control with a labelled readout
type Slider struct {
	ID       string  // Control identifier, ${target}-${purpose}
	ValueID  string  // Readout identifier
	Label    string  // Readout prefix, e.g. "DN"
	Min, Max float64 // Inclusive range
	Step     float64 // Values snap to multiples of Step from Min
	Default  float64 // Value after Reset
	decimals int     // Readout precision

	value float64
}

// NewSlider creates a slider set to its default
func NewSlider(id, valueID, label string, min, max, step, def float64) *Slider {
	s := &Slider{
		ID:      id,
		ValueID: valueID,
		Label:   label,
		Min:     min,
		Max:     max,
		Step:    step,
		Default: def,
	}
	if step > 0 && step < 1 {
		s.decimals = int(math.Round(-math.Log10(step)))
	}
	s.value = s.snap(def)
	return s
}

// Value returns the current value
func (s *Slider) Value() float64 {
	return s.value
}

// Int returns the current value truncated toward zero
func (s *Slider) Int() int {
	return int(s.value)
}

// Set moves the slider, clamping to range and snapping to step. Returns the
// value actually set.
func (s *Slider) Set(v float64) float64 {
	s.value = s.snap(v)
	return s.value
}

// Reset restores the default value
func (s *Slider) Reset() {
	s.value = s.snap(s.Default)
}

// Text returns the readout, e.g. "DN: 255" or "Multiplier: 1.0"
func (s *Slider) Text() string {
	return s.Label + ": " + s.format(s.value)
}

func (s *Slider) format(v float64) string {
	if s.decimals == 0 {
		return strconv.Itoa(int(math.Round(v)))
	}
	return strconv.FormatFloat(v, 'f', s.decimals, 64)
}

func (s *Slider) snap(v float64) float64 {
	if math.IsNaN(v) {
		v = s.Default
	}
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		if v > s.Max {
			v = s.Max
		}
	}
	// drop float noise from fractional steps
	p := math.Pow(10, float64(s.decimals))
	return math.Round(v*p) / p
}
