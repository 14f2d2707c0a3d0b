package pixelbox

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlider_Set(t *testing.T) {
	s := NewSlider("t-slider", "t-sliderVal", "DN", 0, 255, 1, 255)
	assert.Equal(t, 255.0, s.Value())
	assert.Equal(t, "DN: 255", s.Text())

	tests := []struct {
		in, want float64
	}{
		{100, 100},
		{300, 255},
		{-5, 0},
		{12.4, 12},
		{12.6, 13},
		{math.NaN(), 255},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Set(tt.in), "Set(%v)", tt.in)
	}

	s.Set(7)
	s.Reset()
	assert.Equal(t, 255, s.Int())
}

func TestSlider_FractionalStep(t *testing.T) {
	s := NewSlider("t-m", "t-mVal", "Multiplier", 1, 255, 0.1, 1)
	assert.Equal(t, "Multiplier: 1.0", s.Text())

	s.Set(2.34)
	assert.Equal(t, 2.3, s.Value())
	assert.Equal(t, "Multiplier: 2.3", s.Text())

	s.Set(0)
	assert.Equal(t, 1.0, s.Value())
}

func TestTrueDN(t *testing.T) {
	assert.Equal(t, 240, TrueDN(100, 2.5, -10))
	assert.Equal(t, 4, TrueDN(3, 1.5, 0), "product truncates")
	assert.Equal(t, 255, TrueDN(255, 1, 0))
}
