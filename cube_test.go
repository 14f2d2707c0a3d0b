package pixelbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/pixelbox/internal/logger"
)

func newCube(t *testing.T) *CubeDemo {
	t.Helper()
	return NewCubeDemo(CubeOptions{Target: "cube", Logger: logger.Test(t)})
}

func TestCube_Initial(t *testing.T) {
	c := newCube(t)
	assert.Equal(t, 4, c.Lines())
	assert.Equal(t, 4, c.Samples())
	assert.Equal(t, 1, c.Bands())
	assert.Equal(t, "4 lines x 4 samples x 1 band", c.Label())

	bands := c.Surfaces()
	require.Len(t, bands, 1)
	o := bands[0].Options()
	assert.Equal(t, ModeLines, o.Type)
	assert.Equal(t, OrientationBottom, o.Orientation)
	assert.Equal(t, 30, o.Top)
	assert.Equal(t, 370, o.Left)
	assert.True(t, bands[0].IsActive())

	require.Len(t, c.Console().Sliders(), 1)
}

func TestBandOptions(t *testing.T) {
	tests := []struct {
		i           int
		orientation Orientation
		top, left   int
	}{
		{0, OrientationBottom, 30, 370},
		{1, OrientationRight, 80, 320},
		{2, OrientationTop, 130, 270},
		{3, OrientationLeft, 180, 220},
		{4, OrientationBottom, 230, 170},
	}
	for _, tt := range tests {
		o := BandOptions("cube", tt.i, 4, 4)
		assert.Equal(t, tt.orientation, o.Orientation, "band %d", tt.i)
		assert.Equal(t, tt.top, o.Top, "band %d", tt.i)
		assert.Equal(t, tt.left, o.Left, "band %d", tt.i)
	}
}

func TestCube_LinesAndSamples(t *testing.T) {
	c := newCube(t)
	c.AddBand()

	c.AddLine()
	c.AddSample()
	c.AddSample()
	assert.Equal(t, 5, c.Lines())
	assert.Equal(t, 6, c.Samples())
	for _, s := range c.Surfaces() {
		assert.Equal(t, 5, s.Rows())
		assert.Equal(t, 6, s.Columns())
	}

	for i := 0; i < 20; i++ {
		c.AddLine()
		c.RemoveSample()
	}
	assert.Equal(t, MaxGridSize, c.Lines())
	assert.Equal(t, MinGridSize, c.Samples())
	for _, s := range c.Surfaces() {
		assert.Equal(t, MaxGridSize, s.Rows())
		assert.Equal(t, MinGridSize, s.Columns())
	}

	c.RemoveLine()
	assert.Equal(t, MaxGridSize-1, c.Lines())
}

func TestCube_Bands(t *testing.T) {
	c := newCube(t)

	var rebuilds [][2]int
	c.SetRebuildCallback(func(prev, next []*Surface) {
		rebuilds = append(rebuilds, [2]int{len(prev), len(next)})
	})

	first := c.Surfaces()[0]
	c.AddBand()
	assert.Equal(t, 2, c.Bands())
	assert.Equal(t, "4 lines x 4 samples x 2 bands", c.Label())
	assert.Equal(t, [][2]int{{1, 2}}, rebuilds)
	assert.NotSame(t, first, c.Surfaces()[0], "bands are rebuilt")

	// The front band registers first and is active
	registered := c.Console().Surfaces()
	require.Len(t, registered, 2)
	assert.Same(t, c.Surfaces()[1], registered[0])
	assert.True(t, registered[0].IsActive())

	for i := 0; i < 10; i++ {
		c.AddBand()
	}
	assert.Equal(t, MaxBands, c.Bands())

	for i := 0; i < 10; i++ {
		c.RemoveBand()
	}
	assert.Equal(t, MinBands, c.Bands())
	assert.Len(t, c.Surfaces(), 1)
}

func TestCube_BandsKeepDimensions(t *testing.T) {
	c := newCube(t)
	c.AddLine()
	c.AddBand()
	for _, s := range c.Surfaces() {
		assert.Equal(t, 5, s.Rows())
	}
}

func TestCube_Reset(t *testing.T) {
	c := newCube(t)
	c.AddLine()
	c.AddSample()
	c.AddBand()
	c.AddBand()

	c.Reset()
	assert.Equal(t, 4, c.Lines())
	assert.Equal(t, 4, c.Samples())
	assert.Equal(t, 1, c.Bands())
	assert.Equal(t, 255, c.Console().DN())
}

func TestCube_RebuildDetachesOldBands(t *testing.T) {
	c := newCube(t)
	sched := NewManualScheduler()
	old := c.Surfaces()[0]
	old.Attach(sched, NewImagePainter(200, 200))

	c.AddBand()
	assert.False(t, old.IsAttached())
	assert.Equal(t, 0, sched.Pending())
}
