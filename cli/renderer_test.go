package cli

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleCells(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 9, 7))
	for y := 0; y < 7; y++ {
		for x := 0; x < 9; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 0xff})
		}
	}

	cells := sampleCells(img, 2)
	require.Len(t, cells, 2, "ceil(7/4) rows")
	require.Len(t, cells[0], 5, "ceil(9/2) columns")

	// Block centers: x = col*2+1, top y = row*4+1, bottom y = top+2
	assert.Equal(t, color.RGBA{R: 3, G: 1, A: 0xff}, cells[0][1].top)
	assert.Equal(t, color.RGBA{R: 3, G: 3, A: 0xff}, cells[0][1].bottom)
	assert.Equal(t, color.RGBA{R: 1, G: 5, A: 0xff}, cells[1][0].top)

	// Samples past the image edge are opaque black
	assert.Equal(t, color.RGBA{A: 0xff}, cells[1][0].bottom)
	assert.Equal(t, color.RGBA{A: 0xff}, cells[0][4].top, "x=9 is outside")
}

func TestSampleCells_ScaleOne(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})

	cells := sampleCells(img, 1)
	require.Len(t, cells, 1)
	require.Len(t, cells[0], 2)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, cells[0][0].top)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, cells[0][0].bottom)
}

func TestRenderer_FullThenDiff(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)
	term := newTestTerminal(t, st, Options{BorderStyle: BorderRounded, Scale: 10})

	first := term.renderer.Render()
	assert.Contains(t, first, "\033[2J", "first frame clears")
	assert.Contains(t, first, "╭")
	assert.Contains(t, first, "╯")
	assert.Contains(t, first, " Pixels ")
	// 28 columns x 14 rows of half blocks
	assert.Equal(t, 28*14, strings.Count(first, string(halfBlock)))

	second := term.renderer.Render()
	assert.NotContains(t, second, "\033[2J")
	assert.Zero(t, strings.Count(second, string(halfBlock)), "nothing changed")

	term.renderer.ForceFullRedraw()
	assert.True(t, term.renderer.NeedsRender())
	third := term.renderer.Render()
	assert.Contains(t, third, "\033[2J")
}

func TestRenderer_Panel(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)
	term := newTestTerminal(t, st, Options{Scale: 10, ShowPanel: true})

	first := term.renderer.Render()
	assert.Contains(t, first, "Pixel at:")

	// Unchanged panel lines are not rewritten
	second := term.renderer.Render()
	assert.NotContains(t, second, "Pixel at:")
}

func TestRenderer_NoBorder(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)
	term := newTestTerminal(t, st, Options{Scale: 10})

	out := term.renderer.Render()
	assert.NotContains(t, out, "╭")
	assert.Contains(t, out, "\033[1;1H", "stage starts at the top-left cell")
}
