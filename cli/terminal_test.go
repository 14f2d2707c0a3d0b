package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/pixelbox"
)

func TestParseBorderStyle(t *testing.T) {
	tests := []struct {
		name    string
		want    BorderStyle
		wantErr bool
	}{
		{"none", BorderNone, false},
		{"single", BorderSingle, false},
		{"double", BorderDouble, false},
		{"heavy", BorderHeavy, false},
		{"rounded", BorderRounded, false},
		{"dotted", BorderNone, true},
		{"", BorderNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBorderStyle(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_NoStage(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}

func TestNew_TitleFromDemo(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)
	term := newTestTerminal(t, st, Options{Scale: 5})
	assert.Equal(t, "Pixels", term.options.Title)
	assert.Equal(t, 5, term.Scale())
	assert.Same(t, st, term.Stage())
}

func TestTerminal_FitScale(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)
	term := newTestTerminal(t, st, Options{BorderStyle: BorderRounded})

	// 280x280 stage in 78x22 usable cells: 280/(2*7) = 20 rows
	term.hostCols, term.hostRows = 80, 24
	assert.Equal(t, 7, term.fitScale())

	// The panel takes columns, not rows
	term.options.ShowPanel = true
	assert.Equal(t, 7, term.fitScale())

	term.hostCols, term.hostRows = 200, 80
	term.options.ShowPanel = false
	assert.Equal(t, 2, term.fitScale())

	term.options.Scale = 3
	assert.Equal(t, 3, term.fitScale(), "explicit scale wins")
}

func TestTerminal_CellToStage(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)
	term := newTestTerminal(t, st, Options{BorderStyle: BorderRounded, Scale: 5})

	p, ok := term.cellToStage(1, 1, false)
	require.True(t, ok)
	assert.Equal(t, pixelbox.Point{X: 2.5, Y: 2.5}, p)

	p, ok = term.cellToStage(3, 2, true)
	require.True(t, ok)
	assert.Equal(t, pixelbox.Point{X: 12.5, Y: 17.5}, p)

	_, ok = term.cellToStage(0, 0, false)
	assert.False(t, ok, "border cell")

	_, ok = term.cellToStage(57, 1, false)
	assert.False(t, ok, "right of the stage")

	// Without a border the stage starts at the offset
	term = newTestTerminal(t, st, Options{Scale: 5, OffsetX: 2, OffsetY: 1})
	p, ok = term.cellToStage(2, 1, false)
	require.True(t, ok)
	assert.Equal(t, pixelbox.Point{X: 2.5, Y: 2.5}, p)
}

func TestTerminal_MovePointerClamps(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)
	term := newTestTerminal(t, st, Options{Scale: 5})

	term.movePointer(-1, -1)
	assert.Equal(t, pixelbox.Point{}, term.Pointer())

	term.movePointer(3, 2)
	assert.Equal(t, pixelbox.Point{X: 15, Y: 10}, term.Pointer())

	term.movePointer(1000, 1000)
	assert.Equal(t, pixelbox.Point{X: 279, Y: 279}, term.Pointer())
}

func TestTerminal_QuitUnblocksWait(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)
	term := newTestTerminal(t, st, Options{Scale: 5})

	term.Quit()
	term.Quit()
	term.Wait()
}

func TestDump(t *testing.T) {
	st := newTestStage(t, "isis-pixels", nil)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, st))
	out := buf.String()
	assert.Contains(t, out, "Pixels")
	assert.Contains(t, out, "Pixel at: 0, 0")
	assert.Contains(t, out, "Stored DN: 255")
	assert.NotContains(t, out, "\x1b[", "no escape sequences")
}
