package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCanvas maps a 120x120 logical field onto 12x6 terminal cells, so
// one sub-pixel is 10x10 logical units.
func newTestCanvas() *Canvas {
	return NewScaledCanvas(12, 6, 120, 120)
}

func TestFillRect(t *testing.T) {
	c := newTestCanvas()
	c.FillRect(0, 0, 20, 20, ColorRed)

	assert.Equal(t, ColorRed, c.At(5, 5))
	assert.Equal(t, ColorRed, c.At(15, 15))
	assert.Equal(t, ColorNone, c.At(25, 5))
	assert.Equal(t, ColorNone, c.At(5, 25))
}

func TestFillRectThinStillCoversAPixel(t *testing.T) {
	c := newTestCanvas()
	c.FillRect(30, 30, 1, 1, ColorBlue)
	assert.Equal(t, ColorBlue, c.At(30, 30))
}

func TestFillRectClipsToCanvas(t *testing.T) {
	c := newTestCanvas()
	c.FillRect(-50, -50, 1000, 1000, ColorGrey)
	assert.Equal(t, ColorGrey, c.At(119, 119))
}

func TestFillCircle(t *testing.T) {
	c := newTestCanvas()
	c.FillCircle(Point{60, 60}, 10, ColorWhite)
	assert.Equal(t, ColorWhite, c.At(60, 60))
	assert.Equal(t, ColorNone, c.At(60, 85))
	assert.Equal(t, ColorNone, c.At(85, 60))
}

func TestDrawLine(t *testing.T) {
	c := newTestCanvas()
	c.DrawLine(Point{0, 50}, Point{119, 50}, ColorYellow)
	for x := 5.0; x < 120; x += 10 {
		assert.Equal(t, ColorYellow, c.At(x, 55), "x=%v", x)
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	c := newTestCanvas()
	c.Set(5, 5, ColorRed)   // top half of cell (1,1)
	c.Set(15, 15, ColorRed) // bottom half of cell (2,1)
	c.FillRect(20, 0, 10, 20, ColorBlue)

	var out bytes.Buffer
	c.Render(&out)
	s := out.String()

	assert.Contains(t, s, "\033[1;1H")
	assert.Contains(t, s, string(BlockUpperHalf))
	assert.Contains(t, s, string(BlockLowerHalf))
	assert.Contains(t, s, string(BlockFull))
	assert.True(t, strings.HasSuffix(s, ColorReset))
}

func TestRenderSkipsUnchangedCells(t *testing.T) {
	c := newTestCanvas()
	c.FillRect(0, 0, 120, 120, ColorGreen)

	var out bytes.Buffer
	c.Render(&out)
	require.NotZero(t, out.Len())

	out.Reset()
	c.Render(&out)
	assert.Zero(t, out.Len(), "identical frame writes nothing")

	c.MarkTextDirty(1, 1, 2)
	c.Render(&out)
	assert.Equal(t, 2, strings.Count(out.String(), string(BlockFull)))
}

func TestRenderErasesClearedCells(t *testing.T) {
	c := newTestCanvas()
	c.Set(5, 5, ColorRed)
	var out bytes.Buffer
	c.Render(&out)

	c.Clear()
	out.Reset()
	c.Render(&out)
	assert.Contains(t, out.String(), "\033[1;1H")
	assert.Contains(t, out.String(), " ")
}

func TestResizeForcesRedraw(t *testing.T) {
	c := newTestCanvas()
	var out bytes.Buffer
	c.Render(&out)

	c.Resize(24, 12)
	assert.Equal(t, 24, c.TerminalWidth())
	assert.Equal(t, 12, c.TerminalHeight())

	out.Reset()
	c.Render(&out)
	assert.Equal(t, 24*12, strings.Count(out.String(), " "))
}

func TestOffsetAppliesToRender(t *testing.T) {
	c := newTestCanvas()
	c.SetOffset(4, 2)
	c.Set(5, 5, ColorRed)
	var out bytes.Buffer
	c.Render(&out)
	assert.Contains(t, out.String(), "\033[3;5H")
}

func TestLogicalToTerminal(t *testing.T) {
	c := newTestCanvas()
	col, row := c.LogicalToTerminal(0, 0)
	assert.Equal(t, 1, col)
	assert.Equal(t, 1, row)

	col, row = c.LogicalToTerminal(60, 60)
	assert.Equal(t, 7, col)
	assert.Equal(t, 4, row)
}

func TestChunkWriter(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 10, 2)

	cw.WriteAt(2, 1, "hi")
	assert.Equal(t, "\033[3;12Hhi", cw.buf.String())

	cw.WriteString(strings.Repeat("x", 3*maxChunkSize))
	require.NoError(t, cw.Flush())
	assert.Equal(t, len("\033[3;12Hhi")+3*maxChunkSize, out.Len())
	assert.Zero(t, cw.Len())
}

func TestChunkWriterBlock(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.WriteBlock(3, 5, "ab\ncd")
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[5;3Hab\033[6;3Hcd", out.String())
}
