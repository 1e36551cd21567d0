package draw

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// cell is what one terminal character shows: two stacked sub-pixels.
type cell struct {
	top, bottom Color
}

// Canvas is a color drawing buffer with 2x vertical resolution using
// half-block characters. Drawing uses logical coordinates that are scaled to
// the terminal. Render only emits cells that changed since the last frame.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int
	pixels         []Color // [y * termWidth + x]

	prev  []cell // what the terminal currently shows
	stale []bool // cells that must be repainted regardless of prev

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64
	scaleY        float64

	// 0-based terminal offsets for centering the render area.
	offsetCol int
	offsetRow int

	renderBuf []byte
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to
// terminal pixels. logicalHeight spans all termHeight*2 sub-pixel rows.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. A size change forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 1), max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.prev = make([]cell, termHeight*termWidth)
		c.stale = make([]bool, termHeight*termWidth)
		c.ForceRedraw()
	}
	c.scaleX = float64(c.termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

func (c *Canvas) OffsetCol() int { return c.offsetCol }
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Clear resets all pixels. The terminal is untouched until the next Render.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.stale {
		c.stale[i] = true
	}
}

// MarkTextDirty flags cells overwritten by a text overlay so the next Render
// repaints them. col and row are 1-based canvas positions.
func (c *Canvas) MarkTextDirty(col, row, length int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+length, c.termWidth); x++ {
		c.stale[r*c.termWidth+x] = true
	}
}

func (c *Canvas) setPixel(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = color
	}
}

// At returns the color of the sub-pixel covering logical (x, y).
func (c *Canvas) At(x, y float64) Color {
	px, py := c.toPixel(x, y)
	if px < 0 || px >= c.termWidth || py < 0 || py >= c.subPixelHeight {
		return ColorNone
	}
	return c.pixels[py*c.termWidth+px]
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Floor(x * c.scaleX)), int(math.Floor(y * c.scaleY))
}

// Set colors the sub-pixel covering logical (x, y).
func (c *Canvas) Set(x, y float64, color Color) {
	px, py := c.toPixel(x, y)
	c.setPixel(px, py, color)
}

// FillRect fills a logical rectangle. Rectangles thinner than a sub-pixel
// still cover one.
func (c *Canvas) FillRect(x, y, w, h float64, color Color) {
	x0, y0 := c.toPixel(x, y)
	x1 := max(int(math.Ceil((x+w)*c.scaleX)), x0+1)
	y1 := max(int(math.Ceil((y+h)*c.scaleY)), y0+1)
	for py := max(y0, 0); py < min(y1, c.subPixelHeight); py++ {
		for px := max(x0, 0); px < min(x1, c.termWidth); px++ {
			c.pixels[py*c.termWidth+px] = color
		}
	}
}

// FillCircle fills a logical circle.
func (c *Canvas) FillCircle(center Point, r float64, color Color) {
	x0, y0 := c.toPixel(center.X-r, center.Y-r)
	x1, y1 := c.toPixel(center.X+r, center.Y+r)
	c.Set(center.X, center.Y, color)
	for py := max(y0, 0); py <= min(y1, c.subPixelHeight-1); py++ {
		for px := max(x0, 0); px <= min(x1, c.termWidth-1); px++ {
			lx := (float64(px) + 0.5) / c.scaleX
			ly := (float64(py) + 0.5) / c.scaleY
			if (lx-center.X)*(lx-center.X)+(ly-center.Y)*(ly-center.Y) <= r*r {
				c.pixels[py*c.termWidth+px] = color
			}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm in pixel space.
func (c *Canvas) DrawLine(p1, p2 Point, color Color) {
	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, color)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Render writes every changed cell to w.
func (c *Canvas) Render(w io.Writer) {
	buf := c.renderBuf[:0]
	lastRow, lastCol := -1, -1

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			i := row*c.termWidth + col
			cur := cell{
				top:    c.pixels[row*2*c.termWidth+col],
				bottom: c.pixels[(row*2+1)*c.termWidth+col],
			}
			if !c.stale[i] && c.prev[i] == cur {
				continue
			}
			c.prev[i] = cur
			c.stale[i] = false

			if row != lastRow || col != lastCol+1 {
				buf = append(buf, "\033["...)
				buf = strconv.AppendInt(buf, int64(row+1+c.offsetRow), 10)
				buf = append(buf, ';')
				buf = strconv.AppendInt(buf, int64(col+1+c.offsetCol), 10)
				buf = append(buf, 'H')
			}
			lastRow, lastCol = row, col
			buf = appendCell(buf, cur)
		}
	}
	if len(buf) > 0 {
		buf = append(buf, ColorReset...)
		_, _ = w.Write(buf)
	}
	c.renderBuf = buf
}

func appendCell(buf []byte, cur cell) []byte {
	buf = append(buf, ColorReset...)
	switch {
	case cur.top == ColorNone && cur.bottom == ColorNone:
		return append(buf, BlockEmpty)
	case cur.top == cur.bottom:
		buf = fgSeq(buf, cur.top)
		return appendRune(buf, BlockFull)
	case cur.bottom == ColorNone:
		buf = fgSeq(buf, cur.top)
		return appendRune(buf, BlockUpperHalf)
	case cur.top == ColorNone:
		buf = fgSeq(buf, cur.bottom)
		return appendRune(buf, BlockLowerHalf)
	default:
		buf = fgSeq(buf, cur.top)
		buf = bgSeq(buf, cur.bottom)
		return appendRune(buf, BlockUpperHalf)
	}
}

func appendRune(buf []byte, r rune) []byte {
	return append(buf, string(r)...)
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)
	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	_, _ = io.WriteString(w, buf.String())
}

func (c *Canvas) LogicalWidth() float64  { return c.logicalWidth }
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// TerminalWidth returns the canvas width in terminal columns.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the canvas height in terminal rows.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// LogicalToTerminal converts logical coordinates to a 1-based canvas
// position, for placing text next to drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}
