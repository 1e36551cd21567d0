// Package draw renders the duel into a terminal with ANSI escapes and
// half-block characters.
package draw

import "strconv"

// Point represents a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// Color is an xterm 256-color palette index. The zero value is transparent.
type Color uint8

// Palette used by the duel.
const (
	ColorNone      Color = 0
	ColorRed       Color = 196
	ColorGreen     Color = 46
	ColorBlue      Color = 39
	ColorYellow    Color = 226
	ColorOrange    Color = 208
	ColorWhite     Color = 231
	ColorGrey      Color = 244
	ColorDarkGrey  Color = 238
	ColorBrown     Color = 94
	ColorSand      Color = 180
	ColorSlate     Color = 60
	ColorDimYellow Color = 136
)

// ColorReset restores the default terminal colors.
const ColorReset = "\033[0m"

// fgSeq and bgSeq append the SGR sequence selecting c.
func fgSeq(buf []byte, c Color) []byte {
	buf = append(buf, "\033[38;5;"...)
	buf = strconv.AppendInt(buf, int64(c), 10)
	return append(buf, 'm')
}

func bgSeq(buf []byte, c Color) []byte {
	buf = append(buf, "\033[48;5;"...)
	buf = strconv.AppendInt(buf, int64(c), 10)
	return append(buf, 'm')
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
