package render

import (
	"strconv"
	"strings"
)

// Escape sequences understood by any xterm-compatible terminal.
const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"

	clearScreen  = CSI + "2J"
	hideCursor   = CSI + "?25l"
	showCursor   = CSI + "?25h"
	altScreenOn  = CSI + "?1049h"
	altScreenOff = CSI + "?1049l"
)

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return CSI + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

// EnterScreen switches to a blank alternate screen without a cursor.
func EnterScreen() string {
	return altScreenOn + hideCursor + clearScreen
}

// LeaveScreen restores the terminal EnterScreen took over.
func LeaveScreen() string {
	return Reset + showCursor + altScreenOff
}

// SGR returns a Select Graphic Rendition sequence for the given
// parameters, such as SGR(1, 33) for bold yellow.
func SGR(params ...int) string {
	var sb strings.Builder
	sb.WriteString(CSI)
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.Itoa(p))
	}
	sb.WriteByte('m')
	return sb.String()
}

// WriteCellSGR writes one cell as a self-contained truecolor SGR followed
// by its rune. Every cell resets attributes first, so cells can be emitted
// in any order.
func WriteCellSGR(sb *strings.Builder, c Cell) {
	sb.WriteString(CSI + "0")
	if c.Bold {
		sb.WriteString(";1")
	}
	for _, ch := range [...]struct {
		intro string
		rgb   RGB
	}{{";38;2", c.Fg}, {";48;2", c.Bg}} {
		sb.WriteString(ch.intro)
		for _, v := range [...]uint8{ch.rgb.R, ch.rgb.G, ch.rgb.B} {
			sb.WriteByte(';')
			sb.WriteString(strconv.Itoa(int(v)))
		}
	}
	sb.WriteByte('m')
	sb.WriteRune(c.Ch)
}
