// Package render draws game snapshots as ANSI terminal frames. Each cell
// holds two map pixels stacked with a half block; the engine keeps the
// previous frame and only emits the cells that changed.
package render

import (
	"fmt"
	"image"
	"strings"
	"time"

	"worms-world/internal/game"
)

// HUDRows is the number of terminal rows below the map.
const HUDRows = 3

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch     rune
	Fg, Bg RGB
	Bold   bool
}

// sentinel never matches a drawn cell, forcing a full redraw.
var sentinel = Cell{Ch: '\x00', Fg: RGB{255, 0, 0}, Bg: RGB{0, 0, 255}, Bold: true}

// Body colors by kind.
var (
	wormColor    = RGB{240, 130, 160}
	booColor     = RGB{230, 230, 250}
	booIdleColor = RGB{160, 160, 190}
	yellowCoin   = RGB{250, 210, 40}
	redCoin      = RGB{220, 50, 40}
	flagColor    = RGB{60, 200, 90}
	starColor    = RGB{120, 220, 255}
)

// HUD colors.
var (
	hudBg     = RGB{15, 18, 30}
	hudText   = RGB{180, 180, 195}
	hudDim    = RGB{110, 115, 135}
	hudSep    = RGB{60, 65, 85}
	hudTitle  = RGB{250, 220, 120}
	hudGood   = RGB{100, 230, 120}
	hudBad    = RGB{240, 90, 80}
	jumpColor = RGB{120, 220, 255}
)

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{}
	e.Resize(width, height)
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	e.width = max(width, 0)
	e.height = max(height, 0)
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := range buf {
		buf[y] = make([]Cell, e.width)
		for x := range buf[y] {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI output that turns the previous frame into s.
func (e *Engine) Render(s game.Snapshot, termW, termH int) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}

	viewH := e.height - HUDRows
	if viewH > 0 && s.Map != nil {
		e.drawMap(s, viewH)
	}
	e.drawHUD(s)
	return e.flush()
}

// frame maps screen pixels to map pixels for one render.
type frame struct {
	view   image.Rectangle
	cols   int // screen pixel columns
	rows   int // screen pixel rows, two per terminal row
	pixels [][]RGB
}

// mapX returns the map column shown by screen pixel column sx.
func (f *frame) mapX(sx int) int {
	return f.view.Min.X + sx*f.view.Dx()/f.cols
}

// mapY returns the map row shown by screen pixel row sy.
func (f *frame) mapY(sy int) int {
	return f.view.Min.Y + sy*f.view.Dy()/f.rows
}

// span returns the screen pixels [a,b) showing map coordinates [lo,hi)
// along an axis starting at origin with the given extent mapped onto n
// screen pixels. Anything on the map gets at least one screen pixel.
func span(lo, hi, origin, extent, n int) (int, int) {
	if hi <= origin || lo >= origin+extent || extent <= 0 || n <= 0 {
		return 0, 0
	}
	a := ceilDiv((lo-origin)*n, extent)
	b := ceilDiv((hi-origin)*n, extent)
	a = min(max(a, 0), n)
	b = min(max(b, 0), n)
	if a == b {
		if a == n {
			a--
		}
		b = a + 1
	}
	return a, b
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

func (f *frame) fill(r image.Rectangle, c RGB) {
	x0, x1 := span(r.Min.X, r.Max.X, f.view.Min.X, f.view.Dx(), f.cols)
	y0, y1 := span(r.Min.Y, r.Max.Y, f.view.Min.Y, f.view.Dy(), f.rows)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			f.pixels[y][x] = c
		}
	}
}

func bodyColor(b game.BodyView) RGB {
	switch b.Kind {
	case game.KindWorm:
		return wormColor
	case game.KindBoo:
		if b.Moving {
			return booColor
		}
		return booIdleColor
	case game.KindCoin:
		if b.Red {
			return redCoin
		}
		return yellowCoin
	case game.KindFlag:
		return flagColor
	case game.KindStar:
		return starColor
	}
	return flakeColor
}

func (e *Engine) drawMap(s game.Snapshot, viewH int) {
	f := &frame{view: s.View, cols: e.width, rows: viewH * 2}
	if f.view.Empty() {
		f.view = s.Map.Bounds()
	}

	f.pixels = make([][]RGB, f.rows)
	for sy := range f.pixels {
		row := make([]RGB, f.cols)
		my := f.mapY(sy)
		for sx := range row {
			row[sx] = mapPixel(s.Map.Graphics, s.Map.Background, f.mapX(sx), my)
		}
		f.pixels[sy] = row
	}

	for _, b := range s.Bodies {
		c := bodyColor(b)
		for _, r := range b.Rects {
			f.fill(r, c)
		}
	}
	for _, fl := range s.Flakes {
		x, y := int(fl.Body.X), int(fl.Body.Y)
		size := 1
		if fl.Large {
			size = 2
		}
		f.fill(image.Rect(x, y, x+size, y+size), flakeColor)
	}

	for row := 0; row < viewH; row++ {
		for col := 0; col < e.width; col++ {
			e.next[row][col] = halfBlock(f.pixels[2*row][col], f.pixels[2*row+1][col])
		}
	}
}

func (e *Engine) drawHUD(s game.Snapshot) {
	hudY := max(e.height-HUDRows, 0)
	for y := hudY; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.next[y][x] = Cell{Ch: ' ', Bg: hudBg}
		}
	}
	if e.height == 0 {
		return
	}

	// Row 0: separator, a thin gradient line
	if e.height >= HUDRows {
		for x := 0; x < e.width; x++ {
			t := uint8(60 - x*40/max(e.width, 1))
			e.next[hudY][x] = Cell{Ch: '━', Fg: RGB{40 + t, 70 + t, 90 + t}, Bg: hudBg}
		}
		hudY++
	}

	// Row 1: level, score, clock, jumps
	col := e.writeText(hudY, 1, e.width, strings.ToUpper(s.Level.Slug()), hudTitle, hudBg, true)
	col = e.writeText(hudY, col, e.width, "  │  ", hudSep, hudBg, false)
	col = e.writeText(hudY, col, e.width, fmt.Sprintf("Coins %d", s.Score), yellowCoin, hudBg, true)
	col = e.writeText(hudY, col, e.width, "  │  ", hudSep, hudBg, false)
	clock := hudText
	if s.Remaining < 20*time.Second {
		clock = hudBad
	}
	col = e.writeText(hudY, col, e.width, "Time "+FormatClock(s.Remaining), clock, hudBg, false)
	col = e.writeText(hudY, col, e.width, "  │  ", hudSep, hudBg, false)
	col = e.writeText(hudY, col, e.width, "Jumps ", hudText, hudBg, false)
	e.writeText(hudY, col, e.width, strings.Repeat("●", s.Jumps), jumpColor, hudBg, true)

	if hudY+1 >= e.height {
		return
	}
	row := hudY + 1
	switch {
	case s.Outcome == game.EventWin:
		msg := fmt.Sprintf("You reached the flag! Final score %d", s.Final)
		col = e.writeText(row, 1, e.width, msg, hudGood, hudBg, true)
		e.writeText(row, col, e.width, "  │  Q Quit", hudDim, hudBg, false)
	case s.Outcome.Final():
		col = e.writeText(row, 1, e.width, "Game over: "+s.Outcome.String(), hudBad, hudBg, true)
		e.writeText(row, col, e.width, "  │  Q Quit", hudDim, hudBg, false)
	default:
		e.writeText(row, 1, e.width, "A/D ←→ Move  W/Space Jump  +/- Zoom  IJKL Pan  C Center  Q Quit", hudDim, hudBg, false)
	}
}

// FormatClock renders a duration as m:ss, rounding partial seconds up.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// writeText writes colored text into a bounded region [col, maxCol). Returns the next column position.
func (e *Engine) writeText(row, col, maxCol int, text string, fg, bg RGB, bold bool) int {
	for _, r := range text {
		if col >= maxCol || col >= e.width {
			break
		}
		if row >= 0 && row < e.height && col >= 0 {
			e.next[row][col] = Cell{Ch: r, Fg: fg, Bg: bg, Bold: bold}
		}
		col++
	}
	return col
}

// flush diffs next against current, emits only changed cells and swaps
// the buffers.
func (e *Engine) flush() string {
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}
