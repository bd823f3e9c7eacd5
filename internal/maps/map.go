package maps

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Block is the gameplay kind of a single map pixel.
type Block uint8

const (
	Empty    Block = iota // freely traversed
	Solid                 // blocks movement
	Slippery              // blocks movement, drawn as ice
	Special               // not tangible, marks a star spawn
)

var blockNames = [...]string{
	Empty:    "empty",
	Solid:    "solid",
	Slippery: "slippery",
	Special:  "special",
}

func (b Block) String() string {
	if int(b) < len(blockNames) {
		return blockNames[b]
	}
	return fmt.Sprintf("block(%d)", uint8(b))
}

// Tangible reports whether the block stops bodies.
func (b Block) Tangible() bool {
	return b == Solid || b == Slippery
}

// KeyColors maps the colors of a key image to block kinds.
// Colors not listed here classify as Empty.
var KeyColors = map[color.NRGBA]Block{
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}: Empty,
	{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}: Solid,
	{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}: Slippery,
	{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF}: Special,
}

var (
	// ErrSizeMismatch is returned when the key image is not the same size
	// as the graphics image.
	ErrSizeMismatch = errors.New("key image size differs from graphics")
	// ErrEmptyMap is returned for zero-area images.
	ErrEmptyMap = errors.New("map has no pixels")
)

// Map is an immutable pixel-classified level.
type Map struct {
	Name       string
	Width      int
	Height     int
	Graphics   image.Image
	Background image.Image // may be nil

	blocks []Block // row-major, Width*Height
}

// Classify returns the block kind encoded by a key color.
func Classify(c color.Color) Block {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if b, ok := KeyColors[n]; ok {
		return b
	}
	return Empty
}

// New classifies every pixel of key and pairs the result with the
// graphics image. Both images must have the same non-zero size.
func New(gfx, key image.Image) (*Map, error) {
	gb := gfx.Bounds()
	kb := key.Bounds()
	if gb.Dx() <= 0 || gb.Dy() <= 0 {
		return nil, fmt.Errorf("graphics %dx%d: %w", gb.Dx(), gb.Dy(), ErrEmptyMap)
	}
	if gb.Dx() != kb.Dx() || gb.Dy() != kb.Dy() {
		return nil, fmt.Errorf("graphics %dx%d, key %dx%d: %w",
			gb.Dx(), gb.Dy(), kb.Dx(), kb.Dy(), ErrSizeMismatch)
	}

	w, h := gb.Dx(), gb.Dy()
	blocks := make([]Block, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			blocks[y*w+x] = Classify(key.At(kb.Min.X+x, kb.Min.Y+y))
		}
	}

	return &Map{
		Width:    w,
		Height:   h,
		Graphics: gfx,
		blocks:   blocks,
	}, nil
}

// Bounds returns the map rectangle in map coordinates.
func (m *Map) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// BlockAt returns the block at x,y. Out-of-bounds coordinates are Empty.
func (m *Map) BlockAt(x, y int) Block {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return Empty
	}
	return m.blocks[y*m.Width+x]
}

// IsTangible checks if the pixel at x,y stops bodies.
func (m *Map) IsTangible(x, y int) bool {
	return m.BlockAt(x, y).Tangible()
}

// CollidesWith reports whether any in-bounds pixel covered by r is tangible.
func (m *Map) CollidesWith(r image.Rectangle) bool {
	r = r.Intersect(m.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.blocks[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x].Tangible() {
				return true
			}
		}
	}
	return false
}

// Cells returns the coordinates of every pixel of the given kind, in
// row-major order.
func (m *Map) Cells(kind Block) []image.Point {
	var out []image.Point
	for i, b := range m.blocks {
		if b == kind {
			out = append(out, image.Pt(i%m.Width, i/m.Width))
		}
	}
	return out
}

// Counts returns how many pixels of each kind the map holds.
func (m *Map) Counts() map[Block]int {
	counts := make(map[Block]int)
	for _, b := range m.blocks {
		counts[b]++
	}
	return counts
}
