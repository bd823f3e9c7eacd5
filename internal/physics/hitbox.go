package physics

import (
	"image"
	"math"
)

// Box is a collision rectangle relative to a body's top-left corner.
type Box struct {
	X, Y int // offset
	W, H int // size in pixels
}

// Hitbox is the set of boxes that make up a body's collision shape.
// Width is the sprite width the boxes are mirrored across when the body
// faces right; zero disables mirroring.
type Hitbox struct {
	Boxes []Box
	Width int
}

// Rects returns the hitbox's rectangles for a body whose top-left corner
// is at x,y. Rectangles are half-open, as image.Rectangle.
func (h Hitbox) Rects(x, y int, facingRight bool) []image.Rectangle {
	if len(h.Boxes) == 0 {
		return nil
	}
	rects := make([]image.Rectangle, len(h.Boxes))
	for i, b := range h.Boxes {
		bx := x + b.X
		if facingRight && h.Width > 0 {
			bx = x + h.Width - b.X - b.W
		}
		by := y + b.Y
		rects[i] = image.Rect(bx, by, bx+b.W, by+b.H)
	}
	return rects
}

// Bounds returns the smallest rectangle holding every box at the origin,
// facing left.
func (h Hitbox) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, b := range h.Boxes {
		r = r.Union(image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H))
	}
	return r
}

// round converts a continuous coordinate to its pixel, rounding halves up.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
