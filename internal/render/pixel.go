package render

import (
	"image"
	"image/color"
)

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

// upperHalf draws the top pixel of a cell as foreground and the bottom
// one as background, giving two square-ish pixels per terminal cell.
const upperHalf = '▀'

// halfBlock packs two vertically stacked pixels into one cell.
func halfBlock(top, bottom RGB) Cell {
	return Cell{Ch: upperHalf, Fg: top, Bg: bottom}
}

// Colors drawn when a map has no pixel to show.
var (
	skyColor   = RGB{20, 24, 40}
	flakeColor = RGB{250, 250, 255}
)

// rgbOf converts c to RGB. The bool is false for mostly transparent colors.
func rgbOf(c color.Color) (RGB, bool) {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return RGB{}, false
	}
	// Undo alpha premultiplication for partially transparent pixels
	if a != 0xFFFF {
		r = r * 0xFFFF / a
		g = g * 0xFFFF / a
		b = b * 0xFFFF / a
	}
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}, true
}

// mapPixel samples the map graphics at x,y, falling back to the
// background image and then to the sky color where graphics are
// transparent.
func mapPixel(gfx, bg image.Image, x, y int) RGB {
	if gfx != nil {
		b := gfx.Bounds()
		if c, ok := rgbOf(gfx.At(b.Min.X+x, b.Min.Y+y)); ok {
			return c
		}
	}
	if bg != nil {
		b := bg.Bounds()
		if c, ok := rgbOf(bg.At(b.Min.X+x, b.Min.Y+y)); ok {
			return c
		}
	}
	return skyColor
}
