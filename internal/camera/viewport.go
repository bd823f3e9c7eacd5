// Package camera holds the viewport that selects which part of a map is
// shown. A Viewport is shared between the tick driver and input handlers,
// so every method locks it.
package camera

import (
	"image"
	"math"
	"sync"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// MinZoomDivisor bounds zooming in: the view never gets smaller than the
// map size divided by this value.
const MinZoomDivisor = 16

// glide holds the tweens of an eased move of the view's top-left corner.
type glide struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport is a rectangular view clamped inside [0,maxX]x[0,maxY].
type Viewport struct {
	mu sync.Mutex

	x, y          int
	width, height int
	maxX, maxY    int

	glide *glide
}

// New returns a viewport over a mapW x mapH map showing a quarter of it,
// anchored at the top-left corner.
func New(mapW, mapH int) *Viewport {
	return &Viewport{
		maxX:   mapW - 1,
		maxY:   mapH - 1,
		width:  mapW / 2,
		height: mapH / 2,
	}
}

// Region returns the visible part of the map.
func (v *Viewport) Region() image.Rectangle {
	v.mu.Lock()
	defer v.mu.Unlock()
	return image.Rect(v.x, v.y, v.x+v.width, v.y+v.height)
}

// SetX moves the view's left edge, clamped so the view stays on the map.
func (v *Viewport) SetX(x int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setX(x)
}

// SetY moves the view's top edge, clamped so the view stays on the map.
func (v *Viewport) SetY(y int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setY(y)
}

func (v *Viewport) setX(x int) {
	v.x = x
	if v.x < 0 {
		v.x = 0
	} else if v.x+v.width-1 > v.maxX {
		v.x = v.maxX - v.width + 1
	}
}

func (v *Viewport) setY(y int) {
	v.y = y
	if v.y < 0 {
		v.y = 0
	} else if v.y+v.height-1 > v.maxY {
		v.y = v.maxY - v.height + 1
	}
}

// Pan shifts the view by dx,dy and cancels any glide in progress.
func (v *Viewport) Pan(dx, dy int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.glide = nil
	v.setX(v.x + dx)
	v.setY(v.y + dy)
}

// Zoom multiplies the view size by scale. Scales below 1 zoom in, above 1
// zoom out. It returns false and changes nothing when the new size would
// exceed the map or drop below 1/MinZoomDivisor of it.
func (v *Viewport) Zoom(scale float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	maxWidth := v.maxX + 1
	maxHeight := v.maxY + 1
	minWidth := maxWidth / MinZoomDivisor
	minHeight := maxHeight / MinZoomDivisor

	w := float64(v.width) * scale
	h := float64(v.height) * scale
	if w > float64(maxWidth) || w < float64(minWidth) ||
		h > float64(maxHeight) || h < float64(minHeight) {
		return false
	}

	v.width = int(w)
	v.height = int(h)

	// A larger view may now hang over the right or bottom edge
	for v.x+v.width-1 > v.maxX {
		v.x--
	}
	for v.y+v.height-1 > v.maxY {
		v.y--
	}
	return true
}

// CenterOn places the view's center on x,y immediately.
func (v *Viewport) CenterOn(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.glide = nil
	v.setX(int(math.Round(x - float64(v.width/2))))
	v.setY(int(math.Round(y - float64(v.height/2))))
}

// GlideTo eases the view's center towards x,y over the given number of
// seconds. The motion advances in Update.
func (v *Viewport) GlideTo(x, y float64, seconds float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if seconds <= 0 {
		v.glide = nil
		v.setX(int(math.Round(x - float64(v.width/2))))
		v.setY(int(math.Round(y - float64(v.height/2))))
		return
	}
	tx := float32(x - float64(v.width/2))
	ty := float32(y - float64(v.height/2))
	v.glide = &glide{
		tweenX: gween.New(float32(v.x), tx, seconds, ease.OutQuad),
		tweenY: gween.New(float32(v.y), ty, seconds, ease.OutQuad),
	}
}

// Gliding reports whether a GlideTo is still in progress.
func (v *Viewport) Gliding() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.glide != nil
}

// Update advances a glide by dt seconds.
func (v *Viewport) Update(dt float32) {
	v.mu.Lock()
	defer v.mu.Unlock()

	g := v.glide
	if g == nil {
		return
	}
	if !g.doneX {
		val, done := g.tweenX.Update(dt)
		v.setX(int(math.Round(float64(val))))
		g.doneX = done
	}
	if !g.doneY {
		val, done := g.tweenY.Update(dt)
		v.setY(int(math.Round(float64(val))))
		g.doneY = done
	}
	if g.doneX && g.doneY {
		v.glide = nil
	}
}
