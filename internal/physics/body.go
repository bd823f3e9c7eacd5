// Package physics moves axis-aligned bodies across a pixel map. Each tick
// integrates velocity, rasterizes the path from the old to the new
// position and walks it pixel by pixel, so fast bodies cannot tunnel
// through thin walls.
package physics

import (
	"image"
	"math"
	"time"

	"worms-world/internal/maps"
	"worms-world/internal/raster"
)

const (
	// MaxJumps is how many jumps a body can chain before touching something.
	MaxJumps = 2
	// MoveImpulse is the x velocity added by Move.
	MoveImpulse = 30
	// JumpImpulse is the upward velocity added by Jump.
	JumpImpulse = 40
)

// Params are the per-kind motion limits of a body.
type Params struct {
	MaxVx     float64 // |Vx| clamp
	MaxVy     float64 // |Vy| clamp
	XFriction float64 // x deceleration towards zero, per second
	Gravity   float64 // y acceleration while airborne
	// Transparent bodies ignore the map: they never collide with it and
	// are never grounded.
	Transparent bool
}

// Body is a rigid, axis-aligned body with continuous position, velocity
// and acceleration.
type Body struct {
	Params
	Hitbox Hitbox

	X, Y   float64
	Vx, Vy float64
	Ax, Ay float64

	FacingRight bool

	oldX, oldY float64
	jumps      int
}

// NewBody creates a body at x,y with full jump charges.
func NewBody(x, y float64, p Params, hb Hitbox) *Body {
	return &Body{
		Params: p,
		Hitbox: hb,
		X:      x,
		Y:      y,
		oldX:   x,
		oldY:   y,
		jumps:  MaxJumps,
	}
}

// Pos returns the body's rounded pixel position.
func (b *Body) Pos() image.Point {
	return image.Pt(round(b.X), round(b.Y))
}

// OldPos returns the position before the most recent move.
func (b *Body) OldPos() (x, y float64) {
	return b.oldX, b.oldY
}

// SetPosition teleports the body, remembering the previous position.
func (b *Body) SetPosition(x, y float64) {
	b.oldX, b.oldY = b.X, b.Y
	b.X, b.Y = x, y
}

// Jumps returns the remaining jump charges.
func (b *Body) Jumps() int {
	return b.jumps
}

// Rects returns the body's collision rectangles at its current position.
func (b *Body) Rects() []image.Rectangle {
	p := b.Pos()
	return b.Hitbox.Rects(p.X, p.Y, b.FacingRight)
}

func (b *Body) rectsAt(p image.Point) []image.Rectangle {
	return b.Hitbox.Rects(p.X, p.Y, b.FacingRight)
}

// Tick advances the body by dt against the map and the given peers. The
// peer list may contain the body itself.
func (b *Body) Tick(dt time.Duration, m *maps.Map, peers []*Body) {
	b.oldX, b.oldY = b.X, b.Y
	s := dt.Seconds()

	b.Vx = clamp(b.Vx+b.Ax*s, b.MaxVx)
	if b.Vx > 0 {
		b.Vx = math.Max(0, b.Vx-b.XFriction*s)
	} else if b.Vx < 0 {
		b.Vx = math.Min(0, b.Vx+b.XFriction*s)
	}

	// Grounded bodies keep whatever vertical acceleration they had
	if !b.IsGrounded(m, peers) {
		b.Ay = b.Gravity
	}
	b.Vy = clamp(b.Vy+b.Ay*s, b.MaxVy)

	b.X += b.Vx * s
	b.Y += b.Vy * s

	b.resolve(m, peers)
}

// resolve walks the rasterized path from the old to the new position.
// The first colliding pixel stops the axes that moved and puts the body
// back where it started the tick. A clear path leaves the body on its last
// pixel; a move within one pixel keeps the integrated position.
func (b *Body) resolve(m *maps.Map, peers []*Body) {
	start := image.Pt(round(b.oldX), round(b.oldY))
	end := b.Pos()
	path := raster.Line(start, end)
	if len(path) <= 1 {
		return
	}

	for _, p := range path[1:] {
		if !b.collidesAt(p, m, peers) {
			continue
		}
		if p.X != start.X {
			b.StopX()
		}
		if p.Y != start.Y {
			b.StopY()
		}
		b.X, b.Y = b.oldX, b.oldY
		b.RestoreJumps()
		return
	}
	b.X, b.Y = float64(end.X), float64(end.Y)
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// StopX zeroes the x velocity and acceleration.
func (b *Body) StopX() {
	b.Vx = 0
	b.Ax = 0
}

// StopY zeroes the y velocity and acceleration.
func (b *Body) StopY() {
	b.Vy = 0
	b.Ay = 0
}

// Stop zeroes velocity and acceleration on both axes.
func (b *Body) Stop() {
	b.StopX()
	b.StopY()
}

// Move pushes the body left or right and turns it that way.
func (b *Body) Move(right bool) {
	if right {
		b.Vx += MoveImpulse
	} else {
		b.Vx -= MoveImpulse
	}
	b.FacingRight = right
}

// Jump pushes the body upwards if it has a jump charge left.
func (b *Body) Jump() {
	if b.jumps > 0 {
		b.Vy -= JumpImpulse
		b.jumps--
	}
}

// RestoreJumps refills the jump charges.
func (b *Body) RestoreJumps() {
	b.jumps = MaxJumps
}

// Follow points the body's velocity at target with the given speed. A
// body already on top of its target stops.
func (b *Body) Follow(target *Body, speed float64) {
	dx := target.X - b.X
	dy := target.Y - b.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		b.Vx, b.Vy = 0, 0
		return
	}
	b.Vx = speed * dx / dist
	b.Vy = speed * dy / dist
}

// IsLeftOf reports whether the body is strictly left of o.
func (b *Body) IsLeftOf(o *Body) bool {
	return b.X < o.X
}

// IsRightOf reports whether the body is strictly right of o.
func (b *Body) IsRightOf(o *Body) bool {
	return b.X > o.X
}

// Below reports whether the body has fallen past maxY.
func (b *Body) Below(maxY int) bool {
	return b.Y > float64(maxY)
}
