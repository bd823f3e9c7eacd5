package physics

import (
	"errors"
	"fmt"
	"image"

	"worms-world/internal/maps"
)

// MaxPlacementAttempts bounds the rejection sampling in PlaceRandomly.
const MaxPlacementAttempts = 200_000

// ErrNoPlacement is returned when PlaceRandomly runs out of attempts.
var ErrNoPlacement = errors.New("no valid placement found")

// Rand is the source of randomness for placement. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// CollidesWithMap reports whether any of the body's rectangles covers a
// tangible pixel. Transparent bodies never collide with the map.
func (b *Body) CollidesWithMap(m *maps.Map) bool {
	return b.collidesWithMapAt(b.Pos(), m)
}

// CollidesWithBody reports whether the body overlaps o by at least two
// pixels on both axes. A body never collides with itself.
func (b *Body) CollidesWithBody(o *Body) bool {
	return b.collidesWithBodyAt(b.Pos(), o)
}

// CollidesWithAny reports whether the body overlaps any of the peers.
func (b *Body) CollidesWithAny(peers []*Body) bool {
	p := b.Pos()
	for _, o := range peers {
		if b.collidesWithBodyAt(p, o) {
			return true
		}
	}
	return false
}

// CollidesWith reports whether the body hits the map or any peer.
func (b *Body) CollidesWith(m *maps.Map, peers []*Body) bool {
	return b.collidesAt(b.Pos(), m, peers)
}

// IsGrounded reports whether the body rests on the map or on a peer, by
// testing one pixel below its current position.
func (b *Body) IsGrounded(m *maps.Map, peers []*Body) bool {
	if b.Transparent {
		return false
	}
	return b.collidesAt(b.Pos().Add(image.Pt(0, 1)), m, peers)
}

// OnMapGround is IsGrounded without peers.
func (b *Body) OnMapGround(m *maps.Map) bool {
	if b.Transparent {
		return false
	}
	return b.collidesWithMapAt(b.Pos().Add(image.Pt(0, 1)), m)
}

// PlaceRandomly samples uniform pixel positions on the map until the body
// neither collides with the map nor with peers and, unless transparent,
// stands on map ground. After MaxPlacementAttempts failures the body is
// put back where it was and ErrNoPlacement is returned.
func (b *Body) PlaceRandomly(rng Rand, m *maps.Map, peers []*Body) error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("empty map: %w", ErrNoPlacement)
	}
	x0, y0 := b.X, b.Y
	for i := 0; i < MaxPlacementAttempts; i++ {
		b.SetPosition(float64(rng.IntN(m.Width)), float64(rng.IntN(m.Height)))
		if b.CollidesWith(m, peers) {
			continue
		}
		if b.Transparent || b.OnMapGround(m) {
			return nil
		}
	}
	b.X, b.Y = x0, y0
	b.oldX, b.oldY = x0, y0
	return fmt.Errorf("after %d attempts: %w", MaxPlacementAttempts, ErrNoPlacement)
}

func (b *Body) collidesAt(p image.Point, m *maps.Map, peers []*Body) bool {
	if b.collidesWithMapAt(p, m) {
		return true
	}
	for _, o := range peers {
		if b.collidesWithBodyAt(p, o) {
			return true
		}
	}
	return false
}

func (b *Body) collidesWithMapAt(p image.Point, m *maps.Map) bool {
	if b.Transparent || m == nil {
		return false
	}
	for _, r := range b.rectsAt(p) {
		if m.CollidesWith(r) {
			return true
		}
	}
	return false
}

func (b *Body) collidesWithBodyAt(p image.Point, o *Body) bool {
	if o == nil || o == b {
		return false
	}
	mine := b.rectsAt(p)
	theirs := o.Rects()
	for _, r := range mine {
		for _, s := range theirs {
			if intersects(r, s) {
				return true
			}
		}
	}
	return false
}

// intersects reports whether r and s share more than one row and more than
// one column. Rectangles overlapping by a single pixel line do not touch.
func intersects(r, s image.Rectangle) bool {
	return r.Min.X < s.Max.X-1 && s.Min.X < r.Max.X-1 &&
		r.Min.Y < s.Max.Y-1 && s.Min.Y < r.Max.Y-1
}
