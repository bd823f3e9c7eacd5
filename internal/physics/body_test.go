package physics

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"worms-world/internal/maps"
)

const tick = 100 * time.Millisecond

var (
	keyEmpty = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	keySolid = color.NRGBA{0x00, 0x00, 0x00, 0xFF}
)

// testMap builds a w x h map that is solid inside each of the given rects.
func testMap(t *testing.T, w, h int, solid ...image.Rectangle) *maps.Map {
	t.Helper()
	key := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(key, key.Bounds(), image.NewUniform(keyEmpty), image.Point{}, draw.Src)
	for _, r := range solid {
		draw.Draw(key, r, image.NewUniform(keySolid), image.Point{}, draw.Src)
	}
	m, err := maps.New(key, key)
	if err != nil {
		t.Fatalf("maps.New: %v", err)
	}
	return m
}

func square(n int) Hitbox {
	return Hitbox{Boxes: []Box{{0, 0, n, n}}, Width: n}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestHitboxRects(t *testing.T) {
	worm := Hitbox{
		Boxes: []Box{{0, 0, 11, 13}, {3, 12, 8, 1}, {3, 13, 14, 6}},
		Width: 20,
	}

	tests := []struct {
		name        string
		facingRight bool
		want        []image.Rectangle
	}{
		{"facing left", false, []image.Rectangle{
			image.Rect(100, 50, 111, 63),
			image.Rect(103, 62, 111, 63),
			image.Rect(103, 63, 117, 69),
		}},
		{"facing right", true, []image.Rectangle{
			image.Rect(109, 50, 120, 63),
			image.Rect(109, 62, 117, 63),
			image.Rect(103, 63, 117, 69),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := worm.Rects(100, 50, tt.facingRight)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rects, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("rect %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	if got := worm.Bounds(); got != image.Rect(0, 0, 17, 19) {
		t.Errorf("Bounds() = %v", got)
	}
	if got := (Hitbox{}).Rects(5, 5, true); got != nil {
		t.Errorf("empty hitbox Rects = %v, want nil", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0}, {0.49, 0}, {0.5, 1}, {2.5, 3}, {-0.5, 0}, {-0.51, -1}, {-2.5, -2}, {29.6, 30},
	}
	for _, tt := range tests {
		if got := round(tt.in); got != tt.want {
			t.Errorf("round(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRestingOnFloor(t *testing.T) {
	m := testMap(t, 60, 60, image.Rect(0, 40, 60, 60))
	b := NewBody(5, 30, Params{MaxVx: 30, MaxVy: 40, XFriction: 50, Gravity: 30}, square(10))

	if !b.IsGrounded(m, nil) {
		t.Fatal("body on the floor is not grounded")
	}
	for i := 0; i < 20; i++ {
		b.Tick(tick, m, nil)
		if b.Vy != 0 {
			t.Fatalf("tick %d: Vy = %v, want 0", i, b.Vy)
		}
		if b.X != 5 || b.Y != 30 {
			t.Fatalf("tick %d: position = (%v,%v), want (5,30)", i, b.X, b.Y)
		}
	}
}

func TestFallingBodySettles(t *testing.T) {
	m := testMap(t, 60, 60, image.Rect(0, 40, 60, 60))
	b := NewBody(5, 0, Params{MaxVx: 30, MaxVy: 40, XFriction: 50, Gravity: 30}, square(10))

	for i := 0; i < 200; i++ {
		b.Tick(tick, m, []*Body{b})
	}
	if got := b.Pos(); got != image.Pt(5, 30) {
		t.Errorf("settled at %v, want (5,30)", got)
	}
	if b.Vy != 0 {
		t.Errorf("Vy = %v, want 0", b.Vy)
	}
	if !b.IsGrounded(m, nil) {
		t.Error("settled body is not grounded")
	}
	if b.CollidesWithMap(m) {
		t.Error("settled body overlaps the floor")
	}
}

func TestJumpCharges(t *testing.T) {
	b := NewBody(0, 0, Params{MaxVy: 40}, square(4))
	if b.Jumps() != MaxJumps {
		t.Fatalf("new body has %d jumps, want %d", b.Jumps(), MaxJumps)
	}

	b.Jump()
	if b.Jumps() != 1 || b.Vy != -JumpImpulse {
		t.Fatalf("after one jump: jumps=%d Vy=%v", b.Jumps(), b.Vy)
	}
	b.Jump()
	if b.Jumps() != 0 || b.Vy != -2*JumpImpulse {
		t.Fatalf("after two jumps: jumps=%d Vy=%v", b.Jumps(), b.Vy)
	}
	b.Jump()
	if b.Jumps() != 0 || b.Vy != -2*JumpImpulse {
		t.Errorf("third jump changed state: jumps=%d Vy=%v", b.Jumps(), b.Vy)
	}

	b.RestoreJumps()
	if b.Jumps() != MaxJumps {
		t.Errorf("RestoreJumps left %d jumps", b.Jumps())
	}
}

func TestThinWallStopsFastBody(t *testing.T) {
	m := testMap(t, 100, 20, image.Rect(50, 0, 51, 20))
	b := NewBody(40, 5, Params{MaxVx: 1000, MaxVy: 1000}, square(4))
	b.Jump()
	b.Jump()
	b.Vx = 500
	b.Vy = 5

	b.Tick(tick, m, nil)

	if b.X != 40 || b.Y != 5 {
		t.Errorf("position = (%v,%v), want rollback to (40,5)", b.X, b.Y)
	}
	if b.Vx != 0 || b.Ax != 0 {
		t.Errorf("x axis not stopped: Vx=%v Ax=%v", b.Vx, b.Ax)
	}
	if b.Vy != 5 {
		t.Errorf("Vy = %v, want 5 (y did not change at the hit point)", b.Vy)
	}
	if b.Jumps() != MaxJumps {
		t.Errorf("jumps = %d, want %d", b.Jumps(), MaxJumps)
	}
}

func TestOpenPathEndsOnLastPixel(t *testing.T) {
	m := testMap(t, 100, 20)

	tests := []struct {
		name         string
		vx, vy       float64
		wantX, wantY float64
	}{
		{"long move snaps", 503, 5, 90, 6},
		{"sub-pixel move stays continuous", 3, 2, 40.3, 5.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBody(40, 5, Params{MaxVx: 1000, MaxVy: 1000}, square(4))
			b.Vx = tt.vx
			b.Vy = tt.vy

			b.Tick(tick, m, nil)

			if !near(b.X, tt.wantX) || !near(b.Y, tt.wantY) {
				t.Errorf("position = (%v,%v), want (%v,%v)", b.X, b.Y, tt.wantX, tt.wantY)
			}
			if x, y := b.OldPos(); x != 40 || y != 5 {
				t.Errorf("OldPos() = (%v,%v), want (40,5)", x, y)
			}
		})
	}
}

func TestLandingStopsOnlyY(t *testing.T) {
	m := testMap(t, 40, 20, image.Rect(0, 16, 40, 20))
	b := NewBody(10, 10, Params{MaxVx: 30, MaxVy: 40, Gravity: 30}, square(4))
	b.Vy = 40

	b.Tick(tick, m, nil)

	if b.Y != 10 {
		t.Errorf("Y = %v, want rollback to 10", b.Y)
	}
	if b.Vy != 0 || b.Ay != 0 {
		t.Errorf("y axis not stopped: Vy=%v Ay=%v", b.Vy, b.Ay)
	}
}

func TestZeroDelta(t *testing.T) {
	m := testMap(t, 40, 40)
	b := NewBody(10, 10, Params{MaxVx: 30, MaxVy: 40, XFriction: 50, Gravity: 30}, square(4))
	b.Vx = 7
	b.Vy = -3

	b.Tick(0, m, nil)

	if b.X != 10 || b.Y != 10 || b.Vx != 7 || b.Vy != -3 {
		t.Errorf("state changed on zero tick: pos=(%v,%v) v=(%v,%v)", b.X, b.Y, b.Vx, b.Vy)
	}
}

func TestTransparentBody(t *testing.T) {
	m := testMap(t, 40, 40, image.Rect(0, 0, 40, 40))
	b := NewBody(10, 10, Params{MaxVx: 100, MaxVy: 100, Gravity: 30, Transparent: true}, square(4))

	if b.CollidesWithMap(m) {
		t.Error("transparent body collides with the map")
	}
	if b.IsGrounded(m, nil) || b.OnMapGround(m) {
		t.Error("transparent body is grounded")
	}

	b.Vx = 100
	b.Tick(tick, m, nil)
	if !near(b.X, 20) {
		t.Errorf("X = %v, want 20 (passes through rock)", b.X)
	}
	if !near(b.Vy, 3) {
		t.Errorf("Vy = %v, want 3 (gravity always applies)", b.Vy)
	}
}

func TestFrictionAndClamp(t *testing.T) {
	m := testMap(t, 400, 40)
	p := Params{MaxVx: 30, MaxVy: 40, XFriction: 50}

	tests := []struct {
		name string
		vx   float64
		want []float64
	}{
		{"decays to zero", 10, []float64{5, 0, 0}},
		{"negative decays to zero", -10, []float64{-5, 0, 0}},
		{"clamped first", 100, []float64{25, 20, 15}},
		{"negative clamped", -100, []float64{-25, -20, -15}},
		{"never crosses zero", 2, []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBody(200, 10, p, square(4))
			b.Vx = tt.vx
			for i, want := range tt.want {
				b.Tick(tick, m, nil)
				if !near(b.Vx, want) {
					t.Fatalf("tick %d: Vx = %v, want %v", i, b.Vx, want)
				}
			}
		})
	}
}

func TestVyClamp(t *testing.T) {
	m := testMap(t, 40, 4000)
	b := NewBody(10, 0, Params{MaxVx: 30, MaxVy: 40, Gravity: 30}, square(4))
	for i := 0; i < 50; i++ {
		b.Tick(tick, m, nil)
		if b.Vy > 40 {
			t.Fatalf("tick %d: Vy = %v exceeds 40", i, b.Vy)
		}
	}
	if b.Vy != 40 {
		t.Errorf("terminal Vy = %v, want 40", b.Vy)
	}
}

func TestMoveSetsFacing(t *testing.T) {
	b := NewBody(0, 0, Params{}, square(4))
	b.Move(true)
	if !b.FacingRight || b.Vx != MoveImpulse {
		t.Errorf("Move(right): facing=%v Vx=%v", b.FacingRight, b.Vx)
	}
	b.Move(false)
	b.Move(false)
	if b.FacingRight || b.Vx != -MoveImpulse {
		t.Errorf("Move(left) twice: facing=%v Vx=%v", b.FacingRight, b.Vx)
	}

	b.Ax, b.Ay, b.Vy = 1, 2, 3
	b.Stop()
	if b.Vx != 0 || b.Vy != 0 || b.Ax != 0 || b.Ay != 0 {
		t.Errorf("Stop left motion: %+v", b)
	}
}

func TestFollow(t *testing.T) {
	b := NewBody(0, 0, Params{}, square(4))
	target := NewBody(30, 40, Params{}, square(4))

	b.Follow(target, 10)
	if !near(b.Vx, 6) || !near(b.Vy, 8) {
		t.Errorf("Follow velocity = (%v,%v), want (6,8)", b.Vx, b.Vy)
	}

	same := NewBody(30, 40, Params{}, square(4))
	same.Vx, same.Vy = 3, 3
	same.Follow(target, 10)
	if same.Vx != 0 || same.Vy != 0 {
		t.Errorf("Follow at zero distance = (%v,%v), want (0,0)", same.Vx, same.Vy)
	}

	if !b.IsLeftOf(target) || b.IsRightOf(target) {
		t.Error("IsLeftOf/IsRightOf disagree with positions")
	}
}

func TestBodyCollision(t *testing.T) {
	a := NewBody(10, 10, Params{}, square(4))

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"same place", 10, 10, true},
		{"two column overlap", 12, 10, true},
		{"one shared column", 13, 10, false},
		{"one shared row", 10, 13, false},
		{"touching edge", 14, 10, false},
		{"touching below", 10, 14, false},
		{"diagonal overlap", 12.4, 12.4, true},
		{"far away", 40, 40, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewBody(tt.x, tt.y, Params{}, square(4))
			if got := a.CollidesWithBody(o); got != tt.want {
				t.Errorf("CollidesWithBody = %v, want %v", got, tt.want)
			}
			if got := a.CollidesWithAny([]*Body{a, o}); got != tt.want {
				t.Errorf("CollidesWithAny = %v, want %v", got, tt.want)
			}
		})
	}

	if a.CollidesWithBody(a) {
		t.Error("body collides with itself")
	}

	left := NewBody(0, 0, Params{}, square(10))
	right := NewBody(9, 0, Params{}, square(10))
	if left.CollidesWithBody(right) || right.CollidesWithBody(left) {
		t.Error("bodies sharing one column collide")
	}
}

func TestPeerBlocksAndSupports(t *testing.T) {
	m := testMap(t, 100, 100)
	mover := NewBody(10, 10, Params{MaxVx: 100, MaxVy: 100}, square(4))
	wall := NewBody(20, 10, Params{}, square(4))
	peers := []*Body{mover, wall}

	mover.Vx = 100
	mover.Tick(tick, m, peers)
	if mover.X != 10 || mover.Vx != 0 {
		t.Errorf("mover passed through a peer: X=%v Vx=%v", mover.X, mover.Vx)
	}

	tests := []struct {
		name string
		y    float64
		want bool
	}{
		{"edge to edge", 6, false},
		{"sunk one pixel", 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rider := NewBody(20, tt.y, Params{}, square(4))
			peers := []*Body{rider, wall}
			if rider.CollidesWith(m, peers) {
				t.Fatalf("rider at y=%v overlaps the peer", tt.y)
			}
			if got := rider.IsGrounded(m, peers); got != tt.want {
				t.Errorf("IsGrounded = %v, want %v", got, tt.want)
			}
			if rider.OnMapGround(m) {
				t.Error("OnMapGround counts peers")
			}
		})
	}
}

func TestPlaceRandomly(t *testing.T) {
	m := testMap(t, 40, 40, image.Rect(0, 30, 40, 40))
	rng := rand.New(rand.NewPCG(1, 2))
	other := NewBody(0, 26, Params{}, square(4))

	for i := 0; i < 20; i++ {
		b := NewBody(-50, -50, Params{}, square(4))
		if err := b.PlaceRandomly(rng, m, []*Body{other}); err != nil {
			t.Fatalf("PlaceRandomly: %v", err)
		}
		if b.CollidesWith(m, []*Body{other}) {
			t.Fatalf("placed at %v colliding", b.Pos())
		}
		if !b.OnMapGround(m) {
			t.Fatalf("placed at %v off the ground", b.Pos())
		}
		if b.Pos().Y != 26 {
			t.Fatalf("placed at y=%d, want 26", b.Pos().Y)
		}
	}

	floater := NewBody(-50, -50, Params{Transparent: true}, square(4))
	if err := floater.PlaceRandomly(rng, m, nil); err != nil {
		t.Fatalf("transparent PlaceRandomly: %v", err)
	}
	if !floater.Pos().In(m.Bounds()) {
		t.Errorf("transparent body placed off the map at %v", floater.Pos())
	}
}

func TestPlaceRandomlyNoRoom(t *testing.T) {
	m := testMap(t, 20, 20, image.Rect(0, 0, 20, 20))
	rng := rand.New(rand.NewPCG(3, 4))
	b := NewBody(-50, -50, Params{}, square(4))

	err := b.PlaceRandomly(rng, m, nil)
	if !errors.Is(err, ErrNoPlacement) {
		t.Fatalf("err = %v, want ErrNoPlacement", err)
	}
	if b.X != -50 || b.Y != -50 {
		t.Errorf("position after failure = (%v,%v), want (-50,-50)", b.X, b.Y)
	}
}
