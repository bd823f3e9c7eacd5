package game

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"testing"
	"time"

	"worms-world/internal/maps"
	"worms-world/internal/physics"
)

// floorMap is a 200x100 map with a solid floor from y=90 down.
func floorMap(t *testing.T) *maps.Map {
	t.Helper()
	key := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(key, key.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(key, image.Rect(0, 90, 200, 100), image.NewUniform(color.Black), image.Point{}, draw.Src)
	m, err := maps.New(key, key)
	if err != nil {
		t.Fatalf("maps.New: %v", err)
	}
	return m
}

// stage builds a game on floorMap with a known layout: the worm standing
// at x=20, the flag far right, the boo in the top right corner and no
// coins or stars.
func stage(t *testing.T) *Game {
	t.Helper()
	g, err := New(floorMap(t), LevelCustom, rand.New(rand.NewPCG(7, 7)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.hero.SetPosition(20, 90-WormHeight)
	g.hero.Stop()
	g.flag.SetPosition(150, 90-FlagHeight)
	g.boo.SetPosition(170, 0)
	g.coins = nil
	g.stars = nil
	return g
}

func TestNewPlacesEverything(t *testing.T) {
	tests := []struct {
		level    Level
		minCoins int
		maxCoins int
		limit    time.Duration
	}{
		{LevelCustom, 3, 22, 180 * time.Second},
		{LevelShip, 3, 22, 180 * time.Second},
		{LevelTycoon, 10, 39, 300 * time.Second},
		{LevelJapan, 10, 39, 300 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			m := maps.DefaultMap()
			g, err := New(m, tt.level, rand.New(rand.NewPCG(1, uint64(tt.level))))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if g.Remaining() != tt.limit {
				t.Errorf("Remaining() = %v, want %v", g.Remaining(), tt.limit)
			}
			if n := len(g.coins); n < tt.minCoins || n > tt.maxCoins {
				t.Errorf("%d coins, want %d..%d", n, tt.minCoins, tt.maxCoins)
			}
			if len(g.stars) != len(m.Cells(maps.Special)) {
				t.Errorf("%d stars, want one per special pixel", len(g.stars))
			}

			for _, e := range []*Entity{g.hero, g.flag} {
				if e.CollidesWithMap(m) || !e.OnMapGround(m) {
					t.Errorf("%s placed badly at %v", e.Kind, e.Pos())
				}
			}
			for _, c := range g.coins {
				if c.CollidesWithMap(m) || !c.OnMapGround(m) {
					t.Errorf("coin placed badly at %v", c.Pos())
				}
				if c.CollidesWithAny([]*physics.Body{g.hero.Body, g.flag.Body, g.boo.Body}) {
					t.Errorf("coin at %v overlaps a body", c.Pos())
				}
			}
			if g.hero.CollidesWithBody(g.boo.Body) || g.hero.CollidesWithBody(g.flag.Body) {
				t.Error("hero placed on top of the boo or the flag")
			}
		})
	}
}

func TestNewFailsWithoutRoom(t *testing.T) {
	key := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	draw.Draw(key, key.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	m, err := maps.New(key, key)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(m, LevelCustom, rand.New(rand.NewPCG(1, 1)))
	if !errors.Is(err, physics.ErrNoPlacement) {
		t.Fatalf("err = %v, want ErrNoPlacement", err)
	}
}

func TestTimeUp(t *testing.T) {
	g := stage(t)
	g.remaining = 150 * time.Millisecond

	if ev := g.Tick(TickInterval); len(ev) != 0 {
		t.Fatalf("first tick events = %v", ev)
	}
	ev := g.Tick(TickInterval)
	if len(ev) != 1 || ev[0] != EventLossTimeUp {
		t.Fatalf("events = %v, want [time up]", ev)
	}
	if !g.Over() || g.Outcome() != EventLossTimeUp || g.Remaining() != 0 {
		t.Errorf("over=%v outcome=%v remaining=%v", g.Over(), g.Outcome(), g.Remaining())
	}
	if ev := g.Tick(TickInterval); ev != nil {
		t.Errorf("tick after the end returned %v", ev)
	}
}

func TestWin(t *testing.T) {
	g := stage(t)
	g.score = 3
	// Flag pole covers x 24..34, over the worm's head
	g.flag.SetPosition(-5, 90-FlagHeight)

	ev := g.Tick(TickInterval)
	if len(ev) != 1 || ev[0] != EventWin {
		t.Fatalf("events = %v, want [win]", ev)
	}
	if got, want := g.FinalScore(), 3*179; got != want {
		t.Errorf("FinalScore() = %d, want %d", got, want)
	}
}

func TestCaughtByBoo(t *testing.T) {
	g := stage(t)
	g.boo.SetPosition(g.hero.X, g.hero.Y)

	ev := g.Tick(TickInterval)
	if len(ev) != 1 || ev[0] != EventLossEnemy {
		t.Fatalf("events = %v, want [caught]", ev)
	}
	if g.FinalScore() != 0 {
		t.Errorf("FinalScore() = %d after a loss", g.FinalScore())
	}
}

func TestFallOffMap(t *testing.T) {
	g := stage(t)
	g.hero.SetPosition(20, 120)

	ev := g.Tick(TickInterval)
	if len(ev) != 1 || ev[0] != EventLossOutOfBounds {
		t.Fatalf("events = %v, want [fell off]", ev)
	}
}

func TestCollectCoins(t *testing.T) {
	g := stage(t)
	far := NewCoin(100, 90-CoinHeight, false)
	g.coins = []*Entity{
		NewCoin(22, 75, true),
		NewCoin(25, 75, false),
		far,
	}

	ev := g.Tick(TickInterval)
	if len(ev) != 2 || ev[0] != EventScoreUpdate || ev[1] != EventScoreUpdate {
		t.Fatalf("events = %v, want two score updates", ev)
	}
	if g.Score() != RedCoinValue+YellowCoinValue {
		t.Errorf("Score() = %d, want %d", g.Score(), RedCoinValue+YellowCoinValue)
	}
	if len(g.coins) != 1 || g.coins[0] != far {
		t.Errorf("remaining coins = %d, want only the far one", len(g.coins))
	}
}

func TestStarRestoresJumps(t *testing.T) {
	g := stage(t)
	star := NewStar(20, 75)
	g.stars = []*Entity{star}
	g.hero.Jump()
	g.hero.Jump()
	g.hero.Stop()

	g.Tick(TickInterval)
	if g.hero.Jumps() != physics.MaxJumps {
		t.Errorf("jumps = %d after touching a star, want %d", g.hero.Jumps(), physics.MaxJumps)
	}
	if star.Visible() {
		t.Fatal("star still visible after being touched")
	}
	for _, b := range g.Snapshot(1, nil).Bodies {
		if b.Kind == KindStar {
			t.Error("hidden star in snapshot")
		}
	}

	g.hero.SetPosition(100, 90-WormHeight)
	ticks := int(StarHiddenFor/TickInterval) - 2
	for i := 0; i < ticks; i++ {
		g.Tick(TickInterval)
	}
	if star.Visible() {
		t.Fatal("star came back too early")
	}
	g.Tick(TickInterval)
	if !star.Visible() {
		t.Error("star did not come back")
	}
}

func TestControls(t *testing.T) {
	g := stage(t)

	g.SetMoving(true, true)
	g.Tick(TickInterval)
	if !g.hero.FacingRight || g.hero.Vx != 25 {
		t.Errorf("after holding right: facing=%v Vx=%v, want true 25", g.hero.FacingRight, g.hero.Vx)
	}
	g.SetMoving(false, true)
	vx := g.hero.Vx
	g.Tick(TickInterval)
	if g.hero.Vx >= vx {
		t.Errorf("holding both directions should not push: Vx %v -> %v", vx, g.hero.Vx)
	}
	g.SetMoving(true, false)
	g.SetMoving(false, false)

	g.SetZoom(true, true)
	g.Tick(TickInterval)
	if r := g.View.Region(); r.Dx() != 80 || r.Dy() != 40 {
		t.Errorf("after zoom in region = %v, want 80x40", r)
	}
	g.SetZoom(true, false)
	g.SetZoom(false, true)
	g.Tick(TickInterval)
	if r := g.View.Region(); r.Dx() != 96 || r.Dy() != 48 {
		t.Errorf("after zoom out region = %v, want 96x48", r)
	}
	g.SetZoom(false, false)

	g.PanCamera(500, 500)
	if r := g.View.Region(); r.Max.X != 200 || r.Max.Y != 100 {
		t.Errorf("pan did not reach the corner: %v", r)
	}

	g.CenterCamera()
	if !g.View.Gliding() {
		t.Error("CenterCamera did not start a glide")
	}
	for i := 0; i < 10; i++ {
		g.Tick(TickInterval)
	}
	if r := g.View.Region(); r.Min.X != 0 {
		t.Errorf("camera did not glide to the worm: %v", r)
	}
}

func TestJump(t *testing.T) {
	g := stage(t)
	g.Jump()
	if g.hero.Jumps() != physics.MaxJumps-1 || g.hero.Vy != -physics.JumpImpulse {
		t.Errorf("jumps=%d Vy=%v", g.hero.Jumps(), g.hero.Vy)
	}
}

func TestFinalScore(t *testing.T) {
	tests := []struct {
		name      string
		coins     int
		remaining time.Duration
		outcome   Event
		want      int
	}{
		{"win", 10, 59900 * time.Millisecond, EventWin, 590},
		{"win under a second", 10, 500 * time.Millisecond, EventWin, 0},
		{"no coins", 0, 30 * time.Second, EventWin, 0},
		{"caught", 10, 30 * time.Second, EventLossEnemy, 0},
		{"time up", 10, 0, EventLossTimeUp, 0},
		{"still running", 10, 30 * time.Second, EventNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FinalScore(tt.coins, tt.remaining, tt.outcome); got != tt.want {
				t.Errorf("FinalScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	g := stage(t)
	g.coins = []*Entity{NewCoin(100, 74, true)}
	events := []Event{EventScoreUpdate}

	s := g.Snapshot(9, events)
	events[0] = EventWin

	if s.Tick != 9 || s.Events[0] != EventScoreUpdate {
		t.Errorf("snapshot tick/events = %d/%v", s.Tick, s.Events)
	}
	if s.View != g.View.Region() {
		t.Errorf("View = %v, want %v", s.View, g.View.Region())
	}
	want := []Kind{KindCoin, KindFlag, KindBoo, KindWorm}
	if len(s.Bodies) != len(want) {
		t.Fatalf("%d bodies, want %d", len(s.Bodies), len(want))
	}
	for i, k := range want {
		if s.Bodies[i].Kind != k {
			t.Errorf("body %d is %v, want %v", i, s.Bodies[i].Kind, k)
		}
	}
	if !s.Bodies[0].Red || s.Bodies[3].Pos != image.Pt(20, 71) {
		t.Errorf("body views = %+v", s.Bodies)
	}
	if s.Jumps != physics.MaxJumps || s.Remaining != DefaultTimeLimit {
		t.Errorf("hud = jumps %d remaining %v", s.Jumps, s.Remaining)
	}
}
