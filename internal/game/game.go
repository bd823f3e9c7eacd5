package game

import (
	"fmt"
	"time"

	"worms-world/internal/camera"
	"worms-world/internal/maps"
	"worms-world/internal/physics"
)

// Event is something that happened during a tick.
type Event int

const (
	EventNone Event = iota
	EventScoreUpdate
	EventWin
	EventLossEnemy
	EventLossTimeUp
	EventLossOutOfBounds
)

var eventNames = [...]string{
	EventNone:            "none",
	EventScoreUpdate:     "score",
	EventWin:             "win",
	EventLossEnemy:       "caught by the boo",
	EventLossTimeUp:      "time up",
	EventLossOutOfBounds: "fell off the map",
}

func (e Event) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Final reports whether the event ends the game.
func (e Event) Final() bool {
	return e == EventWin || e == EventLossEnemy || e == EventLossTimeUp || e == EventLossOutOfBounds
}

// FinalScore is the score of a finished game: the coin total times the
// whole seconds left on the clock for a win, zero otherwise.
func FinalScore(coins int, remaining time.Duration, outcome Event) int {
	if outcome != EventWin || remaining <= 0 {
		return 0
	}
	return coins * int(remaining/time.Second)
}

// Game is a single-player round on one map: the worm has to reach the flag
// before the clock runs out while collecting coins and avoiding the boo.
//
// A Game is not safe for concurrent use; Loop drives it from one
// goroutine. The viewport and the foreground may be read concurrently.
type Game struct {
	Map   *maps.Map
	Level Level
	View  *camera.Viewport

	hero  *Entity
	flag  *Entity
	boo   *Entity
	coins []*Entity
	stars []*Entity
	fg    *Foreground

	score     int
	remaining time.Duration
	outcome   Event

	pressingLeft  bool
	pressingRight bool
	zoomingIn     bool
	zoomingOut    bool
}

// New sets up a round on m: the worm, the flag and the boo are dropped at
// random spots, followed by the coins. Stars sit on the map's special
// pixels.
func New(m *maps.Map, level Level, rng physics.Rand) (*Game, error) {
	g := &Game{
		Map:       m,
		Level:     level,
		View:      camera.New(m.Width, m.Height),
		hero:      NewWorm(DeadCoordinate, DeadCoordinate),
		flag:      NewFlag(DeadCoordinate, DeadCoordinate),
		boo:       NewBoo(DeadCoordinate, DeadCoordinate),
		fg:        NewForeground(m, level.Snowy(), rng),
		remaining: level.TimeLimit(),
	}

	for _, p := range m.Cells(maps.Special) {
		g.stars = append(g.stars, NewStar(float64(p.X), float64(p.Y)))
	}

	if err := g.placeBodies(rng); err != nil {
		return nil, err
	}
	if err := g.placeCoins(rng); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) placeBodies(rng physics.Rand) error {
	var placed []*physics.Body
	for _, e := range []*Entity{g.hero, g.flag, g.boo} {
		if err := e.PlaceRandomly(rng, g.Map, placed); err != nil {
			return fmt.Errorf("place %s: %w", e.Kind, err)
		}
		placed = append(placed, e.Body)
	}
	return nil
}

func (g *Game) placeCoins(rng physics.Rand) error {
	least, spread := g.Level.coinRange()
	n := rng.IntN(spread) + least

	placed := []*physics.Body{g.hero.Body, g.flag.Body, g.boo.Body}
	for i := 0; i < n; i++ {
		c := NewCoin(DeadCoordinate, DeadCoordinate, rng.IntN(50) <= 10)
		if err := c.PlaceRandomly(rng, g.Map, placed); err != nil {
			return fmt.Errorf("place coin %d of %d: %w", i+1, n, err)
		}
		placed = append(placed, c.Body)
		g.coins = append(g.coins, c)
	}
	return nil
}

// Tick advances the round by dt and returns what happened. Once a final
// event has been returned the round is over and Tick does nothing.
func (g *Game) Tick(dt time.Duration) []Event {
	if g.outcome != EventNone {
		return nil
	}

	g.remaining -= dt
	if g.remaining <= 0 {
		g.remaining = 0
		return g.end(EventLossTimeUp)
	}

	switch {
	case g.zoomingIn && !g.zoomingOut:
		g.View.Zoom(ZoomInScale)
	case g.zoomingOut && !g.zoomingIn:
		g.View.Zoom(ZoomOutScale)
	}
	g.View.Update(float32(dt.Seconds()))

	switch {
	case g.pressingLeft && !g.pressingRight:
		g.hero.Move(false)
	case g.pressingRight && !g.pressingLeft:
		g.hero.Move(true)
	}
	g.hero.Tick(dt, g.Map, nil)
	if g.hero.Below(g.Map.Height - 1) {
		return g.end(EventLossOutOfBounds)
	}

	if g.hero.CollidesWithBody(g.flag.Body) {
		return g.end(EventWin)
	}

	g.boo.updateBoo(g.hero)
	g.boo.Tick(dt, g.Map, nil)
	if g.hero.CollidesWithBody(g.boo.Body) {
		return g.end(EventLossEnemy)
	}

	var events []Event
	kept := g.coins[:0]
	for _, c := range g.coins {
		if g.hero.CollidesWithBody(c.Body) {
			g.score += c.Value()
			events = append(events, EventScoreUpdate)
			continue
		}
		kept = append(kept, c)
	}
	g.coins = kept

	for _, s := range g.stars {
		if g.hero.CollidesWithBody(s.Body) && s.hide() {
			g.hero.RestoreJumps()
		}
		s.updateStar(dt)
	}

	g.fg.Update(dt)
	return events
}

func (g *Game) end(outcome Event) []Event {
	g.outcome = outcome
	return []Event{outcome}
}

// SetMoving records whether the left or right control is held.
func (g *Game) SetMoving(right, pressed bool) {
	if right {
		g.pressingRight = pressed
	} else {
		g.pressingLeft = pressed
	}
}

// SetZoom records whether the zoom in or zoom out control is held.
func (g *Game) SetZoom(in, pressed bool) {
	if in {
		g.zoomingIn = pressed
	} else {
		g.zoomingOut = pressed
	}
}

// Jump makes the worm jump if it has a jump left.
func (g *Game) Jump() {
	g.hero.Jump()
}

// PanCamera moves the camera by dx,dy map pixels.
func (g *Game) PanCamera(dx, dy int) {
	g.View.Pan(dx, dy)
}

// CenterCamera glides the camera onto the worm.
func (g *Game) CenterCamera() {
	r := g.hero.Hitbox.Bounds()
	g.View.GlideTo(g.hero.X+float64(r.Dx())/2, g.hero.Y+float64(r.Dy())/2, CameraGlide)
}

// Hero returns the worm.
func (g *Game) Hero() *Entity { return g.hero }

// Score returns the value of the coins collected so far.
func (g *Game) Score() int { return g.score }

// Remaining returns the time left on the clock.
func (g *Game) Remaining() time.Duration { return g.remaining }

// Outcome returns the final event, or EventNone while the round runs.
func (g *Game) Outcome() Event { return g.outcome }

// Over reports whether the round has ended.
func (g *Game) Over() bool { return g.outcome != EventNone }

// FinalScore returns the round's score as it stands now.
func (g *Game) FinalScore() int {
	return FinalScore(g.score, g.remaining, g.outcome)
}
