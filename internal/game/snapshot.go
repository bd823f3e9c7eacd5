package game

import (
	"image"
	"time"

	"worms-world/internal/maps"
)

// BodyView is a read-only copy of one entity for rendering.
type BodyView struct {
	Kind        Kind
	Pos         image.Point // rounded top-left corner
	FacingRight bool
	Rects       []image.Rectangle
	Red         bool // coins
	Large       bool // flakes
	Moving      bool // boo
}

// Snapshot is an immutable copy of a game after a tick. Renderers only
// ever see snapshots, never the live bodies.
type Snapshot struct {
	Tick      uint64
	Level     Level
	Map       *maps.Map
	View      image.Rectangle
	Bodies    []BodyView // drawn in order
	Flakes    []Flake
	Score     int
	Jumps     int
	Remaining time.Duration
	Events    []Event
	Outcome   Event
	Final     int // final score once Outcome is set
}

func viewOf(e *Entity) BodyView {
	return BodyView{
		Kind:        e.Kind,
		Pos:         e.Pos(),
		FacingRight: e.FacingRight,
		Rects:       e.Rects(),
		Red:         e.Red,
		Moving:      e.Moving,
	}
}

// Snapshot copies the game's visible state.
func (g *Game) Snapshot(tick uint64, events []Event) Snapshot {
	s := Snapshot{
		Tick:      tick,
		Level:     g.Level,
		Map:       g.Map,
		View:      g.View.Region(),
		Flakes:    g.fg.Flakes(),
		Score:     g.score,
		Jumps:     g.hero.Jumps(),
		Remaining: g.remaining,
		Events:    append([]Event(nil), events...),
		Outcome:   g.outcome,
		Final:     g.FinalScore(),
	}

	s.Bodies = make([]BodyView, 0, len(g.stars)+len(g.coins)+3)
	for _, st := range g.stars {
		if st.Visible() {
			s.Bodies = append(s.Bodies, viewOf(st))
		}
	}
	for _, c := range g.coins {
		s.Bodies = append(s.Bodies, viewOf(c))
	}
	s.Bodies = append(s.Bodies, viewOf(g.flag), viewOf(g.boo), viewOf(g.hero))
	return s
}
