package game

import (
	"time"

	"worms-world/internal/physics"
)

// Kind identifies what an entity is.
type Kind uint8

const (
	KindWorm Kind = iota
	KindBoo
	KindCoin
	KindFlag
	KindStar
	KindFlake
)

var kindNames = [...]string{
	KindWorm:  "worm",
	KindBoo:   "boo",
	KindCoin:  "coin",
	KindFlag:  "flag",
	KindStar:  "star",
	KindFlake: "flake",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Sprite sizes the hitboxes are laid out in.
const (
	WormWidth  = 20
	WormHeight = 19
	BooWidth   = 26
	BooHeight  = 23
	CoinWidth  = 14
	CoinHeight = 16
	FlagWidth  = 40
	FlagHeight = 50
	StarWidth  = 25
	StarHeight = 21
)

// Coin values.
const (
	YellowCoinValue = 1
	RedCoinValue    = 5
)

// BooSpeed is how fast the boo drifts towards the worm.
const BooSpeed = 10

var (
	wormParams = physics.Params{MaxVx: 30, MaxVy: 40, XFriction: 50, Gravity: 30}
	booParams  = physics.Params{MaxVx: 10, MaxVy: 10, Transparent: true}
	// Coins, flags and stars never move.
	staticParams = physics.Params{}

	wormHitbox = physics.Hitbox{
		Boxes: []physics.Box{
			{X: 0, Y: 0, W: 11, H: 13}, // head
			{X: 3, Y: 12, W: 8, H: 1},  // neck
			{X: 3, Y: 13, W: 14, H: 6}, // body
		},
		Width: WormWidth,
	}
	booHitbox  = physics.Hitbox{Boxes: []physics.Box{{W: BooWidth, H: BooHeight}}, Width: BooWidth}
	coinHitbox = physics.Hitbox{Boxes: []physics.Box{{W: CoinWidth, H: CoinHeight}}, Width: CoinWidth}
	flagHitbox = physics.Hitbox{Boxes: []physics.Box{{X: 29, W: 11, H: FlagHeight}}, Width: FlagWidth}
	starHitbox = physics.Hitbox{Boxes: []physics.Box{{W: StarWidth, H: StarHeight}}, Width: StarWidth}
)

// Entity is one body in a game together with its kind-specific state.
type Entity struct {
	Kind Kind
	*physics.Body

	// Coin
	Red bool
	// Boo: drifting towards the worm
	Moving bool
	// Star: hidden after being touched
	hiddenFor time.Duration
	hidden    bool
}

// NewWorm creates the hero at x,y facing left.
func NewWorm(x, y float64) *Entity {
	return &Entity{Kind: KindWorm, Body: physics.NewBody(x, y, wormParams, wormHitbox)}
}

// NewBoo creates the enemy at x,y.
func NewBoo(x, y float64) *Entity {
	return &Entity{Kind: KindBoo, Body: physics.NewBody(x, y, booParams, booHitbox)}
}

// NewCoin creates a yellow or red coin at x,y.
func NewCoin(x, y float64, red bool) *Entity {
	return &Entity{Kind: KindCoin, Body: physics.NewBody(x, y, staticParams, coinHitbox), Red: red}
}

// NewFlag creates the goal flag at x,y.
func NewFlag(x, y float64) *Entity {
	return &Entity{Kind: KindFlag, Body: physics.NewBody(x, y, staticParams, flagHitbox)}
}

// NewStar creates a visible star at x,y.
func NewStar(x, y float64) *Entity {
	return &Entity{Kind: KindStar, Body: physics.NewBody(x, y, staticParams, starHitbox)}
}

// Value is what collecting the entity adds to the score.
func (e *Entity) Value() int {
	if e.Kind != KindCoin {
		return 0
	}
	if e.Red {
		return RedCoinValue
	}
	return YellowCoinValue
}

// Visible reports whether the entity should be drawn.
func (e *Entity) Visible() bool {
	return !e.hidden
}

// hide makes a visible star disappear. It reports whether the star was
// visible before.
func (e *Entity) hide() bool {
	if e.hidden {
		return false
	}
	e.hidden = true
	e.hiddenFor = 0
	return true
}

// updateStar brings a hidden star back once StarHiddenFor has passed.
func (e *Entity) updateStar(dt time.Duration) {
	if !e.hidden {
		return
	}
	e.hiddenFor += dt
	if e.hiddenFor >= StarHiddenFor {
		e.hidden = false
		e.hiddenFor = 0
	}
}

// facesWorm reports whether the boo and the worm look at each other.
func (e *Entity) facesWorm(w *Entity) bool {
	if w.FacingRight && !e.FacingRight && e.IsRightOf(w.Body) {
		return true
	}
	if !w.FacingRight && e.FacingRight && e.IsLeftOf(w.Body) {
		return true
	}
	return false
}

// updateBoo turns the boo towards the worm and sets it drifting while the
// worm looks away. A watched boo freezes.
func (e *Entity) updateBoo(w *Entity) {
	if e.IsLeftOf(w.Body) {
		e.FacingRight = true
	} else if e.IsRightOf(w.Body) {
		e.FacingRight = false
	}

	e.Moving = !e.facesWorm(w)
	if e.Moving {
		e.Follow(w.Body, BooSpeed)
	} else {
		e.Stop()
	}
}
