package game

import (
	"sync/atomic"
	"time"

	"worms-world/internal/maps"
	"worms-world/internal/physics"
)

// Flake is a falling snowflake. Flakes are decoration: transparent and
// without hitboxes, so nothing collides with them.
type Flake struct {
	Body  physics.Body
	Large bool
}

// Foreground owns the flakes drawn over a map. Update builds a fresh slice
// every tick and swaps it in, so Flakes can be read from any goroutine
// without locking. A returned slice is never modified.
type Foreground struct {
	m      *maps.Map
	active bool
	rng    physics.Rand

	sinceSpawn time.Duration
	flakes     atomic.Pointer[[]Flake]
}

// NewForeground returns a foreground over m. Inactive foregrounds never
// spawn flakes.
func NewForeground(m *maps.Map, active bool, rng physics.Rand) *Foreground {
	f := &Foreground{m: m, active: active, rng: rng}
	f.flakes.Store(&[]Flake{})
	return f
}

// Flakes returns the current flakes.
func (f *Foreground) Flakes() []Flake {
	return *f.flakes.Load()
}

// Update spawns new flakes, then moves every flake, fresh ones included,
// and drops the ones that fell off the bottom of the map.
func (f *Foreground) Update(dt time.Duration) {
	cur := append([]Flake(nil), *f.flakes.Load()...)

	if f.active {
		f.sinceSpawn += dt
		for f.sinceSpawn >= FlakeSpawnInterval {
			f.sinceSpawn -= FlakeSpawnInterval
			cur = append(cur, f.spawn())
		}
	}

	next := make([]Flake, 0, len(cur))
	for _, fl := range cur {
		fl.Body.Tick(dt, f.m, nil)
		if fl.Body.Y >= float64(f.m.Height) {
			continue
		}
		next = append(next, fl)
	}

	f.flakes.Store(&next)
}

func (f *Foreground) spawn() Flake {
	large := f.rng.IntN(20) == 0
	x := float64(f.rng.IntN(f.m.Width))
	p := physics.Params{
		MaxVy:       30,
		Gravity:     float64(3 * (f.rng.IntN(10) + 1)),
		Transparent: true,
	}
	return Flake{Body: *physics.NewBody(x, DeadCoordinate, p, physics.Hitbox{}), Large: large}
}
